// Package storage implements the fragment store and the document-backed
// artifact store on top of the driven.Database port. It owns the
// persisted document shapes and the batching discipline: size-bounded
// atomic write batches, sub-batched value-in-set queries and paced
// submission.
package storage
