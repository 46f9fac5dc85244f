package driven

import "context"

// Backend limits documented by the document database collaborator.
// MaxBatchOps is the hard write-batch ceiling; callers self-limit well
// below it for payload-size reasons.
const (
	MaxInValues = 30
	MaxBatchOps = 500
)

// FilterOp is a comparison operator in a query filter.
type FilterOp string

const (
	// OpEq matches documents whose field equals the value.
	OpEq FilterOp = "=="

	// OpIn matches documents whose field is any of the values.
	// The value set is limited to MaxInValues entries.
	OpIn FilterOp = "in"
)

// Filter constrains a query to documents matching a field condition.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Query describes a filtered, ordered, bounded read of a collection.
type Query struct {
	Collection string
	Filters    []Filter

	// OrderBy sorts results by the named field ascending; Descending
	// reverses the order. Empty means backend order.
	OrderBy    string
	Descending bool

	// Limit bounds the result count. Zero means no limit.
	Limit int
}

// WriteKind tags a batch write operation.
type WriteKind int

const (
	// WriteSet upserts a document by id.
	WriteSet WriteKind = iota

	// WriteDelete removes a document by id.
	WriteDelete
)

// WriteOp is a single operation within an atomic batch write.
type WriteOp struct {
	Kind       WriteKind
	Collection string
	ID         string

	// Data is the full document body for WriteSet, nil for WriteDelete.
	Data map[string]any
}

// Document is a stored document together with its id.
type Document struct {
	ID   string
	Data map[string]any
}

// Database is the schemaless document store collaborator: collections of
// id-addressed documents with equality/set filters, ordering and limits.
// No multi-document transactions are used beyond atomic batch writes.
type Database interface {
	// Get retrieves a single document. Returns domain.ErrNotFound if the
	// document does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set upserts a single document.
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Update merges the given fields into an existing document.
	// Returns domain.ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a single document. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, collection, id string) error

	// Query runs a filtered read. An OpIn filter with more than
	// MaxInValues values fails with domain.ErrTooManyValues.
	Query(ctx context.Context, q Query) ([]Document, error)

	// BatchWrite applies all operations atomically, or none of them.
	// More than MaxBatchOps operations fail with domain.ErrBatchTooLarge.
	BatchWrite(ctx context.Context, ops []WriteOp) error

	// Close releases resources.
	Close() error
}
