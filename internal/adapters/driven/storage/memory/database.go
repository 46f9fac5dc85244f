// Package memory provides an in-memory implementation of the document
// database port. Used for tests and as a throwaway backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
)

// Ensure Database implements the interface.
var _ driven.Database = (*Database)(nil)

// Database is an in-memory driven.Database backed by nested maps.
// Batch writes are atomic under the store mutex.
type Database struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

// NewDatabase creates an empty in-memory database.
func NewDatabase() *Database {
	return &Database{
		collections: make(map[string]map[string]map[string]any),
	}
}

// Get retrieves a single document.
func (d *Database) Get(_ context.Context, collection, id string) (driven.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.collections[collection][id]
	if !ok {
		return driven.Document{}, domain.ErrNotFound
	}
	return driven.Document{ID: id, Data: copyDoc(data)}, nil
}

// Set upserts a single document.
func (d *Database) Set(_ context.Context, collection, id string, data map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.set(collection, id, data)
	return nil
}

// Update merges fields into an existing document.
func (d *Database) Update(_ context.Context, collection, id string, fields map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.collections[collection][id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range fields {
		data[k] = v
	}
	return nil
}

// Delete removes a single document. Missing documents are not an error.
func (d *Database) Delete(_ context.Context, collection, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.collections[collection], id)
	return nil
}

// Query runs a filtered, ordered, bounded read.
func (d *Database) Query(_ context.Context, q driven.Query) ([]driven.Document, error) {
	if err := validateFilters(q.Filters); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var docs []driven.Document
	for id, data := range d.collections[q.Collection] {
		if matches(data, q.Filters) {
			docs = append(docs, driven.Document{ID: id, Data: copyDoc(data)})
		}
	}

	// Map iteration order is random; sort by id first so unordered
	// queries are still deterministic.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	if q.OrderBy != "" {
		field := q.OrderBy
		sort.SliceStable(docs, func(i, j int) bool {
			less := lessValues(docs[i].Data[field], docs[j].Data[field])
			if q.Descending {
				return !less && !equalValues(docs[i].Data[field], docs[j].Data[field])
			}
			return less
		})
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

// BatchWrite applies all operations atomically under the store mutex.
func (d *Database) BatchWrite(_ context.Context, ops []driven.WriteOp) error {
	if len(ops) > driven.MaxBatchOps {
		return fmt.Errorf("%w: %d operations", domain.ErrBatchTooLarge, len(ops))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, op := range ops {
		switch op.Kind {
		case driven.WriteSet:
			d.set(op.Collection, op.ID, op.Data)
		case driven.WriteDelete:
			delete(d.collections[op.Collection], op.ID)
		default:
			return fmt.Errorf("%w: unknown write kind %d", domain.ErrInvalidInput, op.Kind)
		}
	}
	return nil
}

// Close releases resources.
func (d *Database) Close() error {
	return nil
}

// Count returns the number of documents in a collection. Test helper.
func (d *Database) Count(collection string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.collections[collection])
}

func (d *Database) set(collection, id string, data map[string]any) {
	coll, ok := d.collections[collection]
	if !ok {
		coll = make(map[string]map[string]any)
		d.collections[collection] = coll
	}
	coll[id] = copyDoc(data)
}

func validateFilters(filters []driven.Filter) error {
	for _, f := range filters {
		if f.Op != driven.OpIn {
			continue
		}
		if n := inValueCount(f.Value); n > driven.MaxInValues {
			return fmt.Errorf("%w: %d values", domain.ErrTooManyValues, n)
		}
	}
	return nil
}

func inValueCount(v any) int {
	switch vals := v.(type) {
	case []string:
		return len(vals)
	case []any:
		return len(vals)
	}
	return 1
}

func matches(data map[string]any, filters []driven.Filter) bool {
	for _, f := range filters {
		val := data[f.Field]
		switch f.Op {
		case driven.OpEq:
			if !equalValues(val, f.Value) {
				return false
			}
		case driven.OpIn:
			if !containsValue(f.Value, val) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func containsValue(set, val any) bool {
	switch vals := set.(type) {
	case []string:
		for _, v := range vals {
			if equalValues(val, v) {
				return true
			}
		}
	case []any:
		for _, v := range vals {
			if equalValues(val, v) {
				return true
			}
		}
	default:
		return equalValues(val, set)
	}
	return false
}

// equalValues compares loosely across numeric types, since JSON decoding
// widens every number to float64.
func equalValues(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func lessValues(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af < bf
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	return aok && bok && as < bs
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// copyDoc shallow-copies a document map so callers cannot alias stored
// state. Nested values are treated as immutable by convention.
func copyDoc(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
