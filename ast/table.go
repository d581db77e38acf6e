package ast

import "iter"

// Table is an insertion-ordered collection of entities keyed by number.
// Entities are stored by pointer so that holders of a key always observe
// the latest definition. The zero value is ready to use.
type Table[T any] struct {
	keys  []string
	items map[string]*T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]*T)}
}

// Get returns the entity stored under key.
func (t *Table[T]) Get(key string) (*T, bool) {
	if t == nil || t.items == nil {
		return nil, false
	}
	v, ok := t.items[key]
	return v, ok
}

// Put stores v under key. Replacing an existing entry keeps its position.
func (t *Table[T]) Put(key string, v *T) {
	if t.items == nil {
		t.items = make(map[string]*T)
	}
	if _, ok := t.items[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.items[key] = v
}

// Delete removes key from the table.
func (t *Table[T]) Delete(key string) {
	if _, ok := t.items[key]; !ok {
		return
	}
	delete(t.items, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Table[T]) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// All iterates over the entries in insertion order.
func (t *Table[T]) All() iter.Seq2[string, *T] {
	return func(yield func(string, *T) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.items[k]) {
				return
			}
		}
	}
}

// Values returns the entities in insertion order.
func (t *Table[T]) Values() []*T {
	if t == nil {
		return nil
	}
	values := make([]*T, 0, len(t.keys))
	for _, k := range t.keys {
		values = append(values, t.items[k])
	}
	return values
}
