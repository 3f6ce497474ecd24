package hashtable

import "iter"

// Direct is a table keyed only by a caller-computed hash. It is meant for
// cases where the hash is the key, e.g. a packed bit pattern, so no key is
// stored beyond the hash and equality is hash equality.
type Direct[V any] struct {
	t *Table[uint64, V]
}

// NewDirect creates an empty direct table.
func NewDirect[V any](capacityHint int, valueDtor func(V)) *Direct[V] {
	return &Direct[V]{t: New[uint64, V](capacityHint, Policy[uint64]{
		Hash: func(h uint64) uint64 { return h },
	}, valueDtor)}
}

// Put stores value under h; see Table.Put for flag semantics.
func (d *Direct[V]) Put(flags PutFlag, h uint64, value V) (V, Outcome) {
	return d.t.QuickPut(flags, h, h, value)
}

// Get returns the value stored under h.
func (d *Direct[V]) Get(h uint64) (V, bool) {
	return d.t.QuickGet(h, h)
}

// Contains reports whether h is present.
func (d *Direct[V]) Contains(h uint64) bool {
	return d.t.QuickContains(h, h)
}

// Delete removes h.
func (d *Direct[V]) Delete(h uint64, invokeDtors bool) bool {
	return d.t.QuickDelete(h, h, invokeDtors)
}

// Len returns the number of live entries.
func (d *Direct[V]) Len() int {
	return d.t.Len()
}

// Clear removes every entry.
func (d *Direct[V]) Clear() {
	d.t.Clear()
}

// All iterates over (hash, value) pairs in insertion order.
func (d *Direct[V]) All() iter.Seq2[uint64, V] {
	return d.t.All()
}
