// Package hashtable implements an insertion-ordered hash table with pluggable
// hash, equality, duplication and destruction policies.
//
// Entries are chained twice: once in their bucket (collision chain) and once
// in a global chain that records insertion order. Nodes live in an arena and
// are linked by index, so the table never hands out pointers into itself.
package hashtable

import "iter"

const (
	minCapacity = 8

	// Growth is triggered once count exceeds capacity * loadFactorNum / loadFactorDen.
	loadFactorNum = 3
	loadFactorDen = 4

	nilIndex int32 = -1
)

// PutFlag alters Put behavior when the key is already present.
type PutFlag uint8

const (
	// OnDupKeyPreserve keeps the existing value; Put reports the old value
	// and Preserved.
	OnDupKeyPreserve PutFlag = 1 << iota
	// OnDupKeyNoDtor replaces the existing value without running the value
	// destructor on it.
	OnDupKeyNoDtor
)

// Outcome reports what Put did.
type Outcome uint8

const (
	// Inserted means key was absent and a new entry was created.
	Inserted Outcome = iota
	// Replaced means key was present and its value was overwritten.
	Replaced
	// Preserved means key was present and OnDupKeyPreserve kept its value.
	Preserved
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	case Preserved:
		return "preserved"
	}
	return "unknown"
}

// Policy describes how keys are hashed, compared, copied and released.
// Dup and KeyDtor are optional: without Dup keys are stored as given.
type Policy[K any] struct {
	Hash    func(K) uint64
	Equal   func(a, b K) bool
	Dup     func(K) K
	KeyDtor func(K)
}

type node[K any, V any] struct {
	hash  uint64
	key   K
	value V
	live  bool

	// bucket chain
	nNext, nPrev int32
	// global (insertion order) chain
	gNext, gPrev int32
}

// Table is a hash table keyed by K. It is not safe for concurrent writers;
// tables shared between goroutines must be fully built before being read.
type Table[K any, V any] struct {
	nodes   []node[K, V]
	free    []int32
	buckets []int32
	gHead   int32
	gTail   int32
	count   int
	mask    uint64

	hash      func(K) uint64
	equal     func(a, b K) bool
	dup       func(K) K
	keyDtor   func(K)
	valueDtor func(V)
}

// New creates an empty table able to hold capacityHint entries before its
// first resize decision. valueDtor may be nil.
func New[K any, V any](capacityHint int, policy Policy[K], valueDtor func(V)) *Table[K, V] {
	t := &Table[K, V]{
		hash:      policy.Hash,
		equal:     policy.Equal,
		dup:       policy.Dup,
		keyDtor:   policy.KeyDtor,
		valueDtor: valueDtor,
	}
	t.init(capacityHint)
	return t
}

func (t *Table[K, V]) init(capacityHint int) {
	capacity := nextPowerOfTwo(capacityHint)
	t.buckets = make([]int32, capacity)
	for i := range t.buckets {
		t.buckets[i] = nilIndex
	}
	t.mask = uint64(capacity - 1)
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.gHead, t.gTail = nilIndex, nilIndex
	t.count = 0
}

func nextPowerOfTwo(n int) int {
	capacity := minCapacity
	for capacity < n {
		capacity <<= 1
	}
	return capacity
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	return t.count
}

// Capacity returns the current bucket count (always a power of two).
func (t *Table[K, V]) Capacity() int {
	return len(t.buckets)
}

// Hash computes the hash of key with the table's hash policy, for use with
// the Quick* variants.
func (t *Table[K, V]) Hash(key K) uint64 {
	return t.hash(key)
}

func (t *Table[K, V]) find(h uint64, key K) int32 {
	for i := t.buckets[h&t.mask]; i != nilIndex; i = t.nodes[i].nNext {
		n := &t.nodes[i]
		if n.hash != h {
			continue
		}
		if t.equal == nil || t.equal(n.key, key) {
			return i
		}
	}
	return nilIndex
}

// Put inserts or updates key. It returns the value previously associated
// with key (zero if none) and what happened to the entry.
func (t *Table[K, V]) Put(flags PutFlag, key K, value V) (V, Outcome) {
	return t.QuickPut(flags, t.hash(key), key, value)
}

// QuickPut is Put with a precomputed hash.
func (t *Table[K, V]) QuickPut(flags PutFlag, h uint64, key K, value V) (old V, outcome Outcome) {
	if i := t.find(h, key); i != nilIndex {
		n := &t.nodes[i]
		old = n.value
		if flags&OnDupKeyPreserve != 0 {
			return old, Preserved
		}
		if t.valueDtor != nil && flags&OnDupKeyNoDtor == 0 {
			t.valueDtor(old)
		}
		n.value = value
		return old, Replaced
	}

	if t.dup != nil {
		key = t.dup(key)
	}
	i := t.alloc()
	n := &t.nodes[i]
	n.hash = h
	n.key = key
	n.value = value
	n.live = true
	t.linkBucket(i)
	t.linkGlobal(i)
	t.count++

	if t.count*loadFactorDen > len(t.buckets)*loadFactorNum {
		t.grow()
	}
	return old, Inserted
}

func (t *Table[K, V]) alloc() int32 {
	if n := len(t.free); n > 0 {
		i := t.free[n-1]
		t.free = t.free[:n-1]
		return i
	}
	t.nodes = append(t.nodes, node[K, V]{})
	return int32(len(t.nodes) - 1)
}

func (t *Table[K, V]) linkBucket(i int32) {
	n := &t.nodes[i]
	b := n.hash & t.mask
	n.nPrev = nilIndex
	n.nNext = t.buckets[b]
	if n.nNext != nilIndex {
		t.nodes[n.nNext].nPrev = i
	}
	t.buckets[b] = i
}

func (t *Table[K, V]) linkGlobal(i int32) {
	n := &t.nodes[i]
	n.gNext = nilIndex
	n.gPrev = t.gTail
	if t.gTail != nilIndex {
		t.nodes[t.gTail].gNext = i
	} else {
		t.gHead = i
	}
	t.gTail = i
}

// grow doubles the bucket array and relinks every node by walking the global
// chain, which leaves insertion order as it was.
func (t *Table[K, V]) grow() {
	capacity := len(t.buckets) << 1
	t.buckets = make([]int32, capacity)
	for i := range t.buckets {
		t.buckets[i] = nilIndex
	}
	t.mask = uint64(capacity - 1)
	for i := t.gHead; i != nilIndex; i = t.nodes[i].gNext {
		t.linkBucket(i)
	}
}

// Get returns the value stored for key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	return t.QuickGet(t.hash(key), key)
}

// QuickGet is Get with a precomputed hash.
func (t *Table[K, V]) QuickGet(h uint64, key K) (V, bool) {
	if i := t.find(h, key); i != nilIndex {
		return t.nodes[i].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	return t.find(t.hash(key), key) != nilIndex
}

// QuickContains is Contains with a precomputed hash.
func (t *Table[K, V]) QuickContains(h uint64, key K) bool {
	return t.find(h, key) != nilIndex
}

// Delete removes key, optionally running the key and value destructors.
// It reports whether key was present.
func (t *Table[K, V]) Delete(key K, invokeDtors bool) bool {
	return t.QuickDelete(t.hash(key), key, invokeDtors)
}

// QuickDelete is Delete with a precomputed hash.
func (t *Table[K, V]) QuickDelete(h uint64, key K, invokeDtors bool) bool {
	i := t.find(h, key)
	if i == nilIndex {
		return false
	}
	n := &t.nodes[i]

	if n.nPrev != nilIndex {
		t.nodes[n.nPrev].nNext = n.nNext
	} else {
		t.buckets[n.hash&t.mask] = n.nNext
	}
	if n.nNext != nilIndex {
		t.nodes[n.nNext].nPrev = n.nPrev
	}

	if n.gPrev != nilIndex {
		t.nodes[n.gPrev].gNext = n.gNext
	} else {
		t.gHead = n.gNext
	}
	if n.gNext != nilIndex {
		t.nodes[n.gNext].gPrev = n.gPrev
	} else {
		t.gTail = n.gPrev
	}

	if invokeDtors {
		t.release(n)
	}
	*n = node[K, V]{}
	t.free = append(t.free, i)
	t.count--
	return true
}

func (t *Table[K, V]) release(n *node[K, V]) {
	if t.keyDtor != nil {
		t.keyDtor(n.key)
	}
	if t.valueDtor != nil {
		t.valueDtor(n.value)
	}
}

// Clear removes every entry, running destructors in insertion order. The
// bucket array keeps its current capacity.
func (t *Table[K, V]) Clear() {
	for i := t.gHead; i != nilIndex; i = t.nodes[i].gNext {
		t.release(&t.nodes[i])
	}
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	for i := range t.buckets {
		t.buckets[i] = nilIndex
	}
	t.gHead, t.gTail = nilIndex, nilIndex
	t.count = 0
}

// Destroy clears the table and releases its bucket array. The table is
// reinitialized at minimum capacity and stays usable.
func (t *Table[K, V]) Destroy() {
	t.Clear()
	t.nodes = nil
	t.free = nil
	t.init(minCapacity)
}

// All iterates over entries in insertion order.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := t.gHead; i != nilIndex; {
			n := &t.nodes[i]
			next := n.gNext
			if !yield(n.key, n.value) {
				return
			}
			i = next
		}
	}
}

// Keys iterates over keys in insertion order.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values iterates over values in insertion order.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range t.All() {
			if !yield(v) {
				return
			}
		}
	}
}
