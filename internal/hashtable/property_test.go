package hashtable

import (
	"slices"
	"testing"

	"pgregory.net/rapid"
)

// model is a reference implementation: a map plus an insertion-ordered key list.
type model struct {
	values map[string]int
	order  []string
}

func (m *model) put(preserve bool, k string, v int) {
	if _, ok := m.values[k]; ok {
		if !preserve {
			m.values[k] = v
		}
		return
	}
	m.values[k] = v
	m.order = append(m.order, k)
}

func (m *model) delete(k string) bool {
	if _, ok := m.values[k]; !ok {
		return false
	}
	delete(m.values, k)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == k })
	return true
}

func TestTable_MatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		table := New[string, int](rapid.IntRange(0, 64).Draw(t, "hint"), ASCIICaseSensitive(), nil)
		m := &model{values: map[string]int{}}
		// A small alphabet makes duplicate keys and re-insertions likely.
		keyGen := rapid.StringMatching(`[a-e]{1,3}`)

		steps := rapid.IntRange(1, 300).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			key := keyGen.Draw(t, "key")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0, 1:
				preserve := rapid.Bool().Draw(t, "preserve")
				value := rapid.Int().Draw(t, "value")
				var flags PutFlag
				if preserve {
					flags = OnDupKeyPreserve
				}
				_, existed := m.values[key]
				want := Inserted
				switch {
				case existed && preserve:
					want = Preserved
				case existed:
					want = Replaced
				}
				if _, got := table.Put(flags, key, value); got != want {
					t.Fatalf("Put(%q) = %v, want %v", key, got, want)
				}
				m.put(preserve, key, value)
			case 2:
				if got, want := table.Delete(key, true), m.delete(key); got != want {
					t.Fatalf("Delete(%q) = %v, want %v", key, got, want)
				}
			case 3:
				got, ok := table.Get(key)
				want, wantOK := m.values[key]
				if ok != wantOK || got != want {
					t.Fatalf("Get(%q) = %v,%v want %v,%v", key, got, ok, want, wantOK)
				}
			}

			if table.Len() != len(m.values) {
				t.Fatalf("Len() = %d, want %d", table.Len(), len(m.values))
			}
		}

		if got := collectKeys(table); !slices.Equal(got, m.order) {
			t.Fatalf("order = %v, want %v", got, m.order)
		}
		capacity := table.Capacity()
		if capacity&(capacity-1) != 0 {
			t.Fatalf("capacity %d is not a power of two", capacity)
		}
	})
}

func TestTable_InsertionOrderSurvivesGrowth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z0-9]{1,12}`), 1, 500, rapid.ID[string]).Draw(t, "keys")
		table := New[string, int](0, ASCIICaseSensitive(), nil)
		for i, k := range keys {
			table.Put(0, k, i)
		}
		if got := collectKeys(table); !slices.Equal(got, keys) {
			t.Fatalf("order = %v, want %v", got, keys)
		}
		for i, k := range keys {
			if v, ok := table.Get(k); !ok || v != i {
				t.Fatalf("Get(%q) = %v,%v want %v", k, v, ok, i)
			}
		}
	})
}
