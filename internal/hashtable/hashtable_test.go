package hashtable

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectKeys[K any, V any](t *Table[K, V]) []K {
	var keys []K
	for k := range t.Keys() {
		keys = append(keys, k)
	}
	return keys
}

func TestNew_CapacityIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		hint int
		want int
	}{
		{hint: 0, want: 8},
		{hint: 1, want: 8},
		{hint: 8, want: 8},
		{hint: 9, want: 16},
		{hint: 100, want: 128},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hint_%d", tt.hint), func(t *testing.T) {
			table := New[string, int](tt.hint, ASCIICaseSensitive(), nil)
			require.Equal(t, tt.want, table.Capacity())
			require.Equal(t, 0, table.Len())
		})
	}
}

func TestPut_GetAndContains(t *testing.T) {
	table := New[string, int](0, ASCIICaseSensitive(), nil)

	_, outcome := table.Put(0, "alpha", 1)
	require.Equal(t, Inserted, outcome)
	_, outcome = table.Put(0, "beta", 2)
	require.Equal(t, Inserted, outcome)

	v, ok := table.Get("alpha")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.True(t, table.Contains("beta"))
	require.False(t, table.Contains("gamma"))
	require.Equal(t, 2, table.Len())
}

func TestPut_CaseInsensitiveLookup(t *testing.T) {
	table := New[string, struct{}](0, ASCIICaseInsensitive(), nil)
	table.Put(0, "ABC", struct{}{})

	require.True(t, table.Contains("abc"))
	require.True(t, table.Contains("aBc"))
	require.False(t, table.Contains("abd"))
	require.False(t, table.Contains("abcd"))
}

func TestPut_PreserveOnDuplicateKey(t *testing.T) {
	table := New[string, string](0, ASCIICaseSensitive(), nil)
	table.Put(0, "K", "V1")

	old, outcome := table.Put(OnDupKeyPreserve, "K", "V2")
	require.Equal(t, Preserved, outcome)
	require.Equal(t, "V1", old)

	v, ok := table.Get("K")
	require.True(t, ok)
	require.Equal(t, "V1", v)
	require.Equal(t, 1, table.Len())
}

func TestPut_ReplaceRunsValueDestructor(t *testing.T) {
	var destroyed []string
	table := New[string, string](0, ASCIICaseSensitive(), func(v string) {
		destroyed = append(destroyed, v)
	})
	table.Put(0, "K", "V1")

	old, outcome := table.Put(0, "K", "V2")
	require.Equal(t, Replaced, outcome)
	require.Equal(t, "V1", old)
	require.Equal(t, []string{"V1"}, destroyed)

	v, _ := table.Get("K")
	require.Equal(t, "V2", v)
}

func TestPut_OutcomeDependsOnFlags(t *testing.T) {
	table := New[string, int](0, ASCIICaseSensitive(), nil)
	tests := []struct {
		flags PutFlag
		value int
		want  Outcome
		kept  int
	}{
		{0, 1, Inserted, 1},
		{OnDupKeyPreserve, 2, Preserved, 1},
		{OnDupKeyNoDtor, 3, Replaced, 3},
		{OnDupKeyPreserve | OnDupKeyNoDtor, 4, Preserved, 3},
		{0, 5, Replaced, 5},
	}
	for _, tt := range tests {
		_, got := table.Put(tt.flags, "k", tt.value)
		require.Equal(t, tt.want, got, "flags %b", tt.flags)
		v, _ := table.Get("k")
		require.Equal(t, tt.kept, v)
	}
	require.Equal(t, "preserved", Preserved.String())
}

func TestPut_ReplaceWithoutDestructor(t *testing.T) {
	var destroyed []string
	table := New[string, string](0, ASCIICaseSensitive(), func(v string) {
		destroyed = append(destroyed, v)
	})
	table.Put(0, "K", "V1")
	table.Put(OnDupKeyNoDtor, "K", "V2")

	require.Empty(t, destroyed)
	v, _ := table.Get("K")
	require.Equal(t, "V2", v)
}

func TestPut_DuplicatesKey(t *testing.T) {
	var dups int
	policy := ASCIICaseSensitive()
	policy.Dup = func(s string) string {
		dups++
		return CloneString(s)
	}
	table := New[string, int](0, policy, nil)

	table.Put(0, "a", 1)
	table.Put(0, "a", 2)
	require.Equal(t, 1, dups, "key is only duplicated on insertion")
}

func TestDelete(t *testing.T) {
	var keys, values []string
	policy := ASCIICaseSensitive()
	policy.KeyDtor = func(k string) { keys = append(keys, k) }
	table := New[string, string](0, policy, func(v string) { values = append(values, v) })

	table.Put(0, "a", "1")
	table.Put(0, "b", "2")
	table.Put(0, "c", "3")

	require.True(t, table.Delete("b", true))
	require.False(t, table.Delete("b", true))
	require.False(t, table.Contains("b"))
	_, ok := table.Get("b")
	require.False(t, ok)
	require.Equal(t, []string{"b"}, keys)
	require.Equal(t, []string{"2"}, values)
	require.Equal(t, []string{"a", "c"}, collectKeys(table))

	require.True(t, table.Delete("a", false))
	require.Equal(t, []string{"b"}, keys, "destructors skipped on request")
	require.Equal(t, []string{"c"}, collectKeys(table))
	require.Equal(t, 1, table.Len())
}

func TestDelete_ReusesSlotsAndKeepsOrder(t *testing.T) {
	table := New[string, int](0, ASCIICaseSensitive(), nil)
	table.Put(0, "a", 1)
	table.Put(0, "b", 2)
	table.Delete("a", false)
	table.Put(0, "c", 3)
	table.Put(0, "a", 4)

	require.Equal(t, []string{"b", "c", "a"}, collectKeys(table))
	v, _ := table.Get("a")
	require.Equal(t, 4, v)
}

func TestGrow_PreservesMappingsAndOrder(t *testing.T) {
	table := New[string, int](8, ASCIICaseSensitive(), nil)
	var want []string
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		want = append(want, key)
		table.Put(0, key, i)
	}

	require.Equal(t, 1000, table.Len())
	require.Equal(t, 2048, table.Capacity())
	require.Equal(t, want, collectKeys(table))
	for i, key := range want {
		v, ok := table.Get(key)
		require.True(t, ok, key)
		require.Equal(t, i, v)
	}
}

func TestClear(t *testing.T) {
	var released []int
	table := New[string, int](0, ASCIICaseSensitive(), func(v int) { released = append(released, v) })
	for i := 0; i < 20; i++ {
		table.Put(0, fmt.Sprint(i), i)
	}
	capacity := table.Capacity()

	table.Clear()
	require.Equal(t, 0, table.Len())
	require.Equal(t, capacity, table.Capacity())
	require.Len(t, released, 20)
	require.True(t, slices.IsSorted(released), "destructors run in insertion order")
	require.Empty(t, collectKeys(table))

	table.Put(0, "again", 1)
	require.True(t, table.Contains("again"))
}

func TestDestroy(t *testing.T) {
	table := New[string, int](64, ASCIICaseSensitive(), nil)
	table.Put(0, "x", 1)
	table.Destroy()

	require.Equal(t, 0, table.Len())
	require.Equal(t, minCapacity, table.Capacity())
	require.False(t, table.Contains("x"))
}

func TestQuickVariants(t *testing.T) {
	table := New[string, int](0, ASCIICaseInsensitive(), nil)
	h := table.Hash("Select")
	require.Equal(t, h, table.Hash("SELECT"))

	table.QuickPut(0, h, "Select", 7)
	require.True(t, table.QuickContains(h, "select"))
	v, ok := table.QuickGet(h, "SELECT")
	require.True(t, ok)
	require.Equal(t, 7, v)
	require.True(t, table.QuickDelete(h, "sElEcT", false))
	require.Equal(t, 0, table.Len())
}

func TestIdentityPolicy(t *testing.T) {
	table := New[uint64, string](0, Identity[uint64](), nil)
	table.Put(0, 42, "answer")
	require.Equal(t, uint64(42), table.Hash(42))
	v, ok := table.Get(42)
	require.True(t, ok)
	require.Equal(t, "answer", v)
}

func TestAll_StopsEarly(t *testing.T) {
	table := New[string, int](0, ASCIICaseSensitive(), nil)
	for _, k := range []string{"a", "b", "c"} {
		table.Put(0, k, 0)
	}

	var seen []string
	for k := range table.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	require.Equal(t, []string{"a", "b"}, seen)
}

func TestDirect(t *testing.T) {
	d := NewDirect[[]int](0, nil)

	_, outcome := d.Put(OnDupKeyPreserve, 0xfeed, []int{1})
	require.Equal(t, Inserted, outcome)

	old, outcome := d.Put(OnDupKeyPreserve, 0xfeed, []int{2})
	require.Equal(t, Preserved, outcome)
	require.Equal(t, []int{1}, old)

	require.True(t, d.Contains(0xfeed))
	require.False(t, d.Contains(0xbeef))
	require.Equal(t, 1, d.Len())

	require.True(t, d.Delete(0xfeed, false))
	require.Equal(t, 0, d.Len())
}

func TestEqualFold(t *testing.T) {
	require.True(t, EqualFold("", ""))
	require.True(t, EqualFold("Hello_1", "hELLO_1"))
	require.False(t, EqualFold("a", "b"))
	require.False(t, EqualFold("é", "É"), "only ASCII letters fold")
	require.Equal(t, HashStringFold("mixedCASE"), HashStringFold("MIXEDcase"))
	long := string(make([]byte, 200))
	require.Equal(t, HashStringFold(long), HashStringFold(long))
}
