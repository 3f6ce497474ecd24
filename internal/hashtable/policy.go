package hashtable

import (
	"hash/maphash"
	"strings"
)

// seed is chosen once per process so that hash values, and therefore bucket
// placement, cannot be predicted from the keys alone.
var seed = maphash.MakeSeed()

// ASCIICaseSensitive hashes and compares string keys byte for byte.
func ASCIICaseSensitive() Policy[string] {
	return Policy[string]{
		Hash:  HashString,
		Equal: func(a, b string) bool { return a == b },
	}
}

// ASCIICaseInsensitive hashes and compares string keys ignoring ASCII case.
// Bytes outside of A-Z/a-z are compared as is.
func ASCIICaseInsensitive() Policy[string] {
	return Policy[string]{
		Hash:  HashStringFold,
		Equal: EqualFold,
	}
}

// Identity uses the integer key itself as its hash.
func Identity[K ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~uintptr]() Policy[K] {
	return Policy[K]{
		Hash:  func(k K) uint64 { return uint64(k) },
		Equal: func(a, b K) bool { return a == b },
	}
}

// HashString is the case-sensitive string hash used by ASCIICaseSensitive.
func HashString(s string) uint64 {
	return maphash.String(seed, s)
}

// HashStringFold hashes s as if every ASCII letter were upper case.
func HashStringFold(s string) uint64 {
	var (
		h   maphash.Hash
		buf [64]byte
	)
	h.SetSeed(seed)
	for len(s) > 0 {
		n := copy(buf[:], s)
		for i := 0; i < n; i++ {
			buf[i] = upper(buf[i])
		}
		_, _ = h.Write(buf[:n])
		s = s[n:]
	}
	return h.Sum64()
}

// EqualFold compares two strings ignoring ASCII case only.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if upper(a[i]) != upper(b[i]) {
			return false
		}
	}
	return true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// CloneString is a Dup policy that detaches a key from the buffer it was
// sliced from, e.g. a lexeme taken from a larger source.
func CloneString(s string) string {
	return strings.Clone(s)
}
