// Package trie implements an in-memory prefix tree mapping ASCII string keys
// to arbitrary values, with point lookup, update, pruning deletion and
// prefix-bounded enumeration.
package trie

import (
	"errors"
	"fmt"
	"sync"
)

// AlphabetSize is the number of symbols a key may be composed from: the 128
// ASCII code points, one child slot per symbol.
const AlphabetSize = 128

// ErrInvalidKey is returned by Put and Remove when a key contains a byte
// outside the ASCII alphabet. Wrapped errors carry the offending byte and
// its position; match with errors.Is.
var ErrInvalidKey = errors.New("trie: key contains non-ascii characters")

// Trie is the contract of a string-keyed prefix tree. AsciiTrie is the
// provided implementation.
type Trie[V any] interface {
	Put(key string, value V) error
	Get(key string) (V, bool)
	Remove(key string) (bool, error)
	ContainsKey(key string) bool
	Clear()
	IsEmpty() bool
	Size() int
	KeySet() []string
	EntrySet() []Entry[V]
	StartsWith(prefix string) []Entry[V]
	Traverse(fn func(key string, value V))
}

// node is a single trie node. A node is kept alive only while it terminates
// a stored key or lies on the path to one; remove prunes anything else.
type node[V any] struct {
	value       V
	isEnd       bool
	children    [AlphabetSize]*node[V]
	numChildren int
}

// AsciiTrie maps ASCII string keys to values of type V. The zero value is
// not usable; construct with NewAsciiTrie. Not safe for concurrent mutation
// without external locking.
type AsciiTrie[V any] struct {
	root *node[V]
	pool sync.Pool
}

var _ Trie[any] = (*AsciiTrie[any])(nil)

// NewAsciiTrie creates an empty trie.
func NewAsciiTrie[V any]() *AsciiTrie[V] {
	t := &AsciiTrie[V]{}
	t.pool.New = func() any {
		return &node[V]{}
	}
	t.root = t.newNode()
	return t
}

// Put inserts a key-value pair, overwriting the value if the key is already
// present. The key is validated in full before the tree is touched, so a
// failed Put leaves the trie unmodified.
func (t *AsciiTrie[V]) Put(key string, value V) error {
	if err := validateKey(key); err != nil {
		return err
	}
	n := t.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		if n.children[c] == nil {
			n.children[c] = t.newNode()
			n.numChildren++
		}
		n = n.children[c]
	}
	n.isEnd = true
	n.value = value
	return nil
}

// Get returns the value stored under key. A missing key, a key that is only
// a prefix of stored keys, or a key with out-of-alphabet bytes all report a
// soft miss.
func (t *AsciiTrie[V]) Get(key string) (V, bool) {
	n := t.getNode(key)
	if n == nil || !n.isEnd {
		var zero V
		return zero, false
	}
	return n.value, true
}

// ContainsKey reports whether key is stored, independent of its value.
func (t *AsciiTrie[V]) ContainsKey(key string) bool {
	n := t.getNode(key)
	return n != nil && n.isEnd
}

// Remove deletes key and reports whether a stored key was actually removed.
// After the terminal node is cleared, dead ancestors are pruned backward
// along the path walked down, stopping at the first node that still has
// other children or itself terminates a different key.
func (t *AsciiTrie[V]) Remove(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	if key == "" {
		if !t.root.isEnd {
			return false, nil
		}
		t.root.isEnd = false
		var zero V
		t.root.value = zero
		return true, nil
	}

	parents := make([]*node[V], 0, len(key))
	n := t.root
	for i := 0; i < len(key); i++ {
		parents = append(parents, n)
		n = n.children[key[i]]
		if n == nil {
			return false, nil
		}
	}
	if !n.isEnd {
		// Path exists but only as a prefix of longer keys.
		return false, nil
	}

	n.isEnd = false
	var zero V
	n.value = zero

	if n.numChildren == 0 {
		detached := n
		for i := len(key) - 1; i >= 0; i-- {
			parent := parents[i]
			parent.children[key[i]] = nil
			parent.numChildren--
			t.release(detached)
			if parent.numChildren > 0 || parent.isEnd {
				break
			}
			detached = parent
		}
	}
	return true, nil
}

// Clear resets the trie to empty in one step at the root; the old subtree
// becomes unreachable.
func (t *AsciiTrie[V]) Clear() {
	*t.root = node[V]{}
}

// IsEmpty reports whether no keys are stored.
func (t *AsciiTrie[V]) IsEmpty() bool {
	return t.root.numChildren == 0 && !t.root.isEnd
}

// Size returns the number of distinct stored keys. Computed by a full
// traversal; there is no maintained counter.
func (t *AsciiTrie[V]) Size() int {
	count := 0
	t.collect(t.root, nil, func(string, V) {
		count++
	})
	return count
}

// KeySet returns all stored keys. Order is unspecified.
func (t *AsciiTrie[V]) KeySet() []string {
	var keys []string
	t.collect(t.root, nil, func(key string, _ V) {
		keys = append(keys, key)
	})
	return keys
}

// EntrySet returns all stored key-value pairs. Order is unspecified.
func (t *AsciiTrie[V]) EntrySet() []Entry[V] {
	var entries []Entry[V]
	t.collect(t.root, nil, func(key string, value V) {
		entries = append(entries, Entry[V]{Key: key, Value: value})
	})
	return entries
}

// StartsWith returns the entries whose key has prefix as a literal prefix,
// including prefix itself if it is stored. A missing path, or a prefix with
// out-of-alphabet bytes, yields an empty result.
func (t *AsciiTrie[V]) StartsWith(prefix string) []Entry[V] {
	start := t.getNode(prefix)
	if start == nil {
		return nil
	}
	var entries []Entry[V]
	buf := append(make([]byte, 0, len(prefix)+8), prefix...)
	t.collect(start, buf, func(key string, value V) {
		entries = append(entries, Entry[V]{Key: key, Value: value})
	})
	return entries
}

// Traverse calls fn for every stored key-value pair.
func (t *AsciiTrie[V]) Traverse(fn func(key string, value V)) {
	t.collect(t.root, nil, fn)
}

// collect walks the subtree rooted at n depth-first in ascending symbol
// order, reporting every end-of-key node. prefix holds the symbols on the
// path from the trie root to n and is used as a backtracking buffer, so the
// auxiliary space is bounded by the tree depth.
func (t *AsciiTrie[V]) collect(n *node[V], prefix []byte, fn func(key string, value V)) {
	if n.isEnd {
		fn(string(prefix), n.value)
	}
	if n.numChildren == 0 {
		return
	}
	for c := 0; c < AlphabetSize; c++ {
		if child := n.children[c]; child != nil {
			t.collect(child, append(prefix, byte(c)), fn)
		}
	}
}

// getNode walks the path for key and returns the node it ends on, or nil if
// an edge is missing. Out-of-alphabet bytes are a miss: such a key can never
// be stored.
func (t *AsciiTrie[V]) getNode(key string) *node[V] {
	n := t.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= AlphabetSize {
			return nil
		}
		n = n.children[c]
		if n == nil {
			return nil
		}
	}
	return n
}

// newNode allocates a cleared node from the pool.
func (t *AsciiTrie[V]) newNode() *node[V] {
	n := t.pool.Get().(*node[V])
	*n = node[V]{}
	return n
}

// release clears a detached node and returns it to the pool. Clearing first
// drops the value reference immediately rather than at the next reuse.
func (t *AsciiTrie[V]) release(n *node[V]) {
	*n = node[V]{}
	t.pool.Put(n)
}

func validateKey(key string) error {
	for i := 0; i < len(key); i++ {
		if key[i] >= AlphabetSize {
			return fmt.Errorf("%w: byte 0x%02x at position %d", ErrInvalidKey, key[i], i)
		}
	}
	return nil
}
