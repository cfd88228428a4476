package trie

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-reflect"
	"github.com/oarkflow/json"

	"github.com/Aruhan661/Algorithm/utils"
)

// Entry is a stored key-value pair as reported by EntrySet and StartsWith.
type Entry[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}

func (e Entry[V]) String() string {
	return fmt.Sprintf("%q: %s", e.Key, utils.ToString(e.Value))
}

// Equal reports whether two tries hold the same entry set: the same keys
// mapped to deeply equal values. Insertion order and internal tree shape do
// not participate.
func (t *AsciiTrie[V]) Equal(other *AsciiTrie[V]) bool {
	if t == other {
		return true
	}
	if other == nil {
		return false
	}
	entries := t.EntrySet()
	if len(entries) != other.Size() {
		return false
	}
	for _, e := range entries {
		v, ok := other.Get(e.Key)
		if !ok || !reflect.DeepEqual(e.Value, v) {
			return false
		}
	}
	return true
}

// Hash returns an order-independent digest of the entry set. Entries are
// canonicalized by sorting on key; each key's raw bytes and its JSON-encoded
// value are folded into a single xxhash digest. Tries that are Equal hash to
// the same value.
func (t *AsciiTrie[V]) Hash() (uint64, error) {
	entries := t.EntrySet()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	digest := xxhash.New()
	for _, e := range entries {
		_, _ = digest.Write(utils.UnsafeBytes(e.Key))
		_, _ = digest.Write([]byte{0})
		payload, err := json.Marshal(e.Value)
		if err != nil {
			return 0, fmt.Errorf("marshaling value for key %q: %w", e.Key, err)
		}
		_, _ = digest.Write(payload)
		_, _ = digest.Write([]byte{0})
	}
	return digest.Sum64(), nil
}

// String renders the trie's entries, one per line, in the collector's
// symbol-ascending order.
func (t *AsciiTrie[V]) String() string {
	var sb strings.Builder
	sb.WriteString("AsciiTrie {")
	t.collect(t.root, nil, func(key string, value V) {
		sb.WriteString("\n  ")
		sb.WriteString(Entry[V]{Key: key, Value: value}.String())
	})
	sb.WriteString("\n}")
	return sb.String()
}
