// Package registry provides concurrent name lookup tables. Tables loaded from
// declarations keep the last value declared for a key and report the ones it shadowed.
package registry

import (
	"slices"

	"github.com/alphadose/haxmap"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Pair is a single declared entry. Declarations may repeat a key.
type Pair[T any] struct {
	Key   string
	Value T
}

// Shadowed describes a declaration that a later one with the same key replaced. Kept is
// the value the key finally resolves to.
type Shadowed[T any] struct {
	Key  string
	Lost T
	Kept T
}

type Table[T any] struct {
	values   *haxmap.Map[string, T]
	declared []Pair[T]
}

func New[T any]() *Table[T] {
	return &Table[T]{
		values: haxmap.New[string, T](),
	}
}

// Load builds a table from pairs in order. A repeated key overwrites the earlier value
// but keeps its original position in Declared.
func Load[T any](pairs ...Pair[T]) (*Table[T], []Shadowed[T]) {
	om := orderedmap.New[string, T](len(pairs))
	var shadowed []Shadowed[T]
	for _, p := range pairs {
		if prev, present := om.Set(p.Key, p.Value); present {
			shadowed = append(shadowed, Shadowed[T]{Key: p.Key, Lost: prev})
		}
	}
	for i := range shadowed {
		shadowed[i].Kept, _ = om.Get(shadowed[i].Key)
	}

	t := New[T]()
	t.declared = make([]Pair[T], 0, om.Len())
	for el := om.Oldest(); el != nil; el = el.Next() {
		t.values.Set(el.Key, el.Value)
		t.declared = append(t.declared, Pair[T]{Key: el.Key, Value: el.Value})
	}
	return t, shadowed
}

func (t *Table[T]) Get(name string) (T, bool) {
	return t.values.Get(name)
}

func (t *Table[T]) Add(name string, value T) {
	t.values.Set(name, value)
}

func (t *Table[T]) GetOrAdd(name string, valueFn func() T) (T, bool) {
	return t.values.GetOrCompute(name, valueFn)
}

func (t *Table[T]) Del(name string) {
	t.values.Del(name)
}

func (t *Table[T]) Len() int {
	return int(t.values.Len())
}

// Keys returns the current keys in lexical order.
func (t *Table[T]) Keys() []string {
	keys := make([]string, 0, t.values.Len())
	t.values.ForEach(func(k string, _ T) bool {
		keys = append(keys, k)
		return true
	})
	slices.Sort(keys)
	return keys
}

// Declared returns the loaded pairs in first-declaration order. Entries added after
// Load are not included.
func (t *Table[T]) Declared() []Pair[T] {
	return slices.Clone(t.declared)
}
