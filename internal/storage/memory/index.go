package memory

import "sort"

// idSet is a set of record ids.
type idSet map[int]struct{}

// Index maps a normalized field value to the ids of the records holding it.
//
// Index has no lock of its own; Store serializes access to it.
type Index struct {
	keys map[string]idSet
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{keys: make(map[string]idSet)}
}

// Add records that id currently holds key.
func (i *Index) Add(key string, id int) {
	set, ok := i.keys[key]
	if !ok {
		set = make(idSet)
		i.keys[key] = set
	}
	set[id] = struct{}{}
}

// Remove drops id from key, deleting the key once no id holds it.
func (i *Index) Remove(key string, id int) {
	set, ok := i.keys[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(i.keys, key)
	}
}

// Get returns the ids holding key in ascending order.
func (i *Index) Get(key string) []int {
	set, ok := i.keys[key]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Contains reports whether id is listed under key.
func (i *Index) Contains(key string, id int) bool {
	_, ok := i.keys[key][id]
	return ok
}

// Keys returns the number of distinct keys.
func (i *Index) Keys() int {
	return len(i.keys)
}

// Entries returns the total number of (key, id) pairs.
func (i *Index) Entries() int {
	n := 0
	for _, set := range i.keys {
		n += len(set)
	}
	return n
}

// Clear removes every entry.
func (i *Index) Clear() {
	i.keys = make(map[string]idSet)
}
