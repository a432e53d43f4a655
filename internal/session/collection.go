package session

import "slices"

// collection keeps records in insertion order with an id index.
type collection[T any] struct {
	items []T
	index map[string]int
	idOf  func(T) string
	clone func(T) T
}

func newCollection[T any](idOf func(T) string, clone func(T) T) *collection[T] {
	return &collection[T]{index: make(map[string]int), idOf: idOf, clone: clone}
}

// load replaces the contents, keeping the first record of any duplicated id.
// It returns the number of records dropped.
func (c *collection[T]) load(items []T) int {
	c.items = make([]T, 0, len(items))
	c.index = make(map[string]int, len(items))
	dropped := 0
	for _, it := range items {
		id := c.idOf(it)
		if _, dup := c.index[id]; dup {
			dropped++
			continue
		}
		c.index[id] = len(c.items)
		c.items = append(c.items, c.clone(it))
	}
	return dropped
}

func (c *collection[T]) list() []T {
	out := make([]T, len(c.items))
	for i, it := range c.items {
		out[i] = c.clone(it)
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(c.items[i]), true
}

func (c *collection[T]) has(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *collection[T]) len() int { return len(c.items) }

func (c *collection[T]) add(it T) {
	c.index[c.idOf(it)] = len(c.items)
	c.items = append(c.items, c.clone(it))
}

func (c *collection[T]) replace(id string, it T) {
	c.items[c.index[id]] = c.clone(it)
}

func (c *collection[T]) remove(id string) {
	i := c.index[id]
	c.items = slices.Delete(c.items, i, i+1)
	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.idOf(c.items[j])] = j
	}
}
