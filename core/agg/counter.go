package agg

import (
	"maps"
	"slices"
)

// CountEntry is one key of an orderedCounter with its tally.
type CountEntry struct {
	Key   string
	Count int
}

// orderedCounter tallies keys and remembers the order in which each key first appeared.
type orderedCounter struct {
	order  []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

// Add increments the tally for key.
func (c *orderedCounter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Len returns the number of distinct keys.
func (c *orderedCounter) Len() int {
	return len(c.order)
}

// Counts returns a copy of the tallies.
func (c *orderedCounter) Counts() map[string]int {
	return maps.Clone(c.counts)
}

// Top returns at most n entries by descending count. Equal counts keep first-seen order.
func (c *orderedCounter) Top(n int) []CountEntry {
	entries := make([]CountEntry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, CountEntry{Key: key, Count: c.counts[key]})
	}
	slices.SortStableFunc(entries, func(a, b CountEntry) int {
		return b.Count - a.Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
