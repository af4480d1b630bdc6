// Package listview holds the list-state container behind each entity screen:
// the last fetched collection, non-destructive search over it, and the
// screen's write-reconciliation strategy.
package listview

import "strings"

// Strategy decides how a list is brought back in sync after a write.
type Strategy int

const (
	// Refetch discards the snapshot; the next render reloads from the backend.
	Refetch Strategy = iota
	// Splice patches the snapshot in place with the written record. The
	// screen intentionally shows the echoed record without reconciling
	// against the backend.
	Splice
)

// Config describes one entity screen. The reconciliation choices differ per
// entity and per operation; they are configuration, not behavior to unify.
type Config[T any] struct {
	// Key returns the record identifier, unique within the last fetch.
	Key func(T) int
	// Fields returns the display fields search matches against.
	Fields func(T) []string

	OnCreate Strategy
	OnUpdate Strategy
	OnDelete Strategy
}

// List is the rendering source for one entity screen. Not safe for concurrent
// use; callers serialize access per session.
type List[T any] struct {
	cfg   Config[T]
	items []T
	fresh bool
}

func New[T any](cfg Config[T]) *List[T] {
	return &List[T]{cfg: cfg}
}

// Load replaces the snapshot with a freshly fetched collection.
func (l *List[T]) Load(items []T) {
	l.items = make([]T, len(items))
	copy(l.items, items)
	l.fresh = true
}

// Fresh reports whether the snapshot can be rendered without a re-fetch.
func (l *List[T]) Fresh() bool { return l.fresh }

// Invalidate marks the snapshot stale.
func (l *List[T]) Invalidate() { l.fresh = false }

// Items returns the snapshot itself. Callers must not mutate it.
func (l *List[T]) Items() []T { return l.items }

// Len returns the size of the unfiltered snapshot.
func (l *List[T]) Len() int { return len(l.items) }

// Filter returns the records whose display fields contain term,
// case-insensitively. The underlying snapshot is never mutated, so filtering
// then clearing the term restores the exact original set.
func (l *List[T]) Filter(term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return l.items
	}
	matched := make([]T, 0, len(l.items))
	for _, item := range l.items {
		for _, field := range l.cfg.Fields(item) {
			if strings.Contains(strings.ToLower(field), term) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// Created reconciles the snapshot after a successful create.
func (l *List[T]) Created(item T) {
	if l.cfg.OnCreate == Splice && l.fresh {
		l.items = append(l.items, item)
		return
	}
	l.Invalidate()
}

// Updated reconciles the snapshot after a successful update.
func (l *List[T]) Updated(item T) {
	if l.cfg.OnUpdate == Splice && l.fresh {
		key := l.cfg.Key(item)
		for i := range l.items {
			if l.cfg.Key(l.items[i]) == key {
				l.items[i] = item
				return
			}
		}
		l.items = append(l.items, item)
		return
	}
	l.Invalidate()
}

// Deleted reconciles the snapshot after a successful delete.
func (l *List[T]) Deleted(key int) {
	if l.cfg.OnDelete == Splice && l.fresh {
		kept := l.items[:0]
		for _, item := range l.items {
			if l.cfg.Key(item) != key {
				kept = append(kept, item)
			}
		}
		l.items = kept
		return
	}
	l.Invalidate()
}
