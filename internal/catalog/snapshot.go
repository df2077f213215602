package catalog

import (
	"sync/atomic"

	"orcafacil/internal"
)

// Snapshot is an immutable view of the catalog for the length of a run.
// Positions in Items are the indexes the remote matcher refers to.
type Snapshot struct {
	items []internal.CatalogItem
	byID  map[string]int
}

func NewSnapshot(items []internal.CatalogItem) *Snapshot {
	s := &Snapshot{
		items: append([]internal.CatalogItem(nil), items...),
		byID:  make(map[string]int, len(items)),
	}
	for i, item := range s.items {
		if _, dup := s.byID[item.ID]; !dup {
			s.byID[item.ID] = i
		}
	}
	return s
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Snapshot) Items() []internal.CatalogItem {
	if s == nil {
		return nil
	}
	return append([]internal.CatalogItem(nil), s.items...)
}

func (s *Snapshot) ByID(id string) (internal.CatalogItem, bool) {
	if s == nil {
		return internal.CatalogItem{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return internal.CatalogItem{}, false
	}
	return s.items[i], true
}

func (s *Snapshot) At(index int) (internal.CatalogItem, bool) {
	if s == nil || index < 0 || index >= len(s.items) {
		return internal.CatalogItem{}, false
	}
	return s.items[index], true
}

// Holder hands out the current snapshot and lets ingestion swap it wholesale.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	if s == nil {
		s = NewSnapshot(nil)
	}
	h.current.Store(s)
	return h
}

func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

func (h *Holder) Replace(s *Snapshot) {
	h.current.Store(s)
}
