package resource

import (
	"context"
	"sort"
	"sync"
)

type memoryEntry struct {
	versions []*Version
}

func (e *memoryEntry) current() *Version {
	return e.versions[len(e.versions)-1]
}

type memoryRepo struct {
	mu    sync.RWMutex
	store map[string]*memoryEntry
}

// NewMemoryRepo returns a Repository held in process memory. It is used when
// no database is configured.
func NewMemoryRepo() Repository {
	return &memoryRepo{store: make(map[string]*memoryEntry)}
}

func copyVersion(v *Version) *Version {
	out := *v
	if v.Body != nil {
		out.Body = append([]byte(nil), v.Body...)
	}
	return &out
}

func (m *memoryRepo) Create(_ context.Context, v *Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[v.Key()]; ok {
		return ErrAlreadyExists
	}
	m.store[v.Key()] = &memoryEntry{versions: []*Version{copyVersion(v)}}
	return nil
}

func (m *memoryRepo) Get(_ context.Context, resourceType, id string) (*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[resourceType+"/"+id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyVersion(e.current()), nil
}

func (m *memoryRepo) append(v *Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[v.Key()]
	if !ok {
		return ErrNotFound
	}
	if e.current().VersionID != v.VersionID-1 {
		return ErrVersionConflict
	}
	e.versions = append(e.versions, copyVersion(v))
	return nil
}

func (m *memoryRepo) Update(_ context.Context, v *Version) error {
	return m.append(v)
}

func (m *memoryRepo) Delete(_ context.Context, v *Version) error {
	return m.append(v)
}

func (m *memoryRepo) List(_ context.Context, resourceType string, limit, offset int) ([]*Version, int, error) {
	m.mu.RLock()
	var live []*Version
	for _, e := range m.store {
		cur := e.current()
		if cur.ResourceType == resourceType && !cur.Deleted {
			live = append(live, cur)
		}
	}
	m.mu.RUnlock()

	sort.Slice(live, func(i, j int) bool {
		if !live[i].LastUpdated.Equal(live[j].LastUpdated) {
			return live[i].LastUpdated.After(live[j].LastUpdated)
		}
		return live[i].ID < live[j].ID
	})
	return window(live, limit, offset), len(live), nil
}

func (m *memoryRepo) History(_ context.Context, resourceType, id string, limit, offset int) ([]*Version, int, error) {
	m.mu.RLock()
	e, ok := m.store[resourceType+"/"+id]
	if !ok {
		m.mu.RUnlock()
		return nil, 0, ErrNotFound
	}
	desc := make([]*Version, 0, len(e.versions))
	for i := len(e.versions) - 1; i >= 0; i-- {
		desc = append(desc, e.versions[i])
	}
	m.mu.RUnlock()
	return window(desc, limit, offset), len(desc), nil
}

func (m *memoryRepo) Version(_ context.Context, resourceType, id string, versionID int) (*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[resourceType+"/"+id]
	if !ok || versionID < 1 || versionID > len(e.versions) {
		return nil, ErrNotFound
	}
	return copyVersion(e.versions[versionID-1]), nil
}

func window(all []*Version, limit, offset int) []*Version {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	out := make([]*Version, 0, end-offset)
	for _, v := range all[offset:end] {
		out = append(out, copyVersion(v))
	}
	return out
}
