package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/babylon-sim/babylon/sim/lifecycle"
	"github.com/babylon-sim/babylon/sim/perf"
)

// cacheTier is the label the registry reports cache events under.
const cacheTier = "registry"

// Registry maintains all live entities and remembers when deleted ones went
// away. A perf collector and a lifecycle manager may be attached; both are
// optional and the registry works without them.
type Registry struct {
	entities map[string]*Entity
	deleted  map[string]time.Time

	collector *perf.Collector
	working   *lifecycle.Manager

	now func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*Entity),
		deleted:  make(map[string]time.Time),
		now:      time.Now,
	}
}

// WithCollector attaches a perf collector; accesses and cache events are
// recorded on it from then on.
func (r *Registry) WithCollector(c *perf.Collector) *Registry {
	r.collector = c
	return r
}

// WithWorkingSet attaches a lifecycle manager; new entities enter its
// background tier and lookups promote through it.
func (r *Registry) WithWorkingSet(m *lifecycle.Manager) *Registry {
	r.working = m
	return r
}

// Create registers a new entity with a generated ID.
func (r *Registry) Create(entityType, role string) *Entity {
	return r.CreateWithID(uuid.NewString(), entityType, role)
}

// CreateWithID registers a new entity under a caller-chosen ID. Scenario
// files use stable IDs ("working_class") so triggers and effects can refer
// to them; an existing entity under the same ID is replaced.
func (r *Registry) CreateWithID(id, entityType, role string) *Entity {
	e := &Entity{
		ID:         id,
		Type:       entityType,
		Role:       role,
		Attributes: defaultAttributes(),
	}
	r.entities[id] = e
	delete(r.deleted, id)

	if r.working != nil {
		if err := r.working.AddToBackground(id, e); err != nil {
			logrus.Warnf("working set rejected entity %s: %v", id, err)
		}
	}
	if r.collector != nil {
		r.collector.ObjectCreated()
	}
	return e
}

// Get returns the entity with the given ID, or nil when absent or deleted.
func (r *Registry) Get(id string) *Entity {
	if r.working != nil {
		if obj, ok := r.working.Get(id); ok {
			if r.collector != nil {
				r.collector.RecordObjectAccess(id, "working-set")
				r.collector.RecordCacheEvent(cacheTier, true)
			}
			return obj.(*Entity)
		}
	}
	e, ok := r.entities[id]
	if r.collector != nil {
		if ok {
			r.collector.RecordObjectAccess(id, "registry")
		}
		r.collector.RecordCacheEvent(cacheTier, ok && r.working != nil)
	}
	if !ok {
		return nil
	}
	return e
}

// Update patches the attributes of an entity. Returns nil when the entity
// does not exist.
func (r *Registry) Update(id string, attrs map[string]float64) *Entity {
	e, ok := r.entities[id]
	if !ok {
		return nil
	}
	for k, v := range attrs {
		e.Attributes[k] = v
	}
	return e
}

// Delete removes an entity and records its deletion time. Returns false when
// the entity does not exist.
func (r *Registry) Delete(id string) bool {
	if _, ok := r.entities[id]; !ok {
		return false
	}
	delete(r.entities, id)
	r.deleted[id] = r.now()
	if r.working != nil {
		r.working.Evict(id)
	}
	return true
}

// All returns all live entities, ordered by ID for deterministic iteration.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByType returns the live entities of a given type, ordered by ID.
func (r *Registry) ByType(entityType string) []*Entity {
	var out []*Entity
	for _, e := range r.All() {
		if e.Type == entityType {
			out = append(out, e)
		}
	}
	return out
}

// ByRole returns the live entities with a given role, ordered by ID.
func (r *Registry) ByRole(role string) []*Entity {
	var out []*Entity
	for _, e := range r.All() {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// Deleted returns a copy of the deletion log: entity ID -> deletion time.
func (r *Registry) Deleted() map[string]time.Time {
	out := make(map[string]time.Time, len(r.deleted))
	for k, v := range r.deleted {
		out[k] = v
	}
	return out
}

// Count returns the number of live entities.
func (r *Registry) Count() int {
	return len(r.entities)
}
