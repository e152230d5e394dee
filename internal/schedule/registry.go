package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

// Snapshot is an immutable view of the shift-type and template registries.
// A generation call resolves everything against a single snapshot, so a
// concurrent refresh can never expose a template whose shift types are
// missing mid-iteration.
type Snapshot struct {
	shiftTypesByName map[string]*domain.ShiftType
	shiftTypesByID   map[int64]*domain.ShiftType
	templatesByType  map[domain.TemplateType]*domain.WorkScheduleTemplate
	templatesByID    map[int64]*domain.WorkScheduleTemplate
	takenAt          time.Time
}

func (s *Snapshot) ShiftTypeByName(name string) (*domain.ShiftType, bool) {
	st, ok := s.shiftTypesByName[name]
	return st, ok
}

func (s *Snapshot) ShiftTypeByID(id int64) (*domain.ShiftType, bool) {
	st, ok := s.shiftTypesByID[id]
	return st, ok
}

func (s *Snapshot) TemplateByType(t domain.TemplateType) (*domain.WorkScheduleTemplate, bool) {
	tpl, ok := s.templatesByType[t]
	return tpl, ok
}

func (s *Snapshot) TemplateByID(id int64) (*domain.WorkScheduleTemplate, bool) {
	tpl, ok := s.templatesByID[id]
	return tpl, ok
}

func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Registry serves read-mostly snapshots of the predefined templates and the
// active shift types. Refresh builds a new snapshot and swaps it in
// atomically; readers keep whatever snapshot they already hold.
type Registry struct {
	shiftTypes ShiftTypeLookup
	templates  TemplateStore

	current atomic.Pointer[Snapshot]
}

func NewRegistry(shiftTypes ShiftTypeLookup, templates TemplateStore) *Registry {
	return &Registry{
		shiftTypes: shiftTypes,
		templates:  templates,
	}
}

// Refresh reloads both stores and publishes a new snapshot. On failure the
// previous snapshot stays in place.
func (r *Registry) Refresh(ctx context.Context) error {
	types, err := r.shiftTypes.ActiveShiftTypes(ctx)
	if err != nil {
		return err
	}
	templates, err := r.templates.PredefinedTemplates(ctx)
	if err != nil {
		return err
	}

	snap := &Snapshot{
		shiftTypesByName: make(map[string]*domain.ShiftType, len(types)),
		shiftTypesByID:   make(map[int64]*domain.ShiftType, len(types)),
		templatesByType:  make(map[domain.TemplateType]*domain.WorkScheduleTemplate, len(templates)),
		templatesByID:    make(map[int64]*domain.WorkScheduleTemplate, len(templates)),
		takenAt:          time.Now(),
	}
	for _, st := range types {
		snap.shiftTypesByName[st.Name] = st
		snap.shiftTypesByID[st.ID] = st
	}
	for _, tpl := range templates {
		snap.templatesByType[tpl.Type] = tpl
		snap.templatesByID[tpl.ID] = tpl
	}

	r.current.Store(snap)
	return nil
}

// Current returns the published snapshot, loading one lazily on first use.
func (r *Registry) Current(ctx context.Context) (*Snapshot, error) {
	if snap := r.current.Load(); snap != nil {
		return snap, nil
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	if snap := r.current.Load(); snap != nil {
		return snap, nil
	}
	return nil, ErrRegistryEmpty
}
