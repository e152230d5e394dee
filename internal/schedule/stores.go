package schedule

import (
	"context"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

// The engine depends on its collaborators through these interfaces only;
// concrete implementations live in the repository package and in the test
// fakes. Generation itself is pure once the snapshot and the exception
// batch are in hand.

type ShiftTypeLookup interface {
	ShiftTypeByName(ctx context.Context, name string) (*domain.ShiftType, error)
	ShiftTypeByID(ctx context.Context, id int64) (*domain.ShiftType, error)
	ActiveShiftTypes(ctx context.Context) ([]*domain.ShiftType, error)
}

type TemplateStore interface {
	PredefinedTemplates(ctx context.Context) ([]*domain.WorkScheduleTemplate, error)
	TemplateByID(ctx context.Context, id int64) (*domain.WorkScheduleTemplate, error)
	TemplateByType(ctx context.Context, t domain.TemplateType) (*domain.WorkScheduleTemplate, error)
}

type TurnExceptionStore interface {
	// ExceptionsForUserAndRange fetches every exception of the user whose
	// date falls in [start, end] as one batched query.
	ExceptionsForUserAndRange(ctx context.Context, userID int64, start, end time.Time) ([]*domain.TurnException, error)
}
