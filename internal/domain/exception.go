package domain

import (
	"time"
)

type ExceptionType string

const (
	ExceptionVacation       ExceptionType = "VACATION"
	ExceptionSickLeave      ExceptionType = "SICK_LEAVE"
	ExceptionOvertime       ExceptionType = "OVERTIME"
	ExceptionPermit         ExceptionType = "PERMIT"
	ExceptionPermit104      ExceptionType = "PERMIT_104"
	ExceptionPermitSyndic   ExceptionType = "PERMIT_SYNDICATE"
	ExceptionTraining       ExceptionType = "TRAINING"
	ExceptionPersonalLeave  ExceptionType = "PERSONAL_LEAVE"
	ExceptionCompensation   ExceptionType = "COMPENSATION"
	ExceptionShiftSwap      ExceptionType = "SHIFT_SWAP"
	ExceptionEmergency      ExceptionType = "EMERGENCY"
	ExceptionOther          ExceptionType = "OTHER"
)

// exceptionTraits is the single exhaustive mapping for exception categories.
// absence marks types that null out the effective shift for the day no
// matter what replacement the record carries.
var exceptionTraits = map[ExceptionType]struct{ absence bool }{
	ExceptionVacation:      {absence: true},
	ExceptionSickLeave:     {absence: true},
	ExceptionOvertime:      {absence: false},
	ExceptionPermit:        {absence: true},
	ExceptionPermit104:     {absence: true},
	ExceptionPermitSyndic:  {absence: true},
	ExceptionTraining:      {absence: false},
	ExceptionPersonalLeave: {absence: true},
	ExceptionCompensation:  {absence: false},
	ExceptionShiftSwap:     {absence: false},
	ExceptionEmergency:     {absence: false},
	ExceptionOther:         {absence: false},
}

// Known reports whether t is one of the closed set of exception types.
func (t ExceptionType) Known() bool {
	_, ok := exceptionTraits[t]
	return ok
}

type ExceptionStatus string

const (
	ExceptionActive    ExceptionStatus = "ACTIVE"
	ExceptionPending   ExceptionStatus = "PENDING"
	ExceptionApproved  ExceptionStatus = "APPROVED"
	ExceptionRejected  ExceptionStatus = "REJECTED"
	ExceptionCancelled ExceptionStatus = "CANCELLED"
)

// TurnException is a user-and-date-specific override of the base-pattern
// shift. At most one exception may exist per (user, date); the repository
// enforces this with a unique index.
type TurnException struct {
	ID                   int64           `json:"id"`
	UserID               int64           `json:"userID"`
	Date                 time.Time       `json:"date"` // UTC midnight
	Type                 ExceptionType   `json:"type"`
	OriginalShiftType    string          `json:"originalShiftType"`
	ReplacementShiftType *string         `json:"replacementShiftType"`
	Status               ExceptionStatus `json:"status"`
	Note                 string          `json:"note"`
	CreatedAt            time.Time       `json:"createdAt"`
	ModifiedAt           time.Time       `json:"modifiedAt"`
	Version              int32           `json:"-"`
}

// AffectsWorkSchedule reports whether the exception removes the user from
// work for the day (vacation, sick leave and the permit family).
func (e *TurnException) AffectsWorkSchedule() bool {
	return exceptionTraits[e.Type].absence
}

// IsReversible holds iff the original shift was preserved at creation time,
// so cancelling the exception restores the base pattern exactly.
func (e *TurnException) IsReversible() bool {
	return e.OriginalShiftType != ""
}
