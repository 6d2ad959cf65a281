package challenge

import (
	"errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindTemporalPolicy
	KindPolicy
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindTemporalPolicy:
		return "temporal_policy_violation"
	case KindPolicy:
		return "policy_violation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

var (
	ErrInvalidDate      = &Error{KindInvalidInput, "invalid_date", "invalid date, expected YYYY-MM-DD"}
	ErrInvalidWeight    = &Error{KindInvalidInput, "invalid_weight", "weight must be a number between 20 and 300"}
	ErrInvalidGoal      = &Error{KindInvalidInput, "invalid_goal", "start weight must exceed goal weight and days must be positive"}
	ErrInvalidTaskList  = &Error{KindInvalidInput, "invalid_task_list", "task list entries need a unique id and a label"}
	ErrFutureLog        = &Error{KindTemporalPolicy, "future_log", "cannot log for future dates"}
	ErrWindowClosed     = &Error{KindTemporalPolicy, "window_closed", "the window for this day has closed"}
	ErrDayLocked        = &Error{KindTemporalPolicy, "day_locked", "this day is locked"}
	ErrCoreTaskDisabled = &Error{KindPolicy, "core_task_disabled", "core tasks cannot be disabled"}
	ErrNoWeightGoal     = &Error{KindNotFound, "no_weight_goal", "no weight goal configured"}
)

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
