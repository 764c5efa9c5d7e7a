package domain

import (
	"fmt"
	"strings"
)

// NotFoundError represents a missing resource, or one not owned by the caller.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ConflictReason names the specific conflict within the Conflict class.
type ConflictReason string

const (
	ConflictUnitUnavailable    ConflictReason = "unit unavailable"
	ConflictAlreadyLinked      ConflictReason = "tna already linked"
	ConflictNotLinked          ConflictReason = "tna not linked"
	ConflictDuplicate          ConflictReason = "duplicate"
	ConflictTrackingReassigned ConflictReason = "tracking number assigned to another tna"
)

// ConflictError represents a state conflict the caller can recover from.
type ConflictError struct {
	Reason ConflictReason
}

func (e ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return string(e.Reason)
}

func (e ConflictError) Is(target error) bool {
	other, ok := target.(ConflictError)
	if !ok {
		if p, pok := target.(*ConflictError); pok {
			other, ok = *p, true
		}
	}
	if !ok {
		return false
	}
	return other.Reason == "" || other.Reason == e.Reason
}

// ErrConflict matches any ConflictError.
var ErrConflict = ConflictError{}

// LimitExceededError signals the per-visitor active TNA cap was hit.
type LimitExceededError struct {
	Limit int
}

func (e LimitExceededError) Error() string {
	return fmt.Sprintf("limit reached: at most %d active TNAs per visitor", e.Limit)
}

func (e LimitExceededError) Is(target error) bool {
	_, ok := target.(LimitExceededError)
	if ok {
		return true
	}
	_, ok = target.(*LimitExceededError)
	return ok
}

var ErrLimitExceeded = LimitExceededError{}

// TransitLockedError blocks unlinking while shipments are underway. It names
// every blocking tracking number.
type TransitLockedError struct {
	TrackingNumbers []string
}

func (e TransitLockedError) Error() string {
	if len(e.TrackingNumbers) == 0 {
		return "unlinking blocked: shipment in transit"
	}
	return fmt.Sprintf("unlinking blocked: shipment %s in transit", strings.Join(e.TrackingNumbers, ", "))
}

func (e TransitLockedError) Is(target error) bool {
	_, ok := target.(TransitLockedError)
	if ok {
		return true
	}
	_, ok = target.(*TransitLockedError)
	return ok
}

var ErrTransitLocked = TransitLockedError{}

// InvalidFormatError rejects malformed TNA codes before any store access.
type InvalidFormatError struct {
	Code string
}

func (e InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid TNA code format: %q", e.Code)
}

func (e InvalidFormatError) Is(target error) bool {
	_, ok := target.(InvalidFormatError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidFormatError)
	return ok
}

var ErrInvalidFormat = InvalidFormatError{}

// StoreFailureError wraps an unclassified store error. The enclosing
// transaction has been rolled back in full; the caller may retry.
type StoreFailureError struct {
	Err error
}

func (e StoreFailureError) Error() string {
	if e.Err == nil {
		return "store failure"
	}
	return fmt.Sprintf("store failure: %v", e.Err)
}

func (e StoreFailureError) Unwrap() error { return e.Err }

func (e StoreFailureError) Is(target error) bool {
	_, ok := target.(StoreFailureError)
	if ok {
		return true
	}
	_, ok = target.(*StoreFailureError)
	return ok
}

var ErrStoreFailure = StoreFailureError{}
