// Package repository persists the maskaddr entities in PostgreSQL via gorm.
// Every multi-row mutation runs inside a single transaction; row locks and
// the partial unique indexes on bindings are what keep the linkage
// invariants intact under concurrent requests.
package repository

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/maskaddr/maskaddr/internal/domain"
)

// classify maps a raw store error into the domain taxonomy. Domain errors
// produced inside a transaction pass through untouched.
func classify(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFoundError{Resource: resource}
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ConflictError{Reason: domain.ConflictDuplicate}
	case isDomainError(err):
		return err
	default:
		return domain.StoreFailureError{Err: err}
	}
}

func isDomainError(err error) bool {
	return stderrors.Is(err, domain.ErrNotFound) ||
		stderrors.Is(err, domain.ErrConflict) ||
		stderrors.Is(err, domain.ErrLimitExceeded) ||
		stderrors.Is(err, domain.ErrTransitLocked) ||
		stderrors.Is(err, domain.ErrInvalidFormat) ||
		stderrors.Is(err, domain.ErrStoreFailure)
}
