package usecase

import (
	"context"
	"log/slog"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/tnacode"
)

// BindingUsecase is the binding engine: it creates and breaks the 1:1 link
// between a TNA and a unit. The atomicity and the occupancy/transit-lock
// invariants live in the repository transaction; this layer rejects
// malformed codes before any store access and keeps the resolution cache
// coherent after commits.
type BindingUsecase struct {
	repo  BindingRepository
	cache ResolutionCache
}

func NewBindingUsecase(repo BindingRepository, cache ResolutionCache) *BindingUsecase {
	return &BindingUsecase{repo: repo, cache: cache}
}

func (uc *BindingUsecase) Link(ctx context.Context, visitorID int64, tnaCode string, unitID int64) (domain.Binding, error) {
	if !tnacode.Validate(tnaCode) {
		return domain.Binding{}, domain.InvalidFormatError{Code: tnaCode}
	}

	binding, err := uc.repo.Link(ctx, visitorID, tnaCode, unitID)
	if err != nil {
		return domain.Binding{}, err
	}

	uc.invalidate(ctx, tnaCode)
	return binding, nil
}

func (uc *BindingUsecase) Unlink(ctx context.Context, visitorID int64, tnaCode string) (domain.Binding, error) {
	if !tnacode.Validate(tnaCode) {
		return domain.Binding{}, domain.InvalidFormatError{Code: tnaCode}
	}

	binding, err := uc.repo.Unlink(ctx, visitorID, tnaCode)
	if err != nil {
		return domain.Binding{}, err
	}

	uc.invalidate(ctx, tnaCode)
	return binding, nil
}

// invalidate drops any cached resolution for the code. A stale entry would
// let carriers resolve an address that was just unlinked, so failures are
// logged rather than swallowed silently.
func (uc *BindingUsecase) invalidate(ctx context.Context, tnaCode string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, tnaCode); err != nil {
		slog.Warn("resolution cache invalidation failed", "code", tnaCode, "error", err)
	}
}
