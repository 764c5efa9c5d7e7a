package usecase

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/tnacode"
)

// ResolverUsecase is the carrier read path: TNA code in, physical address or
// return-to-sender out. An unresolvable code is a normal outcome for an
// expired or unbound TNA, never an error.
type ResolverUsecase struct {
	repo  BindingRepository
	cache ResolutionCache
}

func NewResolverUsecase(repo BindingRepository, cache ResolutionCache) *ResolverUsecase {
	return &ResolverUsecase{repo: repo, cache: cache}
}

func (uc *ResolverUsecase) Resolve(ctx context.Context, tnaCode string) (domain.Resolution, error) {
	if !tnacode.Validate(tnaCode) {
		return domain.Resolution{}, domain.InvalidFormatError{Code: tnaCode}
	}

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, tnaCode)
		if err != nil {
			slog.Warn("resolution cache read failed", "code", tnaCode, "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	resolution, err := uc.repo.ResolveAddress(ctx, tnaCode)
	if stderrors.Is(err, domain.ErrNotFound) {
		return domain.Resolution{
			TnaCode:     tnaCode,
			Deliverable: false,
			Instruction: domain.ReturnToSender,
		}, nil
	}
	if err != nil {
		return domain.Resolution{}, err
	}

	// only deliverable hits are cached; a miss must stay a live read so a
	// fresh link shows up immediately
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, resolution); err != nil {
			slog.Warn("resolution cache write failed", "code", tnaCode, "error", err)
		}
	}
	return resolution, nil
}
