package usecase

import (
	"context"
	"log/slog"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/tnacode"
)

// RegistryUsecase owns the TNA lifecycle per visitor: issuance under the
// active-count cap, listing, dashboard summaries and revocation.
type RegistryUsecase struct {
	repo  TnaRepository
	cache ResolutionCache
}

func NewRegistryUsecase(repo TnaRepository, cache ResolutionCache) *RegistryUsecase {
	return &RegistryUsecase{repo: repo, cache: cache}
}

func (uc *RegistryUsecase) Issue(ctx context.Context, visitorID int64) (domain.Tna, error) {
	return uc.repo.Issue(ctx, visitorID)
}

func (uc *RegistryUsecase) ListActive(ctx context.Context, visitorID int64) ([]domain.Tna, error) {
	return uc.repo.ListActive(ctx, visitorID)
}

func (uc *RegistryUsecase) Summarize(ctx context.Context, visitorID int64) ([]domain.TnaSummary, error) {
	return uc.repo.Summarize(ctx, visitorID)
}

func (uc *RegistryUsecase) Revoke(ctx context.Context, visitorID int64, code string) error {
	if !tnacode.Validate(code) {
		return domain.InvalidFormatError{Code: code}
	}
	if err := uc.repo.Revoke(ctx, visitorID, code); err != nil {
		return err
	}

	// a revoked TNA must stop resolving immediately, not after the TTL
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, code); err != nil {
			slog.Warn("resolution cache invalidation failed", "code", code, "error", err)
		}
	}
	return nil
}

func (uc *RegistryUsecase) VisitorStats(ctx context.Context, visitorID int64) (domain.VisitorStats, error) {
	return uc.repo.VisitorStats(ctx, visitorID)
}
