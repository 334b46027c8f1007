package repository

import (
	"context"

	"github.com/oksasatya/adcart-backend/internal/domain/entity"
)

// AdRepository defines the ad collection operations.
type AdRepository interface {
	Create(ctx context.Context, ad *entity.Ad) error
	GetByID(ctx context.Context, id string) (*entity.Ad, error)
	// Summaries resolves ids to read projections. Missing ids are absent
	// from the result.
	Summaries(ctx context.Context, ids []string) (map[string]entity.AdSummary, error)
	List(ctx context.Context, f entity.AdFilter) ([]*entity.Ad, error)
	Search(ctx context.Context, keyword string) ([]*entity.Ad, error)
	FindByTags(ctx context.Context, tags []string, limit int) ([]*entity.Ad, error)
	ListByAdvertiser(ctx context.Context, advertiserID string) ([]*entity.Ad, error)
	Update(ctx context.Context, id string, patch entity.AdPatch) (*entity.Ad, error)
	Delete(ctx context.Context, id string) error
	PushFeedback(ctx context.Context, adID string, f entity.Feedback) (*entity.Ad, error)
}
