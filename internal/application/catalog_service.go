package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	repo "github.com/oksasatya/adcart-backend/internal/domain/repository"
)

const relatedLimit = 6

// CatalogService serves ad reads, owner edits and feedback.
type CatalogService struct {
	Ads    repo.AdRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewCatalogService(ads repo.AdRepository, users repo.UserRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Ads: ads, Users: users, Logger: logger, Now: time.Now}
}

func (s *CatalogService) GetAd(ctx context.Context, id string) (*entity.Ad, error) {
	ad, err := s.Ads.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrAdNotFound, "load ad")
	}
	return ad, nil
}

// ListByCategory lists ads of one type, newest first, optionally capped by price.
func (s *CatalogService) ListByCategory(ctx context.Context, adType string, maxPrice *float64) ([]*entity.Ad, error) {
	adType = strings.TrimSpace(adType)
	if adType == "" {
		return nil, apperror.Validation("category is required")
	}
	ads, err := s.Ads.List(ctx, entity.AdFilter{AdType: adType, MaxPrice: maxPrice})
	if err != nil {
		return nil, apperror.Internal("list ads", err)
	}
	return ads, nil
}

func (s *CatalogService) Search(ctx context.Context, keyword string) ([]*entity.Ad, error) {
	ads, err := s.Ads.Search(ctx, keyword)
	if err != nil {
		return nil, apperror.Internal("search ads", err)
	}
	return ads, nil
}

// Related returns ads sharing any tag, falling back to ads of the same type
// when nothing shares a tag.
func (s *CatalogService) Related(ctx context.Context, tags []string, adType string) ([]*entity.Ad, error) {
	tags = splitTags(strings.Join(tags, ","))
	adType = strings.TrimSpace(adType)
	if len(tags) == 0 && adType == "" {
		return nil, apperror.Validation("tags or adType is required")
	}

	ads, err := s.Ads.FindByTags(ctx, tags, relatedLimit)
	if err != nil {
		return nil, apperror.Internal("find related ads", err)
	}
	if len(ads) > 0 || adType == "" {
		return ads, nil
	}
	ads, err = s.Ads.List(ctx, entity.AdFilter{AdType: adType, Limit: relatedLimit})
	if err != nil {
		return nil, apperror.Internal("find related ads", err)
	}
	return ads, nil
}

func (s *CatalogService) ListMine(ctx context.Context, advertiserID string) ([]*entity.Ad, error) {
	ads, err := s.Ads.ListByAdvertiser(ctx, advertiserID)
	if err != nil {
		return nil, apperror.Internal("list advertiser ads", err)
	}
	return ads, nil
}

func (s *CatalogService) owned(ctx context.Context, advertiserID, adID string) error {
	ad, err := s.Ads.GetByID(ctx, adID)
	if err != nil {
		return storeErr(err, ErrAdNotFound, "load ad")
	}
	if ad.AdvertiserID != advertiserID {
		return ErrNotAdOwner
	}
	return nil
}

// UpdateAd edits metadata of an ad owned by advertiserID.
func (s *CatalogService) UpdateAd(ctx context.Context, advertiserID, adID string, patch entity.AdPatch) (*entity.Ad, error) {
	if err := s.owned(ctx, advertiserID, adID); err != nil {
		return nil, err
	}
	if patch.ProductName != nil {
		v := strings.TrimSpace(*patch.ProductName)
		patch.ProductName = &v
	}
	if patch.SetTags {
		patch.Tags = splitTags(strings.Join(patch.Tags, ","))
	}
	if patch.Empty() {
		return s.GetAd(ctx, adID)
	}
	ad, err := s.Ads.Update(ctx, adID, patch)
	if err != nil {
		return nil, storeErr(err, ErrAdNotFound, "update ad")
	}
	return ad, nil
}

// DeleteAd removes an ad owned by advertiserID. Carts and orders that
// reference it are left alone.
func (s *CatalogService) DeleteAd(ctx context.Context, advertiserID, adID string) error {
	if err := s.owned(ctx, advertiserID, adID); err != nil {
		return err
	}
	if err := s.Ads.Delete(ctx, adID); err != nil {
		return storeErr(err, ErrAdNotFound, "delete ad")
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"ad_id": adID, "advertiser_id": advertiserID}).Info("ad deleted")
	}
	return nil
}

// SubmitFeedback appends a rated comment carrying a copy of the author's
// name and email.
func (s *CatalogService) SubmitFeedback(ctx context.Context, userID, adID, comment string, rating int) (*entity.Ad, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperror.Validation("comment is required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "load user")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	fb := entity.Feedback{
		UserID:    u.ID,
		UserName:  u.Name,
		UserEmail: u.Email,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: now().UTC(),
	}
	ad, err := s.Ads.PushFeedback(ctx, adID, fb)
	if err != nil {
		return nil, storeErr(err, ErrAdNotFound, "add feedback")
	}
	return ad, nil
}
