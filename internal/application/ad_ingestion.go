package application

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	repo "github.com/oksasatya/adcart-backend/internal/domain/repository"
	"github.com/oksasatya/adcart-backend/pkg/metrics"
)

const defaultMaxImageBytes = 10 << 20

// IngestionService turns a multipart ad submission into a stored image and
// an ad record. The image is uploaded before the record is written, so a
// record never points at a missing object.
type IngestionService struct {
	Users   repo.UserRepository
	Ads     repo.AdRepository
	Store   ObjectStore
	Logger  *logrus.Logger
	Metrics *metrics.Metrics

	MaxImageBytes int64
	Now           func() time.Time
}

func NewIngestionService(users repo.UserRepository, ads repo.AdRepository, store ObjectStore, logger *logrus.Logger, m *metrics.Metrics, maxImageBytes int64) *IngestionService {
	return &IngestionService{
		Users:         users,
		Ads:           ads,
		Store:         store,
		Logger:        logger,
		Metrics:       m,
		MaxImageBytes: maxImageBytes,
		Now:           time.Now,
	}
}

// Ingest reads the whole submission, then validates, uploads and persists.
func (s *IngestionService) Ingest(ctx context.Context, mr *multipart.Reader) (*entity.Ad, error) {
	limit := s.MaxImageBytes
	if limit <= 0 {
		limit = defaultMaxImageBytes
	}

	form, err := readAdForm(mr, limit)
	if err != nil {
		s.Metrics.Upload(metrics.UploadRejected, 0)
		return nil, err
	}

	advertiser, err := s.resolveAdvertiser(ctx, form)
	if err != nil {
		s.Metrics.Upload(metrics.UploadRejected, 0)
		return nil, err
	}
	img := form.image
	if img == nil || img.ContentType == "" {
		s.Metrics.Upload(metrics.UploadRejected, 0)
		return nil, errImageRequired
	}

	now := s.clock()
	name := storageName(now, img.Filename)
	url, err := s.Store.Upload(ctx, img.Data, name, img.ContentType)
	if err != nil {
		s.Metrics.Upload(metrics.UploadStorage, 0)
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("object", name).Error("image upload failed")
		}
		return nil, apperror.Upstream("image storage unavailable", err)
	}

	ad := &entity.Ad{
		AdvertiserID: advertiser.ID,
		ProductName:  form.str("productName"),
		ImageURL:     url,
		Description:  form.str("description"),
		Price:        form.num("price"),
		AdType:       form.str("adType"),
		Tags:         form.list("tags"),
		TargetAgeGroup: entity.AgeRange{
			Min: form.num("ageMin"),
			Max: form.num("ageMax"),
		},
		CreatedAt: now,
	}
	if err := s.Ads.Create(ctx, ad); err != nil {
		s.Metrics.Upload(metrics.UploadPersist, 0)
		// the uploaded object stays behind; it is unreferenced but harmless
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"object": name, "url": url}).Error("ad record not created after upload")
		}
		return nil, apperror.Internal("create ad", err)
	}

	s.Metrics.Upload(metrics.UploadCreated, len(img.Data))
	return ad, nil
}

func (s *IngestionService) resolveAdvertiser(ctx context.Context, form *adForm) (*entity.User, error) {
	if _, missing := form.missingRequired(); missing {
		return nil, errInvalidAdvert
	}
	u, err := s.Users.GetByEmail(ctx, form.str("advertiserId"))
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, errInvalidAdvert
	case err != nil:
		return nil, apperror.Internal("resolve advertiser", err)
	}
	return u, nil
}

func (s *IngestionService) clock() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// storageName is <unixMillis>-<random>-<basename>.
func storageName(now time.Time, filename string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), random, baseName(filename))
}
