package mongostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/internal/domain/repository"
)

type AdRepository struct {
	col *mongo.Collection
}

func NewAdRepository(db *mongo.Database) *AdRepository {
	return &AdRepository{col: db.Collection(ColAds)}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (r *AdRepository) Create(ctx context.Context, ad *entity.Ad) error {
	now := time.Now().UTC()
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now
	if ad.Tags == nil {
		ad.Tags = []string{}
	}
	if ad.Feedbacks == nil {
		ad.Feedbacks = []entity.Feedback{}
	}
	_, err := r.col.InsertOne(ctx, ad)
	return wrapError(err)
}

func (r *AdRepository) GetByID(ctx context.Context, id string) (*entity.Ad, error) {
	return findOne[entity.Ad](ctx, r.col, byID(id))
}

func (r *AdRepository) Summaries(ctx context.Context, ids []string) (map[string]entity.AdSummary, error) {
	out := make(map[string]entity.AdSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	opts := options.Find().SetProjection(bson.D{
		{Key: "productName", Value: 1},
		{Key: "description", Value: 1},
		{Key: "price", Value: 1},
		{Key: "imageUrl", Value: 1},
	})
	rows, err := findMany[entity.AdSummary](ctx, r.col, filter, opts)
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.ID] = *s
	}
	return out, nil
}

func (r *AdRepository) List(ctx context.Context, f entity.AdFilter) ([]*entity.Ad, error) {
	filter := bson.D{}
	if f.AdType != "" {
		filter = append(filter, bson.E{Key: "adType", Value: f.AdType})
	}
	if f.MaxPrice != nil {
		filter = append(filter, bson.E{Key: "price", Value: bson.D{{Key: "$lte", Value: *f.MaxPrice}}})
	}
	opts := options.Find().SetSort(newestFirst)
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return findMany[entity.Ad](ctx, r.col, filter, opts)
}

// Search matches keyword as a case-insensitive substring of the product
// name or ad type. A blank keyword matches everything.
func (r *AdRepository) Search(ctx context.Context, keyword string) ([]*entity.Ad, error) {
	keyword = strings.TrimSpace(keyword)
	filter := bson.D{}
	if keyword != "" {
		re := bson.D{{Key: "$regex", Value: regexp.QuoteMeta(keyword)}, {Key: "$options", Value: "i"}}
		filter = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "productName", Value: re}},
			bson.D{{Key: "adType", Value: re}},
		}}}
	}
	return findMany[entity.Ad](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}

func (r *AdRepository) FindByTags(ctx context.Context, tags []string, limit int) ([]*entity.Ad, error) {
	if len(tags) == 0 {
		return []*entity.Ad{}, nil
	}
	filter := bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: tags}}}}
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findMany[entity.Ad](ctx, r.col, filter, opts)
}

func (r *AdRepository) ListByAdvertiser(ctx context.Context, advertiserID string) ([]*entity.Ad, error) {
	filter := bson.D{{Key: "advertiserId", Value: advertiserID}}
	return findMany[entity.Ad](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}

func (r *AdRepository) Update(ctx context.Context, id string, patch entity.AdPatch) (*entity.Ad, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.ProductName != nil {
		set = append(set, bson.E{Key: "productName", Value: *patch.ProductName})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.SetTags {
		tags := patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}
	return findOneAndUpdate[entity.Ad](ctx, r.col, byID(id), bson.D{{Key: "$set", Value: set}})
}

func (r *AdRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AdRepository) PushFeedback(ctx context.Context, adID string, f entity.Feedback) (*entity.Ad, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "feedbacks", Value: f}}}}
	return findOneAndUpdate[entity.Ad](ctx, r.col, byID(adID), update)
}

var _ repository.AdRepository = (*AdRepository)(nil)
