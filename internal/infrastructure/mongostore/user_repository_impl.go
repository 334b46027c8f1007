package mongostore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/internal/domain/repository"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(ColUsers)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	// nil slices encode as null and $push refuses to append to null
	if u.Cart == nil {
		u.Cart = []entity.CartItem{}
	}
	if u.Address == nil {
		u.Address = []entity.Address{}
	}
	if u.Orders == nil {
		u.Orders = []entity.Order{}
	}
	_, err := r.col.InsertOne(ctx, u)
	return wrapError(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return findOne[entity.User](ctx, r.col, byID(id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return findOne[entity.User](ctx, r.col, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) PushCartItem(ctx context.Context, userID string, item entity.CartItem) (*entity.User, error) {
	filter := bson.D{
		{Key: "_id", Value: userID},
		{Key: "cart.ad", Value: bson.D{{Key: "$ne", Value: item.AdID}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "cart", Value: item}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	u, err := findOneAndUpdate[entity.User](ctx, r.col, filter, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, r.missOn(ctx, userID, repository.ErrDuplicate)
	}
	return u, err
}

func (r *UserRepository) PullCartItem(ctx context.Context, userID, adID string) (*entity.User, error) {
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "cart", Value: bson.D{{Key: "ad", Value: adID}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	return findOneAndUpdate[entity.User](ctx, r.col, byID(userID), update)
}

func (r *UserRepository) PushAddress(ctx context.Context, userID string, a entity.Address) (*entity.User, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "address", Value: a}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	return findOneAndUpdate[entity.User](ctx, r.col, byID(userID), update)
}

func (r *UserRepository) UpdateAddress(ctx context.Context, userID, addressID string, patch entity.AddressPatch) (*entity.User, error) {
	if patch.Empty() {
		u, err := r.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u.FindAddress(addressID) == nil {
			return nil, repository.ErrElementNotFound
		}
		return u, nil
	}

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	add := func(field string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: "address.$." + field, Value: *v})
		}
	}
	add("label", patch.Label)
	add("city", patch.City)
	add("state", patch.State)
	add("postalCode", patch.PostalCode)
	add("mobileNo", patch.MobileNo)

	filter := bson.D{{Key: "_id", Value: userID}, {Key: "address._id", Value: addressID}}
	u, err := findOneAndUpdate[entity.User](ctx, r.col, filter, bson.D{{Key: "$set", Value: set}})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, r.missOn(ctx, userID, repository.ErrElementNotFound)
	}
	return u, err
}

func (r *UserRepository) PullAddress(ctx context.Context, userID, addressID string) error {
	filter := bson.D{{Key: "_id", Value: userID}, {Key: "address._id", Value: addressID}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "address", Value: bson.D{{Key: "_id", Value: addressID}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return r.missOn(ctx, userID, repository.ErrElementNotFound)
	}
	return nil
}

func (r *UserRepository) AppendOrder(ctx context.Context, userID string, expectedVersion int64, order entity.Order, spend entity.SpendState) error {
	filter := bson.D{{Key: "_id", Value: userID}}
	if expectedVersion == 0 {
		// documents written before versioning have no ledgerVersion field
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "ledgerVersion", Value: 0}},
			bson.D{{Key: "ledgerVersion", Value: bson.D{{Key: "$exists", Value: false}}}},
		}})
	} else {
		filter = append(filter, bson.E{Key: "ledgerVersion", Value: expectedVersion})
	}

	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "orders", Value: order}}},
		{Key: "$set", Value: bson.D{
			{Key: "totalSpent", Value: spend.TotalSpent},
			{Key: "monthlySpent", Value: spend.MonthlySpent},
			{Key: "lastSpentReset", Value: spend.LastSpentReset},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}},
		{Key: "$inc", Value: bson.D{{Key: "ledgerVersion", Value: 1}}},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return r.missOn(ctx, userID, repository.ErrVersionConflict)
	}
	return nil
}

// missOn resolves a conditional write that matched nothing: ErrNotFound when
// the user is gone, otherwise the condition-specific error.
func (r *UserRepository) missOn(ctx context.Context, userID string, condErr error) error {
	ok, err := exists(ctx, r.col, userID)
	if err != nil {
		return wrapError(err)
	}
	if !ok {
		return repository.ErrNotFound
	}
	return condErr
}

var _ repository.UserRepository = (*UserRepository)(nil)
