package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/internal/domain/repository"
)

// fakeUserRepo mirrors the store's per-document atomicity with a mutex.
type fakeUserRepo struct {
	mu    sync.RWMutex
	users map[string]*entity.User

	// beforeAppend runs once per AppendOrder call, before the version check.
	beforeAppend func(userID string)
	appendErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Cart = append([]entity.CartItem{}, u.Cart...)
	c.Address = append([]entity.Address{}, u.Address...)
	c.Orders = append([]entity.Order{}, u.Orders...)
	if u.LastSpentReset != nil {
		t := *u.LastSpentReset
		c.LastSpentReset = &t
	}
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	for _, x := range r.users {
		if x.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[u.ID] = clone(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) PushCartItem(_ context.Context, userID string, item entity.CartItem) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.HasAd(item.AdID) {
		return nil, repository.ErrDuplicate
	}
	u.Cart = append(u.Cart, item)
	return clone(u), nil
}

func (r *fakeUserRepo) PullCartItem(_ context.Context, userID, adID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := u.Cart[:0]
	for _, it := range u.Cart {
		if it.AdID != adID {
			kept = append(kept, it)
		}
	}
	u.Cart = kept
	return clone(u), nil
}

func (r *fakeUserRepo) PushAddress(_ context.Context, userID string, a entity.Address) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Address = append(u.Address, a)
	return clone(u), nil
}

func (r *fakeUserRepo) UpdateAddress(_ context.Context, userID, addressID string, patch entity.AddressPatch) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := u.FindAddress(addressID)
	if a == nil {
		return nil, repository.ErrElementNotFound
	}
	patch.Apply(a)
	return clone(u), nil
}

func (r *fakeUserRepo) PullAddress(_ context.Context, userID, addressID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range u.Address {
		if u.Address[i].ID == addressID {
			u.Address = append(u.Address[:i], u.Address[i+1:]...)
			return nil
		}
	}
	return repository.ErrElementNotFound
}

func (r *fakeUserRepo) AppendOrder(_ context.Context, userID string, expected int64, o entity.Order, spend entity.SpendState) error {
	if r.beforeAppend != nil {
		r.beforeAppend(userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.LedgerVersion != expected {
		return repository.ErrVersionConflict
	}
	for _, x := range r.users {
		for _, existing := range x.Orders {
			if existing.OrderNumber == o.OrderNumber {
				return repository.ErrDuplicate
			}
		}
	}
	u.Orders = append(u.Orders, o)
	u.TotalSpent = spend.TotalSpent
	u.MonthlySpent = spend.MonthlySpent
	u.LastSpentReset = spend.LastSpentReset
	u.LedgerVersion++
	return nil
}

// bump simulates a concurrent order committed by another writer.
func (r *fakeUserRepo) bump(userID string, amount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	u.TotalSpent += amount
	u.MonthlySpent += amount
	u.LedgerVersion++
}

type fakeAdRepo struct {
	mu        sync.RWMutex
	ads       map[string]*entity.Ad
	seq       int
	createErr error
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: map[string]*entity.Ad{}}
}

func (r *fakeAdRepo) Create(_ context.Context, ad *entity.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	r.seq++
	c := *ad
	r.ads[ad.ID] = &c
	return nil
}

func (r *fakeAdRepo) GetByID(_ context.Context, id string) (*entity.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ad, ok := r.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *ad
	return &c, nil
}

func (r *fakeAdRepo) Summaries(_ context.Context, ids []string) (map[string]entity.AdSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]entity.AdSummary{}
	for _, id := range ids {
		if ad, ok := r.ads[id]; ok {
			out[id] = entity.AdSummary{ID: ad.ID, Title: ad.ProductName, Description: ad.Description, Price: ad.Price, ImageURL: ad.ImageURL}
		}
	}
	return out, nil
}

func (r *fakeAdRepo) all(keep func(*entity.Ad) bool) []*entity.Ad {
	out := []*entity.Ad{}
	for _, ad := range r.ads {
		if keep(ad) {
			c := *ad
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeAdRepo) List(_ context.Context, f entity.AdFilter) ([]*entity.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.all(func(ad *entity.Ad) bool {
		return (f.AdType == "" || ad.AdType == f.AdType) && (f.MaxPrice == nil || ad.Price <= *f.MaxPrice)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeAdRepo) Search(_ context.Context, keyword string) ([]*entity.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kw := strings.ToLower(strings.TrimSpace(keyword))
	return r.all(func(ad *entity.Ad) bool {
		return strings.Contains(strings.ToLower(ad.ProductName), kw) || strings.Contains(strings.ToLower(ad.AdType), kw)
	}), nil
}

func (r *fakeAdRepo) FindByTags(_ context.Context, tags []string, limit int) ([]*entity.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := map[string]bool{}
	for _, t := range tags {
		want[t] = true
	}
	out := r.all(func(ad *entity.Ad) bool {
		for _, t := range ad.Tags {
			if want[t] {
				return true
			}
		}
		return false
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAdRepo) ListByAdvertiser(_ context.Context, advertiserID string) ([]*entity.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.all(func(ad *entity.Ad) bool { return ad.AdvertiserID == advertiserID }), nil
}

func (r *fakeAdRepo) Update(_ context.Context, id string, p entity.AdPatch) (*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.ProductName != nil {
		ad.ProductName = *p.ProductName
	}
	if p.Description != nil {
		ad.Description = *p.Description
	}
	if p.SetTags {
		ad.Tags = p.Tags
	}
	c := *ad
	return &c, nil
}

func (r *fakeAdRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.ads, id)
	return nil
}

func (r *fakeAdRepo) PushFeedback(_ context.Context, adID string, f entity.Feedback) (*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ad.Feedbacks = append(ad.Feedbacks, f)
	c := *ad
	return &c, nil
}

func (r *fakeAdRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ads)
}

type fakeStore struct {
	mu      sync.Mutex
	err     error
	objects map[string][]byte
	types   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Upload(_ context.Context, data []byte, name, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.objects[name] = append([]byte{}, data...)
	s.types[name] = contentType
	return "https://cdn.test/" + name, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []OrderConfirmation
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, c OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, c)
	return n.err
}

var errBoom = errors.New("boom")
