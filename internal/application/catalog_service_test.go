package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
)

func newCatalog(t *testing.T) (*CatalogService, *fakeAdRepo, *fakeUserRepo) {
	t.Helper()
	ads, users := newFakeAdRepo(), newFakeUserRepo()
	svc := NewCatalogService(ads, users, nil)
	svc.Now = func() time.Time { return time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC) }
	return svc, ads, users
}

func seedAd(t *testing.T, ads *fakeAdRepo, ad entity.Ad, age time.Duration) *entity.Ad {
	t.Helper()
	ad.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(-age)
	require.NoError(t, ads.Create(context.Background(), &ad))
	return &ad
}

func TestCatalog_RelatedByTagsThenType(t *testing.T) {
	svc, ads, _ := newCatalog(t)
	ctx := context.Background()
	tagged := seedAd(t, ads, entity.Ad{ProductName: "Chair", AdType: "furniture", Tags: []string{"wood"}}, 0)
	seedAd(t, ads, entity.Ad{ProductName: "Table", AdType: "furniture"}, time.Hour)

	got, err := svc.Related(ctx, []string{" wood "}, "furniture")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tagged.ID, got[0].ID)

	got, err = svc.Related(ctx, []string{"metal"}, "furniture")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Related(ctx, []string{"metal"}, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.Related(ctx, nil, " ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCatalog_RelatedCapsAtSix(t *testing.T) {
	svc, ads, _ := newCatalog(t)
	for i := 0; i < 9; i++ {
		seedAd(t, ads, entity.Ad{Tags: []string{"x"}}, time.Duration(i)*time.Minute)
	}
	got, err := svc.Related(context.Background(), []string{"x"}, "")
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestCatalog_ListByCategoryRespectsMaxPrice(t *testing.T) {
	svc, ads, _ := newCatalog(t)
	seedAd(t, ads, entity.Ad{AdType: "cars", Price: 500}, 0)
	cheap := seedAd(t, ads, entity.Ad{AdType: "cars", Price: 50}, time.Hour)
	seedAd(t, ads, entity.Ad{AdType: "bikes", Price: 10}, 0)

	max := 100.0
	got, err := svc.ListByCategory(context.Background(), "cars", &max)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cheap.ID, got[0].ID)

	got, err = svc.ListByCategory(context.Background(), "cars", nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalog_OwnerChecks(t *testing.T) {
	svc, ads, _ := newCatalog(t)
	ctx := context.Background()
	ad := seedAd(t, ads, entity.Ad{AdvertiserID: "owner", ProductName: "Old"}, 0)

	name := " New "
	_, err := svc.UpdateAd(ctx, "intruder", ad.ID, entity.AdPatch{ProductName: &name})
	assert.Equal(t, ErrNotAdOwner, err)

	updated, err := svc.UpdateAd(ctx, "owner", ad.ID, entity.AdPatch{ProductName: &name, Tags: []string{"a", "a"}, SetTags: true})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.ProductName)
	assert.Equal(t, []string{"a"}, updated.Tags)

	_, err = svc.UpdateAd(ctx, "owner", "missing", entity.AdPatch{ProductName: &name})
	assert.Equal(t, ErrAdNotFound, err)

	assert.Equal(t, ErrNotAdOwner, svc.DeleteAd(ctx, "intruder", ad.ID))
	require.NoError(t, svc.DeleteAd(ctx, "owner", ad.ID))
	assert.Equal(t, ErrAdNotFound, svc.DeleteAd(ctx, "owner", ad.ID))
}

func TestCatalog_SubmitFeedbackSnapshotsAuthor(t *testing.T) {
	svc, ads, users := newCatalog(t)
	ctx := context.Background()
	ad := seedAd(t, ads, entity.Ad{ProductName: "Lamp"}, 0)
	u := &entity.User{Name: "Kiran", Email: "kiran@example.com"}
	require.NoError(t, users.Create(ctx, u))

	got, err := svc.SubmitFeedback(ctx, u.ID, ad.ID, " great ", 5)
	require.NoError(t, err)
	require.Len(t, got.Feedbacks, 1)
	fb := got.Feedbacks[0]
	assert.Equal(t, "Kiran", fb.UserName)
	assert.Equal(t, "kiran@example.com", fb.UserEmail)
	assert.Equal(t, "great", fb.Comment)

	_, err = svc.SubmitFeedback(ctx, u.ID, ad.ID, "meh", 6)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.SubmitFeedback(ctx, u.ID, "missing", "ok", 3)
	assert.Equal(t, ErrAdNotFound, err)
}

func TestCatalog_GetAdAndSearch(t *testing.T) {
	svc, ads, _ := newCatalog(t)
	ctx := context.Background()
	ad := seedAd(t, ads, entity.Ad{ProductName: "Red Scooter", AdType: "vehicles"}, 0)

	got, err := svc.GetAd(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red Scooter", got.ProductName)

	_, err = svc.GetAd(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	found, err := svc.Search(ctx, "SCOOT")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
