package application

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/pkg/metrics"
)

type formFile struct {
	name, filename, contentType string
	data                        []byte
}

// buildForm writes fields in slice order, then files.
func buildForm(t *testing.T, fields [][2]string, files ...formFile) *multipart.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range fields {
		require.NoError(t, w.WriteField(kv[0], kv[1]))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.name+`"; filename="`+f.filename+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return multipart.NewReader(&buf, w.Boundary())
}

type ingestFixture struct {
	users   *fakeUserRepo
	ads     *fakeAdRepo
	store   *fakeStore
	metrics *metrics.Metrics
	svc     *IngestionService
	adv     *entity.User
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	f := &ingestFixture{users: newFakeUserRepo(), ads: newFakeAdRepo(), store: newFakeStore(), metrics: metrics.New("test", nil)}
	f.svc = NewIngestionService(f.users, f.ads, f.store, nil, f.metrics, 1024)
	f.svc.Now = func() time.Time { return time.UnixMilli(1715760000123) }
	f.adv = &entity.User{Name: "Shop", Email: "shop@example.com", Role: entity.RoleAdvertiser}
	require.NoError(t, f.users.Create(context.Background(), f.adv))
	return f
}

var png = formFile{name: "image", filename: `C:\photos\my lamp.png`, contentType: "image/png", data: []byte("\x89PNG-bytes")}

func TestIngest_CreatesAd(t *testing.T) {
	f := newIngestFixture(t)
	mr := buildForm(t, [][2]string{
		{"productName", "Lamp"},
		{"description", "Warm light"},
		{"price", "12.5"},
		{"adType", "home"},
		{"tags", " light, home ,light,, decor"},
		{"advertiserId", "SHOP@example.com"},
		{"ageMin", "18"},
		{"ageMax", "abc"},
		{"color", "red"},
	}, png)

	ad, err := f.svc.Ingest(context.Background(), mr)
	require.NoError(t, err)

	assert.Equal(t, f.adv.ID, ad.AdvertiserID)
	assert.Equal(t, "Lamp", ad.ProductName)
	assert.Equal(t, 12.5, ad.Price)
	assert.Equal(t, []string{"light", "home", "decor"}, ad.Tags)
	assert.Equal(t, entity.AgeRange{Min: 18, Max: 0}, ad.TargetAgeGroup)
	assert.True(t, strings.HasPrefix(ad.ImageURL, "https://cdn.test/1715760000123-"))
	assert.True(t, strings.HasSuffix(ad.ImageURL, "-my_lamp.png"))

	require.Len(t, f.store.objects, 1)
	for name, data := range f.store.objects {
		assert.Equal(t, png.data, data)
		assert.Equal(t, "image/png", f.store.types[name])
	}
	assert.Equal(t, 1, f.ads.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Uploads.WithLabelValues(metrics.UploadCreated)))
}

func TestIngest_NonNumericPriceIsZero(t *testing.T) {
	f := newIngestFixture(t)
	mr := buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}, {"price", "cheap"}}, png)

	ad, err := f.svc.Ingest(context.Background(), mr)
	require.NoError(t, err)
	assert.Zero(t, ad.Price)
}

func TestIngest_NonFinitePriceIsZero(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-infinity", "+Inf"} {
		t.Run(raw, func(t *testing.T) {
			f := newIngestFixture(t)
			mr := buildForm(t, [][2]string{
				{"advertiserId", "shop@example.com"},
				{"price", raw},
				{"ageMin", raw},
				{"ageMax", raw},
			}, png)

			ad, err := f.svc.Ingest(context.Background(), mr)
			require.NoError(t, err)
			assert.Zero(t, ad.Price)
			assert.Zero(t, ad.TargetAgeGroup.Min)
			assert.Zero(t, ad.TargetAgeGroup.Max)

			_, err = json.Marshal(ad)
			assert.NoError(t, err)
		})
	}
}

func TestIngest_EmptyImageWithContentTypeIsAccepted(t *testing.T) {
	f := newIngestFixture(t)
	empty := formFile{name: "image", filename: "blank.png", contentType: "image/png"}

	ad, err := f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}, empty))
	require.NoError(t, err)
	assert.NotEmpty(t, ad.ImageURL)
	assert.Len(t, f.store.objects, 1)
}

func TestIngest_InvalidAdvertiserBeforeImage(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "nobody@example.com"}}))
	require.Error(t, err)
	assert.Equal(t, "invalid advertiser", apperror.MessageOf(err))

	_, err = f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"productName", "x"}}, png))
	assert.Equal(t, "invalid advertiser", apperror.MessageOf(err))

	assert.Empty(t, f.store.objects)
	assert.Zero(t, f.ads.count())
}

func TestIngest_ImageRequired(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}))
	assert.Equal(t, errImageRequired, err)

	noType := formFile{name: "image", filename: "a.png", data: []byte("x")}
	_, err = f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}, noType))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestIngest_RejectsSecondImageAndOversize(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}, png, png))
	assert.Equal(t, errSecondImage, err)

	big := formFile{name: "image", filename: "big.png", contentType: "image/png", data: bytes.Repeat([]byte("x"), 1025)}
	_, err = f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}, big))
	assert.Equal(t, "image too large", apperror.MessageOf(err))
	assert.Empty(t, f.store.objects)
}

func TestIngest_StorageFailureLeavesNoRecord(t *testing.T) {
	f := newIngestFixture(t)
	f.store.err = errBoom

	_, err := f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}, png))
	assert.True(t, apperror.Is(err, apperror.KindUpstream))
	assert.Zero(t, f.ads.count())
}

func TestIngest_PersistFailureAfterUpload(t *testing.T) {
	f := newIngestFixture(t)
	f.ads.createErr = errBoom

	_, err := f.svc.Ingest(context.Background(), buildForm(t, [][2]string{{"advertiserId", "shop@example.com"}}, png))
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.Len(t, f.store.objects, 1, "uploaded object is not rolled back")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Uploads.WithLabelValues(metrics.UploadPersist)))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, splitTags(""))
	assert.Equal(t, []string{"a", "b"}, splitTags(" a ,b,a, "))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "x.png", baseName("../../x.png"))
	assert.Equal(t, "y.jpg", baseName(`dir\y.jpg`))
	assert.Equal(t, "image", baseName(""))
}
