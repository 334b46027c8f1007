package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCSPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/imgs/1-a-x.png", GCSPublicURL("imgs", "1-a-x.png"))
}

func TestNewGCS_RequiresBucket(t *testing.T) {
	_, err := NewGCS(nil, "imgs")
	assert.Error(t, err)
}

func TestNewMinIO(t *testing.T) {
	_, err := NewMinIO(MinIOConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err, "credentials are required")

	m, err := NewMinIO(MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		BaseURL:   "http://localhost:9000/ad-images/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/ad-images/1-a-x.png", m.PublicURL("1-a-x.png"))
}
