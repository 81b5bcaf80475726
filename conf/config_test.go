package conf_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programme-lv/participation/conf"
	"github.com/programme-lv/participation/s3bucket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := conf.FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HttpAddr)
	assert.Equal(t, 80.0, cfg.SimilarityThreshold)
	assert.Equal(t, "cicc-participation-table", cfg.DdbTable)
	assert.Equal(t, 3, cfg.GalleryConcurrency)
	assert.Zero(t, cfg.ReferenceCacheTTL)
	assert.Equal(t, []s3bucket.ObjectRef{
		{Bucket: "participation-record", Key: "p02_photos/faces1_Feb17.jpg"},
		{Bucket: "participation-record", Key: "p02_photos/faces2_Feb17.jpg"},
		{Bucket: "participation-record", Key: "p02_photos/faces3_Feb17.jpg"},
	}, cfg.ReferenceGallery())
	assert.Equal(t, s3bucket.ObjectRef{
		Bucket: "participation-record",
		Key:    "p02_photos/names1_Feb17.jpg",
	}, cfg.RosterImageRef())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := conf.FromEnv(envOf(map[string]string{
		"REFERENCE_BUCKET":     "refs",
		"REFERENCE_IMAGES":     " a.jpg, ,b.jpg ",
		"SIMILARITY_THRESHOLD": "92.5",
		"GALLERY_CONCURRENCY":  "1",
		"REFERENCE_CACHE_TTL":  "5m",
		"ALLOWED_ORIGINS":      "https://a.example,https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 92.5, cfg.SimilarityThreshold)
	assert.Equal(t, 1, cfg.GalleryConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.ReferenceCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []s3bucket.ObjectRef{
		{Bucket: "refs", Key: "a.jpg"},
		{Bucket: "refs", Key: "b.jpg"},
	}, cfg.ReferenceGallery())
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	_, err := conf.FromEnv(envOf(map[string]string{"SIMILARITY_THRESHOLD": "high"}))
	require.Error(t, err)

	_, err = conf.FromEnv(envOf(map[string]string{"SIMILARITY_THRESHOLD": "120"}))
	require.Error(t, err)

	_, err = conf.FromEnv(envOf(map[string]string{"GALLERY_CONCURRENCY": "0"}))
	require.Error(t, err)
}

func TestGalleryFileOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.toml")
	content := `
reference_bucket = "session-42"
reference_images = ["front.jpg", "back.jpg"]
roster_image = "roster.png"
similarity_threshold = 85.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := conf.FromEnv(envOf(map[string]string{
		"GALLERY_FILE":         path,
		"SIMILARITY_THRESHOLD": "70",
	}))
	require.NoError(t, err)

	assert.Equal(t, 85.0, cfg.SimilarityThreshold)
	assert.Equal(t, []s3bucket.ObjectRef{
		{Bucket: "session-42", Key: "front.jpg"},
		{Bucket: "session-42", Key: "back.jpg"},
	}, cfg.ReferenceGallery())
	assert.Equal(t, s3bucket.ObjectRef{Bucket: "session-42", Key: "roster.png"}, cfg.RosterImageRef())
}

func TestGalleryFileMissing(t *testing.T) {
	_, err := conf.FromEnv(envOf(map[string]string{
		"GALLERY_FILE": filepath.Join(t.TempDir(), "nope.toml"),
	}))
	require.Error(t, err)
}
