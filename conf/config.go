package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/participation/s3bucket"
)

const (
	DefaultHttpAddr            = ":8080"
	DefaultAwsRegion           = "us-east-1"
	DefaultBucket              = "participation-record"
	DefaultDdbTable            = "cicc-participation-table"
	DefaultSimilarityThreshold = 80.0
	DefaultGalleryConcurrency  = 3
	DefaultRosterImage         = "p02_photos/names1_Feb17.jpg"
)

var DefaultReferenceImages = []string{
	"p02_photos/faces1_Feb17.jpg",
	"p02_photos/faces2_Feb17.jpg",
	"p02_photos/faces3_Feb17.jpg",
}

// Config is built once at process start and passed by reference.
// Nothing mutates it after Load returns.
type Config struct {
	HttpAddr       string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	AwsRegion  string
	AwsProfile string

	UploadBucket    string
	ReferenceBucket string
	ReferenceImages []string
	RosterImage     string

	SimilarityThreshold float64
	GalleryConcurrency  int
	ReferenceCacheTTL   time.Duration

	DdbTable         string
	DecisionQueueUrl string
}

// galleryFile is the optional TOML document pointed to by GALLERY_FILE.
type galleryFile struct {
	ReferenceBucket     string   `toml:"reference_bucket"`
	ReferenceImages     []string `toml:"reference_images"`
	RosterImage         string   `toml:"roster_image"`
	SimilarityThreshold *float64 `toml:"similarity_threshold"`
}

func Default() Config {
	return Config{
		HttpAddr:            DefaultHttpAddr,
		LogLevel:            "info",
		LogFormat:           "text",
		AllowedOrigins:      []string{"*"},
		AwsRegion:           DefaultAwsRegion,
		UploadBucket:        DefaultBucket,
		ReferenceBucket:     DefaultBucket,
		ReferenceImages:     append([]string(nil), DefaultReferenceImages...),
		RosterImage:         DefaultRosterImage,
		SimilarityThreshold: DefaultSimilarityThreshold,
		GalleryConcurrency:  DefaultGalleryConcurrency,
		DdbTable:            DefaultDdbTable,
	}
}

// Load reads an optional .env file, then environment variables, then the
// optional gallery file, and validates the result.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	setString(getenv, "HTTP_ADDR", &cfg.HttpAddr)
	setString(getenv, "LOG_LEVEL", &cfg.LogLevel)
	setString(getenv, "LOG_FORMAT", &cfg.LogFormat)
	setList(getenv, "ALLOWED_ORIGINS", &cfg.AllowedOrigins)
	setString(getenv, "AWS_REGION", &cfg.AwsRegion)
	setString(getenv, "AWS_PROFILE", &cfg.AwsProfile)
	setString(getenv, "UPLOAD_BUCKET", &cfg.UploadBucket)
	setString(getenv, "REFERENCE_BUCKET", &cfg.ReferenceBucket)
	setList(getenv, "REFERENCE_IMAGES", &cfg.ReferenceImages)
	setString(getenv, "ROSTER_IMAGE", &cfg.RosterImage)
	setString(getenv, "DDB_TABLE", &cfg.DdbTable)
	setString(getenv, "DECISION_QUEUE_URL", &cfg.DecisionQueueUrl)

	if v := getenv("SIMILARITY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIMILARITY_THRESHOLD %q: %w", v, err)
		}
		cfg.SimilarityThreshold = f
	}
	if v := getenv("GALLERY_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GALLERY_CONCURRENCY %q: %w", v, err)
		}
		cfg.GalleryConcurrency = n
	}
	if v := getenv("REFERENCE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REFERENCE_CACHE_TTL %q: %w", v, err)
		}
		cfg.ReferenceCacheTTL = d
	}

	if path := getenv("GALLERY_FILE"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read gallery file: %w", err)
		}
		if err := cfg.applyGalleryToml(content); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyGalleryToml(content []byte) error {
	var g galleryFile
	if err := toml.Unmarshal(content, &g); err != nil {
		return fmt.Errorf("failed to parse gallery file: %w", err)
	}
	if g.ReferenceBucket != "" {
		c.ReferenceBucket = g.ReferenceBucket
	}
	if len(g.ReferenceImages) > 0 {
		c.ReferenceImages = g.ReferenceImages
	}
	if g.RosterImage != "" {
		c.RosterImage = g.RosterImage
	}
	if g.SimilarityThreshold != nil {
		c.SimilarityThreshold = *g.SimilarityThreshold
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		errs = append(errs, fmt.Errorf("similarity threshold %v is outside [0, 100]", c.SimilarityThreshold))
	}
	if len(c.ReferenceImages) == 0 {
		errs = append(errs, errors.New("reference gallery is empty"))
	}
	if c.RosterImage == "" {
		errs = append(errs, errors.New("roster image is not set"))
	}
	if c.GalleryConcurrency < 1 {
		errs = append(errs, fmt.Errorf("gallery concurrency must be at least 1, got %d", c.GalleryConcurrency))
	}
	if c.UploadBucket == "" || c.ReferenceBucket == "" {
		errs = append(errs, errors.New("upload and reference buckets must be set"))
	}
	if c.DdbTable == "" {
		errs = append(errs, errors.New("dynamodb table is not set"))
	}
	if c.HttpAddr == "" {
		errs = append(errs, errors.New("http address is not set"))
	}
	return errors.Join(errs...)
}

// ReferenceGallery returns the gallery in configured order.
func (c *Config) ReferenceGallery() []s3bucket.ObjectRef {
	refs := make([]s3bucket.ObjectRef, len(c.ReferenceImages))
	for i, key := range c.ReferenceImages {
		refs[i] = s3bucket.ObjectRef{Bucket: c.ReferenceBucket, Key: key}
	}
	return refs
}

func (c *Config) RosterImageRef() s3bucket.ObjectRef {
	return s3bucket.ObjectRef{Bucket: c.ReferenceBucket, Key: c.RosterImage}
}

func setString(getenv func(string) string, name string, dst *string) {
	if v := strings.TrimSpace(getenv(name)); v != "" {
		*dst = v
	}
}

func setList(getenv func(string) string, name string, dst *[]string) {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}
