package facematch

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/programme-lv/participation/s3bucket"
	"golang.org/x/sync/singleflight"
)

// CachingDetector remembers successful detections for a while. It is meant
// for the reference gallery, whose images do not change between requests.
// Errors are never cached.
type CachingDetector struct {
	next    FaceDetector
	cache   *cache.Cache
	sfGroup singleflight.Group
}

func NewCachingDetector(next FaceDetector, ttl time.Duration) *CachingDetector {
	return &CachingDetector{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (d *CachingDetector) DetectFaces(ctx context.Context, image s3bucket.ObjectRef) ([]Face, error) {
	key := image.String()
	if faces, ok := d.cache.Get(key); ok {
		return faces.([]Face), nil
	}

	faces, err, _ := d.sfGroup.Do(key, func() (interface{}, error) {
		faces, err := d.next.DetectFaces(ctx, image)
		if err != nil {
			return nil, err
		}
		d.cache.SetDefault(key, faces)
		return faces, nil
	})
	if err != nil {
		return nil, err
	}
	return faces.([]Face), nil
}
