// Package evidence turns the files attached to a submission into objects in
// the upload bucket that the recognition services can read.
package evidence

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/programme-lv/participation/logger"
	"github.com/programme-lv/participation/s3bucket"
	"github.com/wailsapp/mimetype"
)

const fallbackMediaType = "image/jpeg"

type RawArtifact struct {
	FileName string
	Content  string // base64, optionally prefixed with "data:<mime>;base64,"
}

type Uploader interface {
	Upload(ctx context.Context, content []byte, key string, mediaType string) (s3bucket.ObjectRef, error)
}

type Collector struct {
	uploader Uploader
}

func NewCollector(uploader Uploader) *Collector {
	return &Collector{uploader: uploader}
}

func UploadKey(email string, fileName string) string {
	return fmt.Sprintf("uploads/%s/%s", email, fileName)
}

// Decode strips an optional data URL header and decodes standard base64.
func Decode(content string) ([]byte, error) {
	if idx := strings.Index(content, ","); idx >= 0 {
		content = content[idx+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(content))
}

func detectMediaType(content []byte) string {
	detected := mimetype.Detect(content)
	if detected == nil || detected.Is("application/octet-stream") || detected.Is("text/plain") {
		return fallbackMediaType
	}
	return detected.String()
}

// Collect decodes every artifact before uploading any of them, then uploads
// them in order. Uploads that succeeded before a failure stay in the bucket.
func (c *Collector) Collect(ctx context.Context, email string, files []RawArtifact) ([]s3bucket.ObjectRef, error) {
	decoded := make([][]byte, len(files))
	for i, f := range files {
		if strings.TrimSpace(f.FileName) == "" {
			return nil, newErrInvalidFileName(i)
		}
		content, err := Decode(f.Content)
		if err != nil {
			return nil, newErrInvalidFileContent(f.FileName).SetDebug(err)
		}
		decoded[i] = content
	}

	refs := make([]s3bucket.ObjectRef, 0, len(files))
	for i, f := range files {
		key := UploadKey(email, f.FileName)
		mediaType := detectMediaType(decoded[i])
		ref, err := c.uploader.Upload(ctx, decoded[i], key, mediaType)
		if err != nil {
			return nil, newErrUploadFailed(err.Error()).SetDebug(err)
		}
		logger.FromContext(ctx).Info("uploaded evidence",
			"key", key,
			"media_type", mediaType,
			"size", len(decoded[i]))
		refs = append(refs, ref)
	}
	return refs, nil
}
