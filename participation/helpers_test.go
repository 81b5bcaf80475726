package participation_test

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/programme-lv/participation/evidence"
	"github.com/programme-lv/participation/facematch"
	"github.com/programme-lv/participation/participation"
	"github.com/programme-lv/participation/s3bucket"
	"github.com/programme-lv/participation/textmatch"
)

const bucket = "participation-record"

var (
	gallery = []s3bucket.ObjectRef{
		{Bucket: bucket, Key: "p02_photos/faces1_Feb17.jpg"},
		{Bucket: bucket, Key: "p02_photos/faces2_Feb17.jpg"},
		{Bucket: bucket, Key: "p02_photos/faces3_Feb17.jpg"},
	}
	roster = s3bucket.ObjectRef{Bucket: bucket, Key: "p02_photos/names1_Feb17.jpg"}

	jpegContent = "data:image/jpeg;base64," +
		base64.StdEncoding.EncodeToString([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"))
)

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (u *fakeUploader) Upload(ctx context.Context, content []byte, key string, mediaType string) (s3bucket.ObjectRef, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.err != nil {
		return s3bucket.ObjectRef{}, u.err
	}
	return s3bucket.ObjectRef{Bucket: bucket, Key: key}, nil
}

// fakeRekognition finds one face in every image and answers comparisons per
// gallery key.
type fakeRekognition struct {
	mu         sync.Mutex
	candidates map[string][]facematch.Candidate
	compareErr map[string]error
	calls      int
}

func (f *fakeRekognition) DetectFaces(ctx context.Context, image s3bucket.ObjectRef) ([]facematch.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return []facematch.Face{{Confidence: 99}}, nil
}

func (f *fakeRekognition) CompareFaces(ctx context.Context, source, target s3bucket.ObjectRef, threshold float64) ([]facematch.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.compareErr[target.Key]; err != nil {
		return nil, err
	}
	return f.candidates[target.Key], nil
}

type fakeTextract struct {
	mu    sync.Mutex
	lines []string
	err   error
	calls int
}

func (f *fakeTextract) ExtractText(ctx context.Context, image s3bucket.ObjectRef) ([]textmatch.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	blocks := []textmatch.Block{{Type: textmatch.BlockOther, Text: "PAGE"}}
	for _, l := range f.lines {
		blocks = append(blocks, textmatch.Block{Type: textmatch.BlockLine, Text: l})
	}
	return blocks, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	records []participation.Record
	err     error
}

func (n *fakeNotifier) NotifyDecision(ctx context.Context, rec participation.Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, rec)
	return n.err
}

type testEnv struct {
	srvc     *participation.ParticipationSrvc
	uploader *fakeUploader
	faces    *fakeRekognition
	text     *fakeTextract
	repo     *participation.InMemRecordRepo
	notifier *fakeNotifier
}

func newTestEnv() *testEnv {
	env := &testEnv{
		uploader: &fakeUploader{},
		faces: &fakeRekognition{
			candidates: map[string][]facematch.Candidate{},
			compareErr: map[string]error{},
		},
		text:     &fakeTextract{},
		repo:     participation.NewInMemRecordRepo(),
		notifier: &fakeNotifier{},
	}
	env.srvc = participation.NewParticipationSrvc(
		evidence.NewCollector(env.uploader),
		facematch.NewMatcher(env.faces, env.faces, facematch.WithConcurrency(3)),
		textmatch.NewMatcher(env.text),
		env.repo,
		participation.Evidence{Gallery: gallery, Roster: roster, Threshold: 80},
		participation.WithNotifier(env.notifier),
	)
	return env
}

func (env *testEnv) externalCalls() int {
	return env.uploader.calls + env.faces.calls + env.text.calls
}

func validParams() participation.SubmitParams {
	return participation.SubmitParams{
		Files:     []evidence.RawArtifact{{FileName: "me.jpg", Content: jpegContent}},
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		ClassDate: "2024-02-17",
	}
}

var errUnavailable = errors.New("service unavailable")
