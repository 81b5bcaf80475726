// Package facematch decides whether the face in a submitted photo appears in
// any image of a fixed reference gallery.
//
// Every gallery item is judged on its own. A failed detection or comparison
// for one item is recorded on that item's outcome and never stops the other
// items from being evaluated. Within one item the first candidate whose
// similarity reaches the threshold wins; the matcher does not look for the
// best match.
package facematch

import (
	"context"
	"fmt"

	"github.com/programme-lv/participation/logger"
	"github.com/programme-lv/participation/s3bucket"
	"golang.org/x/sync/errgroup"
)

// Face is a face found by the detection service.
type Face struct {
	Confidence float64
}

// Candidate is a face in the target image that the comparison service
// considered similar to the source face.
type Candidate struct {
	Similarity float64
}

type FaceDetector interface {
	DetectFaces(ctx context.Context, image s3bucket.ObjectRef) ([]Face, error)
}

type FaceComparer interface {
	CompareFaces(ctx context.Context, source, target s3bucket.ObjectRef, threshold float64) ([]Candidate, error)
}

type Stage string

const (
	StageDetect  Stage = "detect"
	StageCompare Stage = "compare"
)

// Failure records which call failed for a gallery item.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome is the result for one gallery item.
type Outcome struct {
	Reference      s3bucket.ObjectRef
	Matched        bool
	Similarity     *float64
	UploadedFaces  int
	ReferenceFaces int
	Failure        *Failure
}

type Report struct {
	// Outcomes are in gallery order.
	Outcomes          []Outcome
	PrimaryFaces      int
	PrimaryFailure    error
	FaceParticipation bool
}

// Failures lists the failed gallery items in gallery order.
func (r Report) Failures() []Failure {
	var failures []Failure
	for _, o := range r.Outcomes {
		if o.Failure != nil {
			failures = append(failures, *o.Failure)
		}
	}
	return failures
}

type Matcher struct {
	detector    FaceDetector
	refDetector FaceDetector
	comparer    FaceComparer
	concurrency int
}

type Option func(*Matcher)

// WithConcurrency bounds how many gallery items are evaluated at once.
func WithConcurrency(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithReferenceDetector replaces the detector used for gallery images, e.g.
// with a CachingDetector. The submitted image always goes through the plain
// detector.
func WithReferenceDetector(d FaceDetector) Option {
	return func(m *Matcher) {
		m.refDetector = d
	}
}

func NewMatcher(detector FaceDetector, comparer FaceComparer, opts ...Option) *Matcher {
	m := &Matcher{
		detector:    detector,
		refDetector: detector,
		comparer:    comparer,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchFaces never returns an error: failures are reported per outcome.
func (m *Matcher) MatchFaces(ctx context.Context, primary s3bucket.ObjectRef, gallery []s3bucket.ObjectRef, threshold float64) Report {
	log := logger.FromContext(ctx)
	report := Report{Outcomes: make([]Outcome, len(gallery))}

	primaryFaces, err := m.detector.DetectFaces(ctx, primary)
	if err != nil {
		log.Warn("failed to detect faces in uploaded image", "image", primary.String(), "error", err)
		report.PrimaryFailure = err
		primaryFaces = nil
	}
	report.PrimaryFaces = len(primaryFaces)

	g := new(errgroup.Group)
	g.SetLimit(m.concurrency)
	for i, ref := range gallery {
		g.Go(func() error {
			report.Outcomes[i] = m.matchReference(ctx, primary, len(primaryFaces), ref, threshold)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range report.Outcomes {
		if o.Failure != nil {
			log.Warn("failed to compare with reference image",
				"reference", o.Reference.String(),
				"stage", string(o.Failure.Stage),
				"error", o.Failure.Err)
		}
		if o.Matched {
			report.FaceParticipation = true
		}
	}

	return report
}

func (m *Matcher) matchReference(ctx context.Context, primary s3bucket.ObjectRef, primaryFaces int, ref s3bucket.ObjectRef, threshold float64) Outcome {
	outcome := Outcome{Reference: ref, UploadedFaces: primaryFaces}

	refFaces, err := m.refDetector.DetectFaces(ctx, ref)
	if err != nil {
		outcome.Failure = &Failure{Stage: StageDetect, Err: err}
		return outcome
	}
	outcome.ReferenceFaces = len(refFaces)

	if primaryFaces == 0 {
		return outcome
	}

	candidates, err := m.comparer.CompareFaces(ctx, primary, ref, threshold)
	if err != nil {
		outcome.Failure = &Failure{Stage: StageCompare, Err: err}
		return outcome
	}

	if similarity, ok := firstQualifying(candidates, threshold); ok {
		outcome.Matched = true
		outcome.Similarity = &similarity
	}
	return outcome
}

func firstQualifying(candidates []Candidate, threshold float64) (float64, bool) {
	for _, c := range candidates {
		if c.Similarity >= threshold {
			return c.Similarity, true
		}
	}
	return 0, false
}
