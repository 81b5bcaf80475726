// Package participation decides whether a person took part in a session
// and keeps the decision in a record store.
package participation

import (
	"context"
	"errors"
	"time"

	"github.com/programme-lv/participation/evidence"
	"github.com/programme-lv/participation/facematch"
	"github.com/programme-lv/participation/logger"
	"github.com/programme-lv/participation/metrics"
	"github.com/programme-lv/participation/s3bucket"
	"github.com/programme-lv/participation/srvcerror"
	"github.com/programme-lv/participation/textmatch"
	"golang.org/x/sync/errgroup"
)

type EvidenceCollector interface {
	Collect(ctx context.Context, email string, files []evidence.RawArtifact) ([]s3bucket.ObjectRef, error)
}

type FaceMatcher interface {
	MatchFaces(ctx context.Context, primary s3bucket.ObjectRef, gallery []s3bucket.ObjectRef, threshold float64) facematch.Report
}

type NameMatcher interface {
	MatchName(ctx context.Context, roster s3bucket.ObjectRef, candidateName string) (bool, textmatch.Transcript)
}

// Decision is what Submit reports once the record has been stored.
type Decision struct {
	Name              string
	Email             string
	ClassDate         string
	Participation     bool
	FaceParticipation bool
	NameParticipation bool

	FaceReport facematch.Report
	Transcript textmatch.Transcript
}

func (d *Decision) Record() Record {
	return Record{
		Email:         d.Email,
		ClassDate:     d.ClassDate,
		Name:          d.Name,
		Participation: d.Participation,
	}
}

type ParticipationSrvc struct {
	collector EvidenceCollector
	faces     FaceMatcher
	names     NameMatcher
	repo      RecordRepo

	gallery   []s3bucket.ObjectRef
	roster    s3bucket.ObjectRef
	threshold float64

	notifier DecisionNotifier // optional
	metrics  *metrics.Metrics // optional
}

type Option func(*ParticipationSrvc)

func WithNotifier(n DecisionNotifier) Option {
	return func(s *ParticipationSrvc) {
		s.notifier = n
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ParticipationSrvc) {
		s.metrics = m
	}
}

// Evidence is the fixed material every submission is judged against.
type Evidence struct {
	Gallery   []s3bucket.ObjectRef
	Roster    s3bucket.ObjectRef
	Threshold float64
}

func NewParticipationSrvc(
	collector EvidenceCollector,
	faces FaceMatcher,
	names NameMatcher,
	repo RecordRepo,
	ev Evidence,
	opts ...Option,
) *ParticipationSrvc {
	s := &ParticipationSrvc{
		collector: collector,
		faces:     faces,
		names:     names,
		repo:      repo,
		gallery:   ev.Gallery,
		roster:    ev.Roster,
		threshold: ev.Threshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit uploads the evidence, matches it, and stores the decision. The
// decision is returned only after it has been written.
func (s *ParticipationSrvc) Submit(ctx context.Context, params SubmitParams) (*Decision, error) {
	start := time.Now()

	if err := params.validate(); err != nil {
		s.metrics.Submission(metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}

	ctx = logger.WithSubmitter(ctx, params.Email, params.ClassDate)
	log := logger.FromContext(ctx)

	refs, err := s.collector.Collect(ctx, params.Email, params.Files)
	if err != nil {
		s.metrics.Submission(collectOutcome(err), time.Since(start))
		return nil, err
	}
	primary := refs[0]

	var (
		report     facematch.Report
		nameFound  bool
		transcript textmatch.Transcript
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		report = s.faces.MatchFaces(ctx, primary, s.gallery, s.threshold)
		return nil
	})
	g.Go(func() error {
		nameFound, transcript = s.names.MatchName(ctx, s.roster, params.Name)
		return nil
	})
	_ = g.Wait()

	s.countUpstreamFailures(report, transcript)

	decision := &Decision{
		Name:              params.Name,
		Email:             params.Email,
		ClassDate:         params.ClassDate,
		Participation:     Decide(report.FaceParticipation, nameFound),
		FaceParticipation: report.FaceParticipation,
		NameParticipation: nameFound,
		FaceReport:        report,
		Transcript:        transcript,
	}

	rec := decision.Record()
	if err := s.repo.Put(ctx, rec); err != nil {
		log.Error("failed to write participation record", "error", err)
		s.metrics.Submission(metrics.OutcomeWriteFailed, time.Since(start))
		return nil, newErrDdbWriteFailed(err)
	}

	log.Info("participation decided",
		"participation", decision.Participation,
		"face_participation", decision.FaceParticipation,
		"name_participation", decision.NameParticipation)

	if s.notifier != nil {
		if err := s.notifier.NotifyDecision(ctx, rec); err != nil {
			log.Warn("failed to notify about decision", "error", err)
			s.metrics.UpstreamFailure(metrics.UpstreamNotify)
		}
	}

	s.metrics.Decision(decision.Participation, decision.FaceParticipation, decision.NameParticipation)
	s.metrics.Submission(metrics.OutcomeDecided, time.Since(start))
	return decision, nil
}

func (s *ParticipationSrvc) GetRecord(ctx context.Context, email string, classDate string) (*Record, error) {
	rec, err := s.repo.Get(ctx, email, classDate)
	if err != nil {
		return nil, newErrDdbReadFailed(err)
	}
	if rec == nil {
		return nil, newErrRecordNotFound()
	}
	return rec, nil
}

func (s *ParticipationSrvc) countUpstreamFailures(report facematch.Report, transcript textmatch.Transcript) {
	if report.PrimaryFailure != nil {
		s.metrics.UpstreamFailure(metrics.UpstreamDetectFaces)
	}
	for _, f := range report.Failures() {
		switch f.Stage {
		case facematch.StageDetect:
			s.metrics.UpstreamFailure(metrics.UpstreamDetectFaces)
		case facematch.StageCompare:
			s.metrics.UpstreamFailure(metrics.UpstreamCompareFaces)
		}
	}
	if transcript.Failure != nil {
		s.metrics.UpstreamFailure(metrics.UpstreamExtractText)
	}
}

func collectOutcome(err error) string {
	var srvcErr *srvcerror.Error
	if errors.As(err, &srvcErr) && srvcErr.HttpStatusCode() < 500 {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeUploadFailed
}
