package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/linkage/internal/config"
	"github.com/agenthands/linkage/internal/core/cluster"
	"github.com/agenthands/linkage/internal/core/confidence"
	"github.com/agenthands/linkage/internal/core/match"
	"github.com/agenthands/linkage/internal/core/merge"
	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/core/review"
	"github.com/agenthands/linkage/internal/driver"
	"github.com/agenthands/linkage/internal/logging"
)

var ErrNoSource = errors.New("no record source configured")

// RecordSource loads the existing records a candidate is compared against.
type RecordSource interface {
	LoadRecords(ctx context.Context, scope driver.Scope) ([]model.ExistingRecord, error)
}

// Report wraps an assessment with the metadata of one check.
type Report struct {
	ID         string               `json:"id"`
	Assessment model.Assessment     `json:"assessment"`
	Review     *model.ReviewVerdict `json:"review,omitempty"`
	Compared   int                  `json:"compared"`
}

type Linker struct {
	Source     RecordSource
	Matcher    *match.Matcher
	Aggregator *confidence.Aggregator
	Merger     *merge.Merger
	Clusterer  *cluster.Clusterer
	Reviewer   *review.Reviewer
	Logger     *slog.Logger

	reviewFloor   float64
	batchLimit    int
	preferPrimary bool
}

// NewLinker wires the core from configuration. source and reviewer may be nil.
func NewLinker(cfg *config.Config, source RecordSource, reviewer *review.Reviewer, logger *slog.Logger) (*Linker, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	matcher, err := match.NewMatcher(cfg.MatchOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}
	detector, err := cluster.NewDetector(cfg.Cluster.Strategy)
	if err != nil {
		return nil, err
	}
	aggregator := confidence.NewAggregator(cfg.Confidence)

	batchLimit := cfg.Concurrency.BatchCheck
	if batchLimit <= 0 {
		batchLimit = 1
	}

	return &Linker{
		Source:     source,
		Matcher:    matcher,
		Aggregator: aggregator,
		Merger: merge.NewMerger(
			merge.WithCollectionFields(cfg.Merge.CollectionFields...),
			merge.WithTimestampField(cfg.Merge.TimestampField),
		),
		Clusterer:     cluster.NewClusterer(matcher, aggregator, detector),
		Reviewer:      reviewer,
		Logger:        logger,
		reviewFloor:   cfg.Review.Floor,
		batchLimit:    batchLimit,
		preferPrimary: cfg.Merge.PreferPrimary,
	}, nil
}

// PreferPrimary is the configured merge precedence.
func (l *Linker) PreferPrimary() bool { return l.preferPrimary }

func (l *Linker) Match(candidate model.Record, records []model.ExistingRecord) []model.MatchResult {
	return l.Matcher.Match(candidate, excludeSelf(candidate, records))
}

// Assess matches and aggregates without touching the source or the reviewer.
func (l *Linker) Assess(candidate model.Record, records []model.ExistingRecord) Report {
	records = excludeSelf(candidate, records)
	return Report{
		ID:         uuid.New().String(),
		Assessment: l.Aggregator.Assess(l.Matcher.Match(candidate, records)),
		Compared:   len(records),
	}
}

// Check assesses candidate against the records in scope. Borderline results
// get a reviewer verdict when a reviewer is configured; reviewer failures are
// logged, never returned.
func (l *Linker) Check(ctx context.Context, scope driver.Scope, candidate model.Record) (Report, error) {
	records, err := l.load(ctx, scope)
	if err != nil {
		return Report{}, err
	}
	return l.check(ctx, candidate, records), nil
}

// CheckBatch loads the scope once and checks candidates in parallel. Reports
// are returned in input order.
func (l *Linker) CheckBatch(ctx context.Context, scope driver.Scope, candidates []model.Record) ([]Report, error) {
	records, err := l.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.batchLimit)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = l.check(gctx, candidate, records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.Logger.Info("batch check finished",
		slog.String("group_id", scope.GroupID),
		slog.String("kind", scope.Kind),
		slog.Int("candidates", len(candidates)),
		slog.Int("records", len(records)),
	)
	return reports, nil
}

func (l *Linker) Merge(primary, secondary model.Record, preferPrimary bool) model.Record {
	return l.Merger.Merge(primary, secondary, preferPrimary)
}

func (l *Linker) Cluster(records []model.ExistingRecord) []model.Cluster {
	return l.Clusterer.Cluster(records)
}

// ClusterScope loads the scope and clusters it.
func (l *Linker) ClusterScope(ctx context.Context, scope driver.Scope) ([]model.Cluster, error) {
	records, err := l.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	clusters := l.Clusterer.Cluster(records)
	l.Logger.Info("clustered scope",
		slog.String("group_id", scope.GroupID),
		slog.String("kind", scope.Kind),
		slog.Int("records", len(records)),
		slog.Int("clusters", len(clusters)),
	)
	return clusters, nil
}

func (l *Linker) load(ctx context.Context, scope driver.Scope) ([]model.ExistingRecord, error) {
	if l.Source == nil {
		return nil, ErrNoSource
	}
	records, err := l.Source.LoadRecords(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return records, nil
}

func (l *Linker) check(ctx context.Context, candidate model.Record, records []model.ExistingRecord) Report {
	report := l.Assess(candidate, records)
	a := report.Assessment

	l.Logger.Debug("assessed candidate",
		slog.String("report_id", report.ID),
		slog.String("action", string(a.Action)),
		slog.Float64("confidence", a.Confidence),
		slog.String("record_id", a.RecordID),
		slog.Int("matches", len(a.Matches)),
	)

	if l.Reviewer == nil || a.Action != model.ActionReview || a.Confidence < l.reviewFloor {
		return report
	}
	existing, ok := find(records, a.RecordID)
	if !ok {
		return report
	}
	verdict, err := l.Reviewer.Review(ctx, candidate, existing, a)
	if err != nil {
		l.Logger.Warn("review failed",
			slog.String("report_id", report.ID),
			slog.String("record_id", a.RecordID),
			slog.Any("error", err),
		)
		return report
	}
	report.Review = verdict
	return report
}

// excludeSelf drops the existing record the candidate was loaded from, so an
// update is not reported as a duplicate of itself.
func excludeSelf(candidate model.Record, records []model.ExistingRecord) []model.ExistingRecord {
	id, ok := candidate.String("id")
	if !ok {
		return records
	}
	out := make([]model.ExistingRecord, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func find(records []model.ExistingRecord, id string) (model.ExistingRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return model.ExistingRecord{}, false
}
