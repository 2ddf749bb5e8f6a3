package collect

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/logger"
)

// PipelineConfig is the season range and schedule failure policy of a run.
type PipelineConfig struct {
	Start int
	End   int
	// AbortOnScheduleError aborts the run when a season's schedule cannot be
	// fetched instead of skipping that season.
	AbortOnScheduleError bool
}

// Validate checks the season range.
func (c PipelineConfig) Validate() error {
	if c.Start <= 0 || c.End <= 0 {
		return errors.Mark(errors.Newf("season range %d..%d must be positive", c.Start, c.End), errors.ErrInvalidConfig)
	}
	if c.Start > c.End {
		return errors.Mark(errors.Newf("start season %d is after end season %d", c.Start, c.End), errors.ErrInvalidConfig)
	}
	return nil
}

// Summary describes a completed run.
type Summary struct {
	Start           int
	End             int
	Seasons         []SeasonReport
	FailedSeasons   []int
	Outcomes        []Outcome
	EventsProcessed int
	EventsSkipped   int // race session failed
	SessionFailures int
	StartedAt       time.Time
	Duration        time.Duration
}

// Written counts categories persisted by the run.
func (s *Summary) Written() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Written() {
			n++
		}
	}
	return n
}

// WriteErrors returns the sink failures of the run.
func (s *Summary) WriteErrors() []error {
	var errs []error
	for _, o := range s.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// Pipeline walks seasons start..end in increasing order, then consolidates
// each category once.
type Pipeline struct {
	cfg          PipelineConfig
	walker       *SeasonWalker
	consolidator *Consolidator
	logger       *zap.SugaredLogger
}

// NewPipeline creates a pipeline.
func NewPipeline(cfg PipelineConfig, walker *SeasonWalker, consolidator *Consolidator, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{cfg: cfg, walker: walker, consolidator: consolidator, logger: log}
}

// Run performs the full traversal and consolidation. Session and event
// failures never fail the run. A cancelled context stops the traversal and
// nothing is written.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	sum := &Summary{Start: p.cfg.Start, End: p.cfg.End, StartedAt: time.Now()}
	acc := NewAccumulators()

	for season := p.cfg.Start; season <= p.cfg.End; season++ {
		report, err := p.walker.Walk(ctx, season, acc)
		sum.Seasons = append(sum.Seasons, report)
		sum.EventsProcessed += report.Processed
		sum.EventsSkipped += report.RaceSkipped
		sum.SessionFailures += report.SessionFailures

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				sum.Duration = time.Since(sum.StartedAt)
				return sum, errors.Wrapf(ctxErr, "run cancelled during season %d", season)
			}
			if p.cfg.AbortOnScheduleError {
				sum.Duration = time.Since(sum.StartedAt)
				return sum, err
			}
			sum.FailedSeasons = append(sum.FailedSeasons, season)
			p.logger.Errorw("Season skipped", logger.FieldSeason, season, logger.FieldError, err)
		}
	}

	for _, c := range Categories {
		sum.Outcomes = append(sum.Outcomes, p.consolidator.Consolidate(ctx, c, acc.Sets(c)))
	}

	sum.Duration = time.Since(sum.StartedAt)
	p.logger.Infow("Run complete",
		"seasons", len(sum.Seasons),
		"events_processed", sum.EventsProcessed,
		"events_skipped", sum.EventsSkipped,
		"session_failures", sum.SessionFailures,
		"written", sum.Written(),
		logger.FieldDurationMS, sum.Duration.Milliseconds(),
	)
	return sum, nil
}
