package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/signlang-ai/signstream/gesture"
	"github.com/signlang-ai/signstream/summary"
)

var ErrNoSinks = errors.New("no sinks configured")

// sinkTimeout bounds persistence after the frame loop has been cancelled.
const sinkTimeout = 30 * time.Second

// Pipeline drives one session from a Source and hands the record to every Sink.
type Pipeline struct {
	session *Session
	sinks   []Sink
	user    User
	now     func() time.Time
	log     log.FieldLogger
	metrics *Metrics
}

type PipelineOption func(*Pipeline)

func WithSinks(s ...Sink) PipelineOption { return func(p *Pipeline) { p.sinks = append(p.sinks, s...) } }
func WithUser(u User) PipelineOption { return func(p *Pipeline) { p.user = u } }
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}
func WithLogger(l log.FieldLogger) PipelineOption { return func(p *Pipeline) { p.log = l } }
func WithPipelineMetrics(m *Metrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = m }
}

func NewPipeline(s *Session, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{session: s, now: time.Now, log: log.StandardLogger()}
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = s.metrics
	}
	return p
}

// Result is what a finished Run produced.
type Result struct {
	Summary summary.SessionSummary
	Record  SessionRecord
}

// Run starts a session, feeds it until the source ends or ctx is cancelled,
// then stops it and persists the record. Cancellation is a normal stop. A
// source failure still persists what was collected and is returned joined
// with any sink errors.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Result, error) {
	p.session.Start(p.now())
	p.log.WithField("started_at", p.session.StartedAt).Info("session started")

	var srcErr error
loop:
	for {
		o, err := src.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
			case ctx.Err() != nil:
				p.log.WithField("reason", ctx.Err()).Info("session cancelled")
			default:
				srcErr = fmt.Errorf("source: %w", err)
			}
			break loop
		}
		p.session.Observe(o)
	}

	events := p.session.Events()
	sum, err := p.session.Stop(p.now())
	if err != nil {
		return nil, err
	}
	rec := NewRecord(sum, p.user)
	logger := p.log.WithField("session_id", rec.ID)
	logger.WithFields(log.Fields{
		"seconds": sum.SecondsSpent,
		"events":  len(events),
		"top":     sum.TopSigns,
	}).Info("session stopped")

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	sinkErr := p.persist(saveCtx, logger, rec, events)

	return &Result{Summary: sum, Record: rec}, errors.Join(srcErr, sinkErr)
}

func (p *Pipeline) persist(ctx context.Context, logger log.FieldLogger, rec SessionRecord, events []gesture.ConfirmedEvent) error {
	if len(p.sinks) == 0 {
		logger.Warn(ErrNoSinks.Error())
		return nil
	}
	var errs []error
	for _, s := range p.sinks {
		if err := s.Save(ctx, rec, events); err != nil {
			p.metrics.sinkFailed(s.Name())
			logger.WithError(err).WithField("sink", s.Name()).Error("persist failed")
			errs = append(errs, fmt.Errorf("sink %s: %w", s.Name(), err))
			continue
		}
		logger.WithField("sink", s.Name()).Debug("persisted")
	}
	return errors.Join(errs...)
}
