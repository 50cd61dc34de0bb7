package rankingsrv

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/ranking"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout        = 60 * time.Second
	DefaultMaxConcurrency = 8
)

// Orchestrator ranks a job's applications through the Ranking Service. It
// never changes application state.
type Orchestrator struct {
	loader ranking.ApplicantsLoader
	ranker ranking.Ranker
	cache  ranking.Cache

	timeout time.Duration
	slots   *semaphore.Weighted
	flights singleflight.Group
	now     func() time.Time
}

type Option func(*Orchestrator)

// WithTimeout bounds each upstream call
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxConcurrency bounds concurrent upstream calls across all jobs
func WithMaxConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.slots = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithCache enables result caching
func WithCache(c ranking.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates a ranking orchestrator
func NewOrchestrator(loader ranking.ApplicantsLoader, ranker ranking.Ranker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		loader:  loader,
		ranker:  ranker,
		timeout: DefaultTimeout,
		slots:   semaphore.NewWeighted(DefaultMaxConcurrency),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Rank always calls the Ranking Service and refreshes the cache
func (o *Orchestrator) Rank(ctx context.Context, jobID kernel.JobID) (*ranking.Result, error) {
	return o.rank(ctx, jobID, false)
}

// RankedApplications returns the cached ranking for the job's current
// application set, ranking only on a miss
func (o *Orchestrator) RankedApplications(ctx context.Context, jobID kernel.JobID) (*ranking.Result, error) {
	return o.rank(ctx, jobID, true)
}

func (o *Orchestrator) rank(ctx context.Context, jobID kernel.JobID, useCache bool) (*ranking.Result, error) {
	loaded, err := o.loader.ListApplicants(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(loaded.Applications) == 0 {
		return ranking.EmptyResult(loaded.Job, o.now()), nil
	}

	fingerprint := ranking.Fingerprint(loaded.Applications)

	if useCache && o.cache != nil {
		cached, ok, err := o.cache.Get(ctx, jobID, fingerprint)
		if err != nil {
			logx.Warnf("ranking cache read failed for job %s: %v", jobID, err)
		} else if ok {
			cached.Cached = true
			return cached, nil
		}
	}

	// Concurrent requests for the same application set share one call. The
	// call is detached from ctx so a caller leaving does not abort it.
	detached := context.WithoutCancel(ctx)
	flight := o.flights.DoChan(jobID.String()+":"+fingerprint, func() (any, error) {
		return o.callUpstream(detached, loaded)
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ranking.Result), nil
	case <-ctx.Done():
		return nil, ranking.ErrServiceUnavailable().
			WithDetail("reason", "request cancelled").
			WithCause(ctx.Err())
	}
}

func (o *Orchestrator) callUpstream(ctx context.Context, loaded *application.JobApplicants) (*ranking.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.slots.Acquire(callCtx, 1); err != nil {
		return nil, ranking.ErrServiceUnavailable().
			WithDetail("reason", "no ranking slot available").
			WithCause(err)
	}
	defer o.slots.Release(1)

	jobID := loaded.Job.ID
	req := ranking.BuildRequest(loaded.Job, loaded.Applications)

	started := o.now()
	resp, err := o.ranker.Rank(callCtx, req)
	if err != nil {
		reason := "ranking service call failed"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "ranking service timed out"
		}
		logx.With("job_id", jobID, "applications", len(req.Applications)).
			Errorf("%s: %v", reason, err)
		return nil, ranking.ErrServiceUnavailable().
			WithDetail("reason", reason).
			WithCause(err)
	}

	result, err := ranking.MapResponse(resp, loaded.Job, loaded.Applications, o.now())
	if err != nil {
		if e, ok := errx.As(err); ok {
			logx.With("job_id", jobID).Warnf("rejected ranking response: %v", e.Details)
		}
		return nil, err
	}

	logx.With("job_id", jobID, "applications", result.TotalApplications, "took", o.now().Sub(started)).
		Info("applications ranked")

	if o.cache != nil {
		if err := o.cache.Set(ctx, jobID, result.Fingerprint, result); err != nil {
			logx.Warnf("ranking cache write failed for job %s: %v", jobID, err)
		}
	}
	return result, nil
}
