package rankingsrv

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/Abraxas-365/jobboard/recruitment/memstore"
	"github.com/Abraxas-365/jobboard/recruitment/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobID = kernel.JobID("job-1")

// rankerFunc adapts a function to ranking.Ranker
type rankerFunc func(ctx context.Context, req ranking.Request) (*ranking.Response, error)

func (f rankerFunc) Rank(ctx context.Context, req ranking.Request) (*ranking.Response, error) {
	return f(ctx, req)
}

// reverseRanker ranks applications in reverse submission order
func reverseRanker(calls *atomic.Int32) rankerFunc {
	return func(ctx context.Context, req ranking.Request) (*ranking.Response, error) {
		calls.Add(1)
		entries := make([]ranking.RankedEntry, 0, len(req.Applications))
		n := len(req.Applications)
		for i, a := range req.Applications {
			entries = append(entries, ranking.RankedEntry{
				ApplicationSummary: a,
				Rank:               n - i,
				RankScore:          float64(i) / float64(n),
				MatchCategory:      "Average Match",
			})
		}
		return &ranking.Response{Success: true, RankedApplications: entries, TotalApplications: n}, nil
	}
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]ranking.Result
	sets    int
}

func newMemCache() *memCache { return &memCache{entries: map[string]ranking.Result{}} }

func (c *memCache) Get(_ context.Context, jobID kernel.JobID, fp string) (*ranking.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[jobID.String()+fp]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (c *memCache) Set(_ context.Context, jobID kernel.JobID, fp string, r *ranking.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[jobID.String()+fp] = *r
	c.sets++
	return nil
}

func (c *memCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

type fixture struct {
	store *memstore.Store
	apps  *applicationsrv.ApplicationService
}

func newFixture(t *testing.T, applications int) *fixture {
	t.Helper()
	store := memstore.New()
	store.PutJob(&job.Job{
		ID:           testJobID,
		Title:        "Engineer",
		Description:  "Build",
		Requirements: []kernel.JobRequirement{"Go"},
		CreatedBy:    "recruiter-1",
	})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < applications; i++ {
		require.NoError(t, store.Applications().CreateAndLink(context.Background(), &application.Application{
			ID:          kernel.ApplicationID(fmt.Sprintf("app-%d", i+1)),
			JobID:       testJobID,
			ApplicantID: kernel.UserID(fmt.Sprintf("seeker-%d", i+1)),
			FullName:    "Seeker",
			Status:      application.StatusPending,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)
	svc := applicationsrv.NewApplicationService(store.Applications(), store.Jobs(), store.Companies(), store.Applicants(), fs)
	return &fixture{store: store, apps: svc}
}

func TestRank_EndToEnd(t *testing.T) {
	f := newFixture(t, 3)
	var calls atomic.Int32
	o := NewOrchestrator(f.apps, reverseRanker(&calls))

	result, err := o.Rank(context.Background(), testJobID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.RankedApplications, 3)
	assert.Equal(t, int32(1), calls.Load())

	seen := map[kernel.ApplicationID]bool{}
	for i, r := range result.RankedApplications {
		assert.Equal(t, i+1, r.Rank)
		stored, err := f.store.Applications().GetByID(context.Background(), r.Application.ID)
		require.NoError(t, err)
		assert.Equal(t, application.StatusPending, stored.Status)
		seen[r.Application.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestRank_NoApplications(t *testing.T) {
	f := newFixture(t, 0)
	var calls atomic.Int32
	o := NewOrchestrator(f.apps, reverseRanker(&calls))

	result, err := o.Rank(context.Background(), testJobID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.RankedApplications)
	assert.Zero(t, calls.Load())
}

func TestRank_JobNotFound(t *testing.T) {
	f := newFixture(t, 0)
	var calls atomic.Int32
	o := NewOrchestrator(f.apps, reverseRanker(&calls))

	_, err := o.Rank(context.Background(), "job-404")
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))
}

func TestRank_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		ranker rankerFunc
	}{
		{"success false", func(context.Context, ranking.Request) (*ranking.Response, error) {
			return &ranking.Response{Success: false}, nil
		}},
		{"transport error", func(context.Context, ranking.Request) (*ranking.Response, error) {
			return nil, fmt.Errorf("connection refused")
		}},
		{"timeout", func(ctx context.Context, _ ranking.Request) (*ranking.Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
		{"partial ranking", func(_ context.Context, req ranking.Request) (*ranking.Response, error) {
			return &ranking.Response{Success: true, RankedApplications: []ranking.RankedEntry{
				{ApplicationSummary: req.Applications[0], Rank: 1},
			}}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			o := NewOrchestrator(f.apps, tt.ranker, WithTimeout(50*time.Millisecond))

			_, err := o.Rank(context.Background(), testJobID)
			assert.True(t, errx.IsCode(err, ranking.CodeServiceUnavailable), "got %v", err)

			applicants, err := f.apps.ListApplicants(context.Background(), testJobID)
			require.NoError(t, err)
			for _, a := range applicants.Applications {
				assert.Equal(t, application.StatusPending, a.Status)
			}
		})
	}
}

func TestRankedApplications_UsesCache(t *testing.T) {
	f := newFixture(t, 2)
	var calls atomic.Int32
	cache := newMemCache()
	o := NewOrchestrator(f.apps, reverseRanker(&calls), WithCache(cache))
	ctx := context.Background()

	first, err := o.RankedApplications(ctx, testJobID)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := o.RankedApplications(ctx, testJobID)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int32(1), calls.Load())

	// forced rank bypasses the cache
	_, err = o.Rank(ctx, testJobID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	// a status change produces a new application set
	_, err = f.apps.UpdateStatus(ctx, "app-1", "accepted")
	require.NoError(t, err)
	third, err := o.RankedApplications(ctx, testJobID)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRank_SharesConcurrentCalls(t *testing.T) {
	f := newFixture(t, 2)
	var calls atomic.Int32
	release := make(chan struct{})
	inner := reverseRanker(&calls)
	o := NewOrchestrator(f.apps, rankerFunc(func(ctx context.Context, req ranking.Request) (*ranking.Response, error) {
		<-release
		return inner(ctx, req)
	}))

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = o.Rank(context.Background(), testJobID)
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRank_CallerCancelDoesNotAbortUpstream(t *testing.T) {
	f := newFixture(t, 2)
	var calls atomic.Int32
	cache := newMemCache()
	release := make(chan struct{})
	inner := reverseRanker(&calls)
	o := NewOrchestrator(f.apps, rankerFunc(func(ctx context.Context, req ranking.Request) (*ranking.Response, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return inner(ctx, req)
	}), WithCache(cache), WithTimeout(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := o.Rank(ctx, testJobID)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	err := <-done
	assert.True(t, errx.IsCode(err, ranking.CodeServiceUnavailable))

	close(release)
	assert.Eventually(t, func() bool { return cache.setCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRank_ConcurrencyLimit(t *testing.T) {
	f := newFixture(t, 1)
	jobIDs := []kernel.JobID{testJobID, "job-2", "job-3"}
	for i, id := range jobIDs[1:] {
		f.store.PutJob(&job.Job{ID: id, Title: "Engineer", CreatedBy: "recruiter-1"})
		require.NoError(t, f.store.Applications().CreateAndLink(context.Background(), &application.Application{
			ID:          kernel.ApplicationID(fmt.Sprintf("other-%d", i)),
			JobID:       id,
			ApplicantID: "seeker-1",
			Status:      application.StatusPending,
		}))
	}

	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	ranker := rankerFunc(func(_ context.Context, req ranking.Request) (*ranking.Response, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		inFlight.Add(-1)
		return &ranking.Response{Success: true, RankedApplications: []ranking.RankedEntry{
			{ApplicationSummary: req.Applications[0], Rank: 1},
		}}, nil
	})
	o := NewOrchestrator(f.apps, ranker, WithMaxConcurrency(1))

	var wg sync.WaitGroup
	for _, id := range jobIDs {
		wg.Add(1)
		go func(id kernel.JobID) {
			defer wg.Done()
			_, err := o.Rank(context.Background(), id)
			assert.NoError(t, err)
		}(id)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), peak.Load())
}
