package rankingapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/jobboard/pkg/iam/auth"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/Abraxas-365/jobboard/recruitment/memstore"
	"github.com/Abraxas-365/jobboard/recruitment/ranking"
	"github.com/Abraxas-365/jobboard/recruitment/ranking/rankingsrv"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRanker struct {
	success bool
}

func (r staticRanker) Rank(_ context.Context, req ranking.Request) (*ranking.Response, error) {
	if !r.success {
		return &ranking.Response{Success: false, Message: "model not loaded"}, nil
	}
	entries := make([]ranking.RankedEntry, 0, len(req.Applications))
	for i, a := range req.Applications {
		entries = append(entries, ranking.RankedEntry{ApplicationSummary: a, Rank: i + 1, RankScore: 1, MatchCategory: "Best Match"})
	}
	return &ranking.Response{Success: true, RankedApplications: entries}, nil
}

func newApp(t *testing.T, ranker ranking.Ranker, middleware ...fiber.Handler) (*fiber.App, *auth.JWTService) {
	t.Helper()
	store := memstore.New()
	store.PutJob(&job.Job{ID: "job-1", Title: "Engineer", CreatedBy: "recruiter-1"})
	store.PutJob(&job.Job{ID: "job-empty", Title: "Designer", CreatedBy: "recruiter-1"})
	require.NoError(t, store.Applications().CreateAndLink(context.Background(), &application.Application{
		ID: "app-1", JobID: "job-1", ApplicantID: "seeker-1", Status: application.StatusPending, CreatedAt: time.Now(),
	}))

	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)
	apps := applicationsrv.NewApplicationService(store.Applications(), store.Jobs(), store.Companies(), store.Applicants(), fs)

	tokens := auth.NewJWTService("secret", "")
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := errx.As(err); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	for _, m := range middleware {
		app.Use(m)
	}
	RegisterRoutes(app, NewHandlers(rankingsrv.NewOrchestrator(apps, ranker)), auth.NewTokenMiddleware(tokens))
	return app, tokens
}

func call(t *testing.T, app *fiber.App, tokens *auth.JWTService, role auth.Role, method, path string) (int, map[string]any) {
	t.Helper()
	tok, err := tokens.GenerateAccessToken("user-1", role, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestRankingRoutes(t *testing.T) {
	app, tokens := newApp(t, staticRanker{success: true})

	status, body := call(t, app, tokens, auth.RoleRecruiter, http.MethodPost, "/api/ranking/jobs/job-1")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["ranked_applications"], 1)

	status, body = call(t, app, tokens, auth.RoleRecruiter, http.MethodGet, "/api/ranking/jobs/job-empty")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["ranked_applications"])

	status, body = call(t, app, tokens, auth.RoleRecruiter, http.MethodGet, "/api/ranking/jobs/job-404")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "JOB_NOT_FOUND", body["code"])

	status, _ = call(t, app, tokens, auth.RoleJobseeker, http.MethodPost, "/api/ranking/jobs/job-1")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRankingRoutes_UpstreamFailure(t *testing.T) {
	app, tokens := newApp(t, staticRanker{success: false})

	status, body := call(t, app, tokens, auth.RoleRecruiter, http.MethodPost, "/api/ranking/jobs/job-1")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "RANKING_SERVICE_UNAVAILABLE", body["code"])
}

type requestIDKey struct{}

// contextRanker records the request id visible to the upstream call
type contextRanker struct {
	staticRanker
	mu   sync.Mutex
	seen []any
}

func (r *contextRanker) Rank(ctx context.Context, req ranking.Request) (*ranking.Response, error) {
	r.mu.Lock()
	r.seen = append(r.seen, ctx.Value(requestIDKey{}))
	r.mu.Unlock()
	return r.staticRanker.Rank(ctx, req)
}

func TestRankingRoutes_UseRequestUserContext(t *testing.T) {
	ranker := &contextRanker{staticRanker: staticRanker{success: true}}
	app, tokens := newApp(t, ranker, func(c *fiber.Ctx) error {
		c.SetUserContext(context.WithValue(context.Background(), requestIDKey{}, "req-42"))
		return c.Next()
	})

	status, _ := call(t, app, tokens, auth.RoleRecruiter, http.MethodPost, "/api/ranking/jobs/job-1")
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, tokens, auth.RoleRecruiter, http.MethodGet, "/api/ranking/jobs/job-1")
	require.Equal(t, http.StatusOK, status)

	ranker.mu.Lock()
	defer ranker.mu.Unlock()
	require.NotEmpty(t, ranker.seen)
	for _, v := range ranker.seen {
		assert.Equal(t, "req-42", v)
	}
}
