package jobapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/iam/auth"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/company"
	"github.com/Abraxas-365/jobboard/recruitment/job/jobsrv"
	"github.com/Abraxas-365/jobboard/recruitment/memstore"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app    *fiber.App
	tokens *auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	store.PutCompany(&company.Company{ID: "company-1", Name: "Acme"})

	tokens := auth.NewJWTService("test-secret", "jobboard")
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := errx.As(err); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
	})
	svc := jobsrv.NewJobService(store.Jobs(), store.Companies())
	RegisterRoutes(app, NewHandlers(svc), auth.NewTokenMiddleware(tokens))
	return &testServer{app: app, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, userID kernel.UserID, role auth.Role, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		tok, err := s.tokens.GenerateAccessToken(userID, role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestJobRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/jobs", "recruiter-1", auth.RoleRecruiter,
		`{"title":"Backend Engineer","description":"Go services","requirements":"go, sql","salary":12,"company_id":"company-1"}`)
	require.Equal(t, http.StatusCreated, status, body)
	created := body["job"].(map[string]any)
	jobID := created["id"].(string)
	assert.Equal(t, []any{"go", "sql"}, created["requirements"])

	status, body = s.do(t, http.MethodGet, "/api/jobs/"+jobID, "seeker-1", auth.RoleJobseeker, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Backend Engineer", body["job"].(map[string]any)["title"])

	status, body = s.do(t, http.MethodGet, "/api/jobs?keyword=backend", "seeker-1", auth.RoleJobseeker, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	status, body = s.do(t, http.MethodGet, "/api/jobs/admin", "recruiter-2", auth.RoleRecruiter, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, _ = s.do(t, http.MethodDelete, "/api/jobs/"+jobID, "recruiter-2", auth.RoleRecruiter, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodDelete, "/api/jobs/"+jobID, "recruiter-1", auth.RoleRecruiter, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = s.do(t, http.MethodGet, "/api/jobs/"+jobID, "seeker-1", auth.RoleJobseeker, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "JOB_NOT_FOUND", body["code"])
}

func TestJobRoutes_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		user   kernel.UserID
		role   auth.Role
		body   string
		status int
		code   string
	}{
		{"jobseeker cannot post", http.MethodPost, "/api/jobs", "seeker-1", auth.RoleJobseeker,
			`{"title":"t","description":"d","company_id":"company-1"}`, http.StatusForbidden, ""},
		{"missing title", http.MethodPost, "/api/jobs", "recruiter-1", auth.RoleRecruiter,
			`{"description":"d","company_id":"company-1"}`, http.StatusBadRequest, "JOB_INVALID_REQUEST"},
		{"unknown company", http.MethodPost, "/api/jobs", "recruiter-1", auth.RoleRecruiter,
			`{"title":"t","description":"d","company_id":"nope"}`, http.StatusNotFound, "COMPANY_NOT_FOUND"},
		{"no token", http.MethodGet, "/api/jobs", "", "", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, tt.method, tt.path, tt.user, tt.role, tt.body)
			assert.Equal(t, tt.status, status, body)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}
