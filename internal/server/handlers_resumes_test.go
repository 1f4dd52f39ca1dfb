package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResumeBody() map[string]any {
	return map[string]any{
		"fullName": "  Asha Rao ",
		"email":    "Asha@Example.com",
		"phone":    "+91 98765 43210",
		"summary":  "Backend engineer.",
		"skills":   []string{"Go", " ", "PostgreSQL "},
		"education": []map[string]string{
			{"institution": "IIT Bombay", "degree": "B.Tech", "startDate": "2018", "endDate": "2022"},
			{"institution": " ", "degree": ""},
		},
		"workExperience": []map[string]string{
			{"company": "Acme", "role": "Intern", "description": "Built the billing API."},
		},
		"projects": []map[string]any{
			{"title": "placify", "techStack": []string{"Go", ""}, "link": "https://example.com/placify"},
			{"title": "", "techStack": []string{" "}},
		},
	}
}

// postResume creates a resume through the API and returns it.
func postResume(t *testing.T, env *testEnv, token string, body map[string]any) types.Resume {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/resume", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[types.Resume](t, w)
}

func TestResumes_CreateNormalizes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)

	got := postResume(t, env, token, validResumeBody())
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Asha Rao", got.FullName)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Skills)
	require.Len(t, got.Education, 1, "blank entries are dropped")
	assert.Equal(t, "IIT Bombay", got.Education[0].Institution)
	require.Len(t, got.WorkExperience, 1)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, []string{"Go"}, got.Projects[0].TechStack)
	assert.Equal(t, 1, got.Version)
}

func TestResumes_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing full name", func(b map[string]any) { delete(b, "fullName") }},
		{"blank full name", func(b map[string]any) { b["fullName"] = "   " }},
		{"missing email", func(b map[string]any) { delete(b, "email") }},
		{"bad email", func(b map[string]any) { b["email"] = "nope" }},
		{"missing phone", func(b map[string]any) { delete(b, "phone") }},
		{"bad project link", func(b map[string]any) {
			b["projects"] = []map[string]any{{"title": "x", "link": "not a url"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validResumeBody()
			tt.mutate(body)
			w := env.do(t, http.MethodPost, "/api/resume", body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	t.Run("requires auth", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/resume", validResumeBody(), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestResumes_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	_, owner := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)
	_, other := env.createUser(t, "Ravi", "ravi@example.com", db.RoleStudent)

	resume := postResume(t, env, owner, validResumeBody())
	path := "/api/resume/" + resume.ID.String()

	tests := []struct {
		name   string
		method string
		body   any
	}{
		{"get", http.MethodGet, nil},
		{"update", http.MethodPut, map[string]string{"summary": "mine now"}},
		{"delete", http.MethodDelete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, path, tt.body, other)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}

	w := env.do(t, http.MethodGet, "/api/resume", nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decodeBody[types.ResumeListResponse](t, w).Count)

	w = env.do(t, http.MethodGet, path, nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Backend engineer.", decodeBody[types.Resume](t, w).Summary)
}

func TestResumes_UpdateBumpsVersion(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)
	resume := postResume(t, env, token, validResumeBody())
	path := "/api/resume/" + resume.ID.String()

	w := env.do(t, http.MethodPut, path, map[string]any{
		"summary": " Staff engineer. ",
		"skills":  []string{"Rust", ""},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[types.Resume](t, w)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "Staff engineer.", got.Summary)
	assert.Equal(t, []string{"Rust"}, got.Skills)
	assert.Equal(t, "Asha Rao", got.FullName, "absent fields are kept")
	assert.Len(t, got.Education, 1)

	t.Run("present contact fields cannot be blank", func(t *testing.T) {
		for _, field := range []string{"fullName", "email", "phone"} {
			w := env.do(t, http.MethodPut, path, map[string]string{field: "  "}, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, field)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/resume/xyz", map[string]string{"summary": "x"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResumes_DeleteIsSoft(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)
	first := postResume(t, env, token, validResumeBody())
	second := postResume(t, env, token, validResumeBody())

	path := "/api/resume/" + first.ID.String()
	w := env.do(t, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code, "second delete finds nothing")

	w = env.do(t, http.MethodGet, "/api/resume", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[types.ResumeListResponse](t, w)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, second.ID, list.Resumes[0].ID)

	assert.Len(t, env.store.resumes, 2, "row is kept")
}

func TestResumes_ListNewestUpdateFirst(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)
	older := postResume(t, env, token, validResumeBody())
	postResume(t, env, token, validResumeBody())

	w := env.do(t, http.MethodPut, "/api/resume/"+older.ID.String(), map[string]string{"summary": "touched"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/resume", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[types.ResumeListResponse](t, w)
	require.Len(t, list.Resumes, 2)
	assert.Equal(t, older.ID, list.Resumes[0].ID)
}

func TestResumes_Analytics(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)

	t.Run("no resumes", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/analytics", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[types.ResumeAnalytics](t, w)
		assert.Zero(t, got.TotalResumes)
		assert.Zero(t, got.AverageSkills)
		assert.Nil(t, got.LastUpdated)
	})

	postResume(t, env, token, validResumeBody()) // 2 skills, 1 education, 1 work, 1 project
	body := validResumeBody()
	body["skills"] = []string{"Go"}
	body["projects"] = []map[string]any{}
	postResume(t, env, token, body)

	w := env.do(t, http.MethodGet, "/api/resume/analytics", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[types.ResumeAnalytics](t, w)
	assert.Equal(t, 2, got.TotalResumes)
	assert.InDelta(t, 1.5, got.AverageSkills, 1e-9)
	assert.InDelta(t, 1.0, got.AverageEducation, 1e-9)
	assert.InDelta(t, 1.0, got.AverageExperience, 1e-9)
	assert.InDelta(t, 0.5, got.AverageProjects, 1e-9)
	assert.NotNil(t, got.LastUpdated)
}

func TestResumes_ScoreRoutesStillResolve(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "Asha", "asha@example.com", db.RoleStudent)

	w := env.do(t, http.MethodGet, "/api/resume/score", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/resume/analytics", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
