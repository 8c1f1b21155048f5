package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/record/repository"
	"github.com/virginearth/survey-backend/internal/record/service"
)

func newEngine(repo repository.Repository, opts ...service.Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterRecordRoutes(g, service.New(repo, opts...))
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestSaveInterview(t *testing.T) {
	repo := repository.NewMemoryRepo()
	g := newEngine(repo)

	w, out := do(t, g, http.MethodPost, "/api/save_interview", `{"id":"iv1","metadata":{"e_position":"driver"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["success"])
	require.Equal(t, "Interview text saved successfully", out["message"])

	got, err := repo.GetInterview(context.Background(), "iv1")
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"e_position": "driver"}, got["metadata"])
}

func TestSaveInterviewMissingID(t *testing.T) {
	g := newEngine(repository.NewMemoryRepo())

	for _, body := range []string{`{}`, `{"name":"x"}`, `[1,2]`, `not json`} {
		w, out := do(t, g, http.MethodPost, "/api/save_interview", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		require.Equal(t, "Invalid data format", out["error"])
	}
}

func TestSaveSurveyAndList(t *testing.T) {
	g := newEngine(repository.NewMemoryRepo())

	w, out := do(t, g, http.MethodPost, "/api/save_survey", `{"type":"customer","payload":{"id":"c1","name":"Alice"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Survey (customer) saved successfully", out["message"])
	require.Equal(t, "c1", out["id"])

	w, out = do(t, g, http.MethodPost, "/api/save_survey", `{"type":"employee","payload":{"q1":"yes"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	generated, _ := out["id"].(string)
	require.NotEmpty(t, generated)

	w, out = do(t, g, http.MethodGet, "/api/get_surveys", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["success"])
	require.NotContains(t, out, "interviews")

	customer := out["customer"].([]interface{})
	require.Len(t, customer, 1)
	require.Equal(t, "c1", customer[0].(map[string]interface{})["id"])

	employee := out["employee"].([]interface{})
	require.Len(t, employee, 1)
	require.Equal(t, generated, employee[0].(map[string]interface{})["id"])
}

func TestSaveSurveyUnknownTypeListedAsEmployee(t *testing.T) {
	g := newEngine(repository.NewMemoryRepo())

	w, out := do(t, g, http.MethodPost, "/api/save_survey", `{"type":"partner","payload":{"id":"p1"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Survey (partner) saved successfully", out["message"])

	_, out = do(t, g, http.MethodGet, "/api/get_surveys", "")
	require.Empty(t, out["customer"])
	require.Len(t, out["employee"], 1)
}

func TestSaveSurveyInvalid(t *testing.T) {
	g := newEngine(repository.NewMemoryRepo())

	for _, body := range []string{
		`{"payload":{"id":"a"}}`,
		`{"type":"customer"}`,
		`{"type":"customer","payload":null}`,
		`{"type":"customer","payload":[1]}`,
		`{"type":5,"payload":{}}`,
		`{"type":"customer","payload":{"id":42}}`,
	} {
		w, out := do(t, g, http.MethodPost, "/api/save_survey", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		require.Equal(t, "Invalid data format", out["error"], body)
	}
}

func TestGetSurveysEmpty(t *testing.T) {
	g := newEngine(repository.NewMemoryRepo())

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/get_surveys", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"customer":[],"employee":[]}`, w.Body.String())
}

func TestGetSurveysWithInterviews(t *testing.T) {
	g := newEngine(repository.NewMemoryRepo(), service.WithInterviews(true))

	w, _ := do(t, g, http.MethodPost, "/api/save_interview", `{"id":"iv1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	_, out := do(t, g, http.MethodGet, "/api/get_surveys", "")
	require.Len(t, out["interviews"], 1)
}

// brokenRepo fails every operation.
type brokenRepo struct{ repository.MemoryRepo }

var errBroken = errors.New("permission denied")

func (b *brokenRepo) PutInterview(context.Context, string, record.Record) error { return errBroken }
func (b *brokenRepo) PutSurvey(context.Context, string, string, record.Record) error {
	return errBroken
}
func (b *brokenRepo) ListSurveys(context.Context) ([]record.StoredSurvey, error) {
	return nil, errBroken
}

func TestStorageErrorsAreServerErrors(t *testing.T) {
	g := newEngine(&brokenRepo{})

	w, out := do(t, g, http.MethodPost, "/api/save_interview", `{"id":"a"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "permission denied", out["error"])

	w, out = do(t, g, http.MethodPost, "/api/save_survey", `{"type":"customer","payload":{}}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "permission denied", out["error"])

	w, out = do(t, g, http.MethodGet, "/api/get_surveys", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "permission denied", out["error"])
}
