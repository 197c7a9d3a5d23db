package server_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/clock"
	"github.com/actualize/actualize/internal/config"
	mock_progress "github.com/actualize/actualize/internal/mocks/progress"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/server"
)

type harness struct {
	router  http.Handler
	catalog *catalog.Catalog
	repo    *mock_progress.MockRepo
	sched   *clock.ManualScheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_progress.NewMockRepo(ctrl)

	cat, err := catalog.Default()
	require.NoError(t, err)
	validate, err := config.NewValidator()
	require.NoError(t, err)

	store := progress.NewStore(repo)
	sched := clock.NewManualScheduler()
	engine := practice.NewEngine(cat, store, practice.WithScheduler(sched))

	srv := server.New(cat, store, engine, validate, []string{"http://localhost:5173"}, nil)
	return &harness{router: srv.Router(), catalog: cat, repo: repo, sched: sched}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type sessionBody struct {
	Session struct {
		Setup           practice.Setup    `json:"setup"`
		Phase           string            `json:"phase"`
		Deck            []string          `json:"deck"`
		Index           int               `json:"index"`
		Answers         map[string]string `json:"answers"`
		Flagged         map[string]bool   `json:"flagged"`
		ShowingFeedback bool              `json:"showingFeedback"`
		Empty           bool              `json:"empty"`
		Result          *practice.Result  `json:"result"`
	} `json:"session"`
	Current *server.QuestionView   `json:"current"`
	Review  practice.ReviewSummary `json:"review"`
	Warning string                 `json:"warning"`
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestGetProgress_Defaults(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "GET", "/api/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[server.ProgressResponse](t, rec)
	assert.Equal(t, "Student", body.User.Name)
	assert.Equal(t, 0, body.OverallProgress)
	assert.Nil(t, body.EstimatedScore)
	assert.Contains(t, body.SectionScores, catalog.SectionMath)
	assert.Nil(t, body.SectionScores[catalog.SectionMath])
}

func TestCompleteLesson(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	rec := h.do(t, "POST", "/api/lessons/w1d1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[server.ProgressResponse](t, rec)
	assert.Equal(t, []string{"w1d1"}, body.Progress.CompletedLessons)
	assert.Equal(t, 2, body.OverallProgress)
	assert.Empty(t, body.Warning)
}

func TestCompleteLesson_Unknown(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "POST", "/api/lessons/nope/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteLesson_SaveFailureIsWarning(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("database is locked"))

	rec := h.do(t, "POST", "/api/lessons/w1d1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[server.ProgressResponse](t, rec)
	assert.Equal(t, []string{"w1d1"}, body.Progress.CompletedLessons)
	assert.Contains(t, body.Warning, "database is locked")
}

func TestReviewFlashcard(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	rec := h.do(t, "POST", "/api/flashcards/fc-eng-1/review", map[string]bool{"known": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[server.ProgressResponse](t, rec).Warning)
}

func TestReviewFlashcard_Unknown(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "POST", "/api/flashcards/nope/review", map[string]bool{"known": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile_Validation(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "PATCH", "/api/profile", map[string]any{"targetScore": 40})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	rec = h.do(t, "PATCH", "/api/profile", map[string]any{"targetScore": 30})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[server.ProgressResponse](t, rec)
	assert.Equal(t, 30, body.User.TargetScore)
}

func TestUpdateSettings(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	rec := h.do(t, "PATCH", "/api/settings", map[string]any{"extendedTime": true})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[server.ProgressResponse](t, rec)
	assert.True(t, body.User.Settings.ExtendedTime)
	assert.False(t, body.User.Settings.DarkMode)
}

func TestInvalidBody(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest("PATCH", "/api/settings", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudySession_Flow(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	rec := h.do(t, "POST", "/api/session", practice.Setup{
		Mode: practice.ModeStudy, Section: catalog.SectionMath, Category: "all",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[sessionBody](t, rec)
	require.Equal(t, "active", body.Session.Phase)
	require.NotNil(t, body.Current)
	assert.Empty(t, body.Current.Correct, "answer hidden before feedback")

	id := body.Current.ID
	rec = h.do(t, "POST", "/api/session/answer", map[string]string{"questionId": id, "label": "A"})
	body = decode[sessionBody](t, rec)
	assert.True(t, body.Session.ShowingFeedback)
	require.NotNil(t, body.Current)
	assert.NotEmpty(t, body.Current.Correct)
	assert.Equal(t, "A", body.Current.Selected)

	rec = h.do(t, "POST", "/api/session/submit", nil)
	body = decode[sessionBody](t, rec)
	assert.Equal(t, "results", body.Session.Phase)
	require.NotNil(t, body.Session.Result)
	assert.Nil(t, body.Current)
}

func TestSimulateSession_ReviewAndSubmit(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	rec := h.do(t, "POST", "/api/session", practice.Setup{
		Mode: practice.ModeSimulate, Variant: catalog.VariantEnhanced, Section: catalog.SectionScience,
	})
	body := decode[sessionBody](t, rec)
	require.Equal(t, "active", body.Session.Phase)
	first := body.Current.ID

	rec = h.do(t, "POST", "/api/session/flag", map[string]string{"questionId": first})
	body = decode[sessionBody](t, rec)
	assert.True(t, body.Session.Flagged[first])

	rec = h.do(t, "POST", "/api/session/answer", map[string]string{"questionId": first, "label": "B"})
	body = decode[sessionBody](t, rec)
	assert.False(t, body.Session.ShowingFeedback)
	assert.Empty(t, body.Current.Correct)

	rec = h.do(t, "POST", "/api/session/move", map[string]int{"delta": 1})
	body = decode[sessionBody](t, rec)
	assert.Equal(t, 1, body.Session.Index)

	rec = h.do(t, "POST", "/api/session/end", nil)
	body = decode[sessionBody](t, rec)
	assert.Equal(t, "review", body.Session.Phase)
	assert.Equal(t, []string{first}, body.Review.Answered)
	assert.Equal(t, []string{first}, body.Review.Flagged)

	rec = h.do(t, "POST", "/api/session/revisit", map[string]int{"index": 0})
	body = decode[sessionBody](t, rec)
	assert.Equal(t, "active", body.Session.Phase)
	assert.Equal(t, 0, body.Session.Index)

	rec = h.do(t, "POST", "/api/session/submit", nil)
	body = decode[sessionBody](t, rec)
	assert.Equal(t, "results", body.Session.Phase)

	// A new start replaces a finished session.
	rec = h.do(t, "POST", "/api/session", practice.Setup{
		Mode: practice.ModeStudy, Section: catalog.SectionEnglish, Category: "all",
	})
	body = decode[sessionBody](t, rec)
	assert.Equal(t, "active", body.Session.Phase)
}

func TestSimulateSession_CoversWholeSection(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "POST", "/api/session", practice.Setup{
		Mode: practice.ModeSimulate, Variant: catalog.VariantEnhanced,
		Section: catalog.SectionMath, Category: "Geometry",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[sessionBody](t, rec)
	assert.Equal(t, catalog.CategoryAll, body.Session.Setup.Category)
	assert.Len(t, body.Session.Deck, h.catalog.CountQuestions(catalog.SectionMath, catalog.CategoryAll))
}

func TestAbandonSession(t *testing.T) {
	h := newHarness(t)
	h.do(t, "POST", "/api/session", practice.Setup{
		Mode: practice.ModeStudy, Section: catalog.SectionMath, Category: "all",
	})
	rec := h.do(t, "DELETE", "/api/session", nil)
	body := decode[sessionBody](t, rec)
	assert.Equal(t, "setup", body.Session.Phase)
	assert.Empty(t, body.Session.Deck)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest("OPTIONS", "/api/progress", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
