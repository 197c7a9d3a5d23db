package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/config"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
)

type Handler struct {
	catalog  *catalog.Catalog
	store    *progress.Store
	engine   *practice.Engine
	validate *config.Validator
	logger   *zap.Logger
}

func NewHandler(cat *catalog.Catalog, store *progress.Store, engine *practice.Engine, validate *config.Validator, logger *zap.Logger) *Handler {
	return &Handler{
		catalog:  cat,
		store:    store,
		engine:   engine,
		validate: validate,
		logger:   logger,
	}
}

// ── Progress ────────────────────────────────────────────

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.progressResponse(nil))
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	completed := h.store.Snapshot().Progress
	lessons := h.catalog.Lessons()
	resp := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		resp = append(resp, LessonResponse{Lesson: l, Completed: completed.HasCompleted(l.ID)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.catalog.Lesson(id); !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown lesson: " + id})
		return
	}
	err := h.store.CompleteLesson(r.Context(), id)
	h.writeProgress(w, err)
}

func (h *Handler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.catalog.Flashcard(id); !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown flashcard: " + id})
		return
	}
	var req ReviewFlashcardRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.store.ReviewFlashcard(r.Context(), id, req.Known)
	h.writeProgress(w, err)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req progress.SettingsUpdate
	if !h.decode(w, r, &req) {
		return
	}
	err := h.store.UpdateSettings(r.Context(), req)
	h.writeProgress(w, err)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req progress.ProfileUpdate
	if !h.decode(w, r, &req) {
		return
	}
	err := h.store.UpdateProfile(r.Context(), req)
	h.writeProgress(w, err)
}

// writeProgress reports persistence failures as warnings, not request failures.
func (h *Handler) writeProgress(w http.ResponseWriter, err error) {
	var perr *progress.PersistError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, h.progressResponse(nil))
	case errors.As(err, &perr):
		writeJSON(w, http.StatusOK, h.progressResponse(perr))
	default:
		h.logger.Error("progress update failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to update progress"})
	}
}

func (h *Handler) progressResponse(warning error) ProgressResponse {
	st := h.store.Snapshot()
	resp := ProgressResponse{
		User:            st.User,
		Progress:        st.Progress,
		OverallProgress: h.store.OverallProgress(),
		TotalLessons:    h.store.TotalLessons(),
		Categories:      h.store.CategoryPerformance(),
		SectionScores:   make(map[catalog.Section]*int),
	}
	if est, ok := h.store.EstimatedScore(); ok {
		resp.EstimatedScore = &est
	}
	for _, sec := range catalog.AllSections() {
		if pct, ok := h.store.ScoreBySection(sec); ok {
			resp.SectionScores[sec] = &pct
		} else {
			resp.SectionScores[sec] = nil
		}
	}
	if warning != nil {
		resp.Warning = warning.Error()
	}
	return resp
}

// ── Session ─────────────────────────────────────────────

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.writeSession(w)
}

// StartSession configures and starts a session. A finished session is
// replaced; an unfinished one is left untouched.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req practice.Setup
	if !h.decode(w, r, &req) {
		return
	}
	if h.engine.Phase() == practice.PhaseResults {
		h.engine.Reset()
	}
	h.engine.Configure(req)
	h.engine.Start()
	h.writeSession(w)
}

func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.engine.Abandon()
	h.writeSession(w)
}

func (h *Handler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.engine.SelectAnswer(req.QuestionID, req.Label)
	h.writeSession(w)
}

func (h *Handler) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	var req FlagRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.engine.ToggleFlag(req.QuestionID)
	h.writeSession(w)
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Index != nil {
		h.engine.GoTo(*req.Index)
	} else {
		h.engine.Move(req.Delta)
	}
	h.writeSession(w)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.engine.Next()
	h.writeSession(w)
}

func (h *Handler) EndTest(w http.ResponseWriter, r *http.Request) {
	h.engine.EndTest()
	h.writeSession(w)
}

func (h *Handler) Revisit(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !h.decode(w, r, &req) {
		return
	}
	index := 0
	if req.Index != nil {
		index = *req.Index
	}
	h.engine.Revisit(index)
	h.writeSession(w)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.engine.Submit()
	h.writeSession(w)
}

func (h *Handler) writeSession(w http.ResponseWriter) {
	s := h.engine.Snapshot()
	resp := SessionResponse{
		Session: s,
		Review:  practice.BuildReviewSummary(s),
	}
	if q, ok := h.engine.Current(); ok && s.Phase != practice.PhaseResults {
		view := newQuestionView(q, s)
		resp.Current = &view
	}
	if err := h.engine.LastWarning(); err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads and validates a JSON body. On failure it writes a 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
