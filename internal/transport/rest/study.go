package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler"
)

// schedulerService defines the minimal interface needed by StudyHandler.
type schedulerService interface {
	SelectDue(ctx context.Context, input scheduler.SelectDueInput) ([]domain.Card, error)
	SubmitRating(ctx context.Context, input scheduler.SubmitRatingInput) (*domain.Card, error)
	SkipAllToFsrs(ctx context.Context, input scheduler.SkipAheadInput) (scheduler.SkipAheadResult, error)
	PreviewAll(ctx context.Context, input scheduler.PreviewInput) ([]domain.DuePreview, error)
	QueueStats(ctx context.Context, input scheduler.QueueStatsInput) (domain.QueueStats, error)
	CardHistory(ctx context.Context, input scheduler.CardHistoryInput) ([]domain.ReviewEvent, int, error)
}

// StudyHandler serves the study scheduling REST endpoints.
type StudyHandler struct {
	svc schedulerService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc schedulerService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

type cardResponse struct {
	ID                 string     `json:"id"`
	SentenceID         string     `json:"sentenceId"`
	Language           string     `json:"language"`
	Phase              string     `json:"phase"`
	InitialReviewCount int        `json:"initialReviewCount"`
	State              string     `json:"state"`
	Stability          float64    `json:"stability"`
	Difficulty         float64    `json:"difficulty"`
	ScheduledDays      int        `json:"scheduledDays"`
	Reps               int        `json:"reps"`
	Lapses             int        `json:"lapses"`
	LastReview         *time.Time `json:"lastReview,omitempty"`
	DueAt              time.Time  `json:"dueAt"`
}

type rateRequest struct {
	CardID         string  `json:"cardId"`
	Rating         *string `json:"rating,omitempty"`
	ElapsedSeconds int     `json:"elapsedSeconds"`
}

type skipAheadRequest struct {
	Language string `json:"language"`
}

type previewResponse struct {
	Rating        string    `json:"rating"`
	DueAt         time.Time `json:"dueAt"`
	Interval      string    `json:"interval"`
	WouldGraduate bool      `json:"wouldGraduate"`
}

type historyEventResponse struct {
	ID             string    `json:"id"`
	Rating         string    `json:"rating"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
	PrevPhase      string    `json:"prevPhase"`
	ReviewedAt     time.Time `json:"reviewedAt"`
}

// Queue handles GET /v1/study/queue?language=de&limit=20.
func (h *StudyHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	cards, err := h.svc.SelectDue(r.Context(), scheduler.SelectDueInput{
		Language: r.URL.Query().Get("language"),
		Limit:    limit,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, toCardResponse(&c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": resp})
}

// Rate handles POST /v1/study/rate.
func (h *StudyHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	input := scheduler.SubmitRatingInput{
		CardID:         cardID,
		ElapsedSeconds: req.ElapsedSeconds,
		Now:            time.Now().UTC(),
	}
	if req.Rating != nil {
		rating, err := domain.ParseRating(*req.Rating)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid rating")
			return
		}
		input.Rating = &rating
	}

	card, err := h.svc.SubmitRating(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"card": toCardResponse(card)})
}

// SkipAhead handles POST /v1/study/skip-ahead.
func (h *StudyHandler) SkipAhead(w http.ResponseWriter, r *http.Request) {
	var req skipAheadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SkipAllToFsrs(r.Context(), scheduler.SkipAheadInput{
		Language: req.Language,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"graduatedCount": result.GraduatedCount})
}

// Preview handles GET /v1/study/preview/{cardID}.
func (h *StudyHandler) Preview(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(r.PathValue("cardID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	previews, err := h.svc.PreviewAll(r.Context(), scheduler.PreviewInput{
		CardID: cardID,
		Now:    time.Now().UTC(),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]previewResponse, 0, len(previews))
	for _, p := range previews {
		resp = append(resp, previewResponse{
			Rating:        p.Rating.String(),
			DueAt:         p.DueAt,
			Interval:      p.Interval,
			WouldGraduate: p.WouldGraduate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"previews": resp})
}

// Stats handles GET /v1/study/stats?language=de.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.QueueStats(r.Context(), scheduler.QueueStatsInput{
		Language: r.URL.Query().Get("language"),
		Now:      time.Now().UTC(),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dueCount":        stats.DueCount,
		"ungraduatedLeft": stats.UngraduatedLeft,
		"phaseCounts": map[string]int{
			"initialLearning": stats.PhaseCounts.InitialLearning,
			"new":             stats.PhaseCounts.New,
			"learning":        stats.PhaseCounts.Learning,
			"review":          stats.PhaseCounts.Review,
			"relearning":      stats.PhaseCounts.Relearning,
			"total":           stats.PhaseCounts.Total,
		},
	})
}

// History handles GET /v1/study/cards/{cardID}/history?limit=50&offset=0.
func (h *StudyHandler) History(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(r.PathValue("cardID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	limit, offset := 0, 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
	}

	events, total, err := h.svc.CardHistory(r.Context(), scheduler.CardHistoryInput{
		CardID: cardID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]historyEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, historyEventResponse{
			ID:             e.ID.String(),
			Rating:         e.Rating.String(),
			ElapsedSeconds: e.ElapsedSeconds,
			PrevPhase:      e.PrevPhase.String(),
			ReviewedAt:     e.ReviewedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": resp, "total": total})
}

func (h *StudyHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrMissingRating):
		writeError(w, http.StatusBadRequest, "rating is required for review-phase cards")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidPhase):
		writeError(w, http.StatusConflict, "invalid phase transition")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func toCardResponse(c *domain.Card) cardResponse {
	return cardResponse{
		ID:                 c.ID.String(),
		SentenceID:         c.SentenceID.String(),
		Language:           c.Language,
		Phase:              c.Phase.String(),
		InitialReviewCount: c.InitialReviewCount,
		State:              c.State.String(),
		Stability:          c.Stability,
		Difficulty:         c.Difficulty,
		ScheduledDays:      c.ScheduledDays,
		Reps:               c.Reps,
		Lapses:             c.Lapses,
		LastReview:         c.LastReview,
		DueAt:              c.DueAt,
	}
}
