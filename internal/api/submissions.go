package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultSubmissionLimit = 50
	maxSubmissionLimit     = 500
)

// SubmissionLister reads the submission inbox; *store.Store implements it.
type SubmissionLister interface {
	ListSubmissions(ctx context.Context, kind string, limit int) ([]models.Submission, error)
}

// SubmissionView is an inbox entry with its payload inlined
type SubmissionView struct {
	ID        int64           `json:"id"`
	EventID   string          `json:"event_id"`
	Kind      string          `json:"kind"`
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// listSubmissions handles GET /submissions?kind=contact|order&limit=N
func (h *Handler) listSubmissions(c *gin.Context) {
	if h.submissions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Submission inbox is not configured"})
		return
	}

	kind := c.DefaultQuery("kind", models.SubmissionKindContact)
	if kind != models.SubmissionKindContact && kind != models.SubmissionKindOrder {
		badRequest(c, "Invalid submission kind", nil)
		return
	}

	limit := defaultSubmissionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "Invalid limit", err)
			return
		}
		limit = n
	}
	if limit > maxSubmissionLimit {
		limit = maxSubmissionLimit
	}

	subs, err := h.submissions.ListSubmissions(c.Request.Context(), kind, limit)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}

	views := make([]SubmissionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, SubmissionView{
			ID:        s.ID,
			EventID:   s.EventID,
			Kind:      s.Kind,
			SessionID: s.SessionID,
			Payload:   json.RawMessage(s.Payload),
			CreatedAt: s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"submissions": views})
}
