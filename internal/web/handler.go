package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"skip-selector/internal/catalog"
	"skip-selector/internal/metrics"
	"skip-selector/internal/session"
	"skip-selector/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookie = "skip_session"

type SkipQuery interface {
	Fetch(ctx context.Context) catalog.Result
}

type Handler struct {
	sessions *session.Manager
	query    SkipQuery
	metrics  *metrics.Collector
	logger   *zap.Logger
}

func NewHandler(sessions *session.Manager, query SkipQuery, m *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		query:    query,
		metrics:  m,
		logger:   logger,
	}
}

type pageData struct {
	Title  string
	Screen view.Screen
}

// Index mounts a new screen and serves the skeleton; the page then loads /grid.
// A previous mount from the same browser is torn down.
func (h *Handler) Index(c *gin.Context) {
	if prev, err := c.Cookie(sessionCookie); err == nil && prev != "" {
		if err := h.sessions.Drop(c.Request.Context(), prev); err != nil {
			h.logger.Warn("Failed to drop previous session",
				zap.String("session_id", prev),
				zap.Error(err))
		}
	}

	id := uuid.NewString()
	if _, err := h.sessions.Mount(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to mount session", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	c.HTML(http.StatusOK, "page", pageData{
		Title:  view.Heading,
		Screen: view.Skeleton(),
	})
}

// Grid resolves the mount's fetch once and renders the result.
func (h *Handler) Grid(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if s.Status == catalog.StatusPending {
		res := h.query.Fetch(c.Request.Context())
		if c.Request.Context().Err() != nil {
			// torn down mid-fetch; the outcome is discarded
			return
		}
		resolved, err := h.sessions.Resolve(c.Request.Context(), s.ID, res)
		if err != nil {
			h.logger.Error("Failed to store fetch result",
				zap.String("session_id", s.ID),
				zap.Error(err))
			h.renderError(c, http.StatusInternalServerError)
			return
		}
		s = resolved
	}

	h.renderScreen(c, s)
}

func (h *Handler) Toggle(c *gin.Context) {
	skipID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid skip id")
		return
	}

	sid, ok := h.sessionID(c)
	if !ok {
		return
	}

	s, selected, err := h.sessions.Toggle(c.Request.Context(), sid, skipID)
	if err != nil {
		h.sessionFailed(c, sid, err)
		return
	}
	h.metrics.RecordToggle(selected)

	h.logger.Debug("Skip toggled",
		zap.String("session_id", sid),
		zap.Int64("skip_id", skipID),
		zap.Bool("selected", selected))

	h.renderScreen(c, s)
}

// Continue is a placeholder: it only records the intent.
func (h *Handler) Continue(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	skipID, selected := s.Selection.Selected()
	if !selected {
		c.String(http.StatusConflict, "no skip selected")
		return
	}

	h.metrics.RecordContinue()
	h.logger.Info("Continuing with skip",
		zap.String("session_id", s.ID),
		zap.Int64("skip_id", skipID))
	c.Status(http.StatusNoContent)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sid, ok := h.sessionID(c)
	if !ok {
		return nil, false
	}

	s, err := h.sessions.Get(c.Request.Context(), sid)
	if err != nil {
		h.sessionFailed(c, sid, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) sessionID(c *gin.Context) (string, bool) {
	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		h.renderError(c, http.StatusNotFound)
		return "", false
	}
	return sid, true
}

func (h *Handler) sessionFailed(c *gin.Context, sid string, err error) {
	if errors.Is(err, session.ErrNotFound) {
		h.renderError(c, http.StatusNotFound)
		return
	}
	h.logger.Error("Session storage failed",
		zap.String("session_id", sid),
		zap.Error(err))
	h.renderError(c, http.StatusInternalServerError)
}

func (h *Handler) renderScreen(c *gin.Context, s *session.Session) {
	c.HTML(http.StatusOK, "screen", view.Build(s.Result(), s.Selection))
}

func (h *Handler) renderError(c *gin.Context, code int) {
	c.HTML(code, "screen", view.ErrorScreen())
}
