package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/data"
	"finops-arcade/internal/game"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
)

// OrderingHandler serves the workflow-ordering puzzle.
type OrderingHandler struct {
	deck     data.Ordering
	game     *game.OrderingGame
	sessions *store.Store[game.OrderingSession]
}

func NewOrderingHandler(deck data.Ordering, sessions *store.Store[game.OrderingSession]) (*OrderingHandler, error) {
	g, err := game.NewOrderingGame(deck.Steps)
	if err != nil {
		return nil, err
	}
	return &OrderingHandler{deck: deck, game: g, sessions: sessions}, nil
}

func (h *OrderingHandler) respond(c *gin.Context, status int, s game.OrderingSession) {
	c.JSON(status, models.OrderingResponse{
		Title:    h.deck.Title,
		Scenario: h.deck.Scenario,
		Session:  s,
		Cards:    h.game.Cards(s),
		Results:  s.Results,
		Correct:  grading.CountCorrect(s.Results),
	})
}

// CreateSession handles POST /api/v1/ordering
func (h *OrderingHandler) CreateSession(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	src, err := newSource(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s := h.sessions.Create(func(id string) game.OrderingSession { return h.game.NewSession(id, src) })
	h.respond(c, http.StatusCreated, s)
}

// GetSession handles GET /api/v1/ordering/:id
func (h *OrderingHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Submit handles POST /api/v1/ordering/:id/submit
func (h *OrderingHandler) Submit(c *gin.Context) {
	var req models.OrderingRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.OrderingSession) (game.OrderingSession, error) {
		return h.game.Submit(s, req.Order)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Reset handles POST /api/v1/ordering/:id/reset
func (h *OrderingHandler) Reset(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	src, err := newSource(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.OrderingSession) (game.OrderingSession, error) {
		return h.game.Reset(s, src), nil
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}
