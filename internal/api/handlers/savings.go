package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/game"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
)

// SavingsHandler serves the savings-plan commitment game.
type SavingsHandler struct {
	game     *game.SavingsGame
	sessions *store.Store[game.SavingsSession]
}

func NewSavingsHandler(g *game.SavingsGame, sessions *store.Store[game.SavingsSession]) *SavingsHandler {
	return &SavingsHandler{game: g, sessions: sessions}
}

func (h *SavingsHandler) respond(c *gin.Context, status int, s game.SavingsSession) {
	c.JSON(status, models.SavingsResponse{Session: s, Projection: h.game.Projection(s)})
}

// CreateSession handles POST /api/v1/savings
func (h *SavingsHandler) CreateSession(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	seed, err := seedFrom(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s := h.sessions.Create(func(id string) game.SavingsSession { return h.game.NewSession(id, seed) })
	h.respond(c, http.StatusCreated, s)
}

// GetSession handles GET /api/v1/savings/:id
func (h *SavingsHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Tick handles POST /api/v1/savings/:id/tick
func (h *SavingsHandler) Tick(c *gin.Context) {
	var tick game.Tick
	s, err := h.sessions.Update(c.Param("id"), func(s game.SavingsSession) (game.SavingsSession, error) {
		next, t, err := h.game.Tick(s)
		tick = t
		return next, err
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TickResponse{Session: s, Tick: tick})
}

// SetCommitment handles PUT /api/v1/savings/:id/commitment
func (h *SavingsHandler) SetCommitment(c *gin.Context) {
	var req models.CommitmentRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.SavingsSession) (game.SavingsSession, error) {
		return h.game.SetCommitment(s, *req.Commitment)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Lock handles POST /api/v1/savings/:id/lock. Locking and filling the
// horizon happen inside one store update.
func (h *SavingsHandler) Lock(c *gin.Context) {
	s, err := h.sessions.Update(c.Param("id"), h.game.Lock)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// GetResults handles GET /api/v1/savings/:id/results
func (h *SavingsHandler) GetResults(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	res, err := h.game.Results(s)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reset handles POST /api/v1/savings/:id/reset
func (h *SavingsHandler) Reset(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	seed, err := seedFrom(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.SavingsSession) (game.SavingsSession, error) {
		return h.game.Reset(s, seed), nil
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}
