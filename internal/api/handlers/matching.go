package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/game"
	"finops-arcade/internal/model"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
)

// MatchingHandler serves the problem/persona matching game.
type MatchingHandler struct {
	game     *game.MatchingGame
	sessions *store.Store[game.MatchingSession]
}

func NewMatchingHandler(g *game.MatchingGame, sessions *store.Store[game.MatchingSession]) *MatchingHandler {
	return &MatchingHandler{game: g, sessions: sessions}
}

// mission is the open mission, if any.
func (h *MatchingHandler) mission(s game.MatchingSession) *model.Mission {
	m, err := h.game.CurrentMission(s)
	if err != nil {
		return nil
	}
	return &m
}

func (h *MatchingHandler) respond(c *gin.Context, status int, s game.MatchingSession) {
	content := h.game.Content()
	problems := make([]model.Problem, 0, len(s.Order))
	for _, id := range s.Order {
		for _, p := range content.Problems {
			if p.ID == id {
				problems = append(problems, p)
			}
		}
	}
	c.JSON(status, models.MatchingResponse{
		Session:  s,
		Problems: problems,
		Roles:    content.Roles,
		MaxScore: h.game.MaxScore(),
		Mission:  h.mission(s),
	})
}

// CreateSession handles POST /api/v1/matching
func (h *MatchingHandler) CreateSession(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	src, err := newSource(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s := h.sessions.Create(func(id string) game.MatchingSession { return h.game.NewSession(id, src) })
	h.respond(c, http.StatusCreated, s)
}

// GetSession handles GET /api/v1/matching/:id
func (h *MatchingHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Start handles POST /api/v1/matching/:id/start
func (h *MatchingHandler) Start(c *gin.Context) {
	s, err := h.sessions.Update(c.Param("id"), h.game.Start)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// Match handles POST /api/v1/matching/:id/match
func (h *MatchingHandler) Match(c *gin.Context) {
	var req models.MatchRequest
	if !bindJSON(c, &req) {
		return
	}
	var resp models.MatchResponse
	s, err := h.sessions.Update(c.Param("id"), func(s game.MatchingSession) (game.MatchingSession, error) {
		next, res, err := h.game.Match(s, *req.ProblemID, req.Persona)
		resp.Result = res
		return next, err
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	resp.Session = s
	resp.Mission = h.mission(s)
	c.JSON(http.StatusOK, resp)
}

// AnswerMission handles POST /api/v1/matching/:id/mission
func (h *MatchingHandler) AnswerMission(c *gin.Context) {
	var req models.MissionRequest
	if !bindJSON(c, &req) {
		return
	}
	var result game.MissionResult
	s, err := h.sessions.Update(c.Param("id"), func(s game.MatchingSession) (game.MatchingSession, error) {
		next, res, err := h.game.AnswerMission(s, req.OptionID)
		result = res
		return next, err
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MissionResponse{Session: s, Result: result})
}

// SkipMission handles POST /api/v1/matching/:id/mission/skip
func (h *MatchingHandler) SkipMission(c *gin.Context) {
	s, err := h.sessions.Update(c.Param("id"), h.game.SkipMission)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// GetResults handles GET /api/v1/matching/:id/results
func (h *MatchingHandler) GetResults(c *gin.Context) {
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

// Reset handles POST /api/v1/matching/:id/reset
func (h *MatchingHandler) Reset(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	src, err := newSource(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.MatchingSession) (game.MatchingSession, error) {
		return h.game.Reset(s, src), nil
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}
