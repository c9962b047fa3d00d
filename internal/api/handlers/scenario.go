package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/data"
	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/game"
	"finops-arcade/internal/model"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler serves the staged scenario quizzes.
type ScenarioHandler struct {
	ids      []string
	machines map[string]*game.Machine
	sessions *store.Store[game.Session]
}

// NewScenarioHandler builds one state machine per catalog scenario.
func NewScenarioHandler(catalog *data.Catalog, sessions *store.Store[game.Session]) (*ScenarioHandler, error) {
	h := &ScenarioHandler{
		ids:      catalog.ScenarioIDs(),
		machines: map[string]*game.Machine{},
		sessions: sessions,
	}
	for _, id := range h.ids {
		sc, err := catalog.Scenario(id)
		if err != nil {
			return nil, err
		}
		m, err := game.NewMachine(sc)
		if err != nil {
			return nil, err
		}
		h.machines[id] = m
	}
	return h, nil
}

func (h *ScenarioHandler) machine(id string) (*game.Machine, error) {
	m, ok := h.machines[id]
	if !ok {
		return nil, apperrors.NotFound("scenario", id)
	}
	return m, nil
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	out := make([]models.ScenarioInfo, 0, len(h.ids))
	for _, id := range h.ids {
		sc := h.machines[id].Scenario()
		out = append(out, models.ScenarioInfo{
			ID:     sc.ID,
			Title:  sc.Title,
			Intro:  sc.Intro,
			Stages: len(sc.Stages),
		})
	}
	c.JSON(http.StatusOK, out)
}

// CreateSession handles POST /api/v1/scenarios/:scenario/sessions
func (h *ScenarioHandler) CreateSession(c *gin.Context) {
	m, err := h.machine(c.Param("scenario"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	src, err := newSource(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s := h.sessions.Create(func(id string) game.Session { return m.NewSession(id, src) })
	c.JSON(http.StatusCreated, h.view(m, s))
}

// view attaches the rendered stage when the session is on one.
func (h *ScenarioHandler) view(m *game.Machine, s game.Session) models.ScenarioSessionResponse {
	resp := models.ScenarioSessionResponse{Session: s}
	if v, err := m.View(s); err == nil {
		resp.Stage = &v
		resp.Label = v.StageLabel()
	}
	return resp
}

// update applies fn to the session under the store lock, resolving the
// session's machine first.
func (h *ScenarioHandler) update(id string, fn func(*game.Machine, game.Session) (game.Session, error)) (*game.Machine, game.Session, error) {
	var m *game.Machine
	s, err := h.sessions.Update(id, func(s game.Session) (game.Session, error) {
		var err error
		if m, err = h.machine(s.Scenario); err != nil {
			return s, err
		}
		return fn(m, s)
	})
	return m, s, err
}

// GetSession handles GET /api/v1/scenario-sessions/:id
func (h *ScenarioHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	m, err := h.machine(s.Scenario)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(m, s))
}

// StartSession handles POST /api/v1/scenario-sessions/:id/start
func (h *ScenarioHandler) StartSession(c *gin.Context) {
	m, s, err := h.update(c.Param("id"), func(m *game.Machine, s game.Session) (game.Session, error) {
		return m.Begin(s)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(m, s))
}

// SubmitChoice handles POST /api/v1/scenario-sessions/:id/choice
func (h *ScenarioHandler) SubmitChoice(c *gin.Context) {
	var req models.ChoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	m, s, err := h.update(c.Param("id"), func(m *game.Machine, s game.Session) (game.Session, error) {
		return m.Advance(s, model.StageID(req.StageID), *req.ChoiceIndex)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	resp := models.ChoiceResponse{
		Feedback: s.Feedback,
		NewStage: s.Stage,
		Score:    s.Score,
		Badges:   s.Badges,
		Finished: s.Finished(),
	}
	if v, err := m.View(s); err == nil {
		resp.Stage = &v
	}
	c.JSON(http.StatusOK, resp)
}

// ResetSession handles POST /api/v1/scenario-sessions/:id/reset
func (h *ScenarioHandler) ResetSession(c *gin.Context) {
	var req models.SeedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	src, err := newSource(req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	m, s, err := h.update(c.Param("id"), func(m *game.Machine, s game.Session) (game.Session, error) {
		return m.Reset(s, src), nil
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(m, s))
}

// GetResults handles GET /api/v1/scenario-sessions/:id/results
func (h *ScenarioHandler) GetResults(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	m, err := h.machine(s.Scenario)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	res, err := m.Results(s)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
