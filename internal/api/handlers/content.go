package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/data"
	"finops-arcade/internal/game"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves the stateless decks: flipcards and persona pairs.
type ContentHandler struct {
	flipcards []model.Flipcard
	pairs     []model.ResponsibilityPair
	truth     map[string]string
}

func NewContentHandler(catalog *data.Catalog) *ContentHandler {
	truth := make(map[string]string, len(catalog.Pairs))
	for _, p := range catalog.Pairs {
		truth[p.Persona] = p.Responsibility
	}
	return &ContentHandler{flipcards: catalog.Flipcards, pairs: catalog.Pairs, truth: truth}
}

// ListFlipcards handles GET /api/v1/flipcards. Every call deals a fresh shuffle.
func (h *ContentHandler) ListFlipcards(c *gin.Context) {
	src, err := newSource(models.SeedRequest{})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, game.Deal(h.flipcards, src))
}

// ListPairs handles GET /api/v1/pairs
func (h *ContentHandler) ListPairs(c *gin.Context) {
	c.JSON(http.StatusOK, h.pairs)
}

// CheckPair handles POST /api/v1/pairs/check
func (h *ContentHandler) CheckPair(c *gin.Context) {
	var req models.PairCheckRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := grading.ValidateMatch("persona", req.Persona, req.Responsibility, h.truth)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	resp := models.PairCheckResponse{Result: "correct"}
	if !res.IsCorrect {
		resp.Result = "incorrect"
		resp.CorrectAnswer = res.CorrectAnswer
	}
	c.JSON(http.StatusOK, resp)
}
