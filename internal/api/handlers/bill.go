package handlers

import (
	"net/http"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/billing"
	"finops-arcade/internal/data"
	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/game"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
)

// BillHandler serves the cloud bill game: the stateless grading endpoints
// and the session-backed categorize/optimize flow.
type BillHandler struct {
	catalog  *data.Catalog
	rule     billing.OptimizationRule
	game     *game.BillGame
	sessions *store.Store[game.BillSession]
}

func NewBillHandler(catalog *data.Catalog, rule billing.OptimizationRule, sessions *store.Store[game.BillSession]) *BillHandler {
	return &BillHandler{
		catalog:  catalog,
		rule:     rule,
		game:     game.NewBillGame(rule),
		sessions: sessions,
	}
}

// GetBill handles GET /api/v1/bill?id=
func (h *BillHandler) GetBill(c *gin.Context) {
	bill, err := h.pickBill(c.Query("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill.Sanitize())
}

func (h *BillHandler) pickBill(id string) (model.Bill, error) {
	if id != "" {
		return h.catalog.Bill(id)
	}
	src, err := newSource(models.SeedRequest{})
	if err != nil {
		return model.Bill{}, err
	}
	return h.catalog.RandomBill(src)
}

// ValidateCategories handles POST /api/v1/validate-categories
func (h *BillHandler) ValidateCategories(c *gin.Context) {
	var req models.CategoriesRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.BillID == "" {
		middleware.WriteError(c, apperrors.New(apperrors.CodeInvalidRequest, "bill_id is required"))
		return
	}
	bill, err := h.catalog.Bill(req.BillID)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	results := grading.ValidateCategories(bill, req.Categories)
	c.JSON(http.StatusOK, models.CategoriesResponse{Results: results, AllCorrect: grading.AllCorrect(results)})
}

// ValidateOptimizations handles POST /api/v1/validate-optimizations
func (h *BillHandler) ValidateOptimizations(c *gin.Context) {
	var req models.OptimizationsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.BillID == "" {
		middleware.WriteError(c, apperrors.New(apperrors.CodeInvalidRequest, "bill_id is required"))
		return
	}
	bill, err := h.catalog.Bill(req.BillID)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, grading.ValidateOptimizations(bill, req.Optimizations, h.rule))
}

// GetTip handles GET /api/v1/tip
func (h *BillHandler) GetTip(c *gin.Context) {
	src, err := newSource(models.SeedRequest{})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TipResponse{Tip: h.catalog.Tip(src)})
}

// CreateGame handles POST /api/v1/bill-games
func (h *BillHandler) CreateGame(c *gin.Context) {
	var req models.CreateBillGameRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	bill, err := h.pickBill(req.BillID)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s := h.sessions.Create(func(id string) game.BillSession { return h.game.NewSession(id, bill) })
	c.JSON(http.StatusCreated, models.BillGameResponse{Session: s, Bill: bill.Sanitize()})
}

// GetGame handles GET /api/v1/bill-games/:id
func (h *BillHandler) GetGame(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *BillHandler) respond(c *gin.Context, s game.BillSession) {
	bill, err := h.catalog.Bill(s.BillID)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BillGameResponse{Session: s, Bill: bill.Sanitize()})
}

// sessionBill resolves the bill a submission targets. A bill_id in the body
// must match the session's bill; the game rejects a mismatch.
func (h *BillHandler) sessionBill(s game.BillSession, requested string) (model.Bill, error) {
	if requested == "" {
		requested = s.BillID
	}
	return h.catalog.Bill(requested)
}

// SubmitCategories handles POST /api/v1/bill-games/:id/categories
func (h *BillHandler) SubmitCategories(c *gin.Context) {
	var req models.CategoriesRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.BillSession) (game.BillSession, error) {
		bill, err := h.sessionBill(s, req.BillID)
		if err != nil {
			return s, err
		}
		return h.game.SubmitCategories(s, bill, req.Categories)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, s)
}

// SubmitOptimizations handles POST /api/v1/bill-games/:id/optimizations
func (h *BillHandler) SubmitOptimizations(c *gin.Context) {
	var req models.OptimizationsRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.BillSession) (game.BillSession, error) {
		bill, err := h.sessionBill(s, req.BillID)
		if err != nil {
			return s, err
		}
		return h.game.SubmitOptimizations(s, bill, req.Optimizations)
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, s)
}

// ResetGame handles POST /api/v1/bill-games/:id/reset. The game restarts on
// a freshly drawn bill unless the body pins one.
func (h *BillHandler) ResetGame(c *gin.Context) {
	var req models.CreateBillGameRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	bill, err := h.pickBill(req.BillID)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	s, err := h.sessions.Update(c.Param("id"), func(s game.BillSession) (game.BillSession, error) {
		return h.game.Reset(s, bill), nil
	})
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	h.respond(c, s)
}
