package handlers

import (
	"errors"
	"io"

	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/api/models"
	"finops-arcade/internal/random"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON decodes the body into req; an empty body leaves req as is.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		middleware.BadRequest(c, err)
		return false
	}
	return true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.BadRequest(c, err)
		return false
	}
	return true
}

// seedFrom returns the requested seed or a fresh random one.
func seedFrom(req models.SeedRequest) (int64, error) {
	if req.Seed != nil {
		return *req.Seed, nil
	}
	return random.NewSeed()
}

// newSource is a stream for one request or one new session.
func newSource(req models.SeedRequest) (*random.Stream, error) {
	seed, err := seedFrom(req)
	if err != nil {
		return nil, err
	}
	st := random.NewStream(seed)
	return &st, nil
}
