package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finops-arcade/internal/api/handlers"
	"finops-arcade/internal/api/middleware"
	"finops-arcade/internal/config"
	"finops-arcade/internal/data"
	"finops-arcade/internal/game"
	"finops-arcade/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Options configure a Server. Catalog and Config default to the embedded
// content and the built-in tuning.
type Options struct {
	Catalog     *data.Catalog
	Config      *config.Config
	SessionTTL  time.Duration
	CORSOrigins []string
	StaticDir   string
}

// Server is the HTTP surface of the arcade with its session stores.
type Server struct {
	router  *gin.Engine
	sweeps  []func(context.Context, time.Duration)
	stores  map[string]func() int
	catalog *data.Catalog
}

func NewServer(opts Options) (*Server, error) {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if opts.Catalog == nil {
		c, err := data.Load("")
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = store.DefaultTTL
	}
	cfg, catalog := opts.Config, opts.Catalog

	bills := store.New[game.BillSession]("bill game", opts.SessionTTL)
	scenarios := store.New[game.Session]("scenario session", opts.SessionTTL)
	savings := store.New[game.SavingsSession]("savings session", opts.SessionTTL)
	orderings := store.New[game.OrderingSession]("ordering session", opts.SessionTTL)
	matchings := store.New[game.MatchingSession]("matching session", opts.SessionTTL)
	maturities := store.New[game.MaturitySession]("maturity session", opts.SessionTTL)

	scenarioHandler, err := handlers.NewScenarioHandler(catalog, scenarios)
	if err != nil {
		return nil, err
	}
	savingsGame, err := game.NewSavingsGame(cfg.Simulation.SavingsSettings(), cfg.Simulation.PersonasOr(catalog.Personas))
	if err != nil {
		return nil, err
	}
	orderingHandler, err := handlers.NewOrderingHandler(catalog.Ordering, orderings)
	if err != nil {
		return nil, err
	}
	matchingGame, err := game.NewMatchingGame(catalog.Matching, cfg.Matching.Points())
	if err != nil {
		return nil, err
	}
	maturityGame, err := game.NewMaturityGame(catalog.Maturity)
	if err != nil {
		return nil, err
	}

	billHandler := handlers.NewBillHandler(catalog, cfg.Bill.Rule(), bills)
	savingsHandler := handlers.NewSavingsHandler(savingsGame, savings)
	matchingHandler := handlers.NewMatchingHandler(matchingGame, matchings)
	maturityHandler := handlers.NewMaturityHandler(maturityGame, maturities)
	contentHandler := handlers.NewContentHandler(catalog)

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	s := &Server{
		router:  router,
		catalog: catalog,
		sweeps:  []func(context.Context, time.Duration){bills.Run, scenarios.Run, savings.Run, orderings.Run, matchings.Run, maturities.Run},
		stores: map[string]func() int{
			"bill":     bills.Len,
			"scenario": scenarios.Len,
			"savings":  savings.Len,
			"ordering": orderings.Len,
			"matching": matchings.Len,
			"maturity": maturities.Len,
		},
	}

	router.GET("/health", s.health)

	api := router.Group("/api/v1")
	{
		api.GET("/bill", billHandler.GetBill)
		api.POST("/validate-categories", billHandler.ValidateCategories)
		api.POST("/validate-optimizations", billHandler.ValidateOptimizations)
		api.GET("/tip", billHandler.GetTip)

		api.POST("/bill-games", billHandler.CreateGame)
		api.GET("/bill-games/:id", billHandler.GetGame)
		api.POST("/bill-games/:id/categories", billHandler.SubmitCategories)
		api.POST("/bill-games/:id/optimizations", billHandler.SubmitOptimizations)
		api.POST("/bill-games/:id/reset", billHandler.ResetGame)

		api.GET("/scenarios", scenarioHandler.ListScenarios)
		api.POST("/scenarios/:scenario/sessions", scenarioHandler.CreateSession)
		api.GET("/scenario-sessions/:id", scenarioHandler.GetSession)
		api.POST("/scenario-sessions/:id/start", scenarioHandler.StartSession)
		api.POST("/scenario-sessions/:id/choice", scenarioHandler.SubmitChoice)
		api.POST("/scenario-sessions/:id/reset", scenarioHandler.ResetSession)
		api.GET("/scenario-sessions/:id/results", scenarioHandler.GetResults)

		api.POST("/savings", savingsHandler.CreateSession)
		api.GET("/savings/:id", savingsHandler.GetSession)
		api.POST("/savings/:id/tick", savingsHandler.Tick)
		api.PUT("/savings/:id/commitment", savingsHandler.SetCommitment)
		api.POST("/savings/:id/lock", savingsHandler.Lock)
		api.GET("/savings/:id/results", savingsHandler.GetResults)
		api.POST("/savings/:id/reset", savingsHandler.Reset)

		api.POST("/ordering", orderingHandler.CreateSession)
		api.GET("/ordering/:id", orderingHandler.GetSession)
		api.POST("/ordering/:id/submit", orderingHandler.Submit)
		api.POST("/ordering/:id/reset", orderingHandler.Reset)

		api.POST("/matching", matchingHandler.CreateSession)
		api.GET("/matching/:id", matchingHandler.GetSession)
		api.POST("/matching/:id/start", matchingHandler.Start)
		api.POST("/matching/:id/match", matchingHandler.Match)
		api.POST("/matching/:id/mission", matchingHandler.AnswerMission)
		api.POST("/matching/:id/mission/skip", matchingHandler.SkipMission)
		api.GET("/matching/:id/results", matchingHandler.GetResults)
		api.POST("/matching/:id/reset", matchingHandler.Reset)

		api.POST("/maturity", maturityHandler.CreateSession)
		api.GET("/maturity/:id", maturityHandler.GetSession)
		api.POST("/maturity/:id/analyze", maturityHandler.Analyze)
		api.POST("/maturity/:id/next", maturityHandler.Next)
		api.POST("/maturity/:id/prev", maturityHandler.Prev)
		api.POST("/maturity/:id/reset", maturityHandler.Reset)

		api.GET("/flipcards", contentHandler.ListFlipcards)
		api.GET("/pairs", contentHandler.ListPairs)
		api.POST("/pairs/check", contentHandler.CheckPair)
	}

	s.serveStatic(opts.StaticDir)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sweep evicts expired sessions from every store every interval until ctx is
// cancelled.
func (s *Server) Sweep(ctx context.Context, interval time.Duration) {
	for _, run := range s.sweeps {
		go run(ctx, interval)
	}
	<-ctx.Done()
}

func (s *Server) health(c *gin.Context) {
	sessions := make(map[string]int, len(s.stores))
	for name, n := range s.stores {
		sessions[name] = n()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"scenarios": len(s.catalog.ScenarioIDs()),
		"sessions":  sessions,
	})
}

// serveStatic serves a built single-page app from dir when it exists. Unknown
// paths under /api stay JSON 404s.
func (s *Server) serveStatic(dir string) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Printf("Static directory %s not found, skipping static file serving", dir)
		return
	}
	s.router.Static("/assets", filepath.Join(dir, "assets"))
	s.router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	index := filepath.Join(dir, "index.html")
	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	})
	log.Printf("Serving static files from %s", dir)
}
