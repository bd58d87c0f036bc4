package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"parkflow/internal/handler/api"
	"parkflow/internal/handler/middleware"
	"parkflow/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, gateHandler *api.GateHandler, paymentHandler *api.PaymentHandler, sessionHandler *api.SessionHandler, feeHandler *api.FeeHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, gateHandler, paymentHandler, sessionHandler, feeHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, gateHandler *api.GateHandler, paymentHandler *api.PaymentHandler, sessionHandler *api.SessionHandler, feeHandler *api.FeeHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		gate := apiGroup.Group("/gate")
		{
			addRoutes(gate, []route{
				{Method: http.MethodPost, Path: "/entries", Handler: gateHandler.ProcessEntry},
				{Method: http.MethodPost, Path: "/exits", Handler: gateHandler.ProcessExit},
			})
		}

		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodGet, Path: "", Handler: sessionHandler.ListSessions},
				{Method: http.MethodGet, Path: "/:id", Handler: sessionHandler.GetSession},
				{Method: http.MethodGet, Path: "/:id/events", Handler: sessionHandler.ListSessionEvents},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: paymentHandler.ConfirmPayment},
				{Method: http.MethodPost, Path: "/:id/force-close", Handler: paymentHandler.ForceClose},
			})
		}

		fees := apiGroup.Group("/fees")
		{
			addRoutes(fees, []route{
				{Method: http.MethodPost, Path: "/quote", Handler: feeHandler.Quote},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
