package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/account"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/bot"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/feed"
)

// Server is the HTTP face of the trading core. It owns no trading state;
// every request delegates to the controller, the account manager or the feed.
type Server struct {
	controller *bot.Controller
	accounts   *account.Manager
	priceFeed  feed.PriceFeed
	historyDB  *sql.DB // optional
}

// New creates the HTTP server around the trading components.
func New(controller *bot.Controller, accounts *account.Manager, priceFeed feed.PriceFeed, historyDB *sql.DB) *Server {
	return &Server{
		controller: controller,
		accounts:   accounts,
		priceFeed:  priceFeed,
		historyDB:  historyDB,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(CORS())
	router.Use(ErrorHandler())

	router.GET("/", s.home)
	router.GET("/api/status", s.status)
	router.GET("/api/price/:symbol", s.price)

	router.GET("/api/account/demo", s.demoAccount)
	router.POST("/api/account/demo/reset", s.resetDemoAccount)

	gridbot := router.Group("/api/gridbot")
	{
		gridbot.POST("/create", s.createBot)
		gridbot.GET("/list", s.listBots)
		gridbot.POST("/:id/start", s.startBot)
		gridbot.POST("/:id/stop", s.stopBot)
		gridbot.GET("/:id/status", s.botStatus)
		gridbot.GET("/:id/trades", s.botTrades)
	}

	return router
}

// ErrorResponse is the JSON error envelope of the API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// CORS allows browser frontends on other origins to call the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ErrorHandler turns panics into a 500 with the standard error envelope.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "an unexpected error occurred"
		if err, ok := recovered.(string); ok {
			msg = err
		}
		errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
		c.Abort()
	})
}
