package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/bot"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/storage"
)

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "p2p-trading-bot",
		"features": gin.H{
			"grid_bot":  true,
			"demo_mode": true,
			"real_mode": true,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) status(c *gin.Context) {
	demo := s.accounts.Snapshot(models.ModeDemo)
	snapshots := s.controller.List()

	active := 0
	for _, snap := range snapshots {
		if snap.Active {
			active++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"demo_account": gin.H{
			"balance": demo.Balance,
			"profit":  demo.TotalProfit,
			"trades":  demo.TradesToday,
		},
		"total_bots":  len(snapshots),
		"active_bots": active,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) price(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	price, err := s.priceFeed.CurrentPrice(c.Request.Context(), symbol)
	if err != nil {
		errorJSON(c, http.StatusBadGateway, "PRICE_UNAVAILABLE", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    symbol,
		"price":     price,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) demoAccount(c *gin.Context) {
	c.JSON(http.StatusOK, s.accounts.Snapshot(models.ModeDemo))
}

func (s *Server) resetDemoAccount(c *gin.Context) {
	s.accounts.ResetDemo()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "demo account reset"})
}

func (s *Server) createBot(c *gin.Context) {
	var cfg models.GridConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if cfg.Mode == "" {
		cfg.Mode = models.ModeDemo
	}

	botID, err := s.controller.Create(cfg)
	if err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			errorJSON(c, http.StatusBadRequest, "INVALID_CONFIG", cfgErr.Error())
			return
		}
		errorJSON(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	snap, _ := s.controller.Status(botID)
	c.JSON(http.StatusOK, gin.H{"success": true, "bot_id": botID, "bot": snap})
}

func (s *Server) listBots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bots": s.controller.List()})
}

func (s *Server) startBot(c *gin.Context) {
	snap, err := s.controller.Start(c.Param("id"))
	if err != nil {
		s.botError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "started", "bot": snap})
}

func (s *Server) stopBot(c *gin.Context) {
	snap, err := s.controller.Stop(c.Param("id"))
	if err != nil {
		s.botError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopped", "bot": snap})
}

func (s *Server) botStatus(c *gin.Context) {
	snap, err := s.controller.Status(c.Param("id"))
	if err != nil {
		s.botError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) botTrades(c *gin.Context) {
	botID := c.Param("id")
	if _, err := s.controller.Status(botID); err != nil {
		s.botError(c, err)
		return
	}

	if s.historyDB == nil {
		c.JSON(http.StatusOK, gin.H{"trades": []models.TradeEvent{}})
		return
	}

	trades, err := storage.ListTrades(s.historyDB, botID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "HISTORY_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

func (s *Server) botError(c *gin.Context, err error) {
	if errors.Is(err, bot.ErrBotNotFound) {
		errorJSON(c, http.StatusNotFound, "BOT_NOT_FOUND", err.Error())
		return
	}
	errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}
