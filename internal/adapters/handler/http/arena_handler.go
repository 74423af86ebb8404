package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/strivehq/strive-engine/internal/adapters/handler/http/middleware"
	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/services"
)

type ArenaHandler struct {
	svc *services.ArenaService
}

func NewArenaHandler(svc *services.ArenaService) *ArenaHandler {
	return &ArenaHandler{
		svc: svc,
	}
}

type generateBossRequest struct {
	GoalID     *string `json:"goal_id"`
	Difficulty string  `json:"difficulty"`
}

type powerUpResponse struct {
	*domain.PowerUp
	RemainingSeconds int `json:"remaining_seconds"`
}

func (h *ArenaHandler) RegisterRoutes(router *gin.RouterGroup) {
	arena := router.Group("/arena")
	{
		arena.GET("/challenges/today", h.TodayChallenges)
		arena.GET("/boss", h.GetBoss)
		arena.POST("/boss/generate", h.GenerateBoss)
		arena.GET("/powerups", h.Inventory)
		arena.POST("/powerups/:type/activate", h.ActivatePowerUp)
	}
}

func (h *ArenaHandler) TodayChallenges(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	challenges, err := h.svc.TodayChallenges(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, challenges)
}

func (h *ArenaHandler) GetBoss(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	boss, err := h.svc.GetBoss(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrBossNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no boss this week"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"boss":     boss,
		"bonus_xp": boss.BonusXP(),
	})
}

func (h *ArenaHandler) GenerateBoss(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req generateBossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var difficulty domain.Difficulty
	if req.Difficulty != "" {
		var err error
		difficulty, err = domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	boss, err := h.svc.GenerateBoss(c.Request.Context(), services.GenerateBossInput{
		UserID:     userID,
		GoalID:     req.GoalID,
		Difficulty: difficulty,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, boss)
}

func (h *ArenaHandler) Inventory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	inv, err := h.svc.Inventory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	now := time.Now().UTC()
	out := make([]powerUpResponse, 0, len(inv))
	for _, p := range inv {
		out = append(out, powerUpResponse{
			PowerUp:          p,
			RemainingSeconds: int(p.TimeRemaining(now).Seconds()),
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *ArenaHandler) ActivatePowerUp(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	pType, err := domain.ParsePowerUpType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	powerUp, err := h.svc.ActivatePowerUp(c.Request.Context(), userID, pType)
	if err != nil {
		if errors.Is(err, domain.ErrPowerUpNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "power-up not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, powerUpResponse{
		PowerUp:          powerUp,
		RemainingSeconds: int(powerUp.TimeRemaining(time.Now().UTC()).Seconds()),
	})
}
