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

type TaskHandler struct {
	svc       *services.TaskService
	adviceSvc *services.AdviceService
}

func NewTaskHandler(svc *services.TaskService, adviceSvc *services.AdviceService) *TaskHandler {
	return &TaskHandler{
		svc:       svc,
		adviceSvc: adviceSvc,
	}
}

type createTaskRequest struct {
	Title            string     `json:"title" binding:"required"`
	Notes            string     `json:"notes"`
	Category         string     `json:"category" binding:"required"`
	Priority         int        `json:"priority" binding:"required"`
	GoalID           *string    `json:"goal_id"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	Recurrence       string     `json:"recurrence"`
	RecurrenceDays   []int      `json:"recurrence_days"`
	RecurrenceEndsAt *time.Time `json:"recurrence_ends_at"`
}

type updateTaskRequest struct {
	Title            string     `json:"title"`
	Notes            *string    `json:"notes"`
	Category         string     `json:"category"`
	Priority         int        `json:"priority"`
	GoalID           *string    `json:"goal_id"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	Recurrence       string     `json:"recurrence"`
	RecurrenceDays   []int      `json:"recurrence_days"`
	RecurrenceEndsAt *time.Time `json:"recurrence_ends_at"`
	Version          int        `json:"version"`
}

// taskResponse decorates the stored task with its derived scoring state.
type taskResponse struct {
	*domain.Task
	PotentialPoints int                `json:"potential_points"`
	Energy          domain.EnergyState `json:"energy"`
}

func newTaskResponse(t *domain.Task, now time.Time) taskResponse {
	return taskResponse{
		Task:            t,
		PotentialPoints: t.PotentialPoints(now),
		Energy:          t.Energy(now),
	}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/sync", h.Sync)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
		tasks.POST("/:id/complete", h.Complete)
		tasks.POST("/:id/reopen", h.Reopen)
		tasks.GET("/:id/advice", h.Advice)
	}
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recurrence, err := domain.ParseRecurrenceRule(req.Recurrence)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateTaskInput{
		UserID:           userID,
		Title:            req.Title,
		Notes:            req.Notes,
		Category:         category,
		Priority:         req.Priority,
		GoalID:           req.GoalID,
		EstimatedMinutes: req.EstimatedMinutes,
		ScheduledAt:      req.ScheduledAt,
		Recurrence:       recurrence,
		RecurrenceDays:   req.RecurrenceDays,
		RecurrenceEndsAt: req.RecurrenceEndsAt,
	}

	task, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskTitleEmpty),
			errors.Is(err, domain.ErrTaskTitleTooLong),
			errors.Is(err, domain.ErrInvalidPriority),
			errors.Is(err, domain.ErrTaskNegativeMinutes):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task, time.Now().UTC()))
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	tasks, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	now := time.Now().UTC()
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t, now))
	}

	c.JSON(http.StatusOK, out)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	task, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, time.Now().UTC()))
}

func (h *TaskHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	lastSyncStr := c.Query("last_sync")
	var lastSync time.Time
	var err error

	if lastSyncStr != "" {
		lastSync, err = time.Parse(time.RFC3339, lastSyncStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_sync format, use RFC3339"})
			return
		}
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   deltas,
		"timestamp": time.Now().UTC(),
	})
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category domain.Category
	if req.Category != "" {
		var err error
		category, err = domain.ParseCategory(req.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var recurrence domain.RecurrenceRule
	if req.Recurrence != "" {
		var err error
		recurrence, err = domain.ParseRecurrenceRule(req.Recurrence)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	input := services.UpdateTaskInput{
		ID:               c.Param("id"),
		UserID:           userID,
		Title:            req.Title,
		Notes:            req.Notes,
		Category:         category,
		Priority:         req.Priority,
		GoalID:           req.GoalID,
		EstimatedMinutes: req.EstimatedMinutes,
		ScheduledAt:      req.ScheduledAt,
		Recurrence:       recurrence,
		RecurrenceDays:   req.RecurrenceDays,
		RecurrenceEndsAt: req.RecurrenceEndsAt,
		Version:          req.Version,
	}

	task, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, domain.ErrTaskConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrTaskNegativeMinutes):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, time.Now().UTC()))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, domain.ErrTaskAlreadyDone):
			c.JSON(http.StatusConflict, gin.H{"error": "task is already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) Reopen(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	task, err := h.svc.Reopen(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, time.Now().UTC()))
}

func (h *TaskHandler) Advice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	advice, err := h.adviceSvc.GetAdvice(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, advice)
}
