package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strivehq/strive-engine/internal/adapters/handler/http/middleware"
	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/services"
)

type PactHandler struct {
	svc *services.PactService
}

func NewPactHandler(svc *services.PactService) *PactHandler {
	return &PactHandler{
		svc: svc,
	}
}

type createPactRequest struct {
	PartnerEmail string `json:"partner_email" binding:"required,email"`
	Title        string `json:"title" binding:"required"`
	Commitment   string `json:"commitment"`
}

// pactResponse adds the viewer-relative daily status and milestone countdown.
type pactResponse struct {
	*domain.Pact
	Status        domain.PactStatus `json:"status"`
	NextMilestone int               `json:"next_milestone"`
	DaysToGo      int               `json:"days_to_next_milestone"`
}

func newPactResponse(p *domain.Pact, viewerID string) pactResponse {
	return pactResponse{
		Pact:          p,
		Status:        p.StatusForUser(viewerID),
		NextMilestone: p.NextMilestone(),
		DaysToGo:      p.DaysUntilNextMilestone(),
	}
}

func (h *PactHandler) RegisterRoutes(router *gin.RouterGroup) {
	pacts := router.Group("/pacts")
	{
		pacts.POST("", h.Create)
		pacts.GET("", h.List)
		pacts.GET("/:id", h.Get)
		pacts.POST("/:id/accept", h.Accept)
		pacts.POST("/:id/checkin", h.CheckIn)
	}
}

func (h *PactHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createPactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pact, err := h.svc.Create(c.Request.Context(), services.CreatePactInput{
		InitiatorID:  userID,
		PartnerEmail: req.PartnerEmail,
		Title:        req.Title,
		Commitment:   req.Commitment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
		case errors.Is(err, domain.ErrPactSameParties), errors.Is(err, domain.ErrPactTitleEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, newPactResponse(pact, userID))
}

func (h *PactHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	pacts, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]pactResponse, 0, len(pacts))
	for _, p := range pacts {
		out = append(out, newPactResponse(p, userID))
	}

	c.JSON(http.StatusOK, out)
}

func (h *PactHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	pact, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrPactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, newPactResponse(pact, userID))
}

func (h *PactHandler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	pact, err := h.svc.Accept(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrPactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, newPactResponse(pact, userID))
}

func (h *PactHandler) CheckIn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	pact, err := h.svc.CheckIn(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPactNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "pact not found"})
		case errors.Is(err, domain.ErrPactNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, newPactResponse(pact, userID))
}
