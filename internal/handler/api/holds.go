package api

import (
	"net/http"

	"bookhold/internal/domain/hold"
	reqdto "bookhold/internal/handler/dto/request"
	resdto "bookhold/internal/handler/dto/response"
	"bookhold/internal/handler/middleware"
	"bookhold/internal/pkg/errs"
	"bookhold/internal/usecase/commands"
	"bookhold/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HoldHandler struct {
	holdCommands commands.HoldCommands
	holdQueries  queries.HoldQueries
}

func NewHoldHandler(holdCommands commands.HoldCommands, holdQueries queries.HoldQueries) *HoldHandler {
	return &HoldHandler{
		holdCommands: holdCommands,
		holdQueries:  holdQueries,
	}
}

// @Summary Request a hold
// @Description Place a pending hold on a provider's time window
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateHoldRequest true "Hold request"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /holds [post]
func (h *HoldHandler) CreateHold(c *gin.Context) {
	actorID, actorRole, ok := actor(c)
	if !ok {
		return
	}

	var req reqdto.CreateHoldRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.holdCommands.CreateHold(c.Request.Context(), req.ToInput(actorID, actorRole))
	if err != nil {
		respondHoldError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromHoldView(view))
}

// @Summary Respond to a hold
// @Description Accept or decline a pending hold as its target provider
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Param request body reqdto.RespondHoldRequest true "Decision"
// @Success 200 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /holds/{id}/respond [post]
func (h *HoldHandler) RespondToHold(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	holdID, err := parseID(c)
	if err != nil {
		return
	}

	var req reqdto.RespondHoldRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.holdCommands.RespondToHold(c.Request.Context(), holdID, actorID, hold.Decision(req.Decision))
	if err != nil {
		respondHoldError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromHoldView(view))
}

// @Summary Cancel a hold
// @Description Withdraw a pending hold as its requester
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 200 {object} resdto.HoldResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /holds/{id}/cancel [post]
func (h *HoldHandler) CancelHold(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	holdID, err := parseID(c)
	if err != nil {
		return
	}

	view, err := h.holdCommands.CancelHold(c.Request.Context(), holdID, actorID)
	if err != nil {
		respondHoldError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromHoldView(view))
}

// @Summary Get hold
// @Description Get one hold the caller is a party to
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 200 {object} resdto.HoldResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /holds/{id} [get]
func (h *HoldHandler) GetHold(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	holdID, err := parseID(c)
	if err != nil {
		return
	}

	view, err := h.holdQueries.GetByID(c.Request.Context(), holdID, actorID)
	if err != nil {
		respondHoldError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromHoldView(view))
}

// @Summary List holds
// @Description List holds the caller requested or received
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.HoldResponse
// @Failure 401 {object} map[string]string
// @Router /holds [get]
func (h *HoldHandler) ListHolds(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	views, err := h.holdQueries.ListForParty(c.Request.Context(), actorID)
	if err != nil {
		respondHoldError(c, err)
		return
	}

	response := make([]*resdto.HoldResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromHoldView(v)
	}
	c.JSON(http.StatusOK, response)
}

// respondHoldError maps use case errors onto HTTP statuses. Forbidden maps
// to 404 on purpose: a caller probing a hold they are not party to learns
// nothing beyond "no such hold".
func respondHoldError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid hold parameters",
		})
	case errs.Is(err, errs.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Requested window conflicts with the provider's calendar",
		})
	case errs.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Hold is no longer pending",
		})
	case errs.Is(err, errs.ErrHoldNotFound), errs.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Hold not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func actor(c *gin.Context) (uuid.UUID, string, bool) {
	actorID, ok := middleware.GetPartyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetPartyRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", false
	}
	return actorID, role, true
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return uuid.Nil, err
	}
	return id, nil
}
