package api

import (
	"net/http"
	"time"

	"bookhold/internal/domain/availability"
	reqdto "bookhold/internal/handler/dto/request"
	resdto "bookhold/internal/handler/dto/response"
	"bookhold/internal/pkg/errs"
	"bookhold/internal/usecase/commands"
	"bookhold/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityCommands commands.AvailabilityCommands
	availabilityQueries  queries.AvailabilityQueries
}

func NewAvailabilityHandler(
	availabilityCommands commands.AvailabilityCommands,
	availabilityQueries queries.AvailabilityQueries,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityCommands: availabilityCommands,
		availabilityQueries:  availabilityQueries,
	}
}

// @Summary List provider slots
// @Description List a provider's calendar slots overlapping a time range
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param role path string true "Provider role" Enums(guide, transport)
// @Param id path string true "Provider ID"
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /providers/{role}/{id}/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	owner, ok := ownerFromPath(c)
	if !ok {
		return
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return
	}

	views, err := h.availabilityQueries.ListSlots(c.Request.Context(), owner, from, to)
	if err != nil {
		respondSlotError(c, err)
		return
	}

	response := make([]*resdto.SlotResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromSlotView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Day breakdown
// @Description Resolve one UTC day of a provider's calendar into hour buckets
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param role path string true "Provider role" Enums(guide, transport)
// @Param id path string true "Provider ID"
// @Param date query string true "Day (YYYY-MM-DD, UTC)"
// @Success 200 {array} resdto.HourStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /providers/{role}/{id}/slots/day [get]
func (h *AvailabilityHandler) DayBreakdown(c *gin.Context) {
	owner, ok := ownerFromPath(c)
	if !ok {
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	views, err := h.availabilityQueries.DayBreakdown(c.Request.Context(), owner, day)
	if err != nil {
		respondSlotError(c, err)
		return
	}

	response := make([]*resdto.HourStatusResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromHourStatusView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Upsert slot
// @Description Create or replace one of the caller's calendar slots
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.UpsertSlotRequest true "Slot"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id} [put]
func (h *AvailabilityHandler) UpsertSlot(c *gin.Context) {
	actorID, actorRole, ok := actor(c)
	if !ok {
		return
	}

	slotID, err := parseID(c)
	if err != nil {
		return
	}

	var req reqdto.UpsertSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.availabilityCommands.UpsertSlot(c.Request.Context(), commands.UpsertSlotInput{
		SlotID:   &slotID,
		OwnerID:  actorID,
		Role:     availability.OwnerRole(actorRole),
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Status:   availability.Status(req.Status),
	})
	if err != nil {
		respondSlotError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Remove slot
// @Description Delete one of the caller's calendar slots
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{id} [delete]
func (h *AvailabilityHandler) RemoveSlot(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}

	slotID, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.availabilityCommands.RemoveSlot(c.Request.Context(), slotID, actorID); err != nil {
		respondSlotError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondSlotError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot parameters",
		})
	case errs.Is(err, errs.ErrSlotReferenced):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot is referenced by an accepted hold",
		})
	case errs.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Slot not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func ownerFromPath(c *gin.Context) (availability.Owner, bool) {
	role := availability.OwnerRole(c.Param("role"))
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider ID format",
		})
		return availability.Owner{}, false
	}

	owner, err := availability.NewOwner(id, role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider role",
		})
		return availability.Owner{}, false
	}
	return owner, true
}

func parseTimeQuery(c *gin.Context, key string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, c.Query(key))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + key + " timestamp, expected RFC3339",
		})
		return time.Time{}, err
	}
	return t, nil
}
