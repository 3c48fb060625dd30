package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
	"github.com/hspware/hospital_billing_app/internal/middleware"
)

// counterHandler handles HTTP requests for the named sequence counters.
type counterHandler struct {
	counterService portssvc.CounterSvcFacade
	userService    portssvc.UserReaderSvc
}

func newCounterHandler(cs portssvc.CounterSvcFacade, us portssvc.UserReaderSvc) *counterHandler {
	return &counterHandler{counterService: cs, userService: us}
}

// registerCounterRoutes registers routes for sequence counter administration.
func registerCounterRoutes(rg *gin.RouterGroup, counterService portssvc.CounterSvcFacade, userService portssvc.UserReaderSvc) {
	h := newCounterHandler(counterService, userService)

	counters := rg.Group("/counters")
	{
		counters.GET("/:name", h.getCounter)
		counters.PUT("/:name", h.resetCounter)
	}
}

// getCounter godoc
// @Summary Get a sequence counter's current value
// @Tags counters
// @Produce json
// @Param name path string true "Counter name"
// @Success 200 {object} dto.CounterResponse
// @Security BearerAuth
// @Router /counters/{name} [get]
func (h *counterHandler) getCounter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	value, err := h.counterService.CurrentSequenceValue(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to read counter", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read counter"})
		return
	}

	c.JSON(http.StatusOK, dto.CounterResponse{Name: name, Value: value})
}

// resetCounter godoc
// @Summary Reset a sequence counter
// @Description Administratively sets a counter's value (admin only). Not part of the normal billing flow.
// @Tags counters
// @Accept json
// @Produce json
// @Param name path string true "Counter name"
// @Param counter body dto.ResetCounterRequest true "New value"
// @Success 200 {object} dto.CounterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /counters/{name} [put]
func (h *counterHandler) resetCounter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	if _, ok := requireAdmin(c, h.userService); !ok {
		return
	}

	var req dto.ResetCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.counterService.ResetCounter(c.Request.Context(), name, req.Value); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to reset counter", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reset counter"})
		return
	}

	logger.Warn("Counter reset", slog.String("counter_name", name), slog.Int64("new_value", req.Value))
	c.JSON(http.StatusOK, dto.CounterResponse{Name: name, Value: req.Value})
}
