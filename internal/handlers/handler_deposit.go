package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/core/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
	"github.com/hspware/hospital_billing_app/internal/middleware"
)

// depositHandler handles HTTP requests related to deposit receipts.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

func newDepositHandler(ds portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{depositService: ds}
}

// registerDepositRoutes registers routes related to deposit receipts.
func registerDepositRoutes(rg *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	rg.POST("/patients/:id/deposits", h.createDeposit)

	deposits := rg.Group("/deposits")
	{
		deposits.GET("/:receiptID", h.getDepositByReceiptID)
		deposits.POST("/:receiptID/cancel", h.cancelDeposit)
	}

	admissions := rg.Group("/admissions/:id")
	{
		admissions.GET("/deposits", h.listDeposits)
		admissions.GET("/deposits/summary", h.getDepositSummary)
	}
}

// createDeposit godoc
// @Summary Record an advance deposit
// @Description Records an advance payment against the patient's current admission
// @Tags deposits
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param deposit body dto.CreateDepositRequest true "Deposit details"
// @Success 201 {object} dto.DepositResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/deposits [post]
func (h *depositHandler) createDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	deposit, err := h.depositService.CreateDeposit(c.Request.Context(), patientID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveAdmission) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Patient has no active admission"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create deposit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create deposit"})
		}
		return
	}

	logger.Info("Deposit created", slog.String("receipt_id", deposit.ReceiptID))
	c.JSON(http.StatusCreated, dto.ToDepositResponse(deposit))
}

// getDepositByReceiptID godoc
// @Summary Get a deposit receipt
// @Tags deposits
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Success 200 {object} dto.DepositResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /deposits/{receiptID} [get]
func (h *depositHandler) getDepositByReceiptID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("receiptID")

	deposit, err := h.depositService.GetDepositByReceiptID(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Deposit not found"})
		} else {
			logger.Error("Failed to get deposit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve deposit"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}

// cancelDeposit godoc
// @Summary Cancel a deposit receipt
// @Description Soft-deletes a receipt. Surviving receipts keep their sequence numbers and cumulative snapshots.
// @Tags deposits
// @Accept json
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Param cancellation body dto.CancelDepositRequest true "Cancellation reason"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /deposits/{receiptID}/cancel [post]
func (h *depositHandler) cancelDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("receiptID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CancelDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	err := h.depositService.CancelDeposit(c.Request.Context(), receiptID, req.Reason, requestingUserID)
	if err != nil {
		if errors.Is(err, services.ErrDepositAlreadyCancelled) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Deposit is already cancelled"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Deposit not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to cancel deposit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to cancel deposit"})
		}
		return
	}

	logger.Info("Deposit cancelled", slog.String("receipt_id", receiptID))
	c.Status(http.StatusNoContent)
}

// listDeposits godoc
// @Summary List an admission's deposit receipts
// @Description Lists all receipts for an admission in sequence order, cancelled ones included
// @Tags deposits
// @Produce json
// @Param id path string true "Admission ID"
// @Success 200 {array} dto.DepositResponse
// @Security BearerAuth
// @Router /admissions/{id}/deposits [get]
func (h *depositHandler) listDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	admissionID := c.Param("id")

	deposits, err := h.depositService.ListDepositsByAdmission(c.Request.Context(), admissionID)
	if err != nil {
		logger.Error("Failed to list deposits", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list deposits"})
		return
	}

	responses := make([]dto.DepositResponse, len(deposits))
	for i := range deposits {
		responses[i] = dto.ToDepositResponse(&deposits[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getDepositSummary godoc
// @Summary Get the live deposit summary for an admission
// @Description Returns the live total over the admission's active deposits, independent of any receipt's frozen cumulative snapshot
// @Tags deposits
// @Produce json
// @Param id path string true "Admission ID"
// @Success 200 {object} dto.DepositSummaryResponse
// @Security BearerAuth
// @Router /admissions/{id}/deposits/summary [get]
func (h *depositHandler) getDepositSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	admissionID := c.Param("id")

	summary, err := h.depositService.GetAdmissionDepositSummary(c.Request.Context(), admissionID)
	if err != nil {
		logger.Error("Failed to get deposit summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve deposit summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepositSummaryResponse(summary))
}
