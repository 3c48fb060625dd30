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

// billingHandler handles HTTP requests related to bills and settlements.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newBillingHandler(bs portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingService: bs}
}

// registerBillingRoutes registers routes related to bills and settlements.
func registerBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService)

	patients := rg.Group("/patients/:id")
	{
		patients.POST("/bills/opd", h.createOPDReceipt)
		patients.POST("/bills/ipd-discharge", h.createIPDDischargeBill)
		patients.POST("/bills/final", h.createFinalReceipt)
		patients.GET("/bills", h.listBills)
		patients.GET("/balance/audit", h.auditBalance)
	}

	bills := rg.Group("/bills")
	{
		bills.GET("/:billID", h.getBillByID)
	}
}

// billingErrorResponse maps billing service errors onto HTTP statuses shared
// by the three settlement-producing endpoints.
func billingErrorResponse(c *gin.Context, err error, operation string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrNoActiveAdmission):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Patient has no active admission"})
	case errors.Is(err, services.ErrNothingToSettle):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Patient has no outstanding balance to settle"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Bill number collision, please retry"})
	default:
		logger.Error("Billing operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + operation})
	}
}

// createOPDReceipt godoc
// @Summary Create an OPD receipt
// @Description Bills an outpatient visit and settles the payment against the patient's running balance
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param receipt body dto.CreateOPDReceiptRequest true "OPD visit details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/bills/opd [post]
func (h *billingHandler) createOPDReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateOPDReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	bill, err := h.billingService.CreateOPDReceipt(c.Request.Context(), patientID, req, requestingUserID)
	if err != nil {
		billingErrorResponse(c, err, "create OPD receipt")
		return
	}

	logger.Info("OPD receipt created", slog.String("bill_number", bill.BillNumber))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// createIPDDischargeBill godoc
// @Summary Create an IPD discharge bill
// @Description Produces the itemized discharge bill for the patient's current admission and closes it. The advance is the live total of the admission's active deposits.
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param bill body dto.CreateIPDBillRequest true "Discharge bill details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/bills/ipd-discharge [post]
func (h *billingHandler) createIPDDischargeBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateIPDBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	bill, err := h.billingService.CreateIPDDischargeBill(c.Request.Context(), patientID, req, requestingUserID)
	if err != nil {
		billingErrorResponse(c, err, "create IPD discharge bill")
		return
	}

	logger.Info("IPD discharge bill created", slog.String("bill_number", bill.BillNumber))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// createFinalReceipt godoc
// @Summary Create a final settlement receipt
// @Description Settles an outstanding balance without new charges
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param receipt body dto.CreateFinalReceiptRequest true "Settlement payment"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/bills/final [post]
func (h *billingHandler) createFinalReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateFinalReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	bill, err := h.billingService.CreateFinalReceipt(c.Request.Context(), patientID, req, requestingUserID)
	if err != nil {
		billingErrorResponse(c, err, "create final receipt")
		return
	}

	logger.Info("Final receipt created", slog.String("bill_number", bill.BillNumber))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// listBills godoc
// @Summary List a patient's bills
// @Tags billing
// @Produce json
// @Param id path string true "Patient ID"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListBillsResponse
// @Security BearerAuth
// @Router /patients/{id}/bills [get]
func (h *billingHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	var params dto.ListBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	bills, nextToken, err := h.billingService.ListBillsByPatient(c.Request.Context(), patientID, params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list bills", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list bills"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBillsResponse(bills, nextToken))
}

// getBillByID godoc
// @Summary Get a bill
// @Tags billing
// @Produce json
// @Param billID path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills/{billID} [get]
func (h *billingHandler) getBillByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("billID")

	bill, err := h.billingService.GetBillByID(c.Request.Context(), billID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Bill not found"})
		} else {
			logger.Error("Failed to get bill", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve bill"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// auditBalance godoc
// @Summary Audit a patient's running balance
// @Description Re-derives the pending amount from the settlement history and reports drift against the stored balance
// @Tags billing
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} dto.BalanceAuditResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/balance/audit [get]
func (h *billingHandler) auditBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	audit, err := h.billingService.AuditPatientBalance(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else {
			logger.Error("Failed to audit balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to audit balance"})
		}
		return
	}

	c.JSON(http.StatusOK, audit)
}
