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

// patientHandler handles HTTP requests related to patients and admissions.
type patientHandler struct {
	patientService portssvc.PatientSvcFacade
}

func newPatientHandler(ps portssvc.PatientSvcFacade) *patientHandler {
	return &patientHandler{patientService: ps}
}

// registerPatientRoutes registers routes related to patients and admissions.
func registerPatientRoutes(rg *gin.RouterGroup, patientService portssvc.PatientSvcFacade) {
	h := newPatientHandler(patientService)

	patients := rg.Group("/patients")
	{
		patients.POST("", h.registerPatient)
		patients.GET("", h.listPatients)
		patients.GET("/:id", h.getPatientByID)
		patients.GET("/number/:patientNumber", h.getPatientByNumber)
		patients.PUT("/:id", h.updatePatient)
		patients.DELETE("/:id", h.deletePatient)
		patients.POST("/:id/admissions", h.admitPatient)
		patients.GET("/:id/admissions", h.listAdmissions)
	}

	admissions := rg.Group("/admissions")
	{
		admissions.GET("/:id", h.getAdmission)
	}
}

// registerPatient godoc
// @Summary Register a new patient
// @Description Registers a patient and mints their patient number
// @Tags patients
// @Accept json
// @Produce json
// @Param patient body dto.RegisterPatientRequest true "Patient details"
// @Success 201 {object} dto.PatientResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients [post]
func (h *patientHandler) registerPatient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	patient, err := h.patientService.RegisterPatient(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to register patient", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register patient"})
		}
		return
	}

	logger.Info("Patient registered", slog.String("patient_number", patient.PatientNumber))
	c.JSON(http.StatusCreated, dto.ToPatientResponse(patient))
}

// listPatients godoc
// @Summary List patients
// @Tags patients
// @Produce json
// @Param limit query int false "Max results" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListPatientsResponse
// @Security BearerAuth
// @Router /patients [get]
func (h *patientHandler) listPatients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPatientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	patients, err := h.patientService.ListPatients(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list patients", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list patients"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPatientsResponse(patients))
}

// getPatientByID godoc
// @Summary Get a patient by ID
// @Tags patients
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} dto.PatientResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id} [get]
func (h *patientHandler) getPatientByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	patient, err := h.patientService.GetPatientByID(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else {
			logger.Error("Failed to get patient", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve patient"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPatientResponse(patient))
}

// getPatientByNumber godoc
// @Summary Get a patient by their patient number
// @Tags patients
// @Produce json
// @Param patientNumber path string true "Patient Number"
// @Success 200 {object} dto.PatientResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/number/{patientNumber} [get]
func (h *patientHandler) getPatientByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientNumber := c.Param("patientNumber")

	patient, err := h.patientService.GetPatientByNumber(c.Request.Context(), patientNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else {
			logger.Error("Failed to get patient by number", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve patient"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPatientResponse(patient))
}

// updatePatient godoc
// @Summary Update a patient's contact details
// @Tags patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param patient body dto.UpdatePatientRequest true "Fields to update"
// @Success 200 {object} dto.PatientResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id} [put]
func (h *patientHandler) updatePatient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), patientID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to update patient", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update patient"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPatientResponse(patient))
}

// deletePatient godoc
// @Summary Delete a patient
// @Description Soft-deletes a patient. Blocked while the patient has an active admission or an outstanding balance.
// @Tags patients
// @Produce json
// @Param id path string true "Patient ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id} [delete]
func (h *patientHandler) deletePatient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.patientService.DeletePatient(c.Request.Context(), patientID, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to delete patient", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete patient"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// admitPatient godoc
// @Summary Admit a patient
// @Description Opens a new admission, minting the IPD number. Fails when the patient already has an active admission.
// @Tags patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param admission body dto.AdmitPatientRequest true "Admission details"
// @Success 201 {object} dto.AdmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/admissions [post]
func (h *patientHandler) admitPatient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AdmitPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	admission, err := h.patientService.AdmitPatient(c.Request.Context(), patientID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyAdmitted) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Patient already has an active admission"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to admit patient", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to admit patient"})
		}
		return
	}

	logger.Info("Patient admitted", slog.String("admission_id", admission.AdmissionID))
	c.JSON(http.StatusCreated, dto.ToAdmissionResponse(admission))
}

// listAdmissions godoc
// @Summary List a patient's admissions
// @Tags patients
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {array} dto.AdmissionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /patients/{id}/admissions [get]
func (h *patientHandler) listAdmissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patientID := c.Param("id")

	admissions, err := h.patientService.ListAdmissions(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		} else {
			logger.Error("Failed to list admissions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list admissions"})
		}
		return
	}

	responses := make([]dto.AdmissionResponse, len(admissions))
	for i := range admissions {
		responses[i] = dto.ToAdmissionResponse(&admissions[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getAdmission godoc
// @Summary Get an admission record
// @Tags patients
// @Produce json
// @Param id path string true "Admission ID"
// @Success 200 {object} dto.AdmissionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admissions/{id} [get]
func (h *patientHandler) getAdmission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	admissionID := c.Param("id")

	admission, err := h.patientService.GetAdmission(c.Request.Context(), admissionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Admission not found"})
		} else {
			logger.Error("Failed to get admission", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve admission"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAdmissionResponse(admission))
}
