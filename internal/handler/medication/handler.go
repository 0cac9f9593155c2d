package medication

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/service/medication"
)

type Handler struct {
	service medication.MedicationServicer
}

func NewHandler(service medication.MedicationServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	meds := r.Group("/medications")
	{
		meds.GET("", h.ListMedications)
		meds.POST("", h.AddMedication)
		meds.PUT("/:id", h.UpdateMedication)
		meds.DELETE("/:id", h.DeleteMedication)
	}
}

func (h *Handler) ListMedications(c *gin.Context) {
	meds, err := h.service.ListMedications(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(meds))
}

// AddMedication answers 201 for a new medication and 200 when the stock was
// merged into an existing one.
func (h *Handler) AddMedication(c *gin.Context) {
	var req model.AddMedicationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	med, merged, err := h.service.AddMedication(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	status := http.StatusCreated
	if merged {
		status = http.StatusOK
	}
	c.JSON(status, handler.NewSuccessResponse(med))
}

func (h *Handler) UpdateMedication(c *gin.Context) {
	var req model.UpdateMedicationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	med, err := h.service.UpdateMedication(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(med))
}

func (h *Handler) DeleteMedication(c *gin.Context) {
	if err := h.service.DeleteMedication(c.Request.Context(), c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse("medication deleted successfully"))
}
