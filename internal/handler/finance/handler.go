package finance

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinicdesk/internal/handler"
	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/service/finance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service finance.FinanceServicer
}

func NewHandler(service finance.FinanceServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/finance")
	{
		records.GET("", h.ListRecords)
		records.POST("", h.AddRecord)
		records.GET("/summary", h.Summary)
		records.GET("/export.xlsx", h.Export)
		records.DELETE("/:id", h.DeleteRecord)
	}
}

func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.service.ListRecords(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) AddRecord(c *gin.Context) {
	var req model.AddFinanceRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Fail(c, err)
		return
	}

	rec, err := h.service.AddRecord(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.service.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse("record deleted successfully"))
}

func (h *Handler) Summary(c *gin.Context) {
	sum, err := h.service.Summary(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sum))
}

// Export streams the ledger as a spreadsheet attachment. The workbook is
// built in memory first so a failure can still be reported as JSON.
func (h *Handler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.ExportXLSX(c.Request.Context(), &buf); err != nil {
		handler.Fail(c, err)
		return
	}

	name := fmt.Sprintf("finance-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
