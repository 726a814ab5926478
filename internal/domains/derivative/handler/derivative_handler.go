package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/domains/derivative/service"
	"photoflow-backend/internal/shared/response"
	"photoflow-backend/pkg/logger"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type DerivativeHandler struct {
	service service.ServiceInterface
}

func NewDerivativeHandler(svc service.ServiceInterface) *DerivativeHandler {
	return &DerivativeHandler{
		service: svc,
	}
}

func respondError(c *gin.Context, err error) {
	status := model.GetHTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("derivative request failed", err)
	}
	response.ErrorResponse(c, status, codeForStatus(status), err.Error())
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusBadGateway:
		return "BAD_GATEWAY"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// ========== GENERATE: POST /v1/derivatives/generate ==========
func (h *DerivativeHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest

	// BindJSON checks binding:"required" tags
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 201: new preview rows exist even when some variants failed
	response.Success(c, http.StatusCreated, resp)
}

// ========== ADJUST: PATCH /v1/derivatives/:id/adjust ==========
func (h *DerivativeHandler) Adjust(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("invalid derivative id: %v", err))
		return
	}

	var req model.AdjustRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Adjust(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== QUERY: GET /v1/derivatives ==========
// Query params: source_asset_id, platform, saved, exported, created_after
// All filters optional, combined with AND.
func (h *DerivativeHandler) Query(c *gin.Context) {
	req, err := queryRequestFromParams(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	derivatives, err := h.service.Query(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, derivatives, &response.Meta{
		Total: len(derivatives),
	})
}

func queryRequestFromParams(c *gin.Context) (model.QueryRequest, error) {
	req := model.QueryRequest{
		SourceAssetID: c.Query("source_asset_id"),
		Platform:      c.Query("platform"),
		CreatedAfter:  c.Query("created_after"),
	}
	if s := c.Query("saved"); s != "" {
		val, err := strconv.ParseBool(s)
		if err != nil {
			return req, fmt.Errorf("invalid saved value %q: expected a boolean", s)
		}
		req.Saved = &val
	}
	if s := c.Query("exported"); s != "" {
		val, err := strconv.ParseBool(s)
		if err != nil {
			return req, fmt.Errorf("invalid exported value %q: expected a boolean", s)
		}
		req.Exported = &val
	}
	return req, nil
}

// ========== SAVE: POST /v1/derivatives/save ==========
func (h *DerivativeHandler) Save(c *gin.Context) {
	var req model.SaveRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== EXPORT: GET /v1/derivatives/export ==========
// Same filters as Query, streamed back as an xlsx workbook.
func (h *DerivativeHandler) Export(c *gin.Context) {
	req, err := queryRequestFromParams(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	file, _, err := h.service.ExportToExcel(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("derivatives-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := file.Write(c.Writer); err != nil {
		logger.Error("Export: failed to stream workbook", err)
	}
}
