package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoflow-backend/internal/domains/variant"
	"photoflow-backend/internal/shared/response"
)

type VariantHandler struct {
	catalog *variant.Catalog
}

func NewVariantHandler(catalog *variant.Catalog) *VariantHandler {
	return &VariantHandler{catalog: catalog}
}

// ========== LIST: GET /v1/variants ==========
// Optional ?platform= narrows the listing to one platform.
func (h *VariantHandler) List(c *gin.Context) {
	if p := c.Query("platform"); p != "" {
		platform, err := variant.ParsePlatform(p)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		specs := h.catalog.Resolve([]variant.Platform{platform}, nil)
		response.Success(c, http.StatusOK, specs)
		return
	}

	response.Success(c, http.StatusOK, h.catalog.All())
}
