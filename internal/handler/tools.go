package handler

import (
	"net/http"

	"github.com/legisai/legisai/internal/models"
	"github.com/legisai/legisai/internal/tools"
)

// ToolsHandler handles GET /api/v1/tools
type ToolsHandler struct {
	catalog []tools.Spec
}

func NewToolsHandler(catalog []tools.Spec) *ToolsHandler {
	return &ToolsHandler{catalog: catalog}
}

func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	infos := make([]models.ToolInfo, 0, len(h.catalog))
	for _, spec := range h.catalog {
		infos = append(infos, models.ToolInfo{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.Schema(),
		})
	}
	models.WriteJSON(w, http.StatusOK, models.ToolsResponse{Status: "success", Tools: infos})
}
