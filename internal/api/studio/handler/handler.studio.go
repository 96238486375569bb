package studiohdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	studiosvc "story_studio/internal/api/studio/service"
)

// StudioHandler xử lý các view tổng hợp
type StudioHandler struct {
	*basehdl.BaseHandler
	studioService *studiosvc.StudioService
}

// NewStudioHandler tạo mới StudioHandler
func NewStudioHandler(studioService *studiosvc.StudioService) *StudioHandler {
	return &StudioHandler{BaseHandler: basehdl.NewBaseHandler(), studioService: studioService}
}

// HandlePartStudio trả về dữ liệu trang studio của part
func (h *StudioHandler) HandlePartStudio(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		partID, err := h.ParamObjectID(c, "partId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		data, err := h.studioService.PartStudio(c.Context(), orgID, partID)
		return h.HandleResponse(c, data, err)
	})
}

// HandleProjectOverview trả về cây episode/part của project kèm số lượng
func (h *StudioHandler) HandleProjectOverview(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		data, err := h.studioService.ProjectOverview(c.Context(), orgID, projectID)
		return h.HandleResponse(c, data, err)
	})
}

// HandleEpisodeFull trả về episode kèm part đã đếm
func (h *StudioHandler) HandleEpisodeFull(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		episodeID, err := h.ParamObjectID(c, "episodeId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		data, err := h.studioService.EpisodeFull(c.Context(), orgID, projectID, episodeID)
		return h.HandleResponse(c, data, err)
	})
}
