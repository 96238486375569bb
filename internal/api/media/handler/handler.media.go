package mediahdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "story_studio/internal/api/base/handler"
	mediadto "story_studio/internal/api/media/dto"
	mediasvc "story_studio/internal/api/media/service"
	"story_studio/internal/api/middleware"
	"story_studio/internal/logger"
)

// MediaHandler xử lý các route /media và ảnh tham chiếu /assets/images
type MediaHandler struct {
	*basehdl.BaseHandler
	mediaService *mediasvc.MediaService
}

// NewMediaHandler tạo mới MediaHandler
func NewMediaHandler(mediaService *mediasvc.MediaService) *MediaHandler {
	return &MediaHandler{BaseHandler: basehdl.NewBaseHandler(), mediaService: mediaService}
}

// HandleCreate tạo ảnh hoặc clip
func (h *MediaHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input mediadto.MediaCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		out, err := h.mediaService.Create(c.Context(), orgID, &input)
		if err == nil {
			logger.LogAction("create_media", c, map[string]interface{}{"id": out.ID, "type": out.Type})
		}
		return h.HandleCreated(c, out, err)
	})
}

// HandleListByPart liệt kê media của part
func (h *MediaHandler) HandleListByPart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		partID, err := h.ParamObjectID(c, "partId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		items, err := h.mediaService.ListByPart(c.Context(), orgID, partID)
		return h.HandleResponse(c, items, err)
	})
}

// HandleGet lấy một media
func (h *MediaHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		out, err := h.mediaService.Get(c.Context(), orgID, id)
		return h.HandleResponse(c, out, err)
	})
}

// HandleUpdate cập nhật một phần media
func (h *MediaHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input mediadto.MediaUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		out, err := h.mediaService.Update(c.Context(), orgID, id, &input)
		return h.HandleResponse(c, out, err)
	})
}

// HandleDelete xóa media
func (h *MediaHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		err = h.mediaService.Delete(c.Context(), orgID, id)
		if err == nil {
			logger.LogDelete("media", id.Hex(), c)
		}
		return h.HandleNoContent(c, err)
	})
}

// HandleCreateProjectImage tạo ảnh tham chiếu cho nhân vật, bối cảnh, đạo cụ
func (h *MediaHandler) HandleCreateProjectImage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input mediadto.ProjectImageCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		out, err := h.mediaService.CreateProjectImage(c.Context(), orgID, &input)
		return h.HandleCreated(c, out, err)
	})
}

// HandleListProjectImages liệt kê ảnh tham chiếu của project, lọc theo ?category=
func (h *MediaHandler) HandleListProjectImages(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var query mediadto.ProjectImageQuery
		if err := h.ParseRequestQuery(c, &query); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		images, err := h.mediaService.ListProjectImages(c.Context(), orgID, projectID, query.Category)
		return h.HandleResponse(c, images, err)
	})
}
