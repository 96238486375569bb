package projecthdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	projectdto "story_studio/internal/api/project/dto"
	"story_studio/internal/logger"
)

// partPath đọc projectId, episodeId và partId (nếu có) từ route
func (h *ProjectHandler) partPath(c fiber.Ctx, withPart bool) (projectID, episodeID, partID primitive.ObjectID, err error) {
	if projectID, err = h.ParamObjectID(c, "projectId"); err != nil {
		return
	}
	if episodeID, err = h.ParamObjectID(c, "episodeId"); err != nil {
		return
	}
	if withPart {
		partID, err = h.ParamObjectID(c, "partId")
	}
	return
}

// HandleCreatePart tạo part trong episode, dữ liệu mẫu được gieo ngay sau đó
func (h *ProjectHandler) HandleCreatePart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, userID, err := actor(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, episodeID, _, err := h.partPath(c, false)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input projectdto.PartCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		part, err := h.projectService.CreatePart(c.Context(), orgID, userID, projectID, episodeID, &input)
		if err == nil {
			logger.LogAction("create_part", c, map[string]interface{}{"id": part.ID, "episodeId": episodeID})
		}
		return h.HandleCreated(c, part, err)
	})
}

// HandleListParts liệt kê part theo partNumber
func (h *ProjectHandler) HandleListParts(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, episodeID, _, err := h.partPath(c, false)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		parts, err := h.projectService.ListParts(c.Context(), orgID, projectID, episodeID)
		return h.HandleResponse(c, parts, err)
	})
}

// HandleGetPart lấy part
func (h *ProjectHandler) HandleGetPart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, episodeID, partID, err := h.partPath(c, true)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		part, err := h.projectService.GetPart(c.Context(), orgID, projectID, episodeID, partID)
		return h.HandleResponse(c, part, err)
	})
}

// HandleUpdatePart cập nhật một phần part
func (h *ProjectHandler) HandleUpdatePart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, episodeID, partID, err := h.partPath(c, true)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input projectdto.PartUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		part, err := h.projectService.UpdatePart(c.Context(), orgID, projectID, episodeID, partID, &input)
		return h.HandleResponse(c, part, err)
	})
}

// HandleDeletePart xóa part cùng nội dung và media
func (h *ProjectHandler) HandleDeletePart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, episodeID, partID, err := h.partPath(c, true)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		err = h.studioService.DeletePart(c.Context(), orgID, projectID, episodeID, partID)
		if err == nil {
			logger.LogDelete("part", partID.Hex(), c)
		}
		return h.HandleNoContent(c, err)
	})
}
