package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "story_studio/internal/api/base/handler"
	contentdto "story_studio/internal/api/content/dto"
	contentsvc "story_studio/internal/api/content/service"
	"story_studio/internal/api/middleware"
	"story_studio/internal/logger"
)

// ContentHandler xử lý các route /content
type ContentHandler struct {
	*basehdl.BaseHandler
	contentService *contentsvc.ContentService
}

// NewContentHandler tạo mới ContentHandler
func NewContentHandler(contentService *contentsvc.ContentService) *ContentHandler {
	return &ContentHandler{BaseHandler: basehdl.NewBaseHandler(), contentService: contentService}
}

// HandleCreate tạo một phiên bản Beat/Shot/Storyboard
func (h *ContentHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input contentdto.ContentCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		item, err := h.contentService.Create(c.Context(), orgID, &input)
		if err == nil {
			logger.LogAction("create_content", c, map[string]interface{}{
				"id":     item.Base().ID,
				"type":   item.Type,
				"partId": input.PartID,
			})
		}
		return h.HandleCreated(c, item, err)
	})
}

// HandleListByPart liệt kê phiên bản của part, lọc theo ?type=
func (h *ContentHandler) HandleListByPart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		partID, err := h.ParamObjectID(c, "partId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var query contentdto.ContentListQuery
		if err := h.ParseRequestQuery(c, &query); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		items, err := h.contentService.ListByPart(c.Context(), orgID, partID, query.Type)
		return h.HandleResponse(c, items, err)
	})
}

// HandleGet lấy một phiên bản
func (h *ContentHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		item, err := h.contentService.Get(c.Context(), orgID, id)
		return h.HandleResponse(c, item, err)
	})
}

// HandleUpdate cập nhật một phần phiên bản
func (h *ContentHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input contentdto.ContentUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		item, err := h.contentService.Update(c.Context(), orgID, id, &input)
		return h.HandleResponse(c, item, err)
	})
}

// HandleDelete xóa phiên bản
func (h *ContentHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		err = h.contentService.Delete(c.Context(), orgID, id)
		if err == nil {
			logger.LogDelete("content", id.Hex(), c)
		}
		return h.HandleNoContent(c, err)
	})
}

// HandleSelect đặt phiên bản đang chọn
func (h *ContentHandler) HandleSelect(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		item, err := h.contentService.Select(c.Context(), orgID, id)
		if err == nil {
			logger.LogAction("select_content", c, map[string]interface{}{"id": id.Hex(), "type": item.Type})
		}
		return h.HandleResponse(c, item, err)
	})
}
