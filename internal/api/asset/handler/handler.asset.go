package assethdl

import (
	"github.com/gofiber/fiber/v3"

	assetdto "story_studio/internal/api/asset/dto"
	models "story_studio/internal/api/asset/models"
	assetsvc "story_studio/internal/api/asset/service"
	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	"story_studio/internal/logger"
	"story_studio/internal/utility"
)

// AssetHandler xử lý các route /assets/:kind
type AssetHandler struct {
	*basehdl.BaseHandler
	assetService *assetsvc.AssetService
}

// NewAssetHandler tạo mới AssetHandler
func NewAssetHandler(assetService *assetsvc.AssetService) *AssetHandler {
	return &AssetHandler{BaseHandler: basehdl.NewBaseHandler(), assetService: assetService}
}

func kindParam(c fiber.Ctx) models.Kind {
	return models.Kind(c.Params("kind"))
}

// HandleList liệt kê tài sản của project
func (h *AssetHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		assets, err := h.assetService.ListByProject(c.Context(), orgID, kindParam(c), projectID)
		return h.HandleResponse(c, assets, err)
	})
}

// HandleListVisible liệt kê tài sản hiển thị ở ?episodeId=&partId=
func (h *AssetHandler) HandleListVisible(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var query assetdto.VisibleQuery
		if err := h.ParseRequestQuery(c, &query); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		episodeID := utility.OptionalObjectID(&query.EpisodeID)
		partID := utility.OptionalObjectID(&query.PartID)
		assets, err := h.assetService.ListVisibleTo(c.Context(), orgID, kindParam(c), projectID, episodeID, partID)
		return h.HandleResponse(c, assets, err)
	})
}

// HandleGet lấy tài sản kèm ảnh
func (h *AssetHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		asset, err := h.assetService.Get(c.Context(), orgID, kindParam(c), projectID, id)
		return h.HandleResponse(c, asset, err)
	})
}

// HandleCreate tạo tài sản
func (h *AssetHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input assetdto.AssetCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		kind := kindParam(c)
		asset, err := h.assetService.Create(c.Context(), orgID, kind, &input)
		if err == nil {
			logger.LogAction("create_asset", c, map[string]interface{}{"id": asset.ID, "kind": string(kind)})
		}
		return h.HandleCreated(c, asset, err)
	})
}

// HandleUpdate cập nhật một phần tài sản
func (h *AssetHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input assetdto.AssetUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		asset, err := h.assetService.Update(c.Context(), orgID, kindParam(c), id, &input)
		return h.HandleResponse(c, asset, err)
	})
}

// HandleDelete xóa tài sản
func (h *AssetHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		id, err := h.ParamObjectID(c, "id")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		kind := kindParam(c)
		err = h.assetService.Delete(c.Context(), orgID, kind, id)
		if err == nil {
			logger.LogDelete(string(kind), id.Hex(), c)
		}
		return h.HandleNoContent(c, err)
	})
}
