// Package router đăng ký các route /assets.
package router

import (
	"github.com/gofiber/fiber/v3"

	assethdl "story_studio/internal/api/asset/handler"
	assetsvc "story_studio/internal/api/asset/service"
	mediahdl "story_studio/internal/api/media/handler"
	mediasvc "story_studio/internal/api/media/service"
	apirouter "story_studio/internal/api/router"
)

// Register trả về hàm đăng ký route tài sản.
// Cả ảnh tham chiếu và ba kind nằm chung một group /assets: /images phải đứng trước /:kind.
func Register(assetService *assetsvc.AssetService, mediaService *mediasvc.MediaService, authMiddleware fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router) error {
		h := assethdl.NewAssetHandler(assetService)
		images := mediahdl.NewMediaHandler(mediaService)
		return apirouter.RegisterRouteGroup(v1, "/assets", []fiber.Handler{authMiddleware},
			apirouter.Route{Method: fiber.MethodPost, Path: "/images", Handler: images.HandleCreateProjectImage},
			apirouter.Route{Method: fiber.MethodGet, Path: "/images/:projectId", Handler: images.HandleListProjectImages},

			apirouter.Route{Method: fiber.MethodGet, Path: "/:kind/:projectId/visible", Handler: h.HandleListVisible},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:kind/:projectId/:id", Handler: h.HandleGet},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:kind/:projectId", Handler: h.HandleList},
			apirouter.Route{Method: fiber.MethodPost, Path: "/:kind", Handler: h.HandleCreate},
			apirouter.Route{Method: fiber.MethodPut, Path: "/:kind/:id", Handler: h.HandleUpdate},
			apirouter.Route{Method: fiber.MethodDelete, Path: "/:kind/:id", Handler: h.HandleDelete},
		)
	}
}
