// Package router đăng ký các route /media.
package router

import (
	"github.com/gofiber/fiber/v3"

	mediahdl "story_studio/internal/api/media/handler"
	mediasvc "story_studio/internal/api/media/service"
	apirouter "story_studio/internal/api/router"
)

// Register trả về hàm đăng ký route media; /by-part/:partId đứng trước /:id
func Register(mediaService *mediasvc.MediaService, authMiddleware fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router) error {
		h := mediahdl.NewMediaHandler(mediaService)
		return apirouter.RegisterRouteGroup(v1, "/media", []fiber.Handler{authMiddleware},
			apirouter.Route{Method: fiber.MethodPost, Path: "/", Handler: h.HandleCreate},
			apirouter.Route{Method: fiber.MethodGet, Path: "/by-part/:partId", Handler: h.HandleListByPart},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:id", Handler: h.HandleGet},
			apirouter.Route{Method: fiber.MethodPut, Path: "/:id", Handler: h.HandleUpdate},
			apirouter.Route{Method: fiber.MethodDelete, Path: "/:id", Handler: h.HandleDelete},
		)
	}
}
