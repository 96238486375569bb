// Package router đăng ký các route /content.
package router

import (
	"github.com/gofiber/fiber/v3"

	contenthdl "story_studio/internal/api/content/handler"
	contentsvc "story_studio/internal/api/content/service"
	apirouter "story_studio/internal/api/router"
)

// Register trả về hàm đăng ký route content; /by-part/:partId đứng trước /:id
func Register(contentService *contentsvc.ContentService, authMiddleware fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router) error {
		h := contenthdl.NewContentHandler(contentService)
		return apirouter.RegisterRouteGroup(v1, "/content", []fiber.Handler{authMiddleware},
			apirouter.Route{Method: fiber.MethodPost, Path: "/", Handler: h.HandleCreate},
			apirouter.Route{Method: fiber.MethodGet, Path: "/by-part/:partId", Handler: h.HandleListByPart},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:id", Handler: h.HandleGet},
			apirouter.Route{Method: fiber.MethodPut, Path: "/:id", Handler: h.HandleUpdate},
			apirouter.Route{Method: fiber.MethodDelete, Path: "/:id", Handler: h.HandleDelete},
			apirouter.Route{Method: fiber.MethodPost, Path: "/:id/select", Handler: h.HandleSelect},
		)
	}
}
