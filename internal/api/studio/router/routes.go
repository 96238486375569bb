// Package router đăng ký /parts/:partId/studio và nhóm /combined.
package router

import (
	"github.com/gofiber/fiber/v3"

	apirouter "story_studio/internal/api/router"
	studiohdl "story_studio/internal/api/studio/handler"
	studiosvc "story_studio/internal/api/studio/service"
)

// Register trả về hàm đăng ký route của view tổng hợp
func Register(studioService *studiosvc.StudioService, authMiddleware fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router) error {
		h := studiohdl.NewStudioHandler(studioService)
		if err := apirouter.RegisterRouteGroup(v1, "/parts", []fiber.Handler{authMiddleware},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:partId/studio", Handler: h.HandlePartStudio},
		); err != nil {
			return err
		}
		return apirouter.RegisterRouteGroup(v1, "/combined", []fiber.Handler{authMiddleware},
			apirouter.Route{Method: fiber.MethodGet, Path: "/parts/:partId/studio-data", Handler: h.HandlePartStudio},
			apirouter.Route{Method: fiber.MethodGet, Path: "/projects/:projectId/overview", Handler: h.HandleProjectOverview},
			apirouter.Route{Method: fiber.MethodGet, Path: "/projects/:projectId/episodes/:episodeId/full", Handler: h.HandleEpisodeFull},
		)
	}
}
