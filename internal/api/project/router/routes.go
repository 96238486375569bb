// Package router đăng ký cây /projects.
package router

import (
	"github.com/gofiber/fiber/v3"

	projecthdl "story_studio/internal/api/project/handler"
	projectsvc "story_studio/internal/api/project/service"
	apirouter "story_studio/internal/api/router"
	studiosvc "story_studio/internal/api/studio/service"
)

// Register trả về hàm đăng ký route project/episode/part
func Register(projectService *projectsvc.ProjectService, studioService *studiosvc.StudioService, authMiddleware fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router) error {
		h := projecthdl.NewProjectHandler(projectService, studioService)
		const episodes = "/:projectId/episodes"
		const parts = episodes + "/:episodeId/parts"
		return apirouter.RegisterRouteGroup(v1, "/projects", []fiber.Handler{authMiddleware},
			apirouter.Route{Method: fiber.MethodPost, Path: "/", Handler: h.HandleCreate},
			apirouter.Route{Method: fiber.MethodGet, Path: "/", Handler: h.HandleList},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:projectId/full", Handler: h.HandleGetFull},
			apirouter.Route{Method: fiber.MethodGet, Path: "/:projectId", Handler: h.HandleGet},
			apirouter.Route{Method: fiber.MethodPut, Path: "/:projectId", Handler: h.HandleUpdate},
			apirouter.Route{Method: fiber.MethodDelete, Path: "/:projectId", Handler: h.HandleDelete},

			apirouter.Route{Method: fiber.MethodPost, Path: episodes, Handler: h.HandleCreateEpisode},
			apirouter.Route{Method: fiber.MethodGet, Path: episodes, Handler: h.HandleListEpisodes},
			apirouter.Route{Method: fiber.MethodGet, Path: episodes + "/:episodeId", Handler: h.HandleGetEpisode},
			apirouter.Route{Method: fiber.MethodPut, Path: episodes + "/:episodeId", Handler: h.HandleUpdateEpisode},
			apirouter.Route{Method: fiber.MethodDelete, Path: episodes + "/:episodeId", Handler: h.HandleDeleteEpisode},

			apirouter.Route{Method: fiber.MethodPost, Path: parts, Handler: h.HandleCreatePart},
			apirouter.Route{Method: fiber.MethodGet, Path: parts, Handler: h.HandleListParts},
			apirouter.Route{Method: fiber.MethodGet, Path: parts + "/:partId", Handler: h.HandleGetPart},
			apirouter.Route{Method: fiber.MethodPut, Path: parts + "/:partId", Handler: h.HandleUpdatePart},
			apirouter.Route{Method: fiber.MethodDelete, Path: parts + "/:partId", Handler: h.HandleDeletePart},
		)
	}
}
