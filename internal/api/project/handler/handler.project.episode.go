package projecthdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	projectdto "story_studio/internal/api/project/dto"
	"story_studio/internal/logger"
)

// HandleCreateEpisode tạo episode trong project
func (h *ProjectHandler) HandleCreateEpisode(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, userID, err := actor(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input projectdto.EpisodeCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		episode, err := h.projectService.CreateEpisode(c.Context(), orgID, userID, projectID, &input)
		if err == nil {
			logger.LogAction("create_episode", c, map[string]interface{}{"id": episode.ID, "projectId": projectID})
		}
		return h.HandleCreated(c, episode, err)
	})
}

// HandleListEpisodes liệt kê episode theo episodeNumber
func (h *ProjectHandler) HandleListEpisodes(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		episodes, err := h.projectService.ListEpisodes(c.Context(), orgID, projectID)
		return h.HandleResponse(c, episodes, err)
	})
}

// HandleGetEpisode lấy episode
func (h *ProjectHandler) HandleGetEpisode(c fiber.Ctx) error {
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
		episode, err := h.projectService.GetEpisode(c.Context(), orgID, projectID, episodeID)
		return h.HandleResponse(c, episode, err)
	})
}

// HandleUpdateEpisode cập nhật một phần episode
func (h *ProjectHandler) HandleUpdateEpisode(c fiber.Ctx) error {
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
		var input projectdto.EpisodeUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		episode, err := h.projectService.UpdateEpisode(c.Context(), orgID, projectID, episodeID, &input)
		return h.HandleResponse(c, episode, err)
	})
}

// HandleDeleteEpisode xóa episode cùng các part bên dưới
func (h *ProjectHandler) HandleDeleteEpisode(c fiber.Ctx) error {
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
		err = h.studioService.DeleteEpisode(c.Context(), orgID, projectID, episodeID)
		if err == nil {
			logger.LogDelete("episode", episodeID.Hex(), c)
		}
		return h.HandleNoContent(c, err)
	})
}
