package projecthdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	projectdto "story_studio/internal/api/project/dto"
	projectsvc "story_studio/internal/api/project/service"
	studiosvc "story_studio/internal/api/studio/service"
	"story_studio/internal/logger"
)

// ProjectHandler xử lý cây /projects/:projectId/episodes/:episodeId/parts.
// Xóa và view /full đi qua StudioService.
type ProjectHandler struct {
	*basehdl.BaseHandler
	projectService *projectsvc.ProjectService
	studioService  *studiosvc.StudioService
}

// NewProjectHandler tạo mới ProjectHandler
func NewProjectHandler(projectService *projectsvc.ProjectService, studioService *studiosvc.StudioService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    basehdl.NewBaseHandler(),
		projectService: projectService,
		studioService:  studioService,
	}
}

// actor trả về tổ chức đang hoạt động và người dùng hiện tại
func actor(c fiber.Ctx) (orgID, userID primitive.ObjectID, err error) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return orgID, userID, err
	}
	orgID, err = middleware.RequireOrganization(c)
	if err != nil {
		return orgID, userID, err
	}
	return orgID, user.ID, nil
}

// HandleCreate tạo project
func (h *ProjectHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, userID, err := actor(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input projectdto.ProjectCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		project, err := h.projectService.CreateProject(c.Context(), orgID, userID, &input)
		if err == nil {
			logger.LogAction("create_project", c, map[string]interface{}{"id": project.ID, "slug": project.Slug})
		}
		return h.HandleCreated(c, project, err)
	})
}

// HandleList liệt kê project của tổ chức
func (h *ProjectHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projects, err := h.projectService.ListProjects(c.Context(), orgID)
		return h.HandleResponse(c, projects, err)
	})
}

// HandleGet lấy project
func (h *ProjectHandler) HandleGet(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		project, err := h.projectService.GetProject(c.Context(), orgID, projectID)
		return h.HandleResponse(c, project, err)
	})
}

// HandleGetFull trả về project kèm cây episode/part đã đếm
func (h *ProjectHandler) HandleGetFull(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		overview, err := h.studioService.ProjectOverview(c.Context(), orgID, projectID)
		return h.HandleResponse(c, overview, err)
	})
}

// HandleUpdate cập nhật một phần project
func (h *ProjectHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input projectdto.ProjectUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		project, err := h.projectService.UpdateProject(c.Context(), orgID, projectID, &input)
		return h.HandleResponse(c, project, err)
	})
}

// HandleDelete xóa project cùng episode, part và nội dung bên dưới
func (h *ProjectHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		orgID, err := middleware.RequireOrganization(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		projectID, err := h.ParamObjectID(c, "projectId")
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		err = h.studioService.DeleteProject(c.Context(), orgID, projectID)
		if err == nil {
			logger.LogDelete("project", projectID.Hex(), c)
		}
		return h.HandleNoContent(c, err)
	})
}
