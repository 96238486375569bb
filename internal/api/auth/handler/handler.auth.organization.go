package authhdl

import (
	"github.com/gofiber/fiber/v3"

	authdto "story_studio/internal/api/auth/dto"
	authsvc "story_studio/internal/api/auth/service"
	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	"story_studio/internal/logger"
)

// OrganizationHandler xử lý tạo tổ chức và quản lý thành viên
type OrganizationHandler struct {
	*basehdl.BaseHandler
	orgService *authsvc.OrganizationService
}

// NewOrganizationHandler tạo OrganizationHandler
func NewOrganizationHandler(orgService *authsvc.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: basehdl.NewBaseHandler(), orgService: orgService}
}

// HandleCreate tạo tổ chức, người tạo thành thành viên đầu tiên
func (h *OrganizationHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input authdto.OrganizationCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		org, err := h.orgService.Create(c.Context(), user, &input)
		if err == nil {
			logger.LogAction("create_organization", c, map[string]interface{}{"organizationId": org.ID})
		}
		return h.HandleCreated(c, org, err)
	})
}

// HandleGetMine trả về tổ chức của người dùng hiện tại
func (h *OrganizationHandler) HandleGetMine(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		org, err := h.orgService.GetMine(c.Context(), user)
		return h.HandleResponse(c, org, err)
	})
}

// HandleAddMember thêm thành viên theo email
func (h *OrganizationHandler) HandleAddMember(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input authdto.AddMemberInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		org, err := h.orgService.AddMember(c.Context(), user, &input)
		if err == nil {
			logger.LogAction("add_member", c, map[string]interface{}{
				"organizationId": org.ID,
				"email":          input.Email,
			})
		}
		return h.HandleResponse(c, org, err)
	})
}

// HandleListMembers liệt kê thành viên
func (h *OrganizationHandler) HandleListMembers(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		members, err := h.orgService.ListMembers(c.Context(), user)
		return h.HandleResponse(c, members, err)
	})
}
