// Package authhdl chứa handler HTTP cho đăng nhập, profile và tổ chức.
package authhdl

import (
	"github.com/gofiber/fiber/v3"

	authdto "story_studio/internal/api/auth/dto"
	authsvc "story_studio/internal/api/auth/service"
	basehdl "story_studio/internal/api/base/handler"
	"story_studio/internal/api/middleware"
	"story_studio/internal/logger"
)

// UserHandler xử lý các request xác thực và profile người dùng
type UserHandler struct {
	*basehdl.BaseHandler
	authService *authsvc.AuthService
	userService *authsvc.UserService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler(authService *authsvc.AuthService, userService *authsvc.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: basehdl.NewBaseHandler(),
		authService: authService,
		userService: userService,
	}
}

// HandleLoginWithGoogle đăng nhập bằng Google ID token
func (h *UserHandler) HandleLoginWithGoogle(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.GoogleLoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		result, err := h.authService.LoginWithGoogle(c.Context(), &input)
		if err == nil {
			c.Locals(middleware.LocalUserID, result.User.ID)
			logger.LogAction("login", c, map[string]interface{}{"hasOrganization": result.HasOrganization})
		}
		return h.HandleResponse(c, result, err)
	})
}

// HandleMe trả về người dùng hiện tại kèm tổ chức
func (h *UserHandler) HandleMe(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		result, err := h.authService.Me(c.Context(), user)
		return h.HandleResponse(c, result, err)
	})
}

// HandleLogout xử lý đăng xuất người dùng
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		if err := h.authService.Logout(c.Context(), user.ID); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		logger.LogAction("logout", c, nil)
		return h.HandleResponse(c, fiber.Map{"loggedOut": true}, nil)
	})
}

// HandleGetProfile lấy thông tin profile của người dùng
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		profile, err := h.userService.GetProfile(c.Context(), user.ID)
		return h.HandleResponse(c, profile, err)
	})
}

// HandleUpdateProfile cập nhật name và bio
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, err := middleware.CurrentUser(c)
		if err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		var input authdto.ProfileUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			return basehdl.ErrorResponse(c, err)
		}
		profile, err := h.userService.UpdateProfile(c.Context(), user.ID, &input)
		return h.HandleResponse(c, profile, err)
	})
}
