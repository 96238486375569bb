// Package router đăng ký các route thuộc domain auth: system, auth, users, organizations.
package router

import (
	"github.com/gofiber/fiber/v3"

	authhdl "story_studio/internal/api/auth/handler"
	authsvc "story_studio/internal/api/auth/service"
	basehdl "story_studio/internal/api/base/handler"
	apirouter "story_studio/internal/api/router"
)

// Services gom các service của domain auth
type Services struct {
	Auth          *authsvc.AuthService
	Users         *authsvc.UserService
	Organizations *authsvc.OrganizationService
}

// Register trả về hàm đăng ký route auth lên v1.
// Route công khai đăng ký trước group cần xác thực cùng prefix.
func Register(svc Services, authMiddleware fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router) error {
		systemHandler := basehdl.NewSystemHandler()
		userHandler := authhdl.NewUserHandler(svc.Auth, svc.Users)
		orgHandler := authhdl.NewOrganizationHandler(svc.Organizations)
		authed := []fiber.Handler{authMiddleware}

		if err := apirouter.RegisterRouteGroup(v1, "/system", nil,
			apirouter.Route{Method: fiber.MethodGet, Path: "/health", Handler: systemHandler.HandleHealth},
		); err != nil {
			return err
		}

		if err := apirouter.RegisterRouteGroup(v1, "/auth", nil,
			apirouter.Route{Method: fiber.MethodPost, Path: "/google", Handler: userHandler.HandleLoginWithGoogle},
		); err != nil {
			return err
		}
		if err := apirouter.RegisterRouteGroup(v1, "/auth", authed,
			apirouter.Route{Method: fiber.MethodGet, Path: "/me", Handler: userHandler.HandleMe},
			apirouter.Route{Method: fiber.MethodPost, Path: "/logout", Handler: userHandler.HandleLogout},
		); err != nil {
			return err
		}

		if err := apirouter.RegisterRouteGroup(v1, "/users", authed,
			apirouter.Route{Method: fiber.MethodGet, Path: "/profile", Handler: userHandler.HandleGetProfile},
			apirouter.Route{Method: fiber.MethodPut, Path: "/profile", Handler: userHandler.HandleUpdateProfile},
		); err != nil {
			return err
		}

		return apirouter.RegisterRouteGroup(v1, "/organizations", authed,
			apirouter.Route{Method: fiber.MethodPost, Path: "/", Handler: orgHandler.HandleCreate},
			apirouter.Route{Method: fiber.MethodGet, Path: "/my-organization", Handler: orgHandler.HandleGetMine},
			apirouter.Route{Method: fiber.MethodPost, Path: "/add-member", Handler: orgHandler.HandleAddMember},
			apirouter.Route{Method: fiber.MethodGet, Path: "/members", Handler: orgHandler.HandleListMembers},
		)
	}
}
