package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// ĐĂNG KÝ MIDDLEWARE TRONG FIBER V3
// ============================================================================
//
// Middleware truyền trực tiếp vào router.Get(path, mw, handler) không được gọi ổn định.
// Luôn gắn middleware qua group.Use(): mỗi prefix tạo một group, Use các middleware
// một lần, rồi đăng ký các route tương đối trong group đó (RegisterRouteGroup).
//
// Fiber khớp route theo thứ tự đăng ký: route công khai (login, health) phải đăng ký
// trước group có cùng prefix, route tĩnh (/assets/images) trước route tham số (/assets/:kind).
// ============================================================================

// Route mô tả một route trong group
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix tạo RoutePrefix mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// RegisterRouteGroup tạo group cho prefix, gắn middleware bằng .Use() rồi đăng ký các route
func RegisterRouteGroup(router fiber.Router, prefix string, middlewares []fiber.Handler, routes ...Route) error {
	group := router.Group(prefix)
	for _, mw := range middlewares {
		group.Use(mw)
	}

	for _, r := range routes {
		switch r.Method {
		case fiber.MethodGet:
			group.Get(r.Path, r.Handler)
		case fiber.MethodPost:
			group.Post(r.Path, r.Handler)
		case fiber.MethodPut:
			group.Put(r.Path, r.Handler)
		case fiber.MethodDelete:
			group.Delete(r.Path, r.Handler)
		default:
			return fmt.Errorf("router: method %s không được hỗ trợ (%s%s)", r.Method, prefix, r.Path)
		}
	}
	return nil
}

// RegisterFunc là hàm đăng ký route của một domain
type RegisterFunc func(v1 fiber.Router) error

// SetupRoutes thiết lập tất cả các route cho ứng dụng.
// Caller truyền lần lượt Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	v1 := app.Group(NewRoutePrefix().V1)
	for _, reg := range regs {
		if err := reg(v1); err != nil {
			return err
		}
	}
	return nil
}
