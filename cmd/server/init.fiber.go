package main

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/google/uuid"

	"story_studio/config"
	assetrouter "story_studio/internal/api/asset/router"
	authrouter "story_studio/internal/api/auth/router"
	basehdl "story_studio/internal/api/base/handler"
	contentrouter "story_studio/internal/api/content/router"
	mediarouter "story_studio/internal/api/media/router"
	"story_studio/internal/api/middleware"
	projectrouter "story_studio/internal/api/project/router"
	apirouter "story_studio/internal/api/router"
	studiorouter "story_studio/internal/api/studio/router"
	"story_studio/internal/common"
	"story_studio/internal/logger"
)

const staticPrefix = "/static"

// errorHandler đưa lỗi chưa được handler xử lý (404 route, 405, body quá lớn) về envelope lỗi chuẩn
func errorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := common.ErrCodeInternalServer
		switch fe.Code {
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = common.ErrCodeValidationInput
		case fiber.StatusUnauthorized:
			code = common.ErrCodeAuthTokenInvalid
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			code = common.ErrCodeNotFound
		}
		logger.WithRequest(c).WithFields(map[string]interface{}{
			"code":    fe.Code,
			"message": fe.Message,
		}).Debug("Request error")
		return basehdl.ErrorResponse(c, common.NewError(code, fe.Message, fe.Code, nil))
	}
	return basehdl.ErrorResponse(c, err)
}

// InitFiberApp khởi tạo ứng dụng Fiber với middleware và toàn bộ route
func InitFiberApp(cfg *config.Configuration, svc *Services) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		// =========================================
		// 1. CẤU HÌNH CƠ BẢN
		// =========================================
		AppName:       "Story Studio API",
		ServerHeader:  "Story Studio API",
		StrictRouting: false,
		CaseSensitive: true,
		UnescapePath:  true,

		// =========================================
		// 2. CẤU HÌNH PERFORMANCE
		// =========================================
		BodyLimit:       10 * 1024 * 1024, // bibleText/scriptText có thể lớn
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		// =========================================
		// 3. CẤU HÌNH TIMEOUT
		// =========================================
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		// =========================================
		// 4. CẤU HÌNH ERROR HANDLING
		// =========================================
		ErrorHandler: errorHandler,
	})

	// =========================================
	// MIDDLEWARE STACK
	// =========================================

	// 1. Request ID để trace log theo request
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// 2. CORS đặt sớm để xử lý preflight
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate limit theo IP
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return basehdl.ErrorResponse(c, common.NewError(
					common.ErrCodeBusinessOperation,
					"Quá nhiều yêu cầu, vui lòng thử lại sau",
					fiber.StatusTooManyRequests,
					nil,
				))
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/system/health" || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	// 6. File tĩnh của dữ liệu demo
	if cfg.DemoDataDir != "" {
		app.Get(staticPrefix+"*", static.New(cfg.DemoDataDir))
	}

	authMiddleware := middleware.AuthMiddleware(svc.Auth)
	err := apirouter.SetupRoutes(app,
		authrouter.Register(authrouter.Services{
			Auth:          svc.Auth,
			Users:         svc.Users,
			Organizations: svc.Organizations,
		}, authMiddleware),
		projectrouter.Register(svc.Projects, svc.Studio, authMiddleware),
		studiorouter.Register(svc.Studio, authMiddleware),
		contentrouter.Register(svc.Content, authMiddleware),
		mediarouter.Register(svc.Media, authMiddleware),
		assetrouter.Register(svc.Assets, svc.Media, authMiddleware),
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}
