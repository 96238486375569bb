package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"story_studio/config"
	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/common"
	"story_studio/internal/global"
)

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	*BaseHandler
}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{BaseHandler: NewBaseHandler()}
}

// HandleHealth kiểm tra tình trạng hệ thống và kết nối storage
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"storage":   basesvc.StorageDriver(),
		"services":  services,
	}

	if basesvc.StorageDriver() == config.StorageMemory {
		services["database"] = "memory"
		return h.HandleResponse(c, healthData, nil)
	}

	if global.MongoDB_Session == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
		return h.HandleResponse(c, healthData, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := global.MongoDB_Session.Ping(ctx, nil); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		healthData["database_error"] = err.Error()
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": common.MsgServiceUnavailable,
			"data":    healthData,
			"status":  "error",
		})
	}
	services["database"] = "ok"
	return h.HandleResponse(c, healthData, nil)
}
