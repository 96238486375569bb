package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một hành động audit (đăng nhập, thêm thành viên, xóa dây chuyền...)
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now().UTC(),
	}
	if uid, ok := c.Locals("user_id").(string); ok {
		fields["user_id"] = uid
	}
	if rid := requestID(c); rid != "" {
		fields["request_id"] = rid
	}

	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogDelete ghi audit cho thao tác xóa tài nguyên
func LogDelete(resourceType, resourceID string, c fiber.Ctx) {
	LogAction("delete_"+resourceType, c, map[string]interface{}{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}
