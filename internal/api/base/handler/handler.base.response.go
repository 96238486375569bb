package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"story_studio/internal/common"
	"story_studio/internal/logger"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// ErrorResponse chuẩn hóa lỗi thành envelope {code, message, details, status:"error"}.
// Dùng chung cho handler, middleware và ErrorHandler của Fiber.
func ErrorResponse(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return JSONResponse(c, customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
	}

	logger.WithRequest(c).WithError(err).Error("Lỗi không xác định")
	logger.GetErrorLogger().WithError(err).WithField("path", c.Path()).Error("Unhandled error")
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": err.Error(),
		"details": nil,
		"status":  "error",
	})
}

// SafeHandler bọc handler với recover để luôn trả về response cho client kể cả khi panic
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("stack", string(debug.Stack())).Errorf("Panic trong handler: %v", r)
			err = ErrorResponse(c, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return handler()
}

// HandleResponse trả về 200 với envelope thành công, hoặc envelope lỗi nếu err != nil
func (h *BaseHandler) HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	return h.respond(c, common.StatusOK, common.MsgSuccess, data, err)
}

// HandleCreated trả về 201 cho thao tác tạo mới
func (h *BaseHandler) HandleCreated(c fiber.Ctx, data interface{}, err error) error {
	return h.respond(c, common.StatusCreated, common.MsgCreated, data, err)
}

// HandleNoContent trả về 204 không body cho thao tác xóa
func (h *BaseHandler) HandleNoContent(c fiber.Ctx, err error) error {
	if err != nil {
		return ErrorResponse(c, err)
	}
	return c.SendStatus(common.StatusNoContent)
}

func (h *BaseHandler) respond(c fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		return ErrorResponse(c, err)
	}
	return JSONResponse(c, status, fiber.Map{
		"code":    status,
		"message": message,
		"data":    data,
		"status":  "success",
	})
}
