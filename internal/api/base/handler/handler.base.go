// Package basehdl cung cấp handler nền cho các domain: parse request, validate, trả response chuẩn.
package basehdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"story_studio/internal/common"
	"story_studio/internal/global"
)

// BaseHandler là handler nền, các domain handler nhúng vào để dùng chung parse/validate/response
type BaseHandler struct{}

// NewBaseHandler tạo mới một BaseHandler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// validateStruct validate struct bằng validator toàn cục
func validateStruct(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return nil
}

// validateInput thực hiện validate chi tiết dữ liệu đầu vào
func (h *BaseHandler) validateInput(input interface{}) error {
	if err := validateStruct(input); err != nil {
		return err
	}

	val := reflect.ValueOf(input)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		// Giới hạn độ dài payload dạng chuỗi (tag maxLength)
		if field.Kind() == reflect.String {
			if maxTag := fieldType.Tag.Get("maxLength"); maxTag != "" {
				maxLen, err := strconv.Atoi(maxTag)
				if err == nil && len(field.String()) > maxLen {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Trường %s vượt quá độ dài cho phép (%d ký tự)", fieldType.Name, maxLen),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}
	return nil
}

// ParseRequestBody parse và validate dữ liệu từ request body.
// Sử dụng json.Decoder với UseNumber() để xử lý chính xác các số.
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return h.validateInput(input)
}

// ParseRequestQuery parse và validate query string (tag `query`)
func (h *BaseHandler) ParseRequestQuery(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Query(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return validateStruct(input)
}

// ParamObjectID đọc một path param và chuyển sang ObjectID.
// ID sai định dạng không thể trỏ tới tài nguyên nào nên trả về NotFound.
func (h *BaseHandler) ParamObjectID(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	raw := c.Params(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeNotFound,
			fmt.Sprintf("ID '%s' không tồn tại", raw),
			common.StatusNotFound,
			nil,
		)
	}
	return id, nil
}
