package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "story_studio/internal/api/auth/models"
	"story_studio/internal/common"
	"story_studio/internal/logger"
)

// Các key lưu trong c.Locals sau khi xác thực
const (
	LocalUserID               = "user_id"
	LocalUser                 = "user"
	LocalActiveOrganizationID = "active_organization_id"
)

// Authenticator xác thực access token và trả về người dùng sở hữu
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
}

// AuthMiddleware yêu cầu header "Authorization: Bearer <token>" hợp lệ.
// Mọi lỗi xác thực trả 401 trước khi handler chạy.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("[AUTH] Missing Authorization header")
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		user, err := auth.Authenticate(c.Context(), parts[1])
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("[AUTH] Token rejected")
			return HandleErrorResponse(c, err)
		}

		c.Locals(LocalUserID, user.ID.Hex())
		c.Locals(LocalUser, user)
		if user.HasOrganization() {
			c.Locals(LocalActiveOrganizationID, *user.OrganizationID)
		}
		return c.Next()
	}
}

// CurrentUser lấy người dùng đã xác thực từ context
func CurrentUser(c fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(LocalUser).(*models.User)
	if !ok || user == nil {
		return nil, common.ErrTokenMissing
	}
	return user, nil
}

// ActiveOrganizationID trả về tổ chức của người dùng hiện tại, nil nếu chưa có
func ActiveOrganizationID(c fiber.Ctx) *primitive.ObjectID {
	if id, ok := c.Locals(LocalActiveOrganizationID).(primitive.ObjectID); ok {
		return &id
	}
	return nil
}

// RequireOrganization trả về tổ chức của người dùng hiện tại, lỗi 400 nếu chưa có
func RequireOrganization(c fiber.Ctx) (primitive.ObjectID, error) {
	if id := ActiveOrganizationID(c); id != nil {
		return *id, nil
	}
	if _, err := CurrentUser(c); err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.NilObjectID, common.Precondition("Bạn chưa thuộc tổ chức nào")
}
