// Package authsvc chứa logic đăng nhập, profile và tổ chức của domain auth.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "story_studio/internal/api/auth/dto"
	models "story_studio/internal/api/auth/models"
	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/common"
	"story_studio/internal/global"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	store basesvc.BaseServiceMongo[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	store, err := basesvc.NewStore[models.User](global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to get users collection: %w", err)
	}
	return &UserService{store: store}, nil
}

// FindByID tìm người dùng theo ID
func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.store.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Không tìm thấy người dùng")
		}
		return nil, err
	}
	return &user, nil
}

// GetProfile trả về profile của người dùng
func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*authdto.UserOutput, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := authdto.NewUserOutput(user)
	return &out, nil
}

// UpdateProfile cập nhật một phần profile, trường không gửi giữ nguyên
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input *authdto.ProfileUpdateInput) (*authdto.UserOutput, error) {
	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Name != nil {
		update.Set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Bio != nil {
		update.Set["bio"] = *input.Bio
	}

	user, err := s.store.UpdateById(ctx, userID, update)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Không tìm thấy người dùng")
		}
		return nil, err
	}
	out := authdto.NewUserOutput(&user)
	return &out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
