package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "story_studio/internal/api/auth/dto"
	models "story_studio/internal/api/auth/models"
	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/common"
	"story_studio/internal/global"
	"story_studio/internal/utility"
)

// TokenTypeBearer là loại token trả về khi đăng nhập
const TokenTypeBearer = "bearer"

const defaultAccessTokenTTL = 360 * time.Minute

// AuthService xử lý đăng nhập, xác thực access token và đăng xuất
type AuthService struct {
	users    basesvc.BaseServiceMongo[models.User]
	orgs     *OrganizationService
	verifier IdentityVerifier
}

// NewAuthService tạo AuthService với verifier danh tính cho trước
func NewAuthService(verifier IdentityVerifier, orgs *OrganizationService) (*AuthService, error) {
	users, err := basesvc.NewStore[models.User](global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to get users collection: %w", err)
	}
	return &AuthService{users: users, orgs: orgs, verifier: verifier}, nil
}

func jwtSecret() string {
	if global.MongoDB_ServerConfig == nil {
		return ""
	}
	return global.MongoDB_ServerConfig.JwtSecret
}

func accessTokenTTL() time.Duration {
	if global.MongoDB_ServerConfig == nil || global.MongoDB_ServerConfig.AccessTokenExpireMinutes <= 0 {
		return defaultAccessTokenTTL
	}
	return time.Duration(global.MongoDB_ServerConfig.AccessTokenExpireMinutes) * time.Minute
}

// LoginWithGoogle xác minh ID token, tìm hoặc tạo người dùng rồi cấp access token mới
func (s *AuthService) LoginWithGoogle(ctx context.Context, input *authdto.GoogleLoginInput) (*authdto.LoginOutput, error) {
	identity, err := s.verifier.Verify(ctx, input.IDToken)
	if err != nil {
		logrus.WithError(err).Warn("LoginWithGoogle: ID token không hợp lệ")
		return nil, common.NewError(common.ErrCodeAuthCredentials, "ID token không hợp lệ", common.StatusUnauthorized, nil)
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "ID token thiếu thông tin email", common.StatusUnauthorized, nil)
	}

	user, err := s.findOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	secret := jwtSecret()
	if secret == "" {
		return nil, common.NewError(common.ErrCodeInternalServer, "JWT secret chưa được cấu hình", common.StatusInternalServerError, nil)
	}
	token, expiresAt, err := utility.CreateAccessToken(secret, user.ID.Hex(), accessTokenTTL())
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateById(ctx, user.ID, bson.M{"token": token})
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.PayloadFor(ctx, &updated)
	if err != nil {
		return nil, err
	}

	return &authdto.LoginOutput{
		AccessToken:     token,
		TokenType:       TokenTypeBearer,
		ExpiresAt:       expiresAt.UnixMilli(),
		User:            authdto.NewUserOutput(&updated),
		HasOrganization: org != nil,
		Organization:    org,
	}, nil
}

// findOrCreate tìm theo subject của nhà cung cấp, sau đó theo email (liên kết tài khoản), cuối cùng tạo mới
func (s *AuthService) findOrCreate(ctx context.Context, identity *Identity) (*models.User, error) {
	field := providerField(identity.Provider)
	email := normalizeEmail(identity.Email)

	user, err := s.users.FindOne(ctx, bson.M{field: identity.Subject}, nil)
	if err == nil {
		return s.refreshProfile(ctx, &user, identity)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	user, err = s.users.FindOne(ctx, bson.M{"email": email}, nil)
	if err == nil {
		var existing string
		if field == "firebaseUid" {
			existing = user.FirebaseUID
		} else {
			existing = user.GoogleID
		}
		if existing != "" && existing != identity.Subject {
			logrus.WithFields(logrus.Fields{"email": email, "provider": identity.Provider}).Warn("LoginWithGoogle: email đã liên kết tài khoản khác")
			return nil, common.NewError(common.ErrCodeAuthCredentials,
				fmt.Sprintf("Email '%s' đã được liên kết với tài khoản khác", email), common.StatusUnauthorized, nil)
		}
		linked, err := s.users.UpdateById(ctx, user.ID, bson.M{field: identity.Subject})
		if err != nil {
			return nil, err
		}
		return s.refreshProfile(ctx, &linked, identity)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	newUser := models.User{
		Email:     email,
		Name:      strings.TrimSpace(identity.Name),
		AvatarURL: identity.Picture,
	}
	if field == "firebaseUid" {
		newUser.FirebaseUID = identity.Subject
	} else {
		newUser.GoogleID = identity.Subject
	}
	created, err := s.users.InsertOne(ctx, newUser)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"userId": created.ID.Hex(), "provider": identity.Provider}).Info("LoginWithGoogle: tạo người dùng mới")
	return &created, nil
}

// refreshProfile chỉ điền tên và avatar còn trống, không ghi đè thông tin người dùng đã sửa
func (s *AuthService) refreshProfile(ctx context.Context, user *models.User, identity *Identity) (*models.User, error) {
	set := bson.M{}
	if user.Name == "" && identity.Name != "" {
		set["name"] = strings.TrimSpace(identity.Name)
	}
	if user.AvatarURL == "" && identity.Picture != "" {
		set["avatarUrl"] = identity.Picture
	}
	if len(set) == 0 {
		return user, nil
	}
	updated, err := s.users.UpdateById(ctx, user.ID, set)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Authenticate xác thực access token: chữ ký, loại token, hạn dùng, người dùng tồn tại và token còn được lưu
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := utility.ParseAccessToken(jwtSecret(), rawToken)
	if err != nil {
		if errors.Is(err, utility.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	user, err := s.users.FindOneById(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if user.Token == "" || user.Token != rawToken {
		return nil, common.ErrTokenInvalid
	}
	return &user, nil
}

// Logout xóa token đang lưu, các request sau dùng token này nhận 401
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users.UpdateById(ctx, userID, bson.M{"token": ""})
	return err
}

// Me trả về người dùng hiện tại kèm tổ chức
func (s *AuthService) Me(ctx context.Context, user *models.User) (*authdto.MeOutput, error) {
	org, err := s.orgs.PayloadFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return &authdto.MeOutput{User: authdto.NewUserOutput(user), Organization: org}, nil
}
