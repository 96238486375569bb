package authsvc

import (
	"context"
	"fmt"

	"cloud.google.com/go/auth/credentials/idtoken"

	"story_studio/config"
	"story_studio/internal/utility"
)

// Các nhà cung cấp danh tính
const (
	ProviderGoogle   = "google"
	ProviderFirebase = "firebase"
)

// Identity là danh tính đã được nhà cung cấp xác minh
type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	Picture  string
}

// IdentityVerifier xác minh ID token của nhà cung cấp bên ngoài
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier xác minh Google ID token với audience là OAuth client id
type GoogleVerifier struct {
	Audience string
}

// Verify kiểm tra chữ ký, hạn dùng và audience của Google ID token
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.Audience)
	if err != nil {
		return nil, fmt.Errorf("invalid google id token: %w", err)
	}
	return &Identity{
		Provider: ProviderGoogle,
		Subject:  payload.Subject,
		Email:    claimString(payload.Claims, "email"),
		Name:     claimString(payload.Claims, "name"),
		Picture:  claimString(payload.Claims, "picture"),
	}, nil
}

// FirebaseVerifier xác minh Firebase ID token qua Firebase Admin SDK
type FirebaseVerifier struct{}

// Verify kiểm tra Firebase ID token
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := utility.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &Identity{
		Provider: ProviderFirebase,
		Subject:  token.UID,
		Email:    claimString(token.Claims, "email"),
		Name:     claimString(token.Claims, "name"),
		Picture:  claimString(token.Claims, "picture"),
	}, nil
}

// NewIdentityVerifier chọn Firebase khi đã cấu hình và khởi tạo, ngược lại dùng Google
func NewIdentityVerifier(cfg *config.Configuration) IdentityVerifier {
	if cfg != nil && cfg.FirebaseProjectID != "" && utility.GetFirebaseAuth() != nil {
		return &FirebaseVerifier{}
	}
	audience := ""
	if cfg != nil {
		audience = cfg.GoogleClientID
	}
	return &GoogleVerifier{Audience: audience}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// providerField trả về field lưu subject của nhà cung cấp trên User
func providerField(provider string) string {
	if provider == ProviderFirebase {
		return "firebaseUid"
	}
	return "googleId"
}
