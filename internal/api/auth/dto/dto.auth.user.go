package authdto

// GoogleLoginInput đầu vào đăng nhập bằng Google (hoặc Firebase) ID token.
type GoogleLoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// ProfileUpdateInput đầu vào cập nhật profile, trường nil giữ nguyên.
type ProfileUpdateInput struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Bio  *string `json:"bio,omitempty" validate:"omitempty,max=2000,no_xss"`
}

// MemberOutput là thông tin rút gọn của một thành viên
type MemberOutput struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// UserOutput là thông tin người dùng trả về client
type UserOutput struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	AvatarURL       string  `json:"avatarUrl"`
	Bio             string  `json:"bio"`
	OrganizationID  *string `json:"organizationId"`
	HasOrganization bool    `json:"hasOrganization"`
	CreatedAt       int64   `json:"createdAt"`
}

// LoginOutput là kết quả đăng nhập
type LoginOutput struct {
	AccessToken     string              `json:"accessToken"`
	TokenType       string              `json:"tokenType"`
	ExpiresAt       int64               `json:"expiresAt"`
	User            UserOutput          `json:"user"`
	HasOrganization bool                `json:"hasOrganization"`
	Organization    *OrganizationOutput `json:"organization"`
}

// MeOutput là thông tin người dùng hiện tại kèm tổ chức
type MeOutput struct {
	User         UserOutput          `json:"user"`
	Organization *OrganizationOutput `json:"organization"`
}
