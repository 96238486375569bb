package authdto

import (
	models "story_studio/internal/api/auth/models"
)

// NewUserOutput chuyển User thành dữ liệu trả về client (không kèm token)
func NewUserOutput(u *models.User) UserOutput {
	out := UserOutput{
		ID:              u.ID.Hex(),
		Email:           u.Email,
		Name:            u.Name,
		AvatarURL:       u.AvatarURL,
		Bio:             u.Bio,
		HasOrganization: u.HasOrganization(),
		CreatedAt:       u.CreatedAt,
	}
	if u.HasOrganization() {
		orgID := u.OrganizationID.Hex()
		out.OrganizationID = &orgID
	}
	return out
}

// NewMemberOutput chuyển User thành thông tin thành viên rút gọn
func NewMemberOutput(u *models.User) MemberOutput {
	return MemberOutput{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
