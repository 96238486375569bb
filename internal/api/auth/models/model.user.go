// Package models - model người dùng (User) và tổ chức (Organization) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User định nghĩa mô hình người dùng.
// Token chứa access token mới nhất, bị xóa khi đăng xuất.
type User struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string              `json:"email" bson:"email" index:"unique"`
	GoogleID       string              `json:"-" bson:"googleId,omitempty" index:"unique,sparse"`
	FirebaseUID    string              `json:"-" bson:"firebaseUid,omitempty" index:"unique,sparse"`
	Name           string              `json:"name" bson:"name"`
	AvatarURL      string              `json:"avatarUrl" bson:"avatarUrl"`
	Bio            string              `json:"bio" bson:"bio"`
	OrganizationID *primitive.ObjectID `json:"organizationId" bson:"organizationId,omitempty" index:"single"`
	Token          string              `json:"-" bson:"token"`
	CreatedAt      int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64               `json:"updatedAt" bson:"updatedAt"`
}

// HasOrganization cho biết người dùng đã thuộc một tổ chức
func (u *User) HasOrganization() bool {
	return u.OrganizationID != nil && !u.OrganizationID.IsZero()
}
