// Package models - ảnh và clip gắn với part (hoặc với project khi là ảnh tham chiếu)
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loại media
const (
	TypeImage = "image"
	TypeClip  = "clip"
)

// DefaultImageCategory là category mặc định của ảnh
const DefaultImageCategory = "shot"

// Metadata là thông tin phiên bản của media, không ràng buộc chọn duy nhất
type Metadata struct {
	VersionNo int  `json:"versionNo" bson:"versionNo"`
	Edited    bool `json:"edited" bson:"edited"`
	Selected  bool `json:"selected" bson:"selected"`
}

// MediaBase là phần chung của ảnh và clip
type MediaBase struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// ===== VỊ TRÍ TRONG CÂY =====
	OrganizationID primitive.ObjectID  `json:"organizationId" bson:"organizationId"`
	ProjectID      primitive.ObjectID  `json:"projectId" bson:"projectId" index:"single"`
	EpisodeID      *primitive.ObjectID `json:"episodeId,omitempty" bson:"episodeId,omitempty"`
	PartID         *primitive.ObjectID `json:"partId,omitempty" bson:"partId,omitempty" index:"single"` // nil với ảnh tham chiếu của project
	ShotID         *primitive.ObjectID `json:"shotId,omitempty" bson:"shotId,omitempty"`                // Tham chiếu yếu, không kiểm tra

	Name     string   `json:"name" bson:"name"`
	Category string   `json:"category,omitempty" bson:"category,omitempty"`
	Metadata Metadata `json:"metadata" bson:"metadata"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Image là một ảnh
type Image struct {
	MediaBase `bson:",inline"`
	ImageURL  string `json:"imageUrl" bson:"imageUrl"`
}

// Clip là một đoạn video
type Clip struct {
	MediaBase `bson:",inline"`
	ClipURL   string `json:"clipUrl" bson:"clipUrl"`
}
