// Package models - nội dung có phiên bản của part: Beat, Shot, Storyboard.
// Mỗi document là một phiên bản của toàn bộ item cùng loại trong part.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại nội dung, theo đúng thứ tự dò khi chỉ có ID
const (
	TypeBeat       = "beat"
	TypeShot       = "shot"
	TypeStoryboard = "storyboard"
)

// Types là thứ tự dò cố định Beat → Shot → Storyboard
var Types = []string{TypeBeat, TypeShot, TypeStoryboard}

// Metadata là thông tin phiên bản
type Metadata struct {
	VersionNo int  `json:"versionNo" bson:"versionNo"`
	Edited    bool `json:"edited" bson:"edited"`
	Selected  bool `json:"selected" bson:"selected"`
}

// DefaultMetadata là metadata khi tạo mới mà không truyền
func DefaultMetadata() Metadata {
	return Metadata{VersionNo: 1, Edited: false, Selected: true}
}

// ContentBase là phần chung của mọi loại nội dung
type ContentBase struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// ===== VỊ TRÍ TRONG CÂY =====
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId"`
	ProjectID      primitive.ObjectID `json:"projectId" bson:"projectId" index:"single"`
	EpisodeID      primitive.ObjectID `json:"episodeId" bson:"episodeId" index:"single"`
	PartID         primitive.ObjectID `json:"partId" bson:"partId" index:"single"`

	// ===== NỘI DUNG =====
	Content  string   `json:"content" bson:"content"`   // Payload mờ, store không phân tích
	Metadata Metadata `json:"metadata" bson:"metadata"` // versionNo, edited, selected

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Beat là một phiên bản beat của part
type Beat struct {
	ContentBase `bson:",inline"`
	BeatNumber  int `json:"beatNumber" bson:"beatNumber"`
}

// Shot là một phiên bản shot của part
type Shot struct {
	ContentBase `bson:",inline"`
	ShotNumber  int    `json:"shotNumber" bson:"shotNumber"`
	ShotName    string `json:"shotName" bson:"shotName"`
}

// Storyboard là một phiên bản storyboard của part
type Storyboard struct {
	ContentBase `bson:",inline"`
	PanelNumber int `json:"panelNumber" bson:"panelNumber"`
}

// ContentSelection là con trỏ phiên bản đang chọn của nhóm (partId, type).
// Chọn phiên bản là một lệnh upsert nguyên tử trên document này.
type ContentSelection struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PartID           primitive.ObjectID `json:"partId" bson:"partId" index:"compound:part_type_unique"`
	Type             string             `json:"type" bson:"type" index:"compound:part_type_unique"`
	CurrentVersionID primitive.ObjectID `json:"currentVersionId" bson:"currentVersionId"`
	CreatedAt        int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64              `json:"updatedAt" bson:"updatedAt"`
}
