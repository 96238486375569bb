// Package models - tài sản sáng tạo cấp project: nhân vật, bối cảnh, đạo cụ
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind là loại tài sản, trùng với đoạn path /assets/:kind
type Kind string

const (
	KindCharacter Kind = "characters"
	KindLocation  Kind = "locations"
	KindProp      Kind = "props"
)

// Kinds theo thứ tự trả về trong các view tổng hợp
var Kinds = []Kind{KindCharacter, KindLocation, KindProp}

// DefaultPropCategory là category mặc định của đạo cụ
const DefaultPropCategory = "general"

// Valid kiểm tra kind hợp lệ
func (k Kind) Valid() bool {
	return k == KindCharacter || k == KindLocation || k == KindProp
}

// Category trả về category hiển thị: nhân vật và bối cảnh cố định, đạo cụ lấy theo document
func (k Kind) Category(stored string) string {
	switch k {
	case KindCharacter:
		return "character"
	case KindLocation:
		return "location"
	}
	if stored == "" {
		return DefaultPropCategory
	}
	return stored
}

// AssetScope giới hạn phạm vi hiển thị của tài sản
type AssetScope struct {
	Project    bool                 `json:"project" bson:"project"`       // true: hiển thị ở mọi nơi trong project
	EpisodeIDs []primitive.ObjectID `json:"episodeIds" bson:"episodeIds"` // Chỉ xét khi Project=false
	PartIDs    []primitive.ObjectID `json:"partIds" bson:"partIds"`
}

// DefaultScope là phạm vi mặc định: toàn project
func DefaultScope() AssetScope {
	return AssetScope{Project: true, EpisodeIDs: []primitive.ObjectID{}, PartIDs: []primitive.ObjectID{}}
}

// VisibleTo cho biết tài sản có hiển thị ở episode/part đã cho.
// Hai danh sách episode và part độc lập, khớp một trong hai là đủ.
func (s AssetScope) VisibleTo(episodeID, partID *primitive.ObjectID) bool {
	if s.Project {
		return true
	}
	if episodeID != nil {
		for _, id := range s.EpisodeIDs {
			if id == *episodeID {
				return true
			}
		}
	}
	if partID != nil {
		for _, id := range s.PartIDs {
			if id == *partID {
				return true
			}
		}
	}
	return false
}

// Asset là document chung của ba collection characters, locations, props
type Asset struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId"`
	ProjectID      primitive.ObjectID `json:"projectId" bson:"projectId" index:"single"`

	// ===== NỘI DUNG =====
	Name     string               `json:"name" bson:"name"`
	Content  string               `json:"content" bson:"content"`                       // Payload mờ
	ImageIDs []primitive.ObjectID `json:"imageIds" bson:"imageIds"`                     // Tham chiếu ảnh, không ràng buộc toàn vẹn
	Category string               `json:"category,omitempty" bson:"category,omitempty"` // Chỉ dùng cho đạo cụ
	Scope    AssetScope           `json:"scope" bson:"scope"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
