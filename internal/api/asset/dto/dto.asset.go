package assetdto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "story_studio/internal/api/asset/models"
	mediadto "story_studio/internal/api/media/dto"
)

// ScopeInput là phạm vi truyền vào, project mặc định true
type ScopeInput struct {
	Project    *bool    `json:"project,omitempty"`
	EpisodeIDs []string `json:"episodeIds" validate:"omitempty,dive,objectid"`
	PartIDs    []string `json:"partIds" validate:"omitempty,dive,objectid"`
}

// AssetCreateInput đầu vào tạo tài sản
type AssetCreateInput struct {
	ProjectID string      `json:"projectId" validate:"required,objectid"`
	Name      string      `json:"name" validate:"required,max=300,no_xss"`
	Content   string      `json:"content" maxLength:"500000"`
	ImageIDs  []string    `json:"imageIds" validate:"omitempty,dive,objectid"`
	Category  string      `json:"category,omitempty" validate:"max=100,no_xss"`
	Scope     *ScopeInput `json:"scope,omitempty"`
}

// AssetUpdateInput cập nhật một phần; scope truyền vào thay thế toàn bộ scope cũ
type AssetUpdateInput struct {
	Name     *string     `json:"name,omitempty" validate:"omitempty,min=1,max=300,no_xss"`
	Content  *string     `json:"content,omitempty"`
	ImageIDs []string    `json:"imageIds,omitempty" validate:"omitempty,dive,objectid"`
	Category *string     `json:"category,omitempty" validate:"omitempty,max=100,no_xss"`
	Scope    *ScopeInput `json:"scope,omitempty"`
}

// VisibleQuery lọc tài sản hiển thị ở episode/part
type VisibleQuery struct {
	EpisodeID string `query:"episodeId" validate:"omitempty,objectid"`
	PartID    string `query:"partId" validate:"omitempty,objectid"`
}

// AssetOutput là dạng trả về của tài sản
type AssetOutput struct {
	ID             primitive.ObjectID   `json:"id"`
	OrganizationID primitive.ObjectID   `json:"organizationId"`
	ProjectID      primitive.ObjectID   `json:"projectId"`
	Name           string               `json:"name"`
	Content        string               `json:"content"`
	ImageIDs       []primitive.ObjectID `json:"imageIds"`
	Category       string               `json:"category"`
	Scope          models.AssetScope    `json:"scope"`
	CreatedAt      int64                `json:"createdAt"`
	UpdatedAt      int64                `json:"updatedAt"`
}

// AssetDetailOutput kèm ảnh đã resolve, ảnh không còn tồn tại bị bỏ qua
type AssetDetailOutput struct {
	AssetOutput
	Images []mediadto.MediaOutput `json:"images"`
}

func nonNil(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}

// NewAssetOutput chuyển document sang AssetOutput
func NewAssetOutput(kind models.Kind, a *models.Asset) AssetOutput {
	scope := a.Scope
	scope.EpisodeIDs = nonNil(scope.EpisodeIDs)
	scope.PartIDs = nonNil(scope.PartIDs)
	return AssetOutput{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		ProjectID:      a.ProjectID,
		Name:           a.Name,
		Content:        a.Content,
		ImageIDs:       nonNil(a.ImageIDs),
		Category:       kind.Category(a.Category),
		Scope:          scope,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// NewAssetOutputs chuyển danh sách
func NewAssetOutputs(kind models.Kind, assets []models.Asset) []AssetOutput {
	out := make([]AssetOutput, 0, len(assets))
	for i := range assets {
		out = append(out, NewAssetOutput(kind, &assets[i]))
	}
	return out
}
