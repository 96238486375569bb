package mediadto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "story_studio/internal/api/media/models"
)

// MetadataInput là metadata truyền vào, trường nil giữ nguyên
type MetadataInput struct {
	VersionNo *int  `json:"versionNo,omitempty" validate:"omitempty,gte=1"`
	Edited    *bool `json:"edited,omitempty"`
	Selected  *bool `json:"selected,omitempty"`
}

// MediaCreateInput đầu vào tạo ảnh hoặc clip cho part
type MediaCreateInput struct {
	Type     string         `json:"type" validate:"required,media_type"`
	PartID   string         `json:"partId" validate:"required,objectid"`
	ShotID   string         `json:"shotId,omitempty" validate:"omitempty,objectid"`
	Name     string         `json:"name" validate:"max=500,no_xss"`
	URL      string         `json:"url" validate:"required,max=2000"`
	Category string         `json:"category,omitempty" validate:"max=100,no_xss"`
	Metadata *MetadataInput `json:"metadata,omitempty"`
}

// MediaUpdateInput cập nhật một phần ảnh hoặc clip
type MediaUpdateInput struct {
	Name     *string        `json:"name,omitempty" validate:"omitempty,max=500,no_xss"`
	URL      *string        `json:"url,omitempty" validate:"omitempty,min=1,max=2000"`
	Category *string        `json:"category,omitempty" validate:"omitempty,max=100,no_xss"`
	ShotID   *string        `json:"shotId,omitempty" validate:"omitempty,objectid"`
	Metadata *MetadataInput `json:"metadata,omitempty"`
}

// ProjectImageCreateInput đầu vào tạo ảnh tham chiếu của project (không thuộc part)
type ProjectImageCreateInput struct {
	ProjectID string `json:"projectId" validate:"required,objectid"`
	Name      string `json:"name" validate:"max=500,no_xss"`
	ImageURL  string `json:"imageUrl" validate:"required,max=2000"`
	Category  string `json:"category" validate:"max=100,no_xss"`
}

// ProjectImageQuery lọc ảnh tham chiếu theo category
type ProjectImageQuery struct {
	Category string `query:"category" validate:"max=100"`
}

// MediaOutput là dạng trả về chung cho ảnh và clip
type MediaOutput struct {
	ID             primitive.ObjectID  `json:"id"`
	Type           string              `json:"type"`
	OrganizationID primitive.ObjectID  `json:"organizationId"`
	ProjectID      primitive.ObjectID  `json:"projectId"`
	EpisodeID      *primitive.ObjectID `json:"episodeId,omitempty"`
	PartID         *primitive.ObjectID `json:"partId,omitempty"`
	ShotID         *primitive.ObjectID `json:"shotId,omitempty"`
	Name           string              `json:"name"`
	URL            string              `json:"url"`
	Category       string              `json:"category,omitempty"`
	Metadata       models.Metadata     `json:"metadata"`
	CreatedAt      int64               `json:"createdAt"`
	UpdatedAt      int64               `json:"updatedAt"`
}

func fromBase(typ, url string, b *models.MediaBase) MediaOutput {
	return MediaOutput{
		ID:             b.ID,
		Type:           typ,
		OrganizationID: b.OrganizationID,
		ProjectID:      b.ProjectID,
		EpisodeID:      b.EpisodeID,
		PartID:         b.PartID,
		ShotID:         b.ShotID,
		Name:           b.Name,
		URL:            url,
		Category:       b.Category,
		Metadata:       b.Metadata,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// NewImageOutput chuyển Image sang MediaOutput
func NewImageOutput(img *models.Image) MediaOutput {
	return fromBase(models.TypeImage, img.ImageURL, &img.MediaBase)
}

// NewClipOutput chuyển Clip sang MediaOutput
func NewClipOutput(clip *models.Clip) MediaOutput {
	return fromBase(models.TypeClip, clip.ClipURL, &clip.MediaBase)
}

// NewImageOutputs chuyển danh sách ảnh
func NewImageOutputs(images []models.Image) []MediaOutput {
	out := make([]MediaOutput, 0, len(images))
	for i := range images {
		out = append(out, NewImageOutput(&images[i]))
	}
	return out
}

// NewClipOutputs chuyển danh sách clip
func NewClipOutputs(clips []models.Clip) []MediaOutput {
	out := make([]MediaOutput, 0, len(clips))
	for i := range clips {
		out = append(out, NewClipOutput(&clips[i]))
	}
	return out
}
