// Package mediasvc quản lý ảnh và clip của part, cùng ảnh tham chiếu cấp project.
package mediasvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "story_studio/internal/api/base/service"
	mediadto "story_studio/internal/api/media/dto"
	models "story_studio/internal/api/media/models"
	projectmodels "story_studio/internal/api/project/models"
	"story_studio/internal/common"
	"story_studio/internal/global"
	"story_studio/internal/utility"
)

const errMediaMissing = "Không tìm thấy media"

func missingMedia(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFound(errMediaMissing)
	}
	return err
}

// ProjectResolver tìm project/part và kiểm tra quyền tổ chức
type ProjectResolver interface {
	GetProject(ctx context.Context, orgID, projectID primitive.ObjectID) (*projectmodels.Project, error)
	ResolvePart(ctx context.Context, orgID, partID primitive.ObjectID) (*projectmodels.Part, *projectmodels.Project, error)
}

// MediaService là cấu trúc chứa các phương thức ảnh và clip
type MediaService struct {
	images   basesvc.BaseServiceMongo[models.Image]
	clips    basesvc.BaseServiceMongo[models.Clip]
	projects ProjectResolver
}

// NewMediaService tạo mới MediaService
func NewMediaService(projects ProjectResolver) (*MediaService, error) {
	images, err := basesvc.NewStore[models.Image](global.MongoDB_ColNames.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to get images collection: %w", err)
	}
	clips, err := basesvc.NewStore[models.Clip](global.MongoDB_ColNames.Clips)
	if err != nil {
		return nil, fmt.Errorf("failed to get clips collection: %w", err)
	}
	return &MediaService{images: images, clips: clips, projects: projects}, nil
}

var (
	sortByCreated = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	sortNewest    = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
)

func applyMetadata(meta *models.Metadata, in *mediadto.MetadataInput) {
	if in == nil {
		return
	}
	if in.VersionNo != nil {
		meta.VersionNo = *in.VersionNo
	}
	if in.Edited != nil {
		meta.Edited = *in.Edited
	}
	if in.Selected != nil {
		meta.Selected = *in.Selected
	}
}

// Create tạo ảnh hoặc clip cho part; category ảnh mặc định "shot"
func (s *MediaService) Create(ctx context.Context, orgID primitive.ObjectID, input *mediadto.MediaCreateInput) (*mediadto.MediaOutput, error) {
	partID, err := utility.ParseObjectID(input.PartID)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	part, project, err := s.projects.ResolvePart(ctx, orgID, partID)
	if err != nil {
		return nil, err
	}

	base := models.MediaBase{
		OrganizationID: project.OrganizationID,
		ProjectID:      part.ProjectID,
		EpisodeID:      &part.EpisodeID,
		PartID:         &part.ID,
		Name:           strings.TrimSpace(input.Name),
		Category:       input.Category,
		Metadata:       models.Metadata{VersionNo: 1, Selected: true},
	}
	if input.ShotID != "" {
		shotID, err := utility.ParseObjectID(input.ShotID)
		if err != nil {
			return nil, common.ErrInvalidID
		}
		base.ShotID = &shotID
	}
	applyMetadata(&base.Metadata, input.Metadata)

	switch input.Type {
	case models.TypeImage:
		if base.Category == "" {
			base.Category = models.DefaultImageCategory
		}
		img, err := s.images.InsertOne(ctx, models.Image{MediaBase: base, ImageURL: input.URL})
		if err != nil {
			return nil, err
		}
		out := mediadto.NewImageOutput(&img)
		return &out, nil
	case models.TypeClip:
		clip, err := s.clips.InsertOne(ctx, models.Clip{MediaBase: base, ClipURL: input.URL})
		if err != nil {
			return nil, err
		}
		out := mediadto.NewClipOutput(&clip)
		return &out, nil
	}
	return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Loại media '%s' không hợp lệ", input.Type), common.StatusBadRequest, nil)
}

// locate dò ảnh trước rồi tới clip
func (s *MediaService) locate(ctx context.Context, orgID, id primitive.ObjectID) (*mediadto.MediaOutput, error) {
	img, err := s.images.FindOneById(ctx, id)
	if err == nil {
		if img.OrganizationID != orgID {
			return nil, common.NotFound(errMediaMissing)
		}
		out := mediadto.NewImageOutput(&img)
		return &out, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	clip, err := s.clips.FindOneById(ctx, id)
	if err == nil {
		if clip.OrganizationID != orgID {
			return nil, common.NotFound(errMediaMissing)
		}
		out := mediadto.NewClipOutput(&clip)
		return &out, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return nil, common.NotFound(errMediaMissing)
}

// Get lấy ảnh hoặc clip theo ID
func (s *MediaService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*mediadto.MediaOutput, error) {
	return s.locate(ctx, orgID, id)
}

// Update cập nhật một phần; shotId rỗng gỡ tham chiếu shot
func (s *MediaService) Update(ctx context.Context, orgID, id primitive.ObjectID, input *mediadto.MediaUpdateInput) (*mediadto.MediaOutput, error) {
	current, err := s.locate(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{}}
	if input.Name != nil {
		update.Set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		update.Set["category"] = *input.Category
	}
	if input.ShotID != nil {
		if *input.ShotID == "" {
			update.Unset = map[string]interface{}{"shotId": ""}
		} else {
			shotID, err := utility.ParseObjectID(*input.ShotID)
			if err != nil {
				return nil, common.ErrInvalidID
			}
			update.Set["shotId"] = shotID
		}
	}
	if m := input.Metadata; m != nil {
		if m.VersionNo != nil {
			update.Set["metadata.versionNo"] = *m.VersionNo
		}
		if m.Edited != nil {
			update.Set["metadata.edited"] = *m.Edited
		}
		if m.Selected != nil {
			update.Set["metadata.selected"] = *m.Selected
		}
	}

	if current.Type == models.TypeImage {
		if input.URL != nil {
			update.Set["imageUrl"] = *input.URL
		}
		img, err := s.images.UpdateById(ctx, id, update)
		if err != nil {
			return nil, missingMedia(err)
		}
		out := mediadto.NewImageOutput(&img)
		return &out, nil
	}

	if input.URL != nil {
		update.Set["clipUrl"] = *input.URL
	}
	clip, err := s.clips.UpdateById(ctx, id, update)
	if err != nil {
		return nil, missingMedia(err)
	}
	out := mediadto.NewClipOutput(&clip)
	return &out, nil
}

// Delete xóa ảnh hoặc clip
func (s *MediaService) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	current, err := s.locate(ctx, orgID, id)
	if err != nil {
		return err
	}
	if current.Type == models.TypeImage {
		return missingMedia(s.images.DeleteById(ctx, id))
	}
	return missingMedia(s.clips.DeleteById(ctx, id))
}

// ====================================
// THEO PART
// ====================================

// ListByPart liệt kê ảnh rồi clip của part theo thứ tự tạo
func (s *MediaService) ListByPart(ctx context.Context, orgID, partID primitive.ObjectID) ([]mediadto.MediaOutput, error) {
	if _, _, err := s.projects.ResolvePart(ctx, orgID, partID); err != nil {
		return nil, err
	}
	images, err := s.ImagesOfPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	clips, err := s.ClipsOfPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	return append(images, clips...), nil
}

// ImagesOfPart liệt kê ảnh của part, không kiểm tra tổ chức
func (s *MediaService) ImagesOfPart(ctx context.Context, partID primitive.ObjectID) ([]mediadto.MediaOutput, error) {
	images, err := s.images.Find(ctx, bson.M{"partId": partID}, options.Find().SetSort(sortByCreated))
	if err != nil {
		return nil, err
	}
	return mediadto.NewImageOutputs(images), nil
}

// ClipsOfPart liệt kê clip của part, không kiểm tra tổ chức
func (s *MediaService) ClipsOfPart(ctx context.Context, partID primitive.ObjectID) ([]mediadto.MediaOutput, error) {
	clips, err := s.clips.Find(ctx, bson.M{"partId": partID}, options.Find().SetSort(sortByCreated))
	if err != nil {
		return nil, err
	}
	return mediadto.NewClipOutputs(clips), nil
}

// CountByPart đếm số ảnh và clip của part
func (s *MediaService) CountByPart(ctx context.Context, partID primitive.ObjectID) (images, clips int64, err error) {
	if images, err = s.images.CountDocuments(ctx, bson.M{"partId": partID}); err != nil {
		return 0, 0, err
	}
	if clips, err = s.clips.CountDocuments(ctx, bson.M{"partId": partID}); err != nil {
		return 0, 0, err
	}
	return images, clips, nil
}

// DeleteByPart xóa mọi ảnh và clip của part
func (s *MediaService) DeleteByPart(ctx context.Context, partID primitive.ObjectID) (int64, error) {
	images, err := s.images.DeleteMany(ctx, bson.M{"partId": partID})
	if err != nil {
		return 0, err
	}
	clips, err := s.clips.DeleteMany(ctx, bson.M{"partId": partID})
	if err != nil {
		return images, err
	}
	return images + clips, nil
}

// DeleteOrphans xóa media gắn với part không còn tồn tại; ảnh tham chiếu cấp project không bị động tới
func (s *MediaService) DeleteOrphans(ctx context.Context, livePartIDs []primitive.ObjectID, cutoff int64) (int64, error) {
	if livePartIDs == nil {
		// $nin cần mảng, slice nil được mã hóa thành null
		livePartIDs = []primitive.ObjectID{}
	}
	filter := bson.M{
		"partId":    bson.M{"$exists": true, "$nin": livePartIDs},
		"createdAt": bson.M{"$lt": cutoff},
	}
	images, err := s.images.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	clips, err := s.clips.DeleteMany(ctx, filter)
	if err != nil {
		return images, err
	}
	return images + clips, nil
}

// FindImagesByIds lấy ảnh theo danh sách ID, giữ thứ tự đầu vào; ID không còn tồn tại bị bỏ qua
func (s *MediaService) FindImagesByIds(ctx context.Context, ids []primitive.ObjectID) ([]mediadto.MediaOutput, error) {
	if len(ids) == 0 {
		return []mediadto.MediaOutput{}, nil
	}
	images, err := s.images.FindManyByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.Image, len(images))
	for i := range images {
		byID[images[i].ID] = &images[i]
	}
	out := make([]mediadto.MediaOutput, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		img, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, mediadto.NewImageOutput(img))
	}
	return out, nil
}

// ====================================
// ẢNH THAM CHIẾU CỦA PROJECT
// ====================================

// CreateProjectImage tạo ảnh tham chiếu không thuộc part nào
func (s *MediaService) CreateProjectImage(ctx context.Context, orgID primitive.ObjectID, input *mediadto.ProjectImageCreateInput) (*mediadto.MediaOutput, error) {
	projectID, err := utility.ParseObjectID(input.ProjectID)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	project, err := s.projects.GetProject(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}
	img, err := s.images.InsertOne(ctx, models.Image{
		MediaBase: models.MediaBase{
			OrganizationID: project.OrganizationID,
			ProjectID:      project.ID,
			Name:           strings.TrimSpace(input.Name),
			Category:       input.Category,
			Metadata:       models.Metadata{VersionNo: 1, Selected: true},
		},
		ImageURL: input.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	out := mediadto.NewImageOutput(&img)
	return &out, nil
}

// ListProjectImages liệt kê ảnh tham chiếu của project, mới nhất trước
func (s *MediaService) ListProjectImages(ctx context.Context, orgID, projectID primitive.ObjectID, category string) ([]mediadto.MediaOutput, error) {
	if _, err := s.projects.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	filter := bson.M{"projectId": projectID, "partId": nil}
	if category != "" {
		filter["category"] = category
	}
	images, err := s.images.Find(ctx, filter, options.Find().SetSort(sortNewest))
	if err != nil {
		return nil, err
	}
	return mediadto.NewImageOutputs(images), nil
}
