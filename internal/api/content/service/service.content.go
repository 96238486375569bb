// Package contentsvc lưu các phiên bản Beat/Shot/Storyboard của part và phiên bản đang chọn.
//
// Phiên bản đang chọn của nhóm (partId, type) được giữ bởi một con trỏ trong content_selections.
// Cờ metadata.selected trên từng document chỉ là bản phản chiếu, khi đọc luôn suy ra từ con trỏ.
package contentsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "story_studio/internal/api/base/service"
	contentdto "story_studio/internal/api/content/dto"
	models "story_studio/internal/api/content/models"
	projectmodels "story_studio/internal/api/project/models"
	"story_studio/internal/common"
	"story_studio/internal/global"
	"story_studio/internal/utility"
)

const errContentMissing = "Không tìm thấy nội dung"

// PartResolver tìm part và kiểm tra quyền tổ chức
type PartResolver interface {
	ResolvePart(ctx context.Context, orgID, partID primitive.ObjectID) (*projectmodels.Part, *projectmodels.Project, error)
}

// ContentService là cấu trúc chứa các phương thức nội dung có phiên bản
type ContentService struct {
	slots      []slot // thứ tự dò Beat → Shot → Storyboard
	selections basesvc.BaseServiceMongo[models.ContentSelection]
	parts      PartResolver
}

// NewContentService tạo mới ContentService
func NewContentService(parts PartResolver) (*ContentService, error) {
	beats, err := newBeatStore(global.MongoDB_ColNames.Beats)
	if err != nil {
		return nil, err
	}
	shots, err := newShotStore(global.MongoDB_ColNames.Shots)
	if err != nil {
		return nil, err
	}
	storyboards, err := newStoryboardStore(global.MongoDB_ColNames.Storyboards)
	if err != nil {
		return nil, err
	}
	selections, err := basesvc.NewStore[models.ContentSelection](global.MongoDB_ColNames.ContentSelections)
	if err != nil {
		return nil, fmt.Errorf("failed to get content selections collection: %w", err)
	}
	return &ContentService{
		slots:      []slot{beats, shots, storyboards},
		selections: selections,
		parts:      parts,
	}, nil
}

func (s *ContentService) slotFor(typ string) (slot, error) {
	for _, sl := range s.slots {
		if sl.kind() == typ {
			return sl, nil
		}
	}
	return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Loại nội dung '%s' không hợp lệ", typ), common.StatusBadRequest, nil)
}

// locate dò ID lần lượt qua các loại, trả về item đầu tiên tìm thấy
func (s *ContentService) locate(ctx context.Context, orgID, id primitive.ObjectID) (*models.ContentItem, slot, error) {
	for _, sl := range s.slots {
		item, err := sl.findByID(ctx, id)
		if err == nil {
			if item.Base().OrganizationID != orgID {
				return nil, nil, common.NotFound(errContentMissing)
			}
			return item, sl, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, nil, err
		}
	}
	return nil, nil, common.NotFound(errContentMissing)
}

// ====================================
// CON TRỎ PHIÊN BẢN ĐANG CHỌN
// ====================================

// pointers trả về map type → currentVersionId của part
func (s *ContentService) pointers(ctx context.Context, partID primitive.ObjectID) (map[string]primitive.ObjectID, error) {
	docs, err := s.selections.Find(ctx, bson.M{"partId": partID}, nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string]primitive.ObjectID, len(docs))
	for _, d := range docs {
		out[d.Type] = d.CurrentVersionID
	}
	return out, nil
}

// resolveSelected ghi đè metadata.selected theo con trỏ nếu nhóm có con trỏ
func resolveSelected(items []models.ContentItem, current map[string]primitive.ObjectID) {
	for i := range items {
		base := items[i].Base()
		if ptr, ok := current[items[i].Type]; ok {
			base.Metadata.Selected = base.ID == ptr
		}
	}
}

func (s *ContentService) withSelection(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	current, err := s.pointers(ctx, item.Base().PartID)
	if err != nil {
		return nil, err
	}
	one := []models.ContentItem{*item}
	resolveSelected(one, current)
	return &one[0], nil
}

// moveSelection trỏ nhóm (partId, type) về id bằng một lệnh upsert, sau đó phản chiếu cờ selected.
// Chỉ các phiên bản khác đang selected=true mới bị ghi lại.
// Lỗi khi phản chiếu chỉ được log vì con trỏ đã là nguồn sự thật.
func (s *ContentService) moveSelection(ctx context.Context, sl slot, partID, id primitive.ObjectID) error {
	_, err := s.selections.Upsert(ctx,
		bson.M{"partId": partID, "type": sl.kind()},
		bson.M{"$set": bson.M{"currentVersionId": id}})
	if err != nil {
		return err
	}

	if _, err := sl.updateMany(ctx, bson.M{"partId": partID, "_id": bson.M{"$ne": id}, "metadata.selected": true}, bson.M{"metadata.selected": false}); err != nil {
		logrus.WithError(err).WithField("partId", partID.Hex()).Warn("moveSelection: không phản chiếu được cờ selected")
	}
	if _, err := sl.updateByID(ctx, id, bson.M{"metadata.selected": true}); err != nil {
		logrus.WithError(err).WithField("id", id.Hex()).Warn("moveSelection: không phản chiếu được cờ selected")
	}
	return nil
}

// clearSelection xóa con trỏ nếu nó đang trỏ vào id
func (s *ContentService) clearSelection(ctx context.Context, partID primitive.ObjectID, typ string, id primitive.ObjectID) error {
	err := s.selections.DeleteOne(ctx, bson.M{"partId": partID, "type": typ, "currentVersionId": id})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// ====================================
// CRUD
// ====================================

// Create tạo một phiên bản mới cho part; selected (mặc định true) chuyển con trỏ về phiên bản này
func (s *ContentService) Create(ctx context.Context, orgID primitive.ObjectID, input *contentdto.ContentCreateInput) (*models.ContentItem, error) {
	sl, err := s.slotFor(input.Type)
	if err != nil {
		return nil, err
	}
	partID, err := utility.ParseObjectID(input.PartID)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	part, project, err := s.parts.ResolvePart(ctx, orgID, partID)
	if err != nil {
		return nil, err
	}

	meta := models.DefaultMetadata()
	if input.Metadata != nil {
		if input.Metadata.VersionNo != nil {
			meta.VersionNo = *input.Metadata.VersionNo
		}
		if input.Metadata.Edited != nil {
			meta.Edited = *input.Metadata.Edited
		}
		if input.Metadata.Selected != nil {
			meta.Selected = *input.Metadata.Selected
		}
	}

	item, err := sl.create(ctx, models.ContentBase{
		OrganizationID: project.OrganizationID,
		ProjectID:      part.ProjectID,
		EpisodeID:      part.EpisodeID,
		PartID:         part.ID,
		Content:        input.Content,
		Metadata:       meta,
	}, input)
	if err != nil {
		return nil, err
	}

	if meta.Selected {
		if err := s.moveSelection(ctx, sl, part.ID, item.Base().ID); err != nil {
			return nil, err
		}
	}
	return s.withSelection(ctx, item)
}

// Get lấy một phiên bản theo ID, loại được xác định bằng cách dò
func (s *ContentService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*models.ContentItem, error) {
	item, _, err := s.locate(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return s.withSelection(ctx, item)
}

// Update cập nhật nội dung, số thứ tự và metadata từng trường.
// selected=true chuyển con trỏ về phiên bản này, selected=false chỉ gỡ con trỏ nếu nó đang trỏ vào đây.
func (s *ContentService) Update(ctx context.Context, orgID, id primitive.ObjectID, input *contentdto.ContentUpdateInput) (*models.ContentItem, error) {
	item, sl, err := s.locate(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	partID := item.Base().PartID

	set := sl.ordinalSet(input)
	if input.Content != nil {
		set["content"] = *input.Content
	}
	var selected *bool
	if input.Metadata != nil {
		if input.Metadata.VersionNo != nil {
			set["metadata.versionNo"] = *input.Metadata.VersionNo
		}
		if input.Metadata.Edited != nil {
			set["metadata.edited"] = *input.Metadata.Edited
		}
		selected = input.Metadata.Selected
	}

	updated, err := sl.updateByID(ctx, id, set)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(errContentMissing)
		}
		return nil, err
	}

	if selected != nil {
		if *selected {
			err = s.moveSelection(ctx, sl, partID, id)
		} else {
			err = s.clearSelection(ctx, partID, sl.kind(), id)
			if err == nil {
				updated, err = sl.updateByID(ctx, id, bson.M{"metadata.selected": false})
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return s.withSelection(ctx, updated)
}

// Delete xóa phiên bản; con trỏ đang trỏ vào nó cũng bị gỡ
func (s *ContentService) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	item, sl, err := s.locate(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := sl.deleteByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound(errContentMissing)
		}
		return err
	}
	return s.clearSelection(ctx, item.Base().PartID, sl.kind(), id)
}

// Select đặt phiên bản này là phiên bản đang chọn của nhóm (partId, type). Gọi lại nhiều lần cho cùng kết quả.
func (s *ContentService) Select(ctx context.Context, orgID, id primitive.ObjectID) (*models.ContentItem, error) {
	item, sl, err := s.locate(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := s.moveSelection(ctx, sl, item.Base().PartID, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, orgID, id)
}

// ====================================
// THEO PART
// ====================================

// ListByPart liệt kê phiên bản của part, typ rỗng lấy cả ba loại theo thứ tự Beat, Shot, Storyboard
func (s *ContentService) ListByPart(ctx context.Context, orgID, partID primitive.ObjectID, typ string) ([]models.ContentItem, error) {
	if _, _, err := s.parts.ResolvePart(ctx, orgID, partID); err != nil {
		return nil, err
	}
	slots := s.slots
	if typ != "" {
		sl, err := s.slotFor(typ)
		if err != nil {
			return nil, err
		}
		slots = []slot{sl}
	}
	return s.itemsOf(ctx, partID, slots)
}

// ItemsOfPart liệt kê mọi phiên bản của part, không kiểm tra tổ chức
func (s *ContentService) ItemsOfPart(ctx context.Context, partID primitive.ObjectID) ([]models.ContentItem, error) {
	return s.itemsOf(ctx, partID, s.slots)
}

func (s *ContentService) itemsOf(ctx context.Context, partID primitive.ObjectID, slots []slot) ([]models.ContentItem, error) {
	current, err := s.pointers(ctx, partID)
	if err != nil {
		return nil, err
	}
	items := []models.ContentItem{}
	for _, sl := range slots {
		found, err := sl.find(ctx, bson.M{"partId": partID})
		if err != nil {
			return nil, err
		}
		items = append(items, found...)
	}
	resolveSelected(items, current)
	return items, nil
}

// CountByPart đếm số phiên bản của part theo từng loại
func (s *ContentService) CountByPart(ctx context.Context, partID primitive.ObjectID) (map[string]int64, error) {
	counts := make(map[string]int64, len(s.slots))
	for _, sl := range s.slots {
		n, err := sl.count(ctx, bson.M{"partId": partID})
		if err != nil {
			return nil, err
		}
		counts[sl.kind()] = n
	}
	return counts, nil
}

// DeleteByPart xóa mọi phiên bản và con trỏ của part, trả về số document nội dung đã xóa
func (s *ContentService) DeleteByPart(ctx context.Context, partID primitive.ObjectID) (int64, error) {
	var total int64
	for _, sl := range s.slots {
		n, err := sl.deleteMany(ctx, bson.M{"partId": partID})
		if err != nil {
			return total, err
		}
		total += n
	}
	if _, err := s.selections.DeleteMany(ctx, bson.M{"partId": partID}); err != nil {
		return total, err
	}
	return total, nil
}

// DeleteOrphans xóa phiên bản và con trỏ chọn có partId không nằm trong livePartIDs, chỉ xét document tạo trước cutoff
func (s *ContentService) DeleteOrphans(ctx context.Context, livePartIDs []primitive.ObjectID, cutoff int64) (int64, error) {
	if livePartIDs == nil {
		// $nin cần mảng, slice nil được mã hóa thành null
		livePartIDs = []primitive.ObjectID{}
	}
	filter := bson.M{"partId": bson.M{"$nin": livePartIDs}, "createdAt": bson.M{"$lt": cutoff}}
	var total int64
	for _, sl := range s.slots {
		n, err := sl.deleteMany(ctx, filter)
		if err != nil {
			return total, err
		}
		total += n
	}
	if _, err := s.selections.DeleteMany(ctx, filter); err != nil {
		return total, err
	}
	return total, nil
}
