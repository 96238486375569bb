// Package assetsvc quản lý nhân vật, bối cảnh, đạo cụ của project và phạm vi hiển thị của chúng.
package assetsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	assetdto "story_studio/internal/api/asset/dto"
	models "story_studio/internal/api/asset/models"
	basesvc "story_studio/internal/api/base/service"
	mediadto "story_studio/internal/api/media/dto"
	projectmodels "story_studio/internal/api/project/models"
	"story_studio/internal/common"
	"story_studio/internal/global"
	"story_studio/internal/utility"
)

const errAssetMissing = "Không tìm thấy tài sản"

// ProjectGetter kiểm tra project thuộc tổ chức
type ProjectGetter interface {
	GetProject(ctx context.Context, orgID, projectID primitive.ObjectID) (*projectmodels.Project, error)
}

// ImageResolver lấy ảnh theo danh sách ID, bỏ qua ID không tồn tại
type ImageResolver interface {
	FindImagesByIds(ctx context.Context, ids []primitive.ObjectID) ([]mediadto.MediaOutput, error)
}

// AssetService là cấu trúc chứa các phương thức tài sản
type AssetService struct {
	stores   map[models.Kind]basesvc.BaseServiceMongo[models.Asset]
	projects ProjectGetter
	images   ImageResolver
}

// NewAssetService tạo mới AssetService, mỗi kind một collection
func NewAssetService(projects ProjectGetter, images ImageResolver) (*AssetService, error) {
	colNames := map[models.Kind]string{
		models.KindCharacter: global.MongoDB_ColNames.Characters,
		models.KindLocation:  global.MongoDB_ColNames.Locations,
		models.KindProp:      global.MongoDB_ColNames.Props,
	}
	stores := make(map[models.Kind]basesvc.BaseServiceMongo[models.Asset], len(colNames))
	for kind, name := range colNames {
		store, err := basesvc.NewStore[models.Asset](name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s collection: %w", name, err)
		}
		stores[kind] = store
	}
	return &AssetService{stores: stores, projects: projects, images: images}, nil
}

var sortByName = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}

func (s *AssetService) store(kind models.Kind) (basesvc.BaseServiceMongo[models.Asset], error) {
	store, ok := s.stores[kind]
	if !ok {
		return nil, common.NotFound(fmt.Sprintf("Loại tài sản '%s' không tồn tại", kind))
	}
	return store, nil
}

func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := utility.ParseObjectID(r)
		if err != nil {
			return nil, common.ErrInvalidID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func buildScope(in *assetdto.ScopeInput) (models.AssetScope, error) {
	scope := models.DefaultScope()
	if in == nil {
		return scope, nil
	}
	if in.Project != nil {
		scope.Project = *in.Project
	}
	var err error
	if scope.EpisodeIDs, err = parseIDs(in.EpisodeIDs); err != nil {
		return scope, err
	}
	if scope.PartIDs, err = parseIDs(in.PartIDs); err != nil {
		return scope, err
	}
	return scope, nil
}

// find lấy document và kiểm tra tổ chức
func (s *AssetService) find(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, id primitive.ObjectID) (*models.Asset, basesvc.BaseServiceMongo[models.Asset], error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, nil, err
	}
	asset, err := store.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.NotFound(errAssetMissing)
		}
		return nil, nil, err
	}
	if asset.OrganizationID != orgID {
		return nil, nil, common.NotFound(errAssetMissing)
	}
	return &asset, store, nil
}

// ListByProject liệt kê tài sản của project theo tên
func (s *AssetService) ListByProject(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, projectID primitive.ObjectID) ([]assetdto.AssetOutput, error) {
	if _, err := s.projects.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	assets, err := s.AssetsOfProject(ctx, kind, projectID)
	if err != nil {
		return nil, err
	}
	return assetdto.NewAssetOutputs(kind, assets), nil
}

// AssetsOfProject liệt kê document tài sản của project theo tên, không kiểm tra tổ chức
func (s *AssetService) AssetsOfProject(ctx context.Context, kind models.Kind, projectID primitive.ObjectID) ([]models.Asset, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return store.Find(ctx, bson.M{"projectId": projectID}, options.Find().SetSort(sortByName))
}

// CountByProject đếm tài sản của project theo kind
func (s *AssetService) CountByProject(ctx context.Context, kind models.Kind, projectID primitive.ObjectID) (int64, error) {
	store, err := s.store(kind)
	if err != nil {
		return 0, err
	}
	return store.CountDocuments(ctx, bson.M{"projectId": projectID})
}

// Get lấy tài sản kèm ảnh đã resolve; tài sản của project khác trả về NotFound
func (s *AssetService) Get(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, projectID, id primitive.ObjectID) (*assetdto.AssetDetailOutput, error) {
	asset, _, err := s.find(ctx, orgID, kind, id)
	if err != nil {
		return nil, err
	}
	if asset.ProjectID != projectID {
		return nil, common.NotFound(errAssetMissing)
	}
	images, err := s.images.FindImagesByIds(ctx, asset.ImageIDs)
	if err != nil {
		return nil, err
	}
	return &assetdto.AssetDetailOutput{AssetOutput: assetdto.NewAssetOutput(kind, asset), Images: images}, nil
}

// Create tạo tài sản cho project; scope mặc định toàn project, category đạo cụ mặc định "general"
func (s *AssetService) Create(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, input *assetdto.AssetCreateInput) (*assetdto.AssetOutput, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	projectID, err := utility.ParseObjectID(input.ProjectID)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	project, err := s.projects.GetProject(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}
	imageIDs, err := parseIDs(input.ImageIDs)
	if err != nil {
		return nil, err
	}
	scope, err := buildScope(input.Scope)
	if err != nil {
		return nil, err
	}

	asset := models.Asset{
		OrganizationID: project.OrganizationID,
		ProjectID:      project.ID,
		Name:           strings.TrimSpace(input.Name),
		Content:        input.Content,
		ImageIDs:       imageIDs,
		Scope:          scope,
	}
	if kind == models.KindProp {
		asset.Category = input.Category
		if asset.Category == "" {
			asset.Category = models.DefaultPropCategory
		}
	}

	created, err := store.InsertOne(ctx, asset)
	if err != nil {
		return nil, err
	}
	out := assetdto.NewAssetOutput(kind, &created)
	return &out, nil
}

// Update cập nhật một phần tài sản
func (s *AssetService) Update(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, id primitive.ObjectID, input *assetdto.AssetUpdateInput) (*assetdto.AssetOutput, error) {
	_, store, err := s.find(ctx, orgID, kind, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Name != nil {
		set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Content != nil {
		set["content"] = *input.Content
	}
	if input.ImageIDs != nil {
		ids, err := parseIDs(input.ImageIDs)
		if err != nil {
			return nil, err
		}
		set["imageIds"] = ids
	}
	if input.Category != nil && kind == models.KindProp {
		set["category"] = *input.Category
	}
	if input.Scope != nil {
		scope, err := buildScope(input.Scope)
		if err != nil {
			return nil, err
		}
		set["scope"] = scope
	}

	updated, err := store.UpdateById(ctx, id, set)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(errAssetMissing)
		}
		return nil, err
	}
	out := assetdto.NewAssetOutput(kind, &updated)
	return &out, nil
}

// Delete xóa tài sản; ảnh tham chiếu giữ nguyên
func (s *AssetService) Delete(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, id primitive.ObjectID) error {
	_, store, err := s.find(ctx, orgID, kind, id)
	if err != nil {
		return err
	}
	return store.DeleteById(ctx, id)
}

// ListVisibleTo liệt kê tài sản hiển thị ở episode/part đã cho
func (s *AssetService) ListVisibleTo(ctx context.Context, orgID primitive.ObjectID, kind models.Kind, projectID primitive.ObjectID, episodeID, partID *primitive.ObjectID) ([]assetdto.AssetOutput, error) {
	if _, err := s.projects.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	assets, err := s.AssetsOfProject(ctx, kind, projectID)
	if err != nil {
		return nil, err
	}
	visible := utility.Filter(assets, func(a models.Asset) bool {
		return a.Scope.VisibleTo(episodeID, partID)
	})
	return assetdto.NewAssetOutputs(kind, visible), nil
}
