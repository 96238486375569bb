// Package projectsvc quản lý cây Project → Episode → Part và kiểm tra quyền theo tổ chức.
package projectsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "story_studio/internal/api/base/service"
	projectdto "story_studio/internal/api/project/dto"
	models "story_studio/internal/api/project/models"
	"story_studio/internal/common"
	"story_studio/internal/global"
)

// PartSeeder gieo dữ liệu mẫu cho part vừa tạo
type PartSeeder interface {
	SeedPart(ctx context.Context, organizationID primitive.ObjectID, part *models.Part) error
}

// ProjectService là cấu trúc chứa các phương thức của cây project
type ProjectService struct {
	projects basesvc.BaseServiceMongo[models.Project]
	episodes basesvc.BaseServiceMongo[models.Episode]
	parts    basesvc.BaseServiceMongo[models.Part]
	seeder   PartSeeder
}

// NewProjectService tạo mới ProjectService
func NewProjectService() (*ProjectService, error) {
	projects, err := basesvc.NewStore[models.Project](global.MongoDB_ColNames.Projects)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects collection: %w", err)
	}
	episodes, err := basesvc.NewStore[models.Episode](global.MongoDB_ColNames.Episodes)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes collection: %w", err)
	}
	parts, err := basesvc.NewStore[models.Part](global.MongoDB_ColNames.Parts)
	if err != nil {
		return nil, fmt.Errorf("failed to get parts collection: %w", err)
	}
	return &ProjectService{projects: projects, episodes: episodes, parts: parts}, nil
}

// SetPartSeeder gắn bước gieo dữ liệu chạy sau khi tạo part
func (s *ProjectService) SetPartSeeder(seeder PartSeeder) {
	s.seeder = seeder
}

var (
	sortByCreated   = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	sortByEpisodeNo = bson.D{{Key: "episodeNumber", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	sortByPartNo    = bson.D{{Key: "partNumber", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
)

const (
	errProjectMissing = "Không tìm thấy project"
	errEpisodeMissing = "Không tìm thấy episode"
	errPartMissing    = "Không tìm thấy part"
)

func notFoundAs(err error, message string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFound(message)
	}
	return err
}

// ====================================
// PROJECT
// ====================================

// CreateProject tạo project cho tổ chức, slug sinh từ tên
func (s *ProjectService) CreateProject(ctx context.Context, orgID, userID primitive.ObjectID, input *projectdto.ProjectCreateInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	project, err := s.projects.InsertOne(ctx, models.Project{
		OrganizationID: orgID,
		Name:           name,
		Slug:           slug.Make(name),
		Description:    input.Description,
		CreatedBy:      userID,
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects liệt kê project của tổ chức theo thời gian tạo
func (s *ProjectService) ListProjects(ctx context.Context, orgID primitive.ObjectID) ([]models.Project, error) {
	return s.projects.Find(ctx, bson.M{"organizationId": orgID}, options.Find().SetSort(sortByCreated))
}

// GetProject lấy project; project của tổ chức khác được coi là không tồn tại
func (s *ProjectService) GetProject(ctx context.Context, orgID, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.FindOne(ctx, bson.M{"_id": projectID, "organizationId": orgID}, nil)
	if err != nil {
		return nil, notFoundAs(err, errProjectMissing)
	}
	return &project, nil
}

// FindProject lấy project theo ID, không kiểm tra tổ chức
func (s *ProjectService) FindProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.FindOneById(ctx, projectID)
	if err != nil {
		return nil, notFoundAs(err, errProjectMissing)
	}
	return &project, nil
}

// UpdateProject cập nhật một phần, đổi tên thì sinh lại slug
func (s *ProjectService) UpdateProject(ctx context.Context, orgID, projectID primitive.ObjectID, input *projectdto.ProjectUpdateInput) (*models.Project, error) {
	if _, err := s.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	set := bson.M{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		set["name"] = name
		set["slug"] = slug.Make(name)
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	project, err := s.projects.UpdateById(ctx, projectID, set)
	if err != nil {
		return nil, notFoundAs(err, errProjectMissing)
	}
	return &project, nil
}

// DeleteProjectRecord chỉ xóa document project; xóa dây chuyền nằm ở studio
func (s *ProjectService) DeleteProjectRecord(ctx context.Context, projectID primitive.ObjectID) error {
	return notFoundAs(s.projects.DeleteById(ctx, projectID), errProjectMissing)
}

// ====================================
// EPISODE
// ====================================

// CreateEpisode tạo episode trong project đã tồn tại
func (s *ProjectService) CreateEpisode(ctx context.Context, orgID, userID, projectID primitive.ObjectID, input *projectdto.EpisodeCreateInput) (*models.Episode, error) {
	if _, err := s.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	episode, err := s.episodes.InsertOne(ctx, models.Episode{
		ProjectID:     projectID,
		EpisodeNumber: input.EpisodeNumber,
		BibleText:     input.BibleText,
		CreatedBy:     userID,
	})
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// ListEpisodes liệt kê episode theo episodeNumber tăng dần
func (s *ProjectService) ListEpisodes(ctx context.Context, orgID, projectID primitive.ObjectID) ([]models.Episode, error) {
	if _, err := s.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	return s.EpisodesOfProject(ctx, projectID)
}

// EpisodesOfProject liệt kê episode của project, không kiểm tra tổ chức
func (s *ProjectService) EpisodesOfProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Episode, error) {
	return s.episodes.Find(ctx, bson.M{"projectId": projectID}, options.Find().SetSort(sortByEpisodeNo))
}

// GetEpisode lấy episode, episode thuộc project khác trả về NotFound
func (s *ProjectService) GetEpisode(ctx context.Context, orgID, projectID, episodeID primitive.ObjectID) (*models.Episode, error) {
	if _, err := s.GetProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	episode, err := s.episodes.FindOne(ctx, bson.M{"_id": episodeID, "projectId": projectID}, nil)
	if err != nil {
		return nil, notFoundAs(err, errEpisodeMissing)
	}
	return &episode, nil
}

// FindEpisode lấy episode theo ID, không kiểm tra cha
func (s *ProjectService) FindEpisode(ctx context.Context, episodeID primitive.ObjectID) (*models.Episode, error) {
	episode, err := s.episodes.FindOneById(ctx, episodeID)
	if err != nil {
		return nil, notFoundAs(err, errEpisodeMissing)
	}
	return &episode, nil
}

// UpdateEpisode cập nhật một phần episode
func (s *ProjectService) UpdateEpisode(ctx context.Context, orgID, projectID, episodeID primitive.ObjectID, input *projectdto.EpisodeUpdateInput) (*models.Episode, error) {
	if _, err := s.GetEpisode(ctx, orgID, projectID, episodeID); err != nil {
		return nil, err
	}
	set := bson.M{}
	if input.EpisodeNumber != nil {
		set["episodeNumber"] = *input.EpisodeNumber
	}
	if input.BibleText != nil {
		set["bibleText"] = *input.BibleText
	}
	episode, err := s.episodes.UpdateById(ctx, episodeID, set)
	if err != nil {
		return nil, notFoundAs(err, errEpisodeMissing)
	}
	return &episode, nil
}

// DeleteEpisodeRecord chỉ xóa document episode
func (s *ProjectService) DeleteEpisodeRecord(ctx context.Context, episodeID primitive.ObjectID) error {
	return notFoundAs(s.episodes.DeleteById(ctx, episodeID), errEpisodeMissing)
}

// ====================================
// PART
// ====================================

// CreatePart tạo part trong episode thuộc project, sau đó gieo dữ liệu mẫu.
// Lỗi gieo dữ liệu chỉ được log, part vẫn được tạo.
func (s *ProjectService) CreatePart(ctx context.Context, orgID, userID, projectID, episodeID primitive.ObjectID, input *projectdto.PartCreateInput) (*models.Part, error) {
	if _, err := s.GetEpisode(ctx, orgID, projectID, episodeID); err != nil {
		return nil, err
	}
	part, err := s.parts.InsertOne(ctx, models.Part{
		ProjectID:  projectID,
		EpisodeID:  episodeID,
		PartNumber: input.PartNumber,
		Title:      strings.TrimSpace(input.Title),
		ScriptText: input.ScriptText,
		CreatedBy:  userID,
	})
	if err != nil {
		return nil, err
	}

	s.seedPart(ctx, orgID, &part)
	return &part, nil
}

func (s *ProjectService) seedPart(ctx context.Context, orgID primitive.ObjectID, part *models.Part) {
	if s.seeder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{"partId": part.ID.Hex(), "panic": r}).Warn("CreatePart: gieo dữ liệu mẫu bị panic")
		}
	}()
	if err := s.seeder.SeedPart(ctx, orgID, part); err != nil {
		logrus.WithError(err).WithField("partId", part.ID.Hex()).Warn("CreatePart: gieo dữ liệu mẫu thất bại")
	}
}

// ListParts liệt kê part của episode theo partNumber tăng dần
func (s *ProjectService) ListParts(ctx context.Context, orgID, projectID, episodeID primitive.ObjectID) ([]models.Part, error) {
	if _, err := s.GetEpisode(ctx, orgID, projectID, episodeID); err != nil {
		return nil, err
	}
	return s.PartsOfEpisode(ctx, episodeID)
}

// PartsOfEpisode liệt kê part của episode, không kiểm tra tổ chức
func (s *ProjectService) PartsOfEpisode(ctx context.Context, episodeID primitive.ObjectID) ([]models.Part, error) {
	return s.parts.Find(ctx, bson.M{"episodeId": episodeID}, options.Find().SetSort(sortByPartNo))
}

// GetPart lấy part theo đường dẫn project/episode/part, sai cha trả về NotFound
func (s *ProjectService) GetPart(ctx context.Context, orgID, projectID, episodeID, partID primitive.ObjectID) (*models.Part, error) {
	if _, err := s.GetEpisode(ctx, orgID, projectID, episodeID); err != nil {
		return nil, err
	}
	part, err := s.parts.FindOne(ctx, bson.M{"_id": partID, "episodeId": episodeID, "projectId": projectID}, nil)
	if err != nil {
		return nil, notFoundAs(err, errPartMissing)
	}
	return &part, nil
}

// ResolvePart lấy part theo ID và kiểm tra project của nó thuộc tổ chức
func (s *ProjectService) ResolvePart(ctx context.Context, orgID, partID primitive.ObjectID) (*models.Part, *models.Project, error) {
	part, err := s.parts.FindOneById(ctx, partID)
	if err != nil {
		return nil, nil, notFoundAs(err, errPartMissing)
	}
	project, err := s.GetProject(ctx, orgID, part.ProjectID)
	if err != nil {
		return nil, nil, notFoundAs(err, errPartMissing)
	}
	return &part, project, nil
}

// UpdatePart cập nhật một phần part
func (s *ProjectService) UpdatePart(ctx context.Context, orgID, projectID, episodeID, partID primitive.ObjectID, input *projectdto.PartUpdateInput) (*models.Part, error) {
	if _, err := s.GetPart(ctx, orgID, projectID, episodeID, partID); err != nil {
		return nil, err
	}
	set := bson.M{}
	if input.PartNumber != nil {
		set["partNumber"] = *input.PartNumber
	}
	if input.Title != nil {
		set["title"] = strings.TrimSpace(*input.Title)
	}
	if input.ScriptText != nil {
		set["scriptText"] = *input.ScriptText
	}
	part, err := s.parts.UpdateById(ctx, partID, set)
	if err != nil {
		return nil, notFoundAs(err, errPartMissing)
	}
	return &part, nil
}

// PartIDs trả về ID của mọi part đang tồn tại, dùng cho việc dọn dữ liệu mồ côi
func (s *ProjectService) PartIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	parts, err := s.parts.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// DeletePartRecord chỉ xóa document part
func (s *ProjectService) DeletePartRecord(ctx context.Context, partID primitive.ObjectID) error {
	return notFoundAs(s.parts.DeleteById(ctx, partID), errPartMissing)
}
