// Package studiosvc gom các thao tác xuyên domain: xóa dây chuyền theo cây sở hữu và các view tổng hợp.
//
// Xóa dây chuyền chạy tuần tự, con trước cha, không có transaction. Lỗi ở bước nào dừng tại bước đó;
// gọi lại sẽ xóa nốt phần còn lại. Tài sản của project (nhân vật, bối cảnh, đạo cụ) và ảnh tham chiếu
// cấp project không nằm trong dây chuyền.
package studiosvc

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assetdto "story_studio/internal/api/asset/dto"
	assetmodels "story_studio/internal/api/asset/models"
	assetsvc "story_studio/internal/api/asset/service"
	contentmodels "story_studio/internal/api/content/models"
	contentsvc "story_studio/internal/api/content/service"
	mediadto "story_studio/internal/api/media/dto"
	mediasvc "story_studio/internal/api/media/service"
	projectmodels "story_studio/internal/api/project/models"
	projectsvc "story_studio/internal/api/project/service"
	studiodto "story_studio/internal/api/studio/dto"
	"story_studio/internal/common"
	"story_studio/internal/utility"
)

// StudioService là cấu trúc chứa các thao tác xuyên domain
type StudioService struct {
	projects *projectsvc.ProjectService
	content  *contentsvc.ContentService
	media    *mediasvc.MediaService
	assets   *assetsvc.AssetService
}

// NewStudioService tạo mới StudioService
func NewStudioService(projects *projectsvc.ProjectService, content *contentsvc.ContentService, media *mediasvc.MediaService, assets *assetsvc.AssetService) *StudioService {
	return &StudioService{projects: projects, content: content, media: media, assets: assets}
}

// ====================================
// XÓA DÂY CHUYỀN
// ====================================

// DeletePart xóa part theo đường dẫn project/episode/part cùng toàn bộ nội dung và media của nó
func (s *StudioService) DeletePart(ctx context.Context, orgID, projectID, episodeID, partID primitive.ObjectID) error {
	if _, err := s.projects.GetPart(ctx, orgID, projectID, episodeID, partID); err != nil {
		return err
	}
	return s.deletePart(ctx, partID)
}

func (s *StudioService) deletePart(ctx context.Context, partID primitive.ObjectID) error {
	contents, err := s.content.DeleteByPart(ctx, partID)
	if err != nil {
		return err
	}
	media, err := s.media.DeleteByPart(ctx, partID)
	if err != nil {
		return err
	}
	if err := s.projects.DeletePartRecord(ctx, partID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"partId":   partID.Hex(),
		"contents": contents,
		"media":    media,
	}).Info("DeletePart: đã xóa part")
	return nil
}

// DeleteEpisode xóa mọi part của episode rồi xóa episode
func (s *StudioService) DeleteEpisode(ctx context.Context, orgID, projectID, episodeID primitive.ObjectID) error {
	if _, err := s.projects.GetEpisode(ctx, orgID, projectID, episodeID); err != nil {
		return err
	}
	return s.deleteEpisode(ctx, episodeID)
}

func (s *StudioService) deleteEpisode(ctx context.Context, episodeID primitive.ObjectID) error {
	parts, err := s.projects.PartsOfEpisode(ctx, episodeID)
	if err != nil {
		return err
	}
	for _, part := range parts {
		if err := s.deletePart(ctx, part.ID); err != nil {
			return err
		}
	}
	if err := s.projects.DeleteEpisodeRecord(ctx, episodeID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// DeleteProject xóa mọi episode của project rồi xóa project; tài sản của project được giữ lại
func (s *StudioService) DeleteProject(ctx context.Context, orgID, projectID primitive.ObjectID) error {
	if _, err := s.projects.GetProject(ctx, orgID, projectID); err != nil {
		return err
	}
	episodes, err := s.projects.EpisodesOfProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, ep := range episodes {
		if err := s.deleteEpisode(ctx, ep.ID); err != nil {
			return err
		}
	}
	if err := s.projects.DeleteProjectRecord(ctx, projectID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	logrus.WithFields(logrus.Fields{"projectId": projectID.Hex(), "episodes": len(episodes)}).Info("DeleteProject: đã xóa project")
	return nil
}

// SweepOrphans xóa nội dung và media trỏ tới part không còn tồn tại.
// Chỉ xét document tạo trước thời điểm bắt đầu quét, part tạo trong lúc quét không bị ảnh hưởng.
func (s *StudioService) SweepOrphans(ctx context.Context) (int64, error) {
	cutoff := utility.CurrentTimeInMilli()
	live, err := s.projects.PartIDs(ctx)
	if err != nil {
		return 0, err
	}
	contents, err := s.content.DeleteOrphans(ctx, live, cutoff)
	if err != nil {
		return contents, err
	}
	media, err := s.media.DeleteOrphans(ctx, live, cutoff)
	return contents + media, err
}

// ====================================
// VIEW TỔNG HỢP
// ====================================

// PartStudio trả về part, episode, nội dung, media và tài sản của project trong một lần gọi
func (s *StudioService) PartStudio(ctx context.Context, orgID, partID primitive.ObjectID) (*studiodto.PartStudio, error) {
	part, project, err := s.projects.ResolvePart(ctx, orgID, partID)
	if err != nil {
		return nil, err
	}

	out := &studiodto.PartStudio{
		Part:        part,
		Beats:       []contentmodels.ContentItem{},
		Shots:       []contentmodels.ContentItem{},
		Storyboards: []contentmodels.ContentItem{},
	}

	episode, err := s.projects.FindEpisode(ctx, part.EpisodeID)
	switch {
	case err == nil:
		out.Episode = episode
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	items, err := s.content.ItemsOfPart(ctx, part.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		switch item.Type {
		case contentmodels.TypeBeat:
			out.Beats = append(out.Beats, item)
		case contentmodels.TypeShot:
			out.Shots = append(out.Shots, item)
		case contentmodels.TypeStoryboard:
			out.Storyboards = append(out.Storyboards, item)
		}
	}

	if out.Images, err = s.media.ImagesOfPart(ctx, part.ID); err != nil {
		return nil, err
	}
	if out.Clips, err = s.media.ClipsOfPart(ctx, part.ID); err != nil {
		return nil, err
	}

	assets, err := s.projectAssets(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	out.Characters = assets[assetmodels.KindCharacter]
	out.Locations = assets[assetmodels.KindLocation]
	out.Props = assets[assetmodels.KindProp]
	return out, nil
}

// projectAssets lấy tài sản của ba kind và resolve ảnh bằng một lần truy vấn gộp
func (s *StudioService) projectAssets(ctx context.Context, projectID primitive.ObjectID) (map[assetmodels.Kind][]assetdto.AssetDetailOutput, error) {
	byKind := make(map[assetmodels.Kind][]assetmodels.Asset, len(assetmodels.Kinds))
	var imageIDs []primitive.ObjectID
	for _, kind := range assetmodels.Kinds {
		assets, err := s.assets.AssetsOfProject(ctx, kind, projectID)
		if err != nil {
			return nil, err
		}
		byKind[kind] = assets
		for _, a := range assets {
			imageIDs = append(imageIDs, a.ImageIDs...)
		}
	}

	images, err := s.media.FindImagesByIds(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	imageByID := make(map[primitive.ObjectID]mediadto.MediaOutput, len(images))
	for _, img := range images {
		imageByID[img.ID] = img
	}

	out := make(map[assetmodels.Kind][]assetdto.AssetDetailOutput, len(byKind))
	for kind, assets := range byKind {
		details := make([]assetdto.AssetDetailOutput, 0, len(assets))
		for i := range assets {
			resolved := []mediadto.MediaOutput{}
			for _, id := range assets[i].ImageIDs {
				if img, ok := imageByID[id]; ok {
					resolved = append(resolved, img)
				}
			}
			details = append(details, assetdto.AssetDetailOutput{
				AssetOutput: assetdto.NewAssetOutput(kind, &assets[i]),
				Images:      resolved,
			})
		}
		out[kind] = details
	}
	return out, nil
}

func (s *StudioService) partSummary(ctx context.Context, part projectmodels.Part) (studiodto.PartSummary, error) {
	summary := studiodto.PartSummary{Part: part}
	counts, err := s.content.CountByPart(ctx, part.ID)
	if err != nil {
		return summary, err
	}
	summary.BeatCount = counts[contentmodels.TypeBeat]
	summary.ShotCount = counts[contentmodels.TypeShot]
	summary.StoryboardCount = counts[contentmodels.TypeStoryboard]
	if summary.ImageCount, summary.ClipCount, err = s.media.CountByPart(ctx, part.ID); err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *StudioService) episodeFull(ctx context.Context, episode projectmodels.Episode) (studiodto.EpisodeFull, error) {
	full := studiodto.EpisodeFull{Episode: episode, Parts: []studiodto.PartSummary{}}
	parts, err := s.projects.PartsOfEpisode(ctx, episode.ID)
	if err != nil {
		return full, err
	}
	for _, part := range parts {
		summary, err := s.partSummary(ctx, part)
		if err != nil {
			return full, err
		}
		full.Parts = append(full.Parts, summary)
	}
	return full, nil
}

// ProjectOverview trả về project, episode theo episodeNumber, part theo partNumber kèm số lượng
func (s *StudioService) ProjectOverview(ctx context.Context, orgID, projectID primitive.ObjectID) (*studiodto.ProjectOverview, error) {
	project, err := s.projects.GetProject(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}
	episodes, err := s.projects.EpisodesOfProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := &studiodto.ProjectOverview{Project: *project, Episodes: make([]studiodto.EpisodeFull, 0, len(episodes))}
	for _, ep := range episodes {
		full, err := s.episodeFull(ctx, ep)
		if err != nil {
			return nil, err
		}
		out.Episodes = append(out.Episodes, full)
	}
	return out, nil
}

// EpisodeFull trả về episode kèm part đã đếm; episode của project khác trả về NotFound
func (s *StudioService) EpisodeFull(ctx context.Context, orgID, projectID, episodeID primitive.ObjectID) (*studiodto.EpisodeFull, error) {
	episode, err := s.projects.GetEpisode(ctx, orgID, projectID, episodeID)
	if err != nil {
		return nil, err
	}
	full, err := s.episodeFull(ctx, *episode)
	if err != nil {
		return nil, err
	}
	return &full, nil
}
