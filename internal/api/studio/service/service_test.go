package studiosvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assetdto "story_studio/internal/api/asset/dto"
	assetmodels "story_studio/internal/api/asset/models"
	assetsvc "story_studio/internal/api/asset/service"
	"story_studio/internal/api/base/service/storetest"
	contentdto "story_studio/internal/api/content/dto"
	contentmodels "story_studio/internal/api/content/models"
	contentsvc "story_studio/internal/api/content/service"
	mediadto "story_studio/internal/api/media/dto"
	mediamodels "story_studio/internal/api/media/models"
	mediasvc "story_studio/internal/api/media/service"
	projectdto "story_studio/internal/api/project/dto"
	projectmodels "story_studio/internal/api/project/models"
	projectsvc "story_studio/internal/api/project/service"
	"story_studio/internal/common"
)

type fixture struct {
	svc      *StudioService
	projects *projectsvc.ProjectService
	content  *contentsvc.ContentService
	media    *mediasvc.MediaService
	assets   *assetsvc.AssetService
	orgID    primitive.ObjectID
	userID   primitive.ObjectID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	storetest.Use(t)

	projects, err := projectsvc.NewProjectService()
	require.NoError(t, err)
	content, err := contentsvc.NewContentService(projects)
	require.NoError(t, err)
	media, err := mediasvc.NewMediaService(projects)
	require.NoError(t, err)
	assets, err := assetsvc.NewAssetService(projects, media)
	require.NoError(t, err)

	return &fixture{
		svc:      NewStudioService(projects, content, media, assets),
		projects: projects,
		content:  content,
		media:    media,
		assets:   assets,
		orgID:    primitive.NewObjectID(),
		userID:   primitive.NewObjectID(),
	}
}

func (f *fixture) project(t *testing.T, name string) *projectmodels.Project {
	t.Helper()
	p, err := f.projects.CreateProject(context.Background(), f.orgID, f.userID, &projectdto.ProjectCreateInput{Name: name})
	require.NoError(t, err)
	return p
}

func (f *fixture) episode(t *testing.T, projectID primitive.ObjectID, no int) *projectmodels.Episode {
	t.Helper()
	ep, err := f.projects.CreateEpisode(context.Background(), f.orgID, f.userID, projectID, &projectdto.EpisodeCreateInput{EpisodeNumber: no})
	require.NoError(t, err)
	return ep
}

func (f *fixture) part(t *testing.T, projectID, episodeID primitive.ObjectID, no int) *projectmodels.Part {
	t.Helper()
	p, err := f.projects.CreatePart(context.Background(), f.orgID, f.userID, projectID, episodeID, &projectdto.PartCreateInput{PartNumber: no})
	require.NoError(t, err)
	return p
}

// fill tạo 1 beat, 2 shot, 1 storyboard, 1 ảnh, 1 clip cho part
func (f *fixture) fill(t *testing.T, partID primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()
	for _, typ := range []string{contentmodels.TypeBeat, contentmodels.TypeShot, contentmodels.TypeShot, contentmodels.TypeStoryboard} {
		_, err := f.content.Create(ctx, f.orgID, &contentdto.ContentCreateInput{Type: typ, PartID: partID.Hex(), Content: "{}"})
		require.NoError(t, err)
	}
	_, err := f.media.Create(ctx, f.orgID, &mediadto.MediaCreateInput{Type: mediamodels.TypeImage, PartID: partID.Hex(), URL: "https://cdn.example.com/a.png"})
	require.NoError(t, err)
	_, err = f.media.Create(ctx, f.orgID, &mediadto.MediaCreateInput{Type: mediamodels.TypeClip, PartID: partID.Hex(), URL: "https://cdn.example.com/a.mp4"})
	require.NoError(t, err)
}

func (f *fixture) assertPartEmpty(t *testing.T, partID primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()
	items, err := f.content.ItemsOfPart(ctx, partID)
	require.NoError(t, err)
	assert.Empty(t, items)
	images, clips, err := f.media.CountByPart(ctx, partID)
	require.NoError(t, err)
	assert.Zero(t, images)
	assert.Zero(t, clips)
}

func TestDeletePartCascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Sơn Tinh Thủy Tinh")
	ep := f.episode(t, p.ID, 1)
	keep := f.part(t, p.ID, ep.ID, 1)
	drop := f.part(t, p.ID, ep.ID, 2)
	f.fill(t, keep.ID)
	f.fill(t, drop.ID)

	require.NoError(t, f.svc.DeletePart(ctx, f.orgID, p.ID, ep.ID, drop.ID))
	f.assertPartEmpty(t, drop.ID)
	_, _, err := f.projects.ResolvePart(ctx, f.orgID, drop.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	counts, err := f.content.CountByPart(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[contentmodels.TypeShot])

	// Sai episode cha là NotFound và không xóa gì
	other := f.episode(t, p.ID, 2)
	assert.ErrorIs(t, f.svc.DeletePart(ctx, f.orgID, p.ID, other.ID, keep.ID), common.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeletePart(ctx, primitive.NewObjectID(), p.ID, ep.ID, keep.ID), common.ErrNotFound)
	_, _, err = f.projects.ResolvePart(ctx, f.orgID, keep.ID)
	assert.NoError(t, err)
}

func TestDeleteEpisodeCascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Thạch Sanh")
	ep := f.episode(t, p.ID, 1)
	part1 := f.part(t, p.ID, ep.ID, 1)
	part2 := f.part(t, p.ID, ep.ID, 2)
	f.fill(t, part1.ID)
	f.fill(t, part2.ID)

	require.NoError(t, f.svc.DeleteEpisode(ctx, f.orgID, p.ID, ep.ID))
	f.assertPartEmpty(t, part1.ID)
	f.assertPartEmpty(t, part2.ID)
	parts, err := f.projects.PartsOfEpisode(ctx, ep.ID)
	require.NoError(t, err)
	assert.Empty(t, parts)
	_, err = f.projects.GetEpisode(ctx, f.orgID, p.ID, ep.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteProjectKeepsAssetsAndProjectImages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Cây tre trăm đốt")
	ep := f.episode(t, p.ID, 1)
	part := f.part(t, p.ID, ep.ID, 1)
	f.fill(t, part.ID)

	ref, err := f.media.CreateProjectImage(ctx, f.orgID, &mediadto.ProjectImageCreateInput{ProjectID: p.ID.Hex(), ImageURL: "https://cdn.example.com/ref.png"})
	require.NoError(t, err)
	char, err := f.assets.Create(ctx, f.orgID, assetmodels.KindCharacter, &assetdto.AssetCreateInput{ProjectID: p.ID.Hex(), Name: "Anh Khoai", ImageIDs: []string{ref.ID.Hex()}})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProject(ctx, f.orgID, p.ID))
	f.assertPartEmpty(t, part.ID)
	_, err = f.projects.FindProject(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	episodes, err := f.projects.EpisodesOfProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, episodes)

	remaining, err := f.assets.AssetsOfProject(ctx, assetmodels.KindCharacter, p.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, char.ID, remaining[0].ID)
	images, err := f.media.FindImagesByIds(ctx, []primitive.ObjectID{ref.ID})
	require.NoError(t, err)
	assert.Len(t, images, 1)

	assert.ErrorIs(t, f.svc.DeleteProject(ctx, f.orgID, p.ID), common.ErrNotFound)
}

func TestDeleteProjectOtherOrganization(t *testing.T) {
	f := setup(t)
	p := f.project(t, "Tấm Cám")
	assert.ErrorIs(t, f.svc.DeleteProject(context.Background(), primitive.NewObjectID(), p.ID), common.ErrNotFound)
	_, err := f.projects.FindProject(context.Background(), p.ID)
	assert.NoError(t, err)
}

func TestPartStudio(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Con Rồng cháu Tiên")
	ep := f.episode(t, p.ID, 1)
	part := f.part(t, p.ID, ep.ID, 1)
	f.fill(t, part.ID)

	ref, err := f.media.CreateProjectImage(ctx, f.orgID, &mediadto.ProjectImageCreateInput{ProjectID: p.ID.Hex(), ImageURL: "https://cdn.example.com/lac-long-quan.png", Category: "character"})
	require.NoError(t, err)
	_, err = f.assets.Create(ctx, f.orgID, assetmodels.KindCharacter, &assetdto.AssetCreateInput{
		ProjectID: p.ID.Hex(), Name: "Lạc Long Quân", ImageIDs: []string{ref.ID.Hex(), primitive.NewObjectID().Hex()},
	})
	require.NoError(t, err)
	_, err = f.assets.Create(ctx, f.orgID, assetmodels.KindProp, &assetdto.AssetCreateInput{ProjectID: p.ID.Hex(), Name: "Bọc trăm trứng"})
	require.NoError(t, err)

	studio, err := f.svc.PartStudio(ctx, f.orgID, part.ID)
	require.NoError(t, err)
	assert.Equal(t, part.ID, studio.Part.ID)
	require.NotNil(t, studio.Episode)
	assert.Equal(t, ep.ID, studio.Episode.ID)
	assert.Len(t, studio.Beats, 1)
	assert.Len(t, studio.Shots, 2)
	assert.Len(t, studio.Storyboards, 1)
	assert.Len(t, studio.Images, 1)
	assert.Len(t, studio.Clips, 1)

	require.Len(t, studio.Characters, 1)
	require.Len(t, studio.Characters[0].Images, 1)
	assert.Equal(t, ref.ID, studio.Characters[0].Images[0].ID)
	assert.Empty(t, studio.Locations)
	assert.NotNil(t, studio.Locations)
	require.Len(t, studio.Props, 1)
	assert.Equal(t, assetmodels.DefaultPropCategory, studio.Props[0].Category)

	// Chỉ shot tạo sau cùng được chọn
	selected := 0
	for i := range studio.Shots {
		if studio.Shots[i].Base().Metadata.Selected {
			selected++
		}
	}
	assert.Equal(t, 1, selected)

	_, err = f.svc.PartStudio(ctx, primitive.NewObjectID(), part.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPartStudioWithoutEpisode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Mồ côi")
	ep := f.episode(t, p.ID, 1)
	part := f.part(t, p.ID, ep.ID, 1)
	require.NoError(t, f.projects.DeleteEpisodeRecord(ctx, ep.ID))

	studio, err := f.svc.PartStudio(ctx, f.orgID, part.ID)
	require.NoError(t, err)
	assert.Nil(t, studio.Episode)
	assert.Empty(t, studio.Beats)
}

func TestProjectOverviewAndEpisodeFull(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Sự tích trầu cau")
	ep2 := f.episode(t, p.ID, 2)
	ep1 := f.episode(t, p.ID, 1)
	part2 := f.part(t, p.ID, ep1.ID, 2)
	part1 := f.part(t, p.ID, ep1.ID, 1)
	f.fill(t, part2.ID)

	overview, err := f.svc.ProjectOverview(ctx, f.orgID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, overview.ID)
	require.Len(t, overview.Episodes, 2)
	assert.Equal(t, ep1.ID, overview.Episodes[0].ID)
	assert.Equal(t, ep2.ID, overview.Episodes[1].ID)
	assert.Empty(t, overview.Episodes[1].Parts)

	parts := overview.Episodes[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, part1.ID, parts[0].ID)
	assert.Zero(t, parts[0].ShotCount)
	assert.Equal(t, part2.ID, parts[1].ID)
	assert.Equal(t, int64(1), parts[1].BeatCount)
	assert.Equal(t, int64(2), parts[1].ShotCount)
	assert.Equal(t, int64(1), parts[1].StoryboardCount)
	assert.Equal(t, int64(1), parts[1].ImageCount)
	assert.Equal(t, int64(1), parts[1].ClipCount)

	full, err := f.svc.EpisodeFull(ctx, f.orgID, p.ID, ep1.ID)
	require.NoError(t, err)
	assert.Len(t, full.Parts, 2)

	other := f.project(t, "Khác")
	_, err = f.svc.EpisodeFull(ctx, f.orgID, other.ID, ep1.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = f.svc.ProjectOverview(ctx, primitive.NewObjectID(), p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSweepOrphansRemovesDataOfMissingParts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "Orphans")
	ep := f.episode(t, p.ID, 1)
	kept := f.part(t, p.ID, ep.ID, 1)
	gone := f.part(t, p.ID, ep.ID, 2)
	f.fill(t, kept.ID)
	f.fill(t, gone.ID)
	_, err := f.media.CreateProjectImage(ctx, f.orgID, &mediadto.ProjectImageCreateInput{ProjectID: p.ID.Hex(), ImageURL: "https://cdn.example.com/ref.png"})
	require.NoError(t, err)

	// Chỉ xóa document part, bỏ qua dây chuyền
	require.NoError(t, f.projects.DeletePartRecord(ctx, gone.ID))
	time.Sleep(5 * time.Millisecond)

	n, err := f.svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	f.assertPartEmpty(t, gone.ID)

	counts, err := f.content.CountByPart(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[contentmodels.TypeShot])
	images, err := f.media.ListProjectImages(ctx, f.orgID, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, images, 1)

	n, err = f.svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
