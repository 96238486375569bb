package mediasvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/api/base/service/storetest"
	mediadto "story_studio/internal/api/media/dto"
	models "story_studio/internal/api/media/models"
	projectdto "story_studio/internal/api/project/dto"
	projectsvc "story_studio/internal/api/project/service"
	"story_studio/internal/common"
)

type fixture struct {
	svc       *MediaService
	orgID     primitive.ObjectID
	projectID primitive.ObjectID
	partID    primitive.ObjectID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	storetest.Use(t)

	projects, err := projectsvc.NewProjectService()
	require.NoError(t, err)
	svc, err := NewMediaService(projects)
	require.NoError(t, err)

	ctx := context.Background()
	orgID, userID := primitive.NewObjectID(), primitive.NewObjectID()
	project, err := projects.CreateProject(ctx, orgID, userID, &projectdto.ProjectCreateInput{Name: "Hoạt hình"})
	require.NoError(t, err)
	episode, err := projects.CreateEpisode(ctx, orgID, userID, project.ID, &projectdto.EpisodeCreateInput{EpisodeNumber: 1})
	require.NoError(t, err)
	part, err := projects.CreatePart(ctx, orgID, userID, project.ID, episode.ID, &projectdto.PartCreateInput{PartNumber: 1})
	require.NoError(t, err)
	return &fixture{svc: svc, orgID: orgID, projectID: project.ID, partID: part.ID}
}

func (f *fixture) create(t *testing.T, typ, name string) *mediadto.MediaOutput {
	t.Helper()
	out, err := f.svc.Create(context.Background(), f.orgID, &mediadto.MediaCreateInput{
		Type: typ, PartID: f.partID.Hex(), Name: name, URL: "https://cdn.example.com/" + name,
	})
	require.NoError(t, err)
	return out
}

func TestCreateImageAndClip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	img := f.create(t, models.TypeImage, "khung-1.png")
	assert.Equal(t, models.TypeImage, img.Type)
	assert.Equal(t, models.DefaultImageCategory, img.Category)
	assert.Equal(t, "https://cdn.example.com/khung-1.png", img.URL)
	require.NotNil(t, img.PartID)
	assert.Equal(t, f.partID, *img.PartID)

	shotID := primitive.NewObjectID()
	clip, err := f.svc.Create(ctx, f.orgID, &mediadto.MediaCreateInput{
		Type: models.TypeClip, PartID: f.partID.Hex(), ShotID: shotID.Hex(), Name: "clip", URL: "https://cdn.example.com/clip.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TypeClip, clip.Type)
	assert.Empty(t, clip.Category)
	require.NotNil(t, clip.ShotID)
	assert.Equal(t, shotID, *clip.ShotID)

	got, err := f.svc.Get(ctx, f.orgID, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", got.URL)

	_, err = f.svc.Create(ctx, f.orgID, &mediadto.MediaCreateInput{Type: models.TypeImage, PartID: primitive.NewObjectID().Hex(), URL: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateIsPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	img := f.create(t, models.TypeImage, "a.png")

	url := "https://cdn.example.com/b.png"
	updated, err := f.svc.Update(ctx, f.orgID, img.ID, &mediadto.MediaUpdateInput{URL: &url})
	require.NoError(t, err)
	assert.Equal(t, url, updated.URL)
	assert.Equal(t, "a.png", updated.Name)
	assert.Equal(t, models.DefaultImageCategory, updated.Category)

	shot := primitive.NewObjectID().Hex()
	updated, err = f.svc.Update(ctx, f.orgID, img.ID, &mediadto.MediaUpdateInput{ShotID: &shot, Metadata: &mediadto.MetadataInput{Edited: boolPtr(true)}})
	require.NoError(t, err)
	require.NotNil(t, updated.ShotID)
	assert.True(t, updated.Metadata.Edited)
	assert.Equal(t, 1, updated.Metadata.VersionNo)

	empty := ""
	updated, err = f.svc.Update(ctx, f.orgID, img.ID, &mediadto.MediaUpdateInput{ShotID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.ShotID)
	assert.Equal(t, url, updated.URL)
}

// vanishingImages xóa document ngay trước khi cập nhật, như khi có request xóa chen vào giữa
type vanishingImages struct {
	basesvc.BaseServiceMongo[models.Image]
}

func (v vanishingImages) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (models.Image, error) {
	if err := v.BaseServiceMongo.DeleteById(ctx, id); err != nil {
		return models.Image{}, err
	}
	return v.BaseServiceMongo.UpdateById(ctx, id, data)
}

func TestUpdateOfVanishedMediaReportsMediaMissing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	img := f.create(t, models.TypeImage, "a.png")
	f.svc.images = vanishingImages{f.svc.images}

	name := "b.png"
	_, err := f.svc.Update(ctx, f.orgID, img.ID, &mediadto.MediaUpdateInput{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.EqualError(t, err, errMediaMissing)
}

func boolPtr(v bool) *bool { return &v }

func TestListCountAndDeleteByPart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	clip := f.create(t, models.TypeClip, "c1")
	img1 := f.create(t, models.TypeImage, "i1")
	img2 := f.create(t, models.TypeImage, "i2")

	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []primitive.ObjectID{img1.ID, img2.ID, clip.ID}, []primitive.ObjectID{items[0].ID, items[1].ID, items[2].ID})

	images, clips, err := f.svc.CountByPart(ctx, f.partID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), images)
	assert.Equal(t, int64(1), clips)

	n, err := f.svc.DeleteByPart(ctx, f.partID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	items, err = f.svc.ListByPart(ctx, f.orgID, f.partID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteAndOrganizationIsolation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	img := f.create(t, models.TypeImage, "x.png")
	other := primitive.NewObjectID()

	_, err := f.svc.Get(ctx, other, img.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, other, img.ID), common.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, f.orgID, img.ID))
	_, err = f.svc.Get(ctx, f.orgID, img.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.orgID, img.ID), common.ErrNotFound)
}

func TestFindImagesByIdsOmitsDangling(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.create(t, models.TypeImage, "a")
	b := f.create(t, models.TypeImage, "b")
	missing := primitive.NewObjectID()

	out, err := f.svc.FindImagesByIds(ctx, []primitive.ObjectID{b.ID, missing, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, b.ID, out[0].ID)
	assert.Equal(t, a.ID, out[1].ID)

	out, err = f.svc.FindImagesByIds(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProjectImagesHaveNoPart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.create(t, models.TypeImage, "shot-image")

	create := func(name, category string) *mediadto.MediaOutput {
		out, err := f.svc.CreateProjectImage(ctx, f.orgID, &mediadto.ProjectImageCreateInput{
			ProjectID: f.projectID.Hex(), Name: name, ImageURL: "https://cdn.example.com/" + name, Category: category,
		})
		require.NoError(t, err)
		return out
	}
	hero := create("hero", "character")
	forest := create("forest", "location")
	assert.Nil(t, hero.PartID)

	all, err := f.svc.ListProjectImages(ctx, f.orgID, f.projectID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, forest.ID, all[0].ID)
	assert.Equal(t, hero.ID, all[1].ID)

	chars, err := f.svc.ListProjectImages(ctx, f.orgID, f.projectID, "character")
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, hero.ID, chars[0].ID)

	_, err = f.svc.ListProjectImages(ctx, primitive.NewObjectID(), f.projectID, "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
