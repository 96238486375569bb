package assetsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assetdto "story_studio/internal/api/asset/dto"
	models "story_studio/internal/api/asset/models"
	"story_studio/internal/api/base/service/storetest"
	mediadto "story_studio/internal/api/media/dto"
	mediasvc "story_studio/internal/api/media/service"
	projectdto "story_studio/internal/api/project/dto"
	projectsvc "story_studio/internal/api/project/service"
	"story_studio/internal/common"
)

type fixture struct {
	svc       *AssetService
	media     *mediasvc.MediaService
	orgID     primitive.ObjectID
	projectID primitive.ObjectID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	storetest.Use(t)

	projects, err := projectsvc.NewProjectService()
	require.NoError(t, err)
	media, err := mediasvc.NewMediaService(projects)
	require.NoError(t, err)
	svc, err := NewAssetService(projects, media)
	require.NoError(t, err)

	orgID := primitive.NewObjectID()
	project, err := projects.CreateProject(context.Background(), orgID, primitive.NewObjectID(), &projectdto.ProjectCreateInput{Name: "Truyện cổ tích"})
	require.NoError(t, err)
	return &fixture{svc: svc, media: media, orgID: orgID, projectID: project.ID}
}

func (f *fixture) create(t *testing.T, kind models.Kind, input assetdto.AssetCreateInput) *assetdto.AssetOutput {
	t.Helper()
	input.ProjectID = f.projectID.Hex()
	out, err := f.svc.Create(context.Background(), f.orgID, kind, &input)
	require.NoError(t, err)
	return out
}

func boolPtr(v bool) *bool { return &v }

func TestAssetScopeVisibleTo(t *testing.T) {
	ep1, ep2 := primitive.NewObjectID(), primitive.NewObjectID()
	part1, part2 := primitive.NewObjectID(), primitive.NewObjectID()

	projectWide := models.AssetScope{Project: true}
	assert.True(t, projectWide.VisibleTo(nil, nil))
	assert.True(t, projectWide.VisibleTo(&ep2, &part2))

	restricted := models.AssetScope{EpisodeIDs: []primitive.ObjectID{ep1}, PartIDs: []primitive.ObjectID{part1}}
	assert.False(t, restricted.VisibleTo(nil, nil))
	assert.True(t, restricted.VisibleTo(&ep1, nil))
	assert.True(t, restricted.VisibleTo(nil, &part1))
	// Hai danh sách độc lập: episode khớp là đủ dù part không khớp
	assert.True(t, restricted.VisibleTo(&ep1, &part2))
	assert.True(t, restricted.VisibleTo(&ep2, &part1))
	assert.False(t, restricted.VisibleTo(&ep2, &part2))
}

func TestCreateDefaults(t *testing.T) {
	f := setup(t)

	char := f.create(t, models.KindCharacter, assetdto.AssetCreateInput{Name: "Tấm"})
	assert.True(t, char.Scope.Project)
	assert.Empty(t, char.Scope.EpisodeIDs)
	assert.NotNil(t, char.ImageIDs)
	assert.Equal(t, "character", char.Category)

	prop := f.create(t, models.KindProp, assetdto.AssetCreateInput{Name: "Giỏ cá"})
	assert.Equal(t, models.DefaultPropCategory, prop.Category)

	weapon := f.create(t, models.KindProp, assetdto.AssetCreateInput{Name: "Gươm", Category: "weapon"})
	assert.Equal(t, "weapon", weapon.Category)

	_, err := f.svc.Create(context.Background(), f.orgID, models.KindLocation, &assetdto.AssetCreateInput{ProjectID: primitive.NewObjectID().Hex(), Name: "Giếng"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByProjectSortedByName(t *testing.T) {
	f := setup(t)
	f.create(t, models.KindLocation, assetdto.AssetCreateInput{Name: "Sân đình"})
	f.create(t, models.KindLocation, assetdto.AssetCreateInput{Name: "Bờ ao"})
	f.create(t, models.KindLocation, assetdto.AssetCreateInput{Name: "Nhà bếp"})
	f.create(t, models.KindCharacter, assetdto.AssetCreateInput{Name: "Cám"})

	list, err := f.svc.ListByProject(context.Background(), f.orgID, models.KindLocation, f.projectID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Bờ ao", "Nhà bếp", "Sân đình"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestGetResolvesImagesAndOmitsDangling(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	img, err := f.media.CreateProjectImage(ctx, f.orgID, &mediadto.ProjectImageCreateInput{
		ProjectID: f.projectID.Hex(), Name: "chân dung", ImageURL: "https://cdn.example.com/tam.png", Category: "character",
	})
	require.NoError(t, err)
	dangling := primitive.NewObjectID()

	char := f.create(t, models.KindCharacter, assetdto.AssetCreateInput{
		Name: "Tấm", ImageIDs: []string{dangling.Hex(), img.ID.Hex()},
	})

	detail, err := f.svc.Get(ctx, f.orgID, models.KindCharacter, f.projectID, char.ID)
	require.NoError(t, err)
	assert.Len(t, detail.ImageIDs, 2)
	require.Len(t, detail.Images, 1)
	assert.Equal(t, img.ID, detail.Images[0].ID)

	_, err = f.svc.Get(ctx, f.orgID, models.KindCharacter, primitive.NewObjectID(), char.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = f.svc.Get(ctx, f.orgID, models.KindProp, f.projectID, char.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateIsPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	prop := f.create(t, models.KindProp, assetdto.AssetCreateInput{Name: "Hài", Content: `{"mau":"đỏ"}`, Category: "costume"})

	name := "Hài thêu"
	updated, err := f.svc.Update(ctx, f.orgID, models.KindProp, prop.ID, &assetdto.AssetUpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Hài thêu", updated.Name)
	assert.Equal(t, `{"mau":"đỏ"}`, updated.Content)
	assert.Equal(t, "costume", updated.Category)
	assert.True(t, updated.Scope.Project)

	ep := primitive.NewObjectID()
	updated, err = f.svc.Update(ctx, f.orgID, models.KindProp, prop.ID, &assetdto.AssetUpdateInput{
		Scope: &assetdto.ScopeInput{Project: boolPtr(false), EpisodeIDs: []string{ep.Hex()}},
	})
	require.NoError(t, err)
	assert.False(t, updated.Scope.Project)
	assert.Equal(t, []primitive.ObjectID{ep}, updated.Scope.EpisodeIDs)
	assert.Equal(t, "Hài thêu", updated.Name)

	_, err = f.svc.Update(ctx, primitive.NewObjectID(), models.KindProp, prop.ID, &assetdto.AssetUpdateInput{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	char := f.create(t, models.KindCharacter, assetdto.AssetCreateInput{Name: "Bụt"})

	assert.ErrorIs(t, f.svc.Delete(ctx, f.orgID, models.KindLocation, char.ID), common.ErrNotFound)
	require.NoError(t, f.svc.Delete(ctx, f.orgID, models.KindCharacter, char.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.orgID, models.KindCharacter, char.ID), common.ErrNotFound)
}

func TestListVisibleTo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ep1, ep2 := primitive.NewObjectID(), primitive.NewObjectID()
	part1 := primitive.NewObjectID()

	f.create(t, models.KindCharacter, assetdto.AssetCreateInput{Name: "A toàn project"})
	f.create(t, models.KindCharacter, assetdto.AssetCreateInput{Name: "B tập 1",
		Scope: &assetdto.ScopeInput{Project: boolPtr(false), EpisodeIDs: []string{ep1.Hex()}}})
	f.create(t, models.KindCharacter, assetdto.AssetCreateInput{Name: "C part 1",
		Scope: &assetdto.ScopeInput{Project: boolPtr(false), PartIDs: []string{part1.Hex()}}})

	names := func(out []assetdto.AssetOutput) []string {
		res := []string{}
		for _, a := range out {
			res = append(res, a.Name)
		}
		return res
	}

	visible, err := f.svc.ListVisibleTo(ctx, f.orgID, models.KindCharacter, f.projectID, &ep1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A toàn project", "B tập 1"}, names(visible))

	visible, err = f.svc.ListVisibleTo(ctx, f.orgID, models.KindCharacter, f.projectID, &ep2, &part1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A toàn project", "C part 1"}, names(visible))

	visible, err = f.svc.ListVisibleTo(ctx, f.orgID, models.KindCharacter, f.projectID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A toàn project"}, names(visible))
}
