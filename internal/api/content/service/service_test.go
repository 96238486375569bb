package contentsvc

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"story_studio/internal/api/base/service/storetest"
	contentdto "story_studio/internal/api/content/dto"
	models "story_studio/internal/api/content/models"
	projectdto "story_studio/internal/api/project/dto"
	projectsvc "story_studio/internal/api/project/service"
	"story_studio/internal/common"
)

type fixture struct {
	svc    *ContentService
	orgID  primitive.ObjectID
	partID primitive.ObjectID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	storetest.Use(t)

	projects, err := projectsvc.NewProjectService()
	require.NoError(t, err)
	svc, err := NewContentService(projects)
	require.NoError(t, err)

	ctx := context.Background()
	orgID, userID := primitive.NewObjectID(), primitive.NewObjectID()
	project, err := projects.CreateProject(ctx, orgID, userID, &projectdto.ProjectCreateInput{Name: "Phim ngắn"})
	require.NoError(t, err)
	episode, err := projects.CreateEpisode(ctx, orgID, userID, project.ID, &projectdto.EpisodeCreateInput{EpisodeNumber: 1})
	require.NoError(t, err)
	part, err := projects.CreatePart(ctx, orgID, userID, project.ID, episode.ID, &projectdto.PartCreateInput{PartNumber: 1, Title: "Mở đầu"})
	require.NoError(t, err)

	return &fixture{svc: svc, orgID: orgID, partID: part.ID}
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func (f *fixture) create(t *testing.T, typ, content string, meta *contentdto.MetadataInput) *models.ContentItem {
	t.Helper()
	item, err := f.svc.Create(context.Background(), f.orgID, &contentdto.ContentCreateInput{
		Type:     typ,
		PartID:   f.partID.Hex(),
		Content:  content,
		Metadata: meta,
	})
	require.NoError(t, err)
	return item
}

func selectedIDs(items []models.ContentItem) []primitive.ObjectID {
	ids := []primitive.ObjectID{}
	for i := range items {
		if items[i].Base().Metadata.Selected {
			ids = append(ids, items[i].Base().ID)
		}
	}
	return ids
}

func TestCreateDefaultsMetadata(t *testing.T) {
	f := setup(t)
	item := f.create(t, models.TypeBeat, "beat một", nil)

	assert.Equal(t, models.TypeBeat, item.Type)
	assert.Equal(t, models.Metadata{VersionNo: 1, Edited: false, Selected: true}, item.Base().Metadata)
	assert.Equal(t, f.orgID, item.Base().OrganizationID)
	assert.Equal(t, f.partID, item.Base().PartID)
}

func TestCreateRejectsUnknownPartAndOtherOrganization(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.orgID, &contentdto.ContentCreateInput{Type: models.TypeShot, PartID: primitive.NewObjectID().Hex()})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Create(ctx, primitive.NewObjectID(), &contentdto.ContentCreateInput{Type: models.TypeShot, PartID: f.partID.Hex()})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Create(ctx, f.orgID, &contentdto.ContentCreateInput{Type: "scene", PartID: f.partID.Hex()})
	assert.Error(t, err)
}

func TestSelectKeepsSingleSelectedVersionPerType(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v1 := f.create(t, models.TypeShot, "v1", nil)
	v2 := f.create(t, models.TypeShot, "v2", &contentdto.MetadataInput{VersionNo: intPtr(2)})
	v3 := f.create(t, models.TypeShot, "v3", &contentdto.MetadataInput{VersionNo: intPtr(3), Selected: boolPtr(false)})

	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeShot)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{v2.Base().ID}, selectedIDs(items))

	selected, err := f.svc.Select(ctx, f.orgID, v1.Base().ID)
	require.NoError(t, err)
	assert.True(t, selected.Base().Metadata.Selected)

	// Chọn lại cùng phiên bản cho cùng kết quả
	_, err = f.svc.Select(ctx, f.orgID, v1.Base().ID)
	require.NoError(t, err)

	items, err = f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeShot)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{v1.Base().ID}, selectedIDs(items))

	got, err := f.svc.Get(ctx, f.orgID, v3.Base().ID)
	require.NoError(t, err)
	assert.False(t, got.Base().Metadata.Selected)
}

func TestSelectLeavesUnselectedSiblingsUntouched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v1 := f.create(t, models.TypeBeat, "v1", nil)
	v2 := f.create(t, models.TypeBeat, "v2", &contentdto.MetadataInput{VersionNo: intPtr(2), Selected: boolPtr(false)})
	v3 := f.create(t, models.TypeBeat, "v3", &contentdto.MetadataInput{VersionNo: intPtr(3), Selected: boolPtr(false)})
	time.Sleep(5 * time.Millisecond)

	_, err := f.svc.Select(ctx, f.orgID, v3.Base().ID)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.orgID, v2.Base().ID)
	require.NoError(t, err)
	assert.Equal(t, v2.Base().UpdatedAt, got.Base().UpdatedAt)
	assert.False(t, got.Base().Metadata.Selected)

	// Phiên bản từng được chọn bị bỏ chọn
	got, err = f.svc.Get(ctx, f.orgID, v1.Base().ID)
	require.NoError(t, err)
	assert.False(t, got.Base().Metadata.Selected)
	assert.Greater(t, got.Base().UpdatedAt, v1.Base().UpdatedAt)
}

func TestConcurrentSelectLeavesOneSelected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	versions := make([]primitive.ObjectID, 0, 8)
	for i := 0; i < 8; i++ {
		versions = append(versions, f.create(t, models.TypeStoryboard, "sb", nil).Base().ID)
	}

	var wg sync.WaitGroup
	for _, id := range versions {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_, err := f.svc.Select(ctx, f.orgID, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeStoryboard)
	require.NoError(t, err)
	require.Len(t, items, len(versions))
	assert.Len(t, selectedIDs(items), 1)
}

func TestSelectionIsIsolatedPerType(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	beat := f.create(t, models.TypeBeat, "beat", nil)
	shot1 := f.create(t, models.TypeShot, "shot 1", nil)
	shot2 := f.create(t, models.TypeShot, "shot 2", nil)
	board := f.create(t, models.TypeStoryboard, "board", nil)

	_, err := f.svc.Select(ctx, f.orgID, shot1.Base().ID)
	require.NoError(t, err)

	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID, "")
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, []string{models.TypeBeat, models.TypeShot, models.TypeShot, models.TypeStoryboard},
		[]string{items[0].Type, items[1].Type, items[2].Type, items[3].Type})
	assert.ElementsMatch(t, []primitive.ObjectID{beat.Base().ID, shot1.Base().ID, board.Base().ID}, selectedIDs(items))
	assert.NotContains(t, selectedIDs(items), shot2.Base().ID)
}

func TestUpdateIsPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := f.create(t, models.TypeBeat, "bản đầu", &contentdto.MetadataInput{VersionNo: intPtr(4)})

	content := "bản sửa"
	updated, err := f.svc.Update(ctx, f.orgID, item.Base().ID, &contentdto.ContentUpdateInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "bản sửa", updated.Base().Content)
	assert.Equal(t, models.Metadata{VersionNo: 4, Edited: false, Selected: true}, updated.Base().Metadata)

	updated, err = f.svc.Update(ctx, f.orgID, item.Base().ID, &contentdto.ContentUpdateInput{
		Metadata:   &contentdto.MetadataInput{Edited: boolPtr(true)},
		BeatNumber: intPtr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "bản sửa", updated.Base().Content)
	assert.Equal(t, models.Metadata{VersionNo: 4, Edited: true, Selected: true}, updated.Base().Metadata)
	assert.Equal(t, 7, updated.Beat.BeatNumber)
}

func TestUpdateSelectedMovesOrClearsPointer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	v1 := f.create(t, models.TypeStoryboard, "v1", nil)
	v2 := f.create(t, models.TypeStoryboard, "v2", nil)

	// v1 không được chọn nên selected=false không đụng tới con trỏ của v2
	_, err := f.svc.Update(ctx, f.orgID, v1.Base().ID, &contentdto.ContentUpdateInput{Metadata: &contentdto.MetadataInput{Selected: boolPtr(false)}})
	require.NoError(t, err)
	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeStoryboard)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{v2.Base().ID}, selectedIDs(items))

	_, err = f.svc.Update(ctx, f.orgID, v1.Base().ID, &contentdto.ContentUpdateInput{Metadata: &contentdto.MetadataInput{Selected: boolPtr(true)}})
	require.NoError(t, err)
	items, err = f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeStoryboard)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{v1.Base().ID}, selectedIDs(items))

	_, err = f.svc.Update(ctx, f.orgID, v1.Base().ID, &contentdto.ContentUpdateInput{Metadata: &contentdto.MetadataInput{Selected: boolPtr(false)}})
	require.NoError(t, err)
	items, err = f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeStoryboard)
	require.NoError(t, err)
	assert.Empty(t, selectedIDs(items))
}

func TestDeleteClearsPointer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	v1 := f.create(t, models.TypeShot, "v1", nil)
	v2 := f.create(t, models.TypeShot, "v2", nil)

	require.NoError(t, f.svc.Delete(ctx, f.orgID, v2.Base().ID))
	_, err := f.svc.Get(ctx, f.orgID, v2.Base().ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeShot)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, v1.Base().ID, items[0].Base().ID)
	assert.Empty(t, selectedIDs(items))

	assert.ErrorIs(t, f.svc.Delete(ctx, f.orgID, v2.Base().ID), common.ErrNotFound)
}

func TestOtherOrganizationSeesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := f.create(t, models.TypeBeat, "bí mật", nil)
	other := primitive.NewObjectID()

	_, err := f.svc.Get(ctx, other, item.Base().ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = f.svc.Select(ctx, other, item.Base().ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, other, item.Base().ID), common.ErrNotFound)
	_, err = f.svc.ListByPart(ctx, other, f.partID, "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListSortsByOrdinalThenCreation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	create := func(number int, name string) primitive.ObjectID {
		item, err := f.svc.Create(ctx, f.orgID, &contentdto.ContentCreateInput{
			Type: models.TypeShot, PartID: f.partID.Hex(), ShotNumber: intPtr(number), ShotName: name,
		})
		require.NoError(t, err)
		return item.Base().ID
	}
	second := create(2, "Cận cảnh")
	firstA := create(1, "Toàn cảnh")
	firstB := create(1, "Toàn cảnh")

	items, err := f.svc.ListByPart(ctx, f.orgID, f.partID, models.TypeShot)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []primitive.ObjectID{firstA, firstB, second},
		[]primitive.ObjectID{items[0].Base().ID, items[1].Base().ID, items[2].Base().ID})
	assert.Equal(t, "Cận cảnh", items[2].Shot.ShotName)
}

func TestCountAndDeleteByPart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.create(t, models.TypeBeat, "b", nil)
	f.create(t, models.TypeShot, "s1", nil)
	f.create(t, models.TypeShot, "s2", nil)

	counts, err := f.svc.CountByPart(ctx, f.partID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{models.TypeBeat: 1, models.TypeShot: 2, models.TypeStoryboard: 0}, counts)

	deleted, err := f.svc.DeleteByPart(ctx, f.partID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	items, err := f.svc.ItemsOfPart(ctx, f.partID)
	require.NoError(t, err)
	assert.Empty(t, items)
	n, err := f.svc.selections.CountDocuments(ctx, map[string]interface{}{"partId": f.partID})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContentItemJSONCarriesType(t *testing.T) {
	f := setup(t)
	item := f.create(t, models.TypeStoryboard, "khung 1", nil)

	raw, err := json.Marshal(item)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "storyboard", out["type"])
	assert.Equal(t, "khung 1", out["content"])
	assert.Equal(t, item.Base().ID.Hex(), out["id"])
	meta, ok := out["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, meta["selected"])
}
