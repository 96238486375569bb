package basesvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"story_studio/internal/common"
)

type note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Key       string             `bson:"key" index:"unique,sparse"`
	Rank      int                `bson:"rank"`
	CreatedAt int64              `bson:"createdAt"`
	UpdatedAt int64              `bson:"updatedAt"`
}

func newNoteStore(t *testing.T) BaseServiceMongo[note] {
	t.Helper()
	UseMemoryStorage()
	ResetMemoryStorage()
	store, err := NewStore[note]("test_notes")
	require.NoError(t, err)
	return store
}

func TestMemoryStoreCRUD(t *testing.T) {
	store := newNoteStore(t)
	ctx := context.Background()

	a, err := store.InsertOne(ctx, note{Key: "a", Rank: 2})
	require.NoError(t, err)
	assert.False(t, a.ID.IsZero())
	assert.NotZero(t, a.CreatedAt)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)

	_, err = store.InsertOne(ctx, note{Key: "b", Rank: 1})
	require.NoError(t, err)

	_, err = store.InsertOne(ctx, note{Key: "a", Rank: 9})
	assert.ErrorIs(t, err, common.ErrDuplicate)

	list, err := store.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "rank", Value: 1}}))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Key)

	updated, err := store.UpdateById(ctx, a.ID, bson.M{"rank": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rank)
	assert.Equal(t, "a", updated.Key)

	_, err = store.UpdateById(ctx, primitive.NewObjectID(), bson.M{"rank": 1})
	assert.ErrorIs(t, err, common.ErrNotFound)

	found, err := store.FindManyByIds(ctx, []primitive.ObjectID{a.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	n, err := store.DeleteMany(ctx, bson.M{"rank": bson.M{"$lt": 3}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.ErrorIs(t, store.DeleteById(ctx, primitive.NewObjectID()), common.ErrNotFound)

	exists, err := store.DocumentExists(ctx, bson.M{"key": "a"})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStoreUpsert(t *testing.T) {
	store := newNoteStore(t)
	ctx := context.Background()

	first, err := store.Upsert(ctx, bson.M{"key": "pointer"}, bson.M{"rank": 1})
	require.NoError(t, err)
	assert.Equal(t, "pointer", first.Key)
	assert.NotZero(t, first.CreatedAt)

	second, err := store.Upsert(ctx, bson.M{"key": "pointer"}, bson.M{"rank": 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	n, err := store.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStoreSharedByName(t *testing.T) {
	store := newNoteStore(t)
	ctx := context.Background()
	_, err := store.InsertOne(ctx, note{Key: "x"})
	require.NoError(t, err)

	other, err := NewStore[note]("test_notes")
	require.NoError(t, err)
	n, err := other.CountDocuments(ctx, bson.M{"key": "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ResetMemoryStorage()
	n, err = other.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, n)
}
