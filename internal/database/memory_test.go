package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type indexedDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Email  string             `bson:"email,omitempty" index:"unique,sparse"`
	PartID primitive.ObjectID `bson:"partId" index:"compound:part_type_unique"`
	Type   string             `bson:"type" index:"compound:part_type_unique"`
}

type embeddedBase struct {
	PartID primitive.ObjectID `bson:"partId" index:"single"`
}

type embeddingDoc struct {
	embeddedBase `bson:",inline"`
	Number       int `bson:"number" index:"single,order:-1"`
}

func TestParseIndexSpecs(t *testing.T) {
	specs := ParseIndexSpecs(indexedDoc{})
	require.Len(t, specs, 2)
	assert.Equal(t, "email_unique", specs[0].Name)
	assert.True(t, specs[0].Unique)
	assert.True(t, specs[0].Sparse)
	assert.Equal(t, "part_type_unique", specs[1].Name)
	assert.Equal(t, []string{"partId", "type"}, specs[1].Fields())
	assert.True(t, specs[1].Unique)

	inline := ParseIndexSpecs(&embeddingDoc{})
	require.Len(t, inline, 2)
	assert.Equal(t, "partId_single", inline[0].Name)
	assert.Equal(t, bson.D{{Key: "number", Value: -1}}, inline[1].Keys)
}

func TestMemoryCollectionFilters(t *testing.T) {
	c := NewMemoryCollection("items")
	part := primitive.NewObjectID()
	other := primitive.NewObjectID()

	_, err := c.InsertOne(bson.M{"partId": part, "n": 2, "tags": []string{"a", "b"}, "meta": bson.M{"selected": true}})
	require.NoError(t, err)
	_, err = c.InsertOne(bson.M{"partId": part, "n": 1, "meta": bson.M{"selected": false}})
	require.NoError(t, err)
	_, err = c.InsertOne(bson.M{"partId": other, "n": 3, "category": nil})
	require.NoError(t, err)

	count := func(filter bson.M) int64 {
		n, err := c.CountDocuments(filter)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, int64(2), count(bson.M{"partId": part}))
	assert.Equal(t, int64(1), count(bson.M{"meta.selected": true}))
	assert.Equal(t, int64(1), count(bson.M{"tags": "b"}))
	assert.Equal(t, int64(3), count(bson.M{"partId": bson.M{"$in": []primitive.ObjectID{part, other}}}))
	assert.Equal(t, int64(1), count(bson.M{"partId": bson.M{"$ne": part}}))
	assert.Equal(t, int64(3), count(bson.M{"category": nil}), "nil khớp cả field null lẫn field thiếu")
	assert.Equal(t, int64(1), count(bson.M{"category": bson.M{"$exists": true}}))
	assert.Equal(t, int64(2), count(bson.M{"n": bson.M{"$gte": int64(2)}}))
	assert.Equal(t, int64(2), count(bson.M{"$or": []bson.M{{"n": 1}, {"n": 3}}}))

	docs, err := c.Find(bson.M{}, MemoryFindOptions{Sort: bson.D{{Key: "n", Value: -1}}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.EqualValues(t, 3, docs[0]["n"])
	assert.EqualValues(t, 2, docs[1]["n"])
}

func TestMemoryCollectionUpdateAndUpsert(t *testing.T) {
	c := NewMemoryCollection("items")
	part := primitive.NewObjectID()

	_, err := c.InsertOne(bson.M{"partId": part, "selected": true})
	require.NoError(t, err)
	_, err = c.InsertOne(bson.M{"partId": part, "selected": true})
	require.NoError(t, err)

	res, err := c.UpdateMany(bson.M{"partId": part}, bson.M{"$set": bson.M{"selected": false}}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.MatchedCount)
	assert.Equal(t, int64(2), res.ModifiedCount)

	res, err = c.UpdateOne(bson.M{"partId": part, "type": "shot"}, bson.M{
		"$set":         bson.M{"currentVersionId": "v1"},
		"$setOnInsert": bson.M{"createdAt": int64(1)},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)

	doc, err := c.FindOne(bson.M{"type": "shot"}, nil)
	require.NoError(t, err)
	assert.Equal(t, part, doc["partId"])
	assert.Equal(t, "v1", doc["currentVersionId"])
	assert.EqualValues(t, 1, doc["createdAt"])

	_, err = c.UpdateOne(bson.M{"_id": doc["_id"]}, bson.M{"$push": bson.M{"ids": "x"}, "$unset": bson.M{"createdAt": ""}}, false)
	require.NoError(t, err)
	doc, err = c.FindOne(bson.M{"_id": doc["_id"]}, nil)
	require.NoError(t, err)
	assert.Equal(t, primitive.A{"x"}, doc["ids"])
	assert.NotContains(t, doc, "createdAt")

	_, err = c.FindOne(bson.M{"type": "beat"}, nil)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestMemoryCollectionUniqueIndexes(t *testing.T) {
	c := NewMemoryCollection("selections")
	c.EnsureIndexes(indexedDoc{})
	part := primitive.NewObjectID()

	_, err := c.InsertOne(bson.M{"partId": part, "type": "beat"})
	require.NoError(t, err)
	_, err = c.InsertOne(bson.M{"partId": part, "type": "shot"})
	require.NoError(t, err)

	_, err = c.InsertOne(bson.M{"partId": part, "type": "beat"})
	assert.True(t, mongo.IsDuplicateKeyError(err))

	// sparse: nhiều document không có email vẫn hợp lệ
	_, err = c.InsertOne(bson.M{"partId": primitive.NewObjectID(), "type": "beat", "email": "a@x.test"})
	require.NoError(t, err)
	_, err = c.InsertOne(bson.M{"partId": primitive.NewObjectID(), "type": "beat", "email": "a@x.test"})
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestMemoryCollectionDelete(t *testing.T) {
	c := NewMemoryCollection("items")
	part := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		_, err := c.InsertOne(bson.M{"partId": part, "n": i})
		require.NoError(t, err)
	}
	_, err := c.InsertOne(bson.M{"partId": primitive.NewObjectID()})
	require.NoError(t, err)

	n, err := c.DeleteOne(bson.M{"partId": part})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.DeleteMany(bson.M{"partId": part})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := c.CountDocuments(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
