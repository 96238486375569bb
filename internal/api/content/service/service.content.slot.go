package contentsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "story_studio/internal/api/base/service"
	contentdto "story_studio/internal/api/content/dto"
	models "story_studio/internal/api/content/models"
)

// slot là kho của một loại nội dung, mọi kết quả trả về dạng ContentItem
type slot interface {
	kind() string
	create(ctx context.Context, base models.ContentBase, input *contentdto.ContentCreateInput) (*models.ContentItem, error)
	findByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	find(ctx context.Context, filter bson.M) ([]models.ContentItem, error)
	updateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.ContentItem, error)
	updateMany(ctx context.Context, filter bson.M, set bson.M) (int64, error)
	deleteByID(ctx context.Context, id primitive.ObjectID) error
	deleteMany(ctx context.Context, filter bson.M) (int64, error)
	count(ctx context.Context, filter bson.M) (int64, error)
	ordinalSet(input *contentdto.ContentUpdateInput) bson.M
}

// typedStore cài đặt slot trên một collection có kiểu T
type typedStore[T any] struct {
	typ     string
	ordinal string // trường số thứ tự dùng để sắp xếp
	store   basesvc.BaseServiceMongo[T]
	wrap    func(*T) models.ContentItem
	build   func(models.ContentBase, *contentdto.ContentCreateInput) T
	patch   func(*contentdto.ContentUpdateInput) bson.M
}

func newTypedStore[T any](typ, colName, ordinal string,
	wrap func(*T) models.ContentItem,
	build func(models.ContentBase, *contentdto.ContentCreateInput) T,
	patch func(*contentdto.ContentUpdateInput) bson.M,
) (*typedStore[T], error) {
	store, err := basesvc.NewStore[T](colName)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s collection: %w", colName, err)
	}
	return &typedStore[T]{typ: typ, ordinal: ordinal, store: store, wrap: wrap, build: build, patch: patch}, nil
}

func (s *typedStore[T]) kind() string { return s.typ }

func (s *typedStore[T]) sort() bson.D {
	return bson.D{{Key: s.ordinal, Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
}

func (s *typedStore[T]) item(doc T) *models.ContentItem {
	it := s.wrap(&doc)
	return &it
}

func (s *typedStore[T]) create(ctx context.Context, base models.ContentBase, input *contentdto.ContentCreateInput) (*models.ContentItem, error) {
	doc, err := s.store.InsertOne(ctx, s.build(base, input))
	if err != nil {
		return nil, err
	}
	return s.item(doc), nil
}

func (s *typedStore[T]) findByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	doc, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.item(doc), nil
}

func (s *typedStore[T]) find(ctx context.Context, filter bson.M) ([]models.ContentItem, error) {
	docs, err := s.store.Find(ctx, filter, options.Find().SetSort(s.sort()))
	if err != nil {
		return nil, err
	}
	items := make([]models.ContentItem, 0, len(docs))
	for i := range docs {
		items = append(items, s.wrap(&docs[i]))
	}
	return items, nil
}

func (s *typedStore[T]) updateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.ContentItem, error) {
	doc, err := s.store.UpdateById(ctx, id, set)
	if err != nil {
		return nil, err
	}
	return s.item(doc), nil
}

func (s *typedStore[T]) updateMany(ctx context.Context, filter bson.M, set bson.M) (int64, error) {
	return s.store.UpdateMany(ctx, filter, set, nil)
}

func (s *typedStore[T]) deleteByID(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteById(ctx, id)
}

func (s *typedStore[T]) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	return s.store.DeleteMany(ctx, filter)
}

func (s *typedStore[T]) count(ctx context.Context, filter bson.M) (int64, error) {
	return s.store.CountDocuments(ctx, filter)
}

func (s *typedStore[T]) ordinalSet(input *contentdto.ContentUpdateInput) bson.M {
	if s.patch == nil {
		return bson.M{}
	}
	return s.patch(input)
}

// ====================================
// BA LOẠI NỘI DUNG
// ====================================

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func newBeatStore(colName string) (*typedStore[models.Beat], error) {
	return newTypedStore(models.TypeBeat, colName, "beatNumber",
		func(b *models.Beat) models.ContentItem {
			return models.ContentItem{Type: models.TypeBeat, Beat: b}
		},
		func(base models.ContentBase, in *contentdto.ContentCreateInput) models.Beat {
			return models.Beat{ContentBase: base, BeatNumber: intOr(in.BeatNumber, 0)}
		},
		func(in *contentdto.ContentUpdateInput) bson.M {
			set := bson.M{}
			if in.BeatNumber != nil {
				set["beatNumber"] = *in.BeatNumber
			}
			return set
		})
}

func newShotStore(colName string) (*typedStore[models.Shot], error) {
	return newTypedStore(models.TypeShot, colName, "shotNumber",
		func(s *models.Shot) models.ContentItem {
			return models.ContentItem{Type: models.TypeShot, Shot: s}
		},
		func(base models.ContentBase, in *contentdto.ContentCreateInput) models.Shot {
			return models.Shot{ContentBase: base, ShotNumber: intOr(in.ShotNumber, 0), ShotName: in.ShotName}
		},
		func(in *contentdto.ContentUpdateInput) bson.M {
			set := bson.M{}
			if in.ShotNumber != nil {
				set["shotNumber"] = *in.ShotNumber
			}
			if in.ShotName != nil {
				set["shotName"] = *in.ShotName
			}
			return set
		})
}

func newStoryboardStore(colName string) (*typedStore[models.Storyboard], error) {
	return newTypedStore(models.TypeStoryboard, colName, "panelNumber",
		func(sb *models.Storyboard) models.ContentItem {
			return models.ContentItem{Type: models.TypeStoryboard, Storyboard: sb}
		},
		func(base models.ContentBase, in *contentdto.ContentCreateInput) models.Storyboard {
			return models.Storyboard{ContentBase: base, PanelNumber: intOr(in.PanelNumber, 0)}
		},
		func(in *contentdto.ContentUpdateInput) bson.M {
			set := bson.M{}
			if in.PanelNumber != nil {
				set["panelNumber"] = *in.PanelNumber
			}
			return set
		})
}
