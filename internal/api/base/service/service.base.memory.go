package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"story_studio/internal/common"
	"story_studio/internal/database"
	"story_studio/internal/utility"
)

// BaseServiceMemoryImpl triển khai BaseServiceMongo trên database.MemoryCollection.
// Cùng ngữ nghĩa với bản MongoDB: timestamps, ErrNotFound, Find không trả nil.
type BaseServiceMemoryImpl[T any] struct {
	collection *database.MemoryCollection
}

// NewBaseServiceMemory tạo repository bộ nhớ trên collection cho trước
func NewBaseServiceMemory[T any](collection *database.MemoryCollection) *BaseServiceMemoryImpl[T] {
	return &BaseServiceMemoryImpl[T]{collection: collection}
}

// CollectionName trả về tên collection
func (s *BaseServiceMemoryImpl[T]) CollectionName() string {
	return s.collection.Name()
}

func decodeDoc[T any](doc bson.M) (T, error) {
	var out T
	if err := utility.FromDocument(doc, &out); err != nil {
		return out, common.NewError(common.ErrCodeValidationFormat, "Lỗi định dạng dữ liệu khi decode", common.StatusBadRequest, err.Error())
	}
	return out, nil
}

func decodeDocs[T any](docs []bson.M) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		item, err := decodeDoc[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func findOptions(opts *options.FindOptions) database.MemoryFindOptions {
	var out database.MemoryFindOptions
	if opts == nil {
		return out
	}
	out.Sort = database.ToSortSpec(opts.Sort)
	if opts.Skip != nil {
		out.Skip = *opts.Skip
	}
	if opts.Limit != nil {
		out.Limit = *opts.Limit
	}
	return out
}

// InsertOne tạo mới một bản ghi
func (s *BaseServiceMemoryImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	dataMap, err := prepareInsert(data, time.Now().UnixMilli())
	if err != nil {
		return zero, err
	}
	id, err := s.collection.InsertOne(dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// InsertMany tạo nhiều bản ghi theo thứ tự
func (s *BaseServiceMemoryImpl[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	out := make([]T, 0, len(data))
	for _, item := range data {
		created, err := s.InsertOne(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMemoryImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var sortSpec bson.D
	if opts != nil {
		sortSpec = database.ToSortSpec(opts.Sort)
	}
	doc, err := s.collection.FindOne(filter, sortSpec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return decodeDoc[T](doc)
}

// Find tìm tất cả bản ghi theo điều kiện lọc
func (s *BaseServiceMemoryImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := s.collection.Find(filter, findOptions(opts))
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return decodeDocs[T](docs)
}

// UpdateOne cập nhật document đầu tiên khớp filter và trả về bản sau cập nhật
func (s *BaseServiceMemoryImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	upsert := opts != nil && opts.Upsert != nil && *opts.Upsert

	updateData, err := ToUpdateData(update)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	updateData.touch(upsert)

	target := filter
	existing, err := s.collection.FindOne(filter, nil)
	switch {
	case err == nil:
		target = bson.M{"_id": existing["_id"]}
	case errors.Is(err, mongo.ErrNoDocuments):
		if !upsert {
			return zero, common.ErrNotFound
		}
	default:
		return zero, common.ConvertMongoError(err)
	}

	result, err := s.collection.UpdateOne(target, updateData, upsert)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return zero, common.ErrNotFound
	}
	if result.UpsertedID != nil {
		target = bson.M{"_id": result.UpsertedID}
	}
	return s.FindOne(ctx, target, nil)
}

// UpdateMany cập nhật nhiều document
func (s *BaseServiceMemoryImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	upsert := opts != nil && opts.Upsert != nil && *opts.Upsert

	updateData, err := ToUpdateData(update)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	updateData.touch(upsert)

	result, err := s.collection.UpdateMany(filter, updateData, upsert)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

// DeleteOne xóa một document
func (s *BaseServiceMemoryImpl[T]) DeleteOne(ctx context.Context, filter interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := s.collection.DeleteOne(filter)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteMany xóa nhiều document
func (s *BaseServiceMemoryImpl[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.collection.DeleteMany(filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return n, nil
}

// CountDocuments đếm số document khớp filter
func (s *BaseServiceMemoryImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.collection.CountDocuments(filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return n, nil
}

// FindOneById tìm một document theo ObjectId
func (s *BaseServiceMemoryImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindManyByIds tìm nhiều document theo danh sách ID; ID không tồn tại bị bỏ qua
func (s *BaseServiceMemoryImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
}

// UpdateById cập nhật một document theo ObjectId
func (s *BaseServiceMemoryImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, data, nil)
}

// DeleteById xóa một document theo ObjectId
func (s *BaseServiceMemoryImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// Upsert cập nhật nếu tồn tại, tạo mới nếu chưa có (nguyên tử dưới khóa của collection)
func (s *BaseServiceMemoryImpl[T]) Upsert(ctx context.Context, filter interface{}, data interface{}) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	updateData, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	updateData.touch(true)

	doc, err := s.collection.FindOneAndUpdate(filter, updateData, true, true)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return decodeDoc[T](doc)
}

// DocumentExists kiểm tra có document nào khớp filter
func (s *BaseServiceMemoryImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	n, err := s.CountDocuments(ctx, filter)
	return n > 0, err
}
