package database

import (
	"context"
	"fmt"

	"story_studio/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections tạo các collection còn thiếu trong database
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s chưa tồn tại, tạo mới.", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	logger.GetAppLogger().Infof("Database and collections are ensured in database: %s", db.Name())
	return nil
}

// CreateIndexes tạo (hoặc thay thế nếu cấu hình khác) các index khai báo bằng tag `index` trên model
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	existing, err := listIndexes(ctx, collection)
	if err != nil {
		return err
	}

	for _, spec := range ParseIndexSpecs(model) {
		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts.SetUnique(true)
		}
		if spec.Sparse {
			opts.SetSparse(true)
		}
		if spec.TTL != nil {
			opts.SetExpireAfterSeconds(*spec.TTL)
		}

		if current, ok := existing[spec.Name]; ok {
			if sameIndex(current, spec) {
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("không thể xóa index %s: %w", spec.Name, err)
			}
			logger.GetAppLogger().Infof("Đã xóa index cũ: %s.%s", collection.Name(), spec.Name)
		}

		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: opts}); err != nil {
			return fmt.Errorf("không thể tạo index %s: %w", spec.Name, err)
		}
		logger.GetAppLogger().Infof("Đã tạo index: %s.%s", collection.Name(), spec.Name)
	}
	return nil
}

func listIndexes(ctx context.Context, collection *mongo.Collection) (map[string]bson.M, error) {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("không thể lấy danh sách index: %w", err)
	}
	defer cursor.Close(ctx)

	out := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return nil, fmt.Errorf("không thể giải mã thông tin index: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			out[name] = info
		}
	}
	return out, cursor.Err()
}

// sameIndex so sánh index hiện có với spec (keys, unique, sparse)
func sameIndex(current bson.M, spec IndexSpec) bool {
	keys, ok := asMap(current["key"])
	if !ok || len(keys) != len(spec.Keys) {
		return false
	}
	for _, k := range spec.Keys {
		v, exists := keys[k.Key]
		if !exists || !valuesEqual(v, k.Value) {
			return false
		}
	}
	unique, _ := current["unique"].(bool)
	sparse, _ := current["sparse"].(bool)
	return unique == spec.Unique && sparse == spec.Sparse
}
