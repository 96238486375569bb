package basesvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"story_studio/config"
	"story_studio/internal/database"
	"story_studio/internal/global"
)

var (
	storageMu     sync.RWMutex
	storageDriver = config.StorageMongoDB
	boundDatabase *mongo.Database
)

const indexTimeout = 30 * time.Second

// UseMemoryStorage chuyển các store tạo sau đó sang collection trong bộ nhớ
func UseMemoryStorage() {
	storageMu.Lock()
	defer storageMu.Unlock()
	storageDriver = config.StorageMemory
}

// UseMongoStorage chuyển các store tạo sau đó sang MongoDB
func UseMongoStorage() {
	storageMu.Lock()
	defer storageMu.Unlock()
	storageDriver = config.StorageMongoDB
}

// UseMongoDatabase chuyển sang MongoDB và gắn db: collection chưa đăng ký được tạo cùng index
// khi NewStore gọi tới lần đầu. Registry collection cũ bị xóa để store mới trỏ vào db.
func UseMongoDatabase(db *mongo.Database) {
	storageMu.Lock()
	defer storageMu.Unlock()
	storageDriver = config.StorageMongoDB
	boundDatabase = db
	global.RegistryCollections.ClearAll(nil)
}

func mongoDatabase() *mongo.Database {
	storageMu.RLock()
	defer storageMu.RUnlock()
	return boundDatabase
}

// StorageDriver trả về driver đang dùng
func StorageDriver() string {
	storageMu.RLock()
	defer storageMu.RUnlock()
	return storageDriver
}

// ResetMemoryStorage xóa dữ liệu của mọi collection bộ nhớ, giữ lại collection và ràng buộc unique
func ResetMemoryStorage() {
	for _, name := range global.RegistryMemoryCollections.Keys() {
		if col, ok := global.RegistryMemoryCollections.Get(name); ok {
			col.Drop()
		}
	}
}

// NewStore trả về repository cho collection colName theo driver hiện tại.
// Với driver memory, collection được tạo nếu chưa có và ràng buộc unique lấy từ tag `index` của T.
func NewStore[T any](colName string) (BaseServiceMongo[T], error) {
	if StorageDriver() == config.StorageMemory {
		col, err := global.RegistryMemoryCollections.GetOrCreate(colName, func() (*database.MemoryCollection, error) {
			return database.NewMemoryCollection(colName), nil
		})
		if err != nil {
			return nil, err
		}
		var model T
		col.EnsureIndexes(model)
		return NewBaseServiceMemory[T](col), nil
	}

	col, exists := global.RegistryCollections.Get(colName)
	if !exists {
		db := mongoDatabase()
		if db == nil {
			return nil, fmt.Errorf("collection %s not found in the registry", colName)
		}
		var err error
		col, err = global.RegistryCollections.GetOrCreate(colName, func() (*mongo.Collection, error) {
			return openCollection[T](db, colName)
		})
		if err != nil {
			return nil, err
		}
	}
	return NewBaseServiceMongo[T](col), nil
}

// openCollection tạo collection nếu thiếu và dựng index từ tag `index` của T
func openCollection[T any](db *mongo.Database, colName string) (*mongo.Collection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if err := database.EnsureCollections(ctx, db, []string{colName}); err != nil {
		return nil, err
	}
	col := db.Collection(colName)
	var model T
	if err := database.CreateIndexes(ctx, col, model); err != nil {
		return nil, err
	}
	return col, nil
}
