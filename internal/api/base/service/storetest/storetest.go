// Package storetest chọn kho lưu trữ cho test của các service.
//
// Mặc định mỗi test chạy trên MongoDB thật: TEST_MONGODB_URI nếu có, không thì một mongod
// dựng bằng testcontainers (dùng chung cho cả binary test). Không có Docker thì test bị bỏ qua.
// TEST_STORAGE_DRIVER=memory chạy cùng bộ test trên collection bộ nhớ (STORAGE_DRIVER=memory).
package storetest

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"story_studio/config"
	basesvc "story_studio/internal/api/base/service"
	"story_studio/internal/database"
)

const (
	envDriver   = "TEST_STORAGE_DRIVER"
	envMongoURI = "TEST_MONGODB_URI"
	mongoImage  = "mongo:7"
	startupWait = 2 * time.Minute
)

var (
	once     sync.Once
	client   *mongo.Client
	startErr error
)

// Use chuẩn bị kho rỗng cho test hiện tại
func Use(t *testing.T) {
	t.Helper()
	if os.Getenv(envDriver) == config.StorageMemory {
		basesvc.UseMemoryStorage()
		basesvc.ResetMemoryStorage()
		return
	}

	c := mongoClient(t)
	db := c.Database("studio_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
	})
	basesvc.UseMongoDatabase(db)
}

func mongoClient(t *testing.T) *mongo.Client {
	t.Helper()
	uri := os.Getenv(envMongoURI)
	if uri == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupWait)
		defer cancel()

		if uri == "" {
			// Container được Ryuk dọn khi binary test kết thúc
			container, err := mongodb.Run(ctx, mongoImage)
			if err != nil {
				startErr = err
				return
			}
			if uri, err = container.ConnectionString(ctx); err != nil {
				startErr = err
				return
			}
		}
		client, startErr = database.GetInstance(ctx, uri)
	})
	if startErr != nil {
		t.Skipf("MongoDB không sẵn sàng: %v", startErr)
	}
	return client
}
