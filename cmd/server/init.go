package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"story_studio/config"
	assetmodels "story_studio/internal/api/asset/models"
	authmodels "story_studio/internal/api/auth/models"
	basesvc "story_studio/internal/api/base/service"
	contentmodels "story_studio/internal/api/content/models"
	mediamodels "story_studio/internal/api/media/models"
	projectmodels "story_studio/internal/api/project/models"
	"story_studio/internal/database"
	"story_studio/internal/global"
	"story_studio/internal/utility"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator() // Khởi tạo validator
	initConfig()    // Khởi tạo cấu hình server
	initStorage()   // Khởi tạo kết nối database hoặc bộ nhớ
	initFirebase()  // Khởi tạo Firebase
}

// Hàm khởi tạo validator (đăng ký no_xss, objectid, content_type, media_type)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// collectionModels ghép tên collection với model mang tag `index`
func collectionModels() map[string]interface{} {
	names := global.MongoDB_ColNames
	return map[string]interface{}{
		names.Users:             authmodels.User{},
		names.Organizations:     authmodels.Organization{},
		names.Projects:          projectmodels.Project{},
		names.Episodes:          projectmodels.Episode{},
		names.Parts:             projectmodels.Part{},
		names.Beats:             contentmodels.Beat{},
		names.Shots:             contentmodels.Shot{},
		names.Storyboards:       contentmodels.Storyboard{},
		names.ContentSelections: contentmodels.ContentSelection{},
		names.Images:            mediamodels.Image{},
		names.Clips:             mediamodels.Clip{},
		names.Characters:        assetmodels.Asset{},
		names.Locations:         assetmodels.Asset{},
		names.Props:             assetmodels.Asset{},
	}
}

// Hàm khởi tạo lưu trữ: STORAGE_DRIVER=memory không cần MongoDB
func initStorage() {
	cfg := global.MongoDB_ServerConfig
	if cfg.StorageDriver == config.StorageMemory {
		basesvc.UseMemoryStorage()
		logrus.Warn("Using in-memory storage, data is lost on restart")
		return
	}
	basesvc.UseMongoStorage()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	global.MongoDB_Session, err = database.GetInstance(ctx, cfg.MongoDB_ConnectionURI)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)
	models := collectionModels()
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	if err := database.EnsureCollections(ctx, db, names); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	for name, model := range models {
		if err := database.CreateIndexes(ctx, db.Collection(name), model); err != nil {
			logrus.WithError(err).Errorf("Failed to create indexes for %s", name)
		}
	}
}

// initFirebase khởi tạo Firebase Admin SDK khi có cấu hình
func initFirebase() {
	cfg := global.MongoDB_ServerConfig
	if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsPath == "" {
		logrus.Info("Firebase config không đầy đủ, đăng nhập dùng Google ID token")
		return
	}

	if err := utility.InitFirebase(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath); err != nil {
		// Không fatal, đăng nhập quay về Google ID token
		logrus.Errorf("Failed to initialize Firebase: %v", err)
		return
	}
	logrus.Info("Firebase initialized successfully")
}
