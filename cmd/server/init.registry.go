package main

import (
	"sort"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"story_studio/config"
	"story_studio/internal/global"
)

// InitRegistry đăng ký các collection MongoDB; driver memory tự tạo collection khi cần
func InitRegistry() {
	cfg := global.MongoDB_ServerConfig
	if cfg.StorageDriver == config.StorageMemory {
		logrus.Info("Memory storage: collection registry is populated lazily")
		return
	}

	if err := InitCollections(global.MongoDB_Session, cfg); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	names := make([]string, 0)
	for name := range collectionModels() {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		if registered {
			logrus.Debugf("Collection %s registered successfully", name)
		} else {
			logrus.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}
