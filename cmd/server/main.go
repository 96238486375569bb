package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"story_studio/internal/database"
	"story_studio/internal/global"
	"story_studio/internal/logger"
	"story_studio/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc biến môi trường LOG_* để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// resolvePath tìm đường dẫn tương đối từ thư mục gốc chứa config/env
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// main_thread khởi động Fiber server, HTTPS khi ENABLE_TLS
func main_thread(app *fiber.App) {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	if !cfg.EnableTLS {
		log.WithFields(map[string]interface{}{
			"address":  cfg.Address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")
		if err := app.Listen(cfg.Address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Fatalf("Error in Fiber Listen: %v", err)
		}
		return
	}

	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		log.Fatalf("Error loading TLS certificate: %v", err)
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		log.Fatalf("Error creating listener: %v", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})

	log.WithFields(map[string]interface{}{
		"address": cfg.Address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	if err := app.Listener(tlsListener, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Error in Fiber Listener with TLS: %v", err)
	}
}

// Hàm main
func main() {
	initLogger()
	defer logger.Close()

	InitGlobal()
	InitRegistry()

	log := logger.GetAppLogger()
	svc, err := InitServices(global.MongoDB_ServerConfig, nil)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	app, err := InitFiberApp(global.MongoDB_ServerConfig, svc)
	if err != nil {
		log.Fatalf("Failed to initialize routes: %v", err)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if minutes := global.MongoDB_ServerConfig.OrphanSweepMinutes; minutes > 0 {
		go worker.NewOrphanSweepWorker(svc.Studio, time.Duration(minutes)*time.Minute).Start(workerCtx)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		stopWorkers()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.CloseInstance(ctx, global.MongoDB_Session)
	}()

	main_thread(app)
}
