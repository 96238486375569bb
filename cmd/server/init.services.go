package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"story_studio/config"
	assetsvc "story_studio/internal/api/asset/service"
	authsvc "story_studio/internal/api/auth/service"
	contentsvc "story_studio/internal/api/content/service"
	mediasvc "story_studio/internal/api/media/service"
	projectsvc "story_studio/internal/api/project/service"
	seedsvc "story_studio/internal/api/seed/service"
	studiosvc "story_studio/internal/api/studio/service"
	"story_studio/internal/delivery"
	"story_studio/internal/delivery/channels"
)

const emailQueueSize = 100

// Services gom các service đã khởi tạo để đăng ký route
type Services struct {
	Auth          *authsvc.AuthService
	Users         *authsvc.UserService
	Organizations *authsvc.OrganizationService
	Projects      *projectsvc.ProjectService
	Content       *contentsvc.ContentService
	Media         *mediasvc.MediaService
	Assets        *assetsvc.AssetService
	Studio        *studiosvc.StudioService

	// Queue gửi email, nil khi SMTP chưa cấu hình
	Queue *delivery.Queue
}

// Close dừng các worker nền
func (s *Services) Close() {
	if s.Queue != nil {
		s.Queue.Close()
	}
}

// InitServices khởi tạo toàn bộ service theo thứ tự phụ thuộc.
// verifier nil thì chọn theo cấu hình (Firebase hoặc Google).
func InitServices(cfg *config.Configuration, verifier authsvc.IdentityVerifier) (*Services, error) {
	svc := &Services{}

	var notifier authsvc.Notifier
	sender := channels.EmailSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	if sender.Configured() {
		svc.Queue = delivery.NewEmailQueue(emailQueueSize, sender)
		notifier = svc.Queue
		logrus.Info("📦 [DELIVERY] Email queue started")
	} else {
		logrus.Info("SMTP chưa cấu hình, bỏ qua email thông báo")
	}

	var err error
	if svc.Users, err = authsvc.NewUserService(); err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}
	if svc.Organizations, err = authsvc.NewOrganizationService(notifier); err != nil {
		return nil, fmt.Errorf("organization service: %w", err)
	}
	if verifier == nil {
		verifier = authsvc.NewIdentityVerifier(cfg)
	}
	if svc.Auth, err = authsvc.NewAuthService(verifier, svc.Organizations); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if svc.Projects, err = projectsvc.NewProjectService(); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if svc.Content, err = contentsvc.NewContentService(svc.Projects); err != nil {
		return nil, fmt.Errorf("content service: %w", err)
	}
	if svc.Media, err = mediasvc.NewMediaService(svc.Projects); err != nil {
		return nil, fmt.Errorf("media service: %w", err)
	}
	if svc.Assets, err = assetsvc.NewAssetService(svc.Projects, svc.Media); err != nil {
		return nil, fmt.Errorf("asset service: %w", err)
	}
	svc.Studio = studiosvc.NewStudioService(svc.Projects, svc.Content, svc.Media, svc.Assets)

	if cfg.AutoSeedParts && cfg.DemoDataDir != "" {
		svc.Projects.SetPartSeeder(seedsvc.NewPartSeeder(cfg.DemoDataDir, cfg.DemoStaticBaseURL, svc.Content, svc.Media, svc.Assets))
		logrus.WithField("dir", cfg.DemoDataDir).Info("Auto-seed parts enabled")
	}
	return svc, nil
}
