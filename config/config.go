package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Các driver lưu trữ được hỗ trợ
const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address   string `env:"ADDRESS" envDefault:":8080"` // Địa chỉ server
	JwtSecret string `env:"JWT_SECRET,required"`        // Bí mật ký access token

	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"360"` // Thời hạn access token (phút)

	StorageDriver         string `env:"STORAGE_DRIVER" envDefault:"mongodb"`       // mongodb | memory
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI"`                    // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"story_studio"` // Tên cơ sở dữ liệu

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Đăng nhập Google / Firebase
	GoogleClientID          string `env:"GOOGLE_CLIENT_ID"`          // Audience của Google ID token
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`       // Dùng Firebase thay cho Google nếu được set
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"` // Đường dẫn service account JSON

	// Dữ liệu demo tự động gieo khi tạo part
	DemoDataDir       string `env:"DEMO_DATA_DIR"`
	DemoStaticBaseURL string `env:"DEMO_STATIC_BASE_URL" envDefault:"/static"`
	AutoSeedParts     bool   `env:"AUTO_SEED_PARTS" envDefault:"true"`

	OrphanSweepMinutes int `env:"ORPHAN_SWEEP_MINUTES" envDefault:"0"` // Chu kỳ dọn nội dung/media mồ côi, 0 = tắt

	// SMTP (tùy chọn) cho email thông báo thành viên mới
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// TLS/HTTPS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// CORSOrigins tách CORS_ORIGINS thành danh sách
func (c *Configuration) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORS_Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Validate kiểm tra các tổ hợp cấu hình không hợp lệ
func (c *Configuration) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageMongoDB:
		if c.MongoDB_ConnectionURI == "" {
			return fmt.Errorf("MONGODB_CONNECTION_URI là bắt buộc khi STORAGE_DRIVER=%s", StorageMongoDB)
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER không hỗ trợ: %q", c.StorageDriver)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES phải lớn hơn 0")
	}
	if c.EnableTLS && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("ENABLE_TLS yêu cầu TLS_CERT_FILE và TLS_KEY_FILE")
	}
	return nil
}

// getEnvPath tìm config/env/{GO_ENV}.env bằng cách đi ngược lên từ thư mục hiện tại
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envPath := filepath.Join(currentDir, "config", "env", goEnv+".env")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env (nếu có) rồi từ biến môi trường.
// Trả về nil nếu thiếu biến bắt buộc hoặc cấu hình không hợp lệ.
func NewConfig(files ...string) *Configuration {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			files = append(files, envPath)
		}
	}

	for _, f := range files {
		// Biến môi trường đã set luôn được ưu tiên hơn file
		if err := godotenv.Load(f); err != nil {
			// Logger chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", f, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Cấu hình không hợp lệ: %v\n", err)
		return nil
	}

	return &cfg
}
