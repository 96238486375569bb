package global

import (
	"story_studio/config"
	"story_studio/internal/database"
	"story_studio/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection
type MongoDB_CollectionName struct {
	Users             string // Người dùng
	Organizations     string // Tổ chức
	Projects          string // Dự án
	Episodes          string // Tập
	Parts             string // Phần của tập
	Beats             string // Phiên bản beat
	Shots             string // Phiên bản shot
	Storyboards       string // Phiên bản storyboard
	ContentSelections string // Con trỏ phiên bản đang chọn theo (part, type)
	Images            string // Ảnh
	Clips             string // Clip
	Characters        string // Nhân vật
	Locations         string // Bối cảnh
	Props             string // Đạo cụ
}

// DefaultColNames trả về tên collection mặc định
func DefaultColNames() MongoDB_CollectionName {
	return MongoDB_CollectionName{
		Users:             "auth_users",
		Organizations:     "auth_organizations",
		Projects:          "projects",
		Episodes:          "episodes",
		Parts:             "parts",
		Beats:             "beats",
		Shots:             "shots",
		Storyboards:       "storyboards",
		ContentSelections: "content_selections",
		Images:            "images",
		Clips:             "clips",
		Characters:        "characters",
		Locations:         "locations",
		Props:             "props",
	}
}

// Các biến toàn cục
var Validate *validator.Validate                                // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                               // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                  // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = DefaultColNames() // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]()                // Collections MongoDB
var RegistryMemoryCollections = registry.NewRegistry[*database.MemoryCollection]() // Collections trong bộ nhớ (STORAGE_DRIVER=memory)
