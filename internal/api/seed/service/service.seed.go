// Package seedsvc gieo dữ liệu mẫu từ thư mục demo cho part vừa tạo.
//
// Cấu trúc thư mục:
//
//	beat_v1.json                         {"beats": [...]}
//	shot_v1.json .. shot_v3.json         {"beats": [...]}
//	storyboard_v1.json, storyboard_v2.json {"storyboard": [...]}
//	Shot_*/                              ảnh và clip của shot
//	Characters/<Tên>/...                 ảnh nhân vật
//	Rajmahal_Location/...                ảnh bối cảnh, gắn vào bối cảnh location_id "1"
//	Extras/<Tên>/...                     ảnh đạo cụ, mỗi thư mục thành một đạo cụ
//	character.json                       {"Characters": {"<tên>": {...}}}
//	location.json                        {"key_locations": [{"location_id": "1", "name": ...}]}
package seedsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assetdto "story_studio/internal/api/asset/dto"
	assetmodels "story_studio/internal/api/asset/models"
	assetsvc "story_studio/internal/api/asset/service"
	contentdto "story_studio/internal/api/content/dto"
	contentmodels "story_studio/internal/api/content/models"
	contentsvc "story_studio/internal/api/content/service"
	mediadto "story_studio/internal/api/media/dto"
	mediamodels "story_studio/internal/api/media/models"
	mediasvc "story_studio/internal/api/media/service"
	projectmodels "story_studio/internal/api/project/models"
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true}
)

const (
	shotVersions       = 3
	storyboardVersions = 2
	shotFolderPrefix   = "Shot"
	charactersFolder   = "Characters"
	locationsFolder    = "Rajmahal_Location"
	extrasFolder       = "Extras"
	categoryCharacter  = "character"
	categoryLocation   = "location"
	categoryProps      = "props"
	linkedLocationID   = "1"
	vehicleProp        = "car"
	categoryVehicle    = "vehicle"
	unknownLocation    = "Unknown Location"
)

// Summary đếm số bản ghi đã gieo
type Summary struct {
	Beats       int `json:"beats"`
	Shots       int `json:"shots"`
	Storyboards int `json:"storyboards"`
	Images      int `json:"images"`
	Clips       int `json:"clips"`
	Characters  int `json:"characters"`
	Locations   int `json:"locations"`
	Props       int `json:"props"`
}

// folderImages là ảnh đã gieo từ một thư mục gốc, nhóm theo thư mục con cấp một
type folderImages struct {
	ids     map[string][]string // khóa là tên thư mục con viết thường, "" cho file nằm ngay ở gốc
	folders []string            // tên thư mục con giữ nguyên hoa thường, theo thứ tự duyệt
}

func (f *folderImages) all() []string {
	var out []string
	if root, ok := f.ids[""]; ok {
		out = append(out, root...)
	}
	for _, name := range f.folders {
		out = append(out, f.ids[strings.ToLower(name)]...)
	}
	return out
}

// PartSeeder đọc thư mục demo và ghi qua các service nghiệp vụ
type PartSeeder struct {
	dir     string
	baseURL string
	content *contentsvc.ContentService
	media   *mediasvc.MediaService
	assets  *assetsvc.AssetService
}

// NewPartSeeder tạo PartSeeder; baseURL là tiền tố URL tĩnh trỏ tới dir
func NewPartSeeder(dir, baseURL string, content *contentsvc.ContentService, media *mediasvc.MediaService, assets *assetsvc.AssetService) *PartSeeder {
	return &PartSeeder{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		content: content,
		media:   media,
		assets:  assets,
	}
}

// SeedPart gieo dữ liệu mẫu cho part. Lỗi nội dung hoặc media dừng việc gieo,
// lỗi của từng nhóm tài sản chỉ được log.
func (s *PartSeeder) SeedPart(ctx context.Context, orgID primitive.ObjectID, part *projectmodels.Part) error {
	summary, err := s.Seed(ctx, orgID, part)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"partId":      part.ID.Hex(),
		"beats":       summary.Beats,
		"shots":       summary.Shots,
		"storyboards": summary.Storyboards,
		"images":      summary.Images,
		"clips":       summary.Clips,
		"characters":  summary.Characters,
		"locations":   summary.Locations,
		"props":       summary.Props,
	}).Info("SeedPart: đã gieo dữ liệu mẫu")
	return nil
}

// Seed thực hiện gieo và trả về số lượng
func (s *PartSeeder) Seed(ctx context.Context, orgID primitive.ObjectID, part *projectmodels.Part) (*Summary, error) {
	summary := &Summary{}
	partID := part.ID.Hex()

	// ===== NỘI DUNG =====
	if err := s.seedVersions(ctx, orgID, partID, contentmodels.TypeBeat, "beat_v%d.json", "beats", 1); err != nil {
		return nil, err
	}
	summary.Beats = 1
	if err := s.seedVersions(ctx, orgID, partID, contentmodels.TypeShot, "shot_v%d.json", "beats", shotVersions); err != nil {
		return nil, err
	}
	summary.Shots = shotVersions
	if err := s.seedVersions(ctx, orgID, partID, contentmodels.TypeStoryboard, "storyboard_v%d.json", "storyboard", storyboardVersions); err != nil {
		return nil, err
	}
	summary.Storyboards = storyboardVersions

	// ===== MEDIA =====
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("đọc thư mục demo: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), shotFolderPrefix) {
			continue
		}
		images, clips, err := s.seedShotFolder(ctx, orgID, partID, entry.Name())
		if err != nil {
			return nil, err
		}
		summary.Images += images
		summary.Clips += clips
	}

	// ===== ẢNH THAM CHIẾU =====
	characterImages, err := s.seedFolderImages(ctx, orgID, partID, charactersFolder, categoryCharacter, false)
	if err != nil {
		return nil, err
	}
	locationImages, err := s.seedFolderImages(ctx, orgID, partID, locationsFolder, categoryLocation, true)
	if err != nil {
		return nil, err
	}
	extraImages, err := s.seedFolderImages(ctx, orgID, partID, extrasFolder, categoryProps, false)
	if err != nil {
		return nil, err
	}
	summary.Images += len(characterImages.all()) + len(locationImages.all()) + len(extraImages.all())

	// ===== TÀI SẢN CẤP PROJECT =====
	// Mỗi nhóm độc lập: nhóm này lỗi vẫn gieo nhóm sau
	if n, err := s.seedCharacters(ctx, orgID, part.ProjectID, characterImages); err != nil {
		sectionFailed(part, "characters", err)
	} else {
		summary.Characters = n
	}
	if n, err := s.seedLocations(ctx, orgID, part.ProjectID, locationImages.all()); err != nil {
		sectionFailed(part, "locations", err)
	} else {
		summary.Locations = n
	}
	if n, err := s.seedProps(ctx, orgID, part.ProjectID, extraImages); err != nil {
		sectionFailed(part, "props", err)
	} else {
		summary.Props = n
	}
	return summary, nil
}

// seedVersions tạo n phiên bản từ pattern, chỉ phiên bản cuối được chọn
func (s *PartSeeder) seedVersions(ctx context.Context, orgID primitive.ObjectID, partID, typ, pattern, key string, n int) error {
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf(pattern, i)
		raw, err := s.readKey(name, key)
		if err != nil {
			return err
		}
		version, edited, selected := i, i > 1, i == n
		_, err = s.content.Create(ctx, orgID, &contentdto.ContentCreateInput{
			Type:    typ,
			PartID:  partID,
			Content: string(raw),
			Metadata: &contentdto.MetadataInput{
				VersionNo: &version,
				Edited:    &edited,
				Selected:  &selected,
			},
		})
		if err != nil {
			return fmt.Errorf("gieo %s: %w", name, err)
		}
	}
	return nil
}

// readKey đọc file JSON và trả về giá trị của key dưới dạng JSON thô; thiếu key thì trả về []
func (s *PartSeeder) readKey(name, key string) (json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := s.readJSON(name, &doc); err != nil {
		return nil, err
	}
	if raw, ok := doc[key]; ok {
		return raw, nil
	}
	return json.RawMessage("[]"), nil
}

func (s *PartSeeder) readJSON(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("đọc %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// listFiles trả về tên file trong thư mục con, đã sắp xếp
func (s *PartSeeder) listFiles(rel string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, rel))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *PartSeeder) url(rel string) string {
	return s.baseURL + "/" + rel
}

func (s *PartSeeder) seedShotFolder(ctx context.Context, orgID primitive.ObjectID, partID, folder string) (images, clips int, err error) {
	files, err := s.listFiles(folder)
	if err != nil {
		return 0, 0, err
	}
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))
		rel := path.Join(folder, file)
		input := &mediadto.MediaCreateInput{PartID: partID, Name: rel, URL: s.url(rel)}
		switch {
		case imageExts[ext]:
			input.Type = mediamodels.TypeImage
			input.Category = mediamodels.DefaultImageCategory
			images++
		case videoExts[ext]:
			input.Type = mediamodels.TypeClip
			clips++
		default:
			continue
		}
		if _, err := s.media.Create(ctx, orgID, input); err != nil {
			return images, clips, fmt.Errorf("gieo %s: %w", rel, err)
		}
	}
	return images, clips, nil
}

func sectionFailed(part *projectmodels.Part, section string, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"partId":  part.ID.Hex(),
		"section": section,
	}).Warn("SeedPart: bỏ qua nhóm tài sản")
}

// seedFolderImages tạo ảnh cho mọi file ảnh dưới folder (đệ quy), nhóm theo thư mục con cấp một.
// File nằm ngay ở gốc folder chỉ được lấy khi withRoot.
func (s *PartSeeder) seedFolderImages(ctx context.Context, orgID primitive.ObjectID, partID, folder, category string, withRoot bool) (*folderImages, error) {
	out := &folderImages{ids: map[string][]string{}}
	root := filepath.Join(s.dir, folder)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		// <folder>/file hoặc <folder>/<Tên>/[...]/file
		segments := strings.Split(rel, "/")
		key := ""
		if len(segments) >= 3 {
			key = segments[1]
		} else if !withRoot {
			return nil
		}
		img, err := s.media.Create(ctx, orgID, &mediadto.MediaCreateInput{
			Type:     mediamodels.TypeImage,
			PartID:   partID,
			Name:     rel,
			URL:      s.url(rel),
			Category: category,
		})
		if err != nil {
			return fmt.Errorf("gieo %s: %w", rel, err)
		}
		lower := strings.ToLower(key)
		if _, seen := out.ids[lower]; !seen && key != "" {
			out.folders = append(out.folders, key)
		}
		out.ids[lower] = append(out.ids[lower], img.ID.Hex())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PartSeeder) projectHas(ctx context.Context, kind assetmodels.Kind, projectID primitive.ObjectID) (bool, error) {
	n, err := s.assets.CountByProject(ctx, kind, projectID)
	return n > 0, err
}

func (s *PartSeeder) seedCharacters(ctx context.Context, orgID, projectID primitive.ObjectID, images *folderImages) (int, error) {
	if has, err := s.projectHas(ctx, assetmodels.KindCharacter, projectID); err != nil || has {
		return 0, err
	}
	var doc struct {
		Characters map[string]json.RawMessage `json:"Characters"`
	}
	if err := s.readJSON("character.json", &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	names := make([]string, 0, len(doc.Characters))
	for name := range doc.Characters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := s.assets.Create(ctx, orgID, assetmodels.KindCharacter, &assetdto.AssetCreateInput{
			ProjectID: projectID.Hex(),
			Name:      name,
			Content:   string(doc.Characters[name]),
			ImageIDs:  images.ids[strings.ToLower(name)],
		})
		if err != nil {
			return 0, fmt.Errorf("gieo nhân vật %s: %w", name, err)
		}
	}
	return len(names), nil
}

// seedLocations tạo bối cảnh từ location.json; ảnh bối cảnh chỉ gắn vào location_id "1"
func (s *PartSeeder) seedLocations(ctx context.Context, orgID, projectID primitive.ObjectID, imageIDs []string) (int, error) {
	if has, err := s.projectHas(ctx, assetmodels.KindLocation, projectID); err != nil || has {
		return 0, err
	}
	var doc struct {
		KeyLocations []json.RawMessage `json:"key_locations"`
	}
	if err := s.readJSON("location.json", &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	for _, raw := range doc.KeyLocations {
		var head struct {
			LocationID interface{} `json:"location_id"`
			Name       string      `json:"name"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return 0, fmt.Errorf("parse location.json: %w", err)
		}
		if head.Name == "" {
			head.Name = unknownLocation
		}
		input := &assetdto.AssetCreateInput{
			ProjectID: projectID.Hex(),
			Name:      head.Name,
			Content:   string(raw),
		}
		if id, ok := head.LocationID.(string); ok && id == linkedLocationID {
			input.ImageIDs = imageIDs
		}
		_, err := s.assets.Create(ctx, orgID, assetmodels.KindLocation, input)
		if err != nil {
			return 0, fmt.Errorf("gieo bối cảnh %s: %w", head.Name, err)
		}
	}
	return len(doc.KeyLocations), nil
}

// seedProps tạo một đạo cụ cho mỗi thư mục Extras/<Tên> có ảnh; "car" thuộc nhóm vehicle
func (s *PartSeeder) seedProps(ctx context.Context, orgID, projectID primitive.ObjectID, images *folderImages) (int, error) {
	if has, err := s.projectHas(ctx, assetmodels.KindProp, projectID); err != nil || has {
		return 0, err
	}
	for _, name := range images.folders {
		category := assetmodels.DefaultPropCategory
		if strings.EqualFold(name, vehicleProp) {
			category = categoryVehicle
		}
		content, err := json.Marshal(map[string]string{
			"name":        name,
			"description": "Reference images for " + name,
			"category":    category,
		})
		if err != nil {
			return 0, err
		}
		_, err = s.assets.Create(ctx, orgID, assetmodels.KindProp, &assetdto.AssetCreateInput{
			ProjectID: projectID.Hex(),
			Name:      name,
			Content:   string(content),
			ImageIDs:  images.ids[strings.ToLower(name)],
			Category:  category,
		})
		if err != nil {
			return 0, fmt.Errorf("gieo đạo cụ %s: %w", name, err)
		}
	}
	return len(images.folders), nil
}
