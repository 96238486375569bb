package studiodto

import (
	assetdto "story_studio/internal/api/asset/dto"
	contentmodels "story_studio/internal/api/content/models"
	mediadto "story_studio/internal/api/media/dto"
	projectmodels "story_studio/internal/api/project/models"
)

// PartStudio là toàn bộ dữ liệu trang studio của một part
type PartStudio struct {
	Part    *projectmodels.Part    `json:"part"`
	Episode *projectmodels.Episode `json:"episode"` // nil khi episode không còn tồn tại

	// ===== NỘI DUNG (theo số thứ tự tăng dần) =====
	Beats       []contentmodels.ContentItem `json:"beats"`
	Shots       []contentmodels.ContentItem `json:"shots"`
	Storyboards []contentmodels.ContentItem `json:"storyboards"`

	// ===== MEDIA =====
	Images []mediadto.MediaOutput `json:"images"`
	Clips  []mediadto.MediaOutput `json:"clips"`

	// ===== TÀI SẢN CỦA PROJECT (theo tên, ảnh đã resolve) =====
	Characters []assetdto.AssetDetailOutput `json:"characters"`
	Locations  []assetdto.AssetDetailOutput `json:"locations"`
	Props      []assetdto.AssetDetailOutput `json:"props"`
}

// PartCounts là số lượng nội dung và media của part
type PartCounts struct {
	BeatCount       int64 `json:"beatCount"`
	ShotCount       int64 `json:"shotCount"`
	StoryboardCount int64 `json:"storyboardCount"`
	ImageCount      int64 `json:"imageCount"`
	ClipCount       int64 `json:"clipCount"`
}

// PartSummary là part kèm số lượng, không kèm nội dung
type PartSummary struct {
	projectmodels.Part
	PartCounts
}

// EpisodeFull là episode kèm các part đã đếm
type EpisodeFull struct {
	projectmodels.Episode
	Parts []PartSummary `json:"parts"`
}

// ProjectOverview là project kèm cây episode/part đã đếm
type ProjectOverview struct {
	projectmodels.Project
	Episodes []EpisodeFull `json:"episodes"`
}
