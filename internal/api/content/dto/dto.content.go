package contentdto

// MetadataInput là metadata truyền vào, trường nil giữ nguyên (hoặc lấy mặc định khi tạo)
type MetadataInput struct {
	VersionNo *int  `json:"versionNo,omitempty" validate:"omitempty,gte=1"`
	Edited    *bool `json:"edited,omitempty"`
	Selected  *bool `json:"selected,omitempty"`
}

// ContentCreateInput đầu vào tạo một phiên bản nội dung
type ContentCreateInput struct {
	Type     string         `json:"type" validate:"required,content_type"`
	PartID   string         `json:"partId" validate:"required,objectid"`
	Content  string         `json:"content" maxLength:"1000000"`
	Metadata *MetadataInput `json:"metadata,omitempty"`

	// ===== SỐ THỨ TỰ THEO LOẠI =====
	BeatNumber  *int   `json:"beatNumber,omitempty" validate:"omitempty,gte=0"`
	ShotNumber  *int   `json:"shotNumber,omitempty" validate:"omitempty,gte=0"`
	ShotName    string `json:"shotName,omitempty" validate:"max=500,no_xss"`
	PanelNumber *int   `json:"panelNumber,omitempty" validate:"omitempty,gte=0"`
}

// ContentUpdateInput cập nhật một phần; metadata được áp dụng từng trường
type ContentUpdateInput struct {
	Content  *string        `json:"content,omitempty"`
	Metadata *MetadataInput `json:"metadata,omitempty"`

	BeatNumber  *int    `json:"beatNumber,omitempty" validate:"omitempty,gte=0"`
	ShotNumber  *int    `json:"shotNumber,omitempty" validate:"omitempty,gte=0"`
	ShotName    *string `json:"shotName,omitempty" validate:"omitempty,max=500,no_xss"`
	PanelNumber *int    `json:"panelNumber,omitempty" validate:"omitempty,gte=0"`
}

// ContentListQuery lọc danh sách theo loại
type ContentListQuery struct {
	Type string `query:"type" validate:"omitempty,content_type"`
}
