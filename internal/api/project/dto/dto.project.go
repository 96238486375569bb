package projectdto

// ProjectCreateInput đầu vào tạo project
type ProjectCreateInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200,no_xss"`
	Description string `json:"description" validate:"max=5000,no_xss"`
}

// ProjectUpdateInput cập nhật một phần project
type ProjectUpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000,no_xss"`
}

// EpisodeCreateInput đầu vào tạo episode
type EpisodeCreateInput struct {
	EpisodeNumber int    `json:"episodeNumber" validate:"gte=0"`
	BibleText     string `json:"bibleText" maxLength:"200000"`
}

// EpisodeUpdateInput cập nhật một phần episode
type EpisodeUpdateInput struct {
	EpisodeNumber *int    `json:"episodeNumber,omitempty" validate:"omitempty,gte=0"`
	BibleText     *string `json:"bibleText,omitempty"`
}

// PartCreateInput đầu vào tạo part
type PartCreateInput struct {
	PartNumber int    `json:"partNumber" validate:"gte=0"`
	Title      string `json:"title" validate:"max=500,no_xss"`
	ScriptText string `json:"scriptText" maxLength:"500000"`
}

// PartUpdateInput cập nhật một phần part
type PartUpdateInput struct {
	PartNumber *int    `json:"partNumber,omitempty" validate:"omitempty,gte=0"`
	Title      *string `json:"title,omitempty" validate:"omitempty,max=500,no_xss"`
	ScriptText *string `json:"scriptText,omitempty"`
}
