package models

import (
	"encoding/json"
)

// ContentItem là tagged union của ba loại nội dung, đúng một con trỏ khác nil theo Type
type ContentItem struct {
	Type       string
	Beat       *Beat
	Shot       *Shot
	Storyboard *Storyboard
}

// Base trả về phần chung của item
func (i *ContentItem) Base() *ContentBase {
	switch i.Type {
	case TypeBeat:
		return &i.Beat.ContentBase
	case TypeShot:
		return &i.Shot.ContentBase
	case TypeStoryboard:
		return &i.Storyboard.ContentBase
	}
	return nil
}

func (i *ContentItem) concrete() interface{} {
	switch i.Type {
	case TypeBeat:
		return i.Beat
	case TypeShot:
		return i.Shot
	case TypeStoryboard:
		return i.Storyboard
	}
	return nil
}

// MarshalJSON ghi document cụ thể kèm trường "type"
func (i ContentItem) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(i.concrete())
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out["type"] = i.Type
	return json.Marshal(out)
}
