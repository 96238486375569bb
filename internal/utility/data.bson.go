package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển struct/map bất kỳ thành map qua bson, giữ đúng tên field và omitempty như khi lưu xuống MongoDB
func ToMap(s interface{}) (map[string]interface{}, error) {
	if m, ok := s.(bson.M); ok {
		return m, nil
	}
	if m, ok := s.(map[string]interface{}); ok {
		return m, nil
	}

	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}

	var out map[string]interface{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// ToDocument chuẩn hóa giá trị về bson.M (filter, update, document) với kiểu bson chuẩn:
// số về int32/int64/float64, slice về primitive.A, sub-document về bson.M
func ToDocument(s interface{}) (bson.M, error) {
	if s == nil {
		return bson.M{}, nil
	}

	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}

	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// FromDocument decode bson.M vào struct đích
func FromDocument(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("bson marshal failed: %w", err)
	}
	return bson.Unmarshal(raw, out)
}
