package utility

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID chuyển chuỗi hex thành ObjectID, trả về NilObjectID nếu không hợp lệ
func String2ObjectID(id string) primitive.ObjectID {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectId
}

// ParseObjectID chuyển chuỗi hex thành ObjectID và báo lỗi nếu không hợp lệ
func ParseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

// StringArray2ObjectIDArray chuyển mảng chuỗi hex thành mảng ObjectID, bỏ qua phần tử không hợp lệ
func StringArray2ObjectIDArray(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// OptionalObjectID chuyển con trỏ chuỗi thành con trỏ ObjectID (nil nếu rỗng hoặc không hợp lệ)
func OptionalObjectID(id *string) *primitive.ObjectID {
	if id == nil || *id == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(*id)
	if err != nil {
		return nil
	}
	return &oid
}
