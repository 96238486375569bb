package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization là tenant: mỗi người dùng thuộc nhiều nhất một tổ chức
type Organization struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name" index:"unique"`
	MemberIDs []primitive.ObjectID `json:"memberIds" bson:"memberIds" index:"single"`
	CreatedBy primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	CreatedAt int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64                `json:"updatedAt" bson:"updatedAt"`
}

