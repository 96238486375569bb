// Package models - cây sở hữu Project → Episode → Part.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project thuộc về một tổ chức
type Project struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single"`
	Name           string             `json:"name" bson:"name"`
	Slug           string             `json:"slug" bson:"slug"`
	Description    string             `json:"description" bson:"description"`
	CreatedBy      primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Episode thuộc về một Project. EpisodeNumber chỉ dùng để sắp xếp, có thể trùng.
type Episode struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID     primitive.ObjectID `json:"projectId" bson:"projectId" index:"single"`
	EpisodeNumber int                `json:"episodeNumber" bson:"episodeNumber"`
	BibleText     string             `json:"bibleText" bson:"bibleText"`
	CreatedBy     primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}

// Part thuộc về một Episode, projectId được sao lại để truy vấn theo project
type Part struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID  primitive.ObjectID `json:"projectId" bson:"projectId" index:"single"`
	EpisodeID  primitive.ObjectID `json:"episodeId" bson:"episodeId" index:"single"`
	PartNumber int                `json:"partNumber" bson:"partNumber"`
	Title      string             `json:"title" bson:"title"`
	ScriptText string             `json:"scriptText" bson:"scriptText"`
	CreatedBy  primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
