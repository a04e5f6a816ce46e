package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document records metadata for an uploaded file. StorageKey is the handle
// understood by the configured storage backend (disk path, GridFS file id,
// or object key).
type Document struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	FileName   string              `bson:"file_name" json:"fileName"`
	StorageKey string              `bson:"storage_key" json:"-"`
	MimeType   string              `bson:"mime_type" json:"mimeType"`
	Size       int64               `bson:"size" json:"size"`
	ProposalID primitive.ObjectID  `bson:"proposal_id" json:"proposalId"`
	UploadedBy *primitive.ObjectID `bson:"uploaded_by,omitempty" json:"uploadedBy,omitempty"`
	UploadedAt time.Time           `bson:"uploaded_at" json:"uploadedAt"`
}
