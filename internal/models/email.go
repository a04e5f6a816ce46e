package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailRecord is an audit entry for an outbound email.
type EmailRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	RecipientEmail string             `bson:"recipient_email" json:"recipientEmail"`
	Subject        string             `bson:"subject" json:"subject"`
	Content        string             `bson:"content" json:"content"`
	SentAt         time.Time          `bson:"sent_at" json:"sentAt"`
}
