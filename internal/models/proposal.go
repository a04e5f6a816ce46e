package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote is embedded in its proposal; it has no identity outside of it.
type Vote struct {
	ID        primitive.ObjectID  `bson:"_id" json:"_id"`
	Name      string              `bson:"name" json:"name"`
	Opinion   string              `bson:"opinion" json:"opinion"`
	Comment   string              `bson:"comment" json:"comment"`
	VoterID   *primitive.ObjectID `bson:"voter_id,omitempty" json:"voterId,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
}

// Proposal is the shareable item collecting named opinions. OwnerID is nil
// for proposals created without an account.
type Proposal struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title                string               `bson:"title" json:"title"`
	Description          string               `bson:"description" json:"description"`
	Name                 string               `bson:"name" json:"name,omitempty"`
	Email                string               `bson:"email" json:"email,omitempty"`
	OwnerID              *primitive.ObjectID  `bson:"owner_id,omitempty" json:"-"`
	UniqueURL            string               `bson:"unique_url" json:"uniqueUrl"`
	EditToken            string               `bson:"edit_token,omitempty" json:"-"`
	TeamID               *primitive.ObjectID  `bson:"team_id,omitempty" json:"teamId,omitempty"`
	TeamName             string               `bson:"team_name" json:"teamName,omitempty"`
	FirstRender          bool                 `bson:"first_render" json:"firstRender"`
	IsExpired            bool                 `bson:"is_expired" json:"isExpired"`
	IsExample            bool                 `bson:"is_example" json:"isExample"`
	ReceiveNotifications bool                 `bson:"receive_notifications" json:"receiveNotifications"`
	Votes                []Vote               `bson:"votes" json:"votes"`
	Documents            []primitive.ObjectID `bson:"documents" json:"documents"`
	CreatedAt            time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updated_at" json:"updatedAt"`
}

// VoteByID returns the index of the embedded vote, or -1.
func (p *Proposal) VoteByID(id primitive.ObjectID) int {
	for i := range p.Votes {
		if p.Votes[i].ID == id {
			return i
		}
	}
	return -1
}
