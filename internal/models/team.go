package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Member struct {
	MemberName  string `bson:"member_name" json:"memberName"`
	MemberEmail string `bson:"member_email,omitempty" json:"memberEmail,omitempty"`
}

// Team is an owner-managed roster of members. When a proposal is bound to a
// team, votes are slotted by roster position.
type Team struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TeamName  string             `bson:"team_name" json:"teamName"`
	Members   []Member           `bson:"members" json:"members"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"createdBy"`
}

// MemberIndex returns the roster position of the named member, or -1.
func (t *Team) MemberIndex(name string) int {
	for i := range t.Members {
		if t.Members[i].MemberName == name {
			return i
		}
	}
	return -1
}
