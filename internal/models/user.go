package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation links a user to a proposal they voted on but do not own.
// One entry per proposal; resubmitting a vote replaces the entry.
type Participation struct {
	ProposalID primitive.ObjectID `bson:"proposalId" json:"proposalId"`
	VoteID     primitive.ObjectID `bson:"voteId" json:"voteId"`
}

type User struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email                string               `bson:"email" json:"email"`
	PasswordHash         string               `bson:"password_hash" json:"-"`
	Verified             bool                 `bson:"verified" json:"verified"`
	VerificationToken    string               `bson:"verification_token" json:"-"`
	ResetPasswordToken   string               `bson:"reset_password_token" json:"-"`
	ResetPasswordExpires time.Time            `bson:"reset_password_expires" json:"-"`
	Proposals            []primitive.ObjectID `bson:"proposals" json:"proposals"`
	ParticipatedProposals []Participation     `bson:"participated_proposals" json:"participatedProposals"`
	ArchivedProposals    []primitive.ObjectID `bson:"archived_proposals" json:"archivedProposals"`
	ArchivedParticipated []primitive.ObjectID `bson:"archived_participated" json:"archivedParticipated"`
	Teams                []primitive.ObjectID `bson:"teams" json:"teams"`
	StripeCustomerID     string               `bson:"stripe_customer_id,omitempty" json:"-"`
	StripeSubscriptionID string               `bson:"stripe_subscription_id" json:"-"`
	SubscriptionStatus   bool                 `bson:"subscription_status" json:"subscriptionStatus"`
	CreatedAt            time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updated_at" json:"updatedAt"`
}
