package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Updates are written as a whole-document $set, so fields cleared back to
// their zero value must still marshal into the document or the clear is lost.
func TestUserClearedFieldsMarshal(t *testing.T) {
	u := User{
		ID:       primitive.NewObjectID(),
		Email:    "cleared@example.com",
		Verified: true,
	}
	raw, err := bson.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc := bson.Raw(raw)
	for _, key := range []string{
		"verification_token",
		"reset_password_token",
		"reset_password_expires",
		"stripe_subscription_id",
	} {
		if _, lookupErr := doc.LookupErr(key); lookupErr != nil {
			t.Errorf("key %q missing from marshaled user", key)
		}
	}
}

func TestProposalClearedFieldsMarshal(t *testing.T) {
	p := Proposal{
		ID:        primitive.NewObjectID(),
		Title:     "t",
		UniqueURL: "abcde12345",
		CreatedAt: time.Now(),
	}
	raw, err := bson.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc := bson.Raw(raw)
	for _, key := range []string{"name", "email", "team_name"} {
		if _, lookupErr := doc.LookupErr(key); lookupErr != nil {
			t.Errorf("key %q missing from marshaled proposal", key)
		}
	}
}
