package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/utils"
)

type userFixture struct {
	svc       *UserService
	users     *fakeUserRepo
	proposals *fakeProposalRepo
	mail      *fakeSender
	pay       *fakePayments
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:     newFakeUserRepo(),
		proposals: newFakeProposalRepo(),
		mail:      &fakeSender{},
		pay:       &fakePayments{},
	}
	proposalSvc := NewProposalService(f.proposals, f.users, newFakeTeamRepo(), f.mail, nil, NopBroadcaster{}, &fakeTxRunner{}, "http://localhost:3000/", testLogger())
	f.svc = NewUserService(f.users, proposalSvc, f.mail, f.pay, "test-secret", time.Hour, "http://localhost:3000/", testLogger())
	return f
}

func (f *userFixture) addUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return f.users.add(&models.User{Email: email, PasswordHash: string(hash)})
}

func TestSignup(t *testing.T) {
	f := newUserFixture()

	token, err := f.svc.Signup(context.Background(), "new@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	userID, err := utils.ParseToken(token, "test-secret")
	if err != nil {
		t.Fatalf("session token invalid: %v", err)
	}

	user, err := f.users.FindByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.ID.Hex() != userID {
		t.Error("session token does not reference the new user")
	}
	if user.Verified {
		t.Error("new account should start unverified")
	}
	if user.VerificationToken == "" {
		t.Error("verification token not issued")
	}
	if len(f.mail.sends) != 1 || f.mail.sends[0].subject != "Account Verification" {
		t.Errorf("verification email not sent: %+v", f.mail.sends)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "taken@example.com", "pw")
	if _, err := f.svc.Signup(context.Background(), "taken@example.com", "pw"); err != ErrEmailInUse {
		t.Errorf("got %v, want ErrEmailInUse", err)
	}
}

func TestLogin(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "user@example.com", "hunter22")

	if _, err := f.svc.Login(context.Background(), "user@example.com", "hunter22"); err != nil {
		t.Errorf("Login with correct password: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "user@example.com", "wrong"); err != ErrIncorrectPassword {
		t.Errorf("got %v, want ErrIncorrectPassword", err)
	}
	if _, err := f.svc.Login(context.Background(), "nobody@example.com", "pw"); err != repository.ErrUserNotFound {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestVerify(t *testing.T) {
	f := newUserFixture()
	user := f.users.add(&models.User{Email: "u@example.com", VerificationToken: "tok123"})

	if err := f.svc.Verify(context.Background(), "tok123"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !user.Verified || user.VerificationToken != "" {
		t.Errorf("verification state not updated: %+v", user)
	}
	if err := f.svc.Verify(context.Background(), "tok123"); err != repository.ErrUserNotFound {
		t.Errorf("reused token should fail, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "u@example.com", "old")

	if err := f.svc.ForgotPassword(context.Background(), "u@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if user.ResetPasswordToken == "" {
		t.Fatal("reset token not issued")
	}
	if len(f.mail.sends) != 1 || f.mail.sends[0].subject != "Password Reset" {
		t.Errorf("reset email not sent: %+v", f.mail.sends)
	}

	if err := f.svc.ResetPassword(context.Background(), user.ResetPasswordToken, "newpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass")) != nil {
		t.Error("password not updated")
	}
	if user.ResetPasswordToken != "" {
		t.Error("reset token not cleared")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newUserFixture()
	f.users.add(&models.User{
		Email:                "u@example.com",
		ResetPasswordToken:   "tok123",
		ResetPasswordExpires: time.Now().UTC().Add(-time.Minute),
	})
	if err := f.svc.ResetPassword(context.Background(), "tok123", "newpass"); err != ErrResetTokenExpired {
		t.Errorf("got %v, want ErrResetTokenExpired", err)
	}
}

func TestArchiveToggle(t *testing.T) {
	f := newUserFixture()
	user := f.users.add(&models.User{Email: "u@example.com"})
	proposalID := primitive.NewObjectID()

	archived, err := f.svc.ArchiveProposal(context.Background(), user, proposalID)
	if err != nil {
		t.Fatalf("ArchiveProposal: %v", err)
	}
	if !archived || len(user.ArchivedProposals) != 1 {
		t.Errorf("first toggle should archive: %v", user.ArchivedProposals)
	}

	archived, err = f.svc.ArchiveProposal(context.Background(), user, proposalID)
	if err != nil {
		t.Fatalf("ArchiveProposal: %v", err)
	}
	if archived || len(user.ArchivedProposals) != 0 {
		t.Errorf("second toggle should restore: %v", user.ArchivedProposals)
	}
}

func TestGetParticipatedProposals(t *testing.T) {
	f := newUserFixture()
	p1 := f.proposals.add(&models.Proposal{UniqueURL: "a", Title: "First"})
	p2 := f.proposals.add(&models.Proposal{UniqueURL: "b", Title: "Second"})
	v1, v2 := primitive.NewObjectID(), primitive.NewObjectID()
	user := f.users.add(&models.User{
		Email: "u@example.com",
		ParticipatedProposals: []models.Participation{
			{ProposalID: p1.ID, VoteID: v1},
			{ProposalID: p2.ID, VoteID: v2},
		},
	})

	out, err := f.svc.GetParticipatedProposals(context.Background(), user)
	if err != nil {
		t.Fatalf("GetParticipatedProposals: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d entries, want 2", len(out))
	}
	for _, entry := range out {
		want := v1
		if entry.Proposal.ID == p2.ID {
			want = v2
		}
		if entry.VoteID != want {
			t.Errorf("proposal %s paired with vote %s, want %s", entry.Proposal.Title, entry.VoteID.Hex(), want.Hex())
		}
	}
}

func TestDeleteAccountCascade(t *testing.T) {
	f := newUserFixture()
	user := f.users.add(&models.User{Email: "u@example.com"})
	f.proposals.add(&models.Proposal{UniqueURL: "a", OwnerID: &user.ID})
	f.proposals.add(&models.Proposal{UniqueURL: "b", OwnerID: &user.ID})
	kept := f.proposals.add(&models.Proposal{UniqueURL: "c"})

	if err := f.svc.DeleteAccount(context.Background(), user, true); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), user.ID); err != repository.ErrUserNotFound {
		t.Error("user still present")
	}
	if len(f.proposals.deleted) != 2 {
		t.Errorf("deleted %d proposals, want 2", len(f.proposals.deleted))
	}
	if _, err := f.proposals.FindByID(context.Background(), kept.ID); err != nil {
		t.Error("unowned proposal should survive the cascade")
	}
}

func TestSubscribe(t *testing.T) {
	f := newUserFixture()
	user := f.users.add(&models.User{Email: "u@example.com"})

	url, err := f.svc.Subscribe(context.Background(), user)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !strings.HasPrefix(url, "https://") {
		t.Errorf("checkout url %q", url)
	}
	if f.pay.customers != 1 || user.StripeCustomerID != "cus_test" {
		t.Error("customer not created on first subscribe")
	}

	if _, err := f.svc.Subscribe(context.Background(), user); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if f.pay.customers != 1 {
		t.Error("customer recreated on second subscribe")
	}
	if f.pay.checkoutCalls != 2 {
		t.Errorf("got %d checkout sessions, want 2", f.pay.checkoutCalls)
	}
}

func TestCancelSubscription(t *testing.T) {
	f := newUserFixture()
	user := f.users.add(&models.User{Email: "u@example.com"})

	if err := f.svc.CancelSubscription(context.Background(), user); err != ErrNoSubscription {
		t.Errorf("got %v, want ErrNoSubscription", err)
	}

	user.SubscriptionStatus = true
	user.StripeSubscriptionID = "sub_test"
	if err := f.svc.CancelSubscription(context.Background(), user); err != nil {
		t.Fatalf("CancelSubscription: %v", err)
	}
	if user.SubscriptionStatus || user.StripeSubscriptionID != "" {
		t.Error("subscription state not cleared")
	}
	if len(f.pay.cancelled) != 1 || f.pay.cancelled[0] != "sub_test" {
		t.Errorf("provider cancel not called: %v", f.pay.cancelled)
	}
}

func TestWebhookMirrors(t *testing.T) {
	f := newUserFixture()
	user := f.users.add(&models.User{Email: "u@example.com", StripeCustomerID: "cus_1"})

	if err := f.svc.ApplyCheckoutCompleted(context.Background(), "cus_1", "sub_1"); err != nil {
		t.Fatalf("ApplyCheckoutCompleted: %v", err)
	}
	if !user.SubscriptionStatus || user.StripeSubscriptionID != "sub_1" {
		t.Errorf("checkout not mirrored: %+v", user)
	}

	if err := f.svc.ApplySubscriptionEnded(context.Background(), "cus_1"); err != nil {
		t.Fatalf("ApplySubscriptionEnded: %v", err)
	}
	if user.SubscriptionStatus || user.StripeSubscriptionID != "" {
		t.Errorf("subscription end not mirrored: %+v", user)
	}

	if err := f.svc.ApplyCheckoutCompleted(context.Background(), "cus_unknown", "sub"); err != repository.ErrUserNotFound {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
