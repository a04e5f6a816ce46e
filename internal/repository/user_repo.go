package repository

import (
	"context"
	"time"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.User, error)

	PushProposal(ctx context.Context, userID, proposalID primitive.ObjectID) error
	PullProposalRefs(ctx context.Context, proposalIDs []primitive.ObjectID) error
	UpsertParticipation(ctx context.Context, userID primitive.ObjectID, p models.Participation) error
	PushTeam(ctx context.Context, userID, teamID primitive.ObjectID) error
	PullTeam(ctx context.Context, userID, teamID primitive.ObjectID) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) UserRepository {
	col := db.Collection("users")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Proposals == nil {
		u.Proposals = []primitive.ObjectID{}
	}
	if u.ParticipatedProposals == nil {
		u.ParticipatedProposals = []models.Participation{}
	}
	if u.ArchivedProposals == nil {
		u.ArchivedProposals = []primitive.ObjectID{}
	}
	if u.ArchivedParticipated == nil {
		u.ArchivedParticipated = []primitive.ObjectID{}
	}
	if u.Teams == nil {
		u.Teams = []primitive.ObjectID{}
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"verification_token": token})
}

func (r *mongoUserRepo) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"reset_password_token": token})
}

func (r *mongoUserRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"stripe_customer_id": customerID})
}

func (r *mongoUserRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, u.ID, bson.M{"$set": u})
	return err
}

func (r *mongoUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoUserRepo) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepo) PushProposal(ctx context.Context, userID, proposalID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{"$push": bson.M{"proposals": proposalID}})
	return err
}

// PullProposalRefs removes the given proposal ids from every user's proposal
// and participation lists.
func (r *mongoUserRepo) PullProposalRefs(ctx context.Context, proposalIDs []primitive.ObjectID) error {
	if len(proposalIDs) == 0 {
		return nil
	}
	_, err := r.col.UpdateMany(ctx,
		bson.M{"proposals": bson.M{"$in": proposalIDs}},
		bson.M{"$pull": bson.M{"proposals": bson.M{"$in": proposalIDs}}})
	if err != nil {
		return err
	}
	_, err = r.col.UpdateMany(ctx,
		bson.M{"participated_proposals.proposalId": bson.M{"$in": proposalIDs}},
		bson.M{"$pull": bson.M{"participated_proposals": bson.M{"proposalId": bson.M{"$in": proposalIDs}}}})
	return err
}

// UpsertParticipation replaces any existing participation entry for the same
// proposal before appending the new one.
func (r *mongoUserRepo) UpsertParticipation(ctx context.Context, userID primitive.ObjectID, p models.Participation) error {
	_, err := r.col.UpdateByID(ctx, userID,
		bson.M{"$pull": bson.M{"participated_proposals": bson.M{"proposalId": p.ProposalID}}})
	if err != nil {
		return err
	}
	_, err = r.col.UpdateByID(ctx, userID,
		bson.M{"$push": bson.M{"participated_proposals": p}})
	return err
}

func (r *mongoUserRepo) PushTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{"$push": bson.M{"teams": teamID}})
	return err
}

func (r *mongoUserRepo) PullTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"teams": teamID}})
	return err
}
