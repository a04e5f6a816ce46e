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

// ProposalFilter narrows owner listings.
type ProposalFilter int

const (
	FilterAll ProposalFilter = iota
	FilterActive
	FilterExpired
)

type ProposalRepository interface {
	Create(ctx context.Context, p *models.Proposal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Proposal, error)
	FindBySlug(ctx context.Context, slug string) (*models.Proposal, error)
	FindByVoteID(ctx context.Context, voteID primitive.ObjectID) (*models.Proposal, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID, filter ProposalFilter) ([]models.Proposal, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Proposal, error)
	FindExample(ctx context.Context) (*models.Proposal, error)
	FindOlderThan(ctx context.Context, cutoff time.Time) ([]models.Proposal, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, p *models.Proposal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]primitive.ObjectID, error)
	PushDocument(ctx context.Context, proposalID, documentID primitive.ObjectID) error
	PullDocument(ctx context.Context, proposalID, documentID primitive.ObjectID) error
	List(ctx context.Context) ([]models.Proposal, error)
}

type mongoProposalRepo struct {
	col *mongo.Collection
}

func NewMongoProposalRepo(db *mongo.Database) ProposalRepository {
	col := db.Collection("proposals")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "unique_url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoProposalRepo{col: col}
}

func (r *mongoProposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Votes == nil {
		p.Votes = []models.Vote{}
	}
	if p.Documents == nil {
		p.Documents = []primitive.ObjectID{}
	}
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoProposalRepo) findOne(ctx context.Context, filter bson.M) (*models.Proposal, error) {
	var p models.Proposal
	err := r.col.FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProposalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProposalRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Proposal, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProposalRepo) FindBySlug(ctx context.Context, slug string) (*models.Proposal, error) {
	return r.findOne(ctx, bson.M{"unique_url": slug})
}

func (r *mongoProposalRepo) FindByVoteID(ctx context.Context, voteID primitive.ObjectID) (*models.Proposal, error) {
	return r.findOne(ctx, bson.M{"votes._id": voteID})
}

func (r *mongoProposalRepo) findMany(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Proposal, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var out []models.Proposal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoProposalRepo) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, filter ProposalFilter) ([]models.Proposal, error) {
	q := bson.M{"owner_id": ownerID}
	switch filter {
	case FilterActive:
		q["is_expired"] = false
	case FilterExpired:
		q["is_expired"] = true
	}
	return r.findMany(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *mongoProposalRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Proposal, error) {
	if len(ids) == 0 {
		return []models.Proposal{}, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoProposalRepo) FindExample(ctx context.Context) (*models.Proposal, error) {
	return r.findOne(ctx, bson.M{"is_example": true})
}

func (r *mongoProposalRepo) FindOlderThan(ctx context.Context, cutoff time.Time) ([]models.Proposal, error) {
	return r.findMany(ctx, bson.M{
		"created_at": bson.M{"$lt": cutoff},
		"is_expired": false,
	})
}

func (r *mongoProposalRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"unique_url": slug})
	return count > 0, err
}

func (r *mongoProposalRepo) Update(ctx context.Context, p *models.Proposal) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateByID(ctx, p.ID, bson.M{"$set": p})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *mongoProposalRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *mongoProposalRepo) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	proposals, err := r.findMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(proposals))
	for _, p := range proposals {
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return ids, err
}

func (r *mongoProposalRepo) PushDocument(ctx context.Context, proposalID, documentID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, proposalID, bson.M{"$push": bson.M{"documents": documentID}})
	return err
}

func (r *mongoProposalRepo) PullDocument(ctx context.Context, proposalID, documentID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, proposalID, bson.M{"$pull": bson.M{"documents": documentID}})
	return err
}

func (r *mongoProposalRepo) List(ctx context.Context) ([]models.Proposal, error) {
	return r.findMany(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}
