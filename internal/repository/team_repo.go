package repository

import (
	"context"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TeamRepository interface {
	Create(ctx context.Context, t *models.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error)
	Update(ctx context.Context, t *models.Team) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoTeamRepo struct {
	col *mongo.Collection
}

func NewMongoTeamRepo(db *mongo.Database) TeamRepository {
	return &mongoTeamRepo{col: db.Collection("teams")}
}

func (r *mongoTeamRepo) Create(ctx context.Context, t *models.Team) error {
	if t.Members == nil {
		t.Members = []models.Member{}
	}
	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoTeamRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *mongoTeamRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *mongoTeamRepo) Update(ctx context.Context, t *models.Team) error {
	res, err := r.col.UpdateByID(ctx, t.ID, bson.M{"$set": t})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *mongoTeamRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTeamNotFound
	}
	return nil
}
