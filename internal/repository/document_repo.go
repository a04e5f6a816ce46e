package repository

import (
	"context"
	"time"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DocumentRepository interface {
	Create(ctx context.Context, d *models.Document) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	FindByProposal(ctx context.Context, proposalID primitive.ObjectID) ([]models.Document, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoDocumentRepo struct {
	col *mongo.Collection
}

func NewMongoDocumentRepo(db *mongo.Database) DocumentRepository {
	return &mongoDocumentRepo{col: db.Collection("documents")}
}

func (r *mongoDocumentRepo) Create(ctx context.Context, d *models.Document) error {
	d.UploadedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		return err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoDocumentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var d models.Document
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *mongoDocumentRepo) FindByProposal(ctx context.Context, proposalID primitive.ObjectID) ([]models.Document, error) {
	cur, err := r.col.Find(ctx, bson.M{"proposal_id": proposalID})
	if err != nil {
		return nil, err
	}
	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *mongoDocumentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
