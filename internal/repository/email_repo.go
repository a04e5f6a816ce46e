package repository

import (
	"context"
	"time"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EmailRepository keeps an audit log of outbound mail.
type EmailRepository interface {
	Create(ctx context.Context, e *models.EmailRecord) error
}

type mongoEmailRepo struct {
	col *mongo.Collection
}

func NewMongoEmailRepo(db *mongo.Database) EmailRepository {
	return &mongoEmailRepo{col: db.Collection("emails")}
}

func (r *mongoEmailRepo) Create(ctx context.Context, e *models.EmailRecord) error {
	e.SentAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		return err
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}
