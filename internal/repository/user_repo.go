package repository

import (
	"context"
	"time"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/db"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: db.DB().Collection("users")}
}

// UpsertUser crea el usuario anónimo si no existe y actualiza ratingCount.
func (r *UserRepository) UpsertUser(ctx context.Context, userID string, ratingCount int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"ratingCount": ratingCount},
			"$setOnInsert": bson.M{"createdAt": time.Now().Format(time.RFC3339)},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// GetAllIDs devuelve los ids en orden ascendente (orden estable para el builder).
func (r *UserRepository) GetAllIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "userId", Value: 1}}).
		SetProjection(bson.M{"userId": 1})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var u models.UserDoc
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u.UserID)
	}
	return out, cur.Err()
}
