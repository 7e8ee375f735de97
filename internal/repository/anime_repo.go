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

type AnimeRepository struct {
	col *mongo.Collection
}

func NewAnimeRepository() *AnimeRepository {
	return &AnimeRepository{col: db.DB().Collection("anime")}
}

// UpsertAnime crea el anime si no existe; el título se pisa siempre
// (last-write-wins, MAL puede renombrar).
func (r *AnimeRepository) UpsertAnime(ctx context.Context, animeID int, title string) error {
	now := time.Now().Format(time.RFC3339)
	_, err := r.col.UpdateOne(ctx,
		bson.M{"animeId": animeID},
		bson.M{
			"$set":         bson.M{"title": title, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *AnimeRepository) GetByID(ctx context.Context, animeID int) (*models.AnimeDoc, error) {
	var a models.AnimeDoc
	err := r.col.FindOne(ctx, bson.M{"animeId": animeID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &a, err
}

// GetTitles arma el mapa animeId -> título para el join del snapshot.
func (r *AnimeRepository) GetTitles(ctx context.Context) (map[int]string, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int]string)
	for cur.Next(ctx) {
		var a models.AnimeDoc
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out[a.AnimeID] = a.Title
	}
	return out, cur.Err()
}

func (r *AnimeRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
