package repository

import (
	"context"
	"log"
	"time"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/db"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gonum.org/v1/gonum/stat"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{col: db.DB().Collection("ratings")}
}

// UpsertRating guarda/pisa el rawScore del par (userId, animeId).
// normalizedScore queda stale hasta el recompute global.
func (r *RatingRepository) UpsertRating(ctx context.Context, userID string, animeID int, rawScore float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "animeId": animeID},
		bson.M{
			"$set":         bson.M{"rawScore": rawScore, "updatedAt": time.Now().Unix()},
			"$setOnInsert": bson.M{"normalizedScore": 0.0},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RatingRepository) GetAllByUser(ctx context.Context, userID string) ([]models.RatingDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "animeId", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var rd models.RatingDoc
		if err := cur.Decode(&rd); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, cur.Err()
}

// TopNByUser: mejores n ratings por rawScore desc, desempate por animeId asc
// (orden determinista para los seeds de discovery).
func (r *RatingRepository) TopNByUser(ctx context.Context, userID string, n int) ([]models.RatingDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rawScore", Value: -1}, {Key: "animeId", Value: 1}}).
		SetLimit(int64(n))

	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var rd models.RatingDoc
		if err := cur.Decode(&rd); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, cur.Err()
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// LoadAllSorted trae todos los ratings ordenados por userId, animeId
// (el orden estable que espera el builder del grafo).
func (r *RatingRepository) LoadAllSorted(ctx context.Context) ([]models.RatingDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "userId", Value: 1}, {Key: "animeId", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var rd models.RatingDoc
		if err := cur.Decode(&rd); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, cur.Err()
}

// =======================================================
//  Normalización global
// =======================================================

// NormalizeUserRatings recalcula normalized = raw - promedio(raw) sobre el
// set completo de un usuario. Con 0 ratings el promedio es 0. Es pura para
// poder testearla sin Mongo.
func NormalizeUserRatings(ratings []models.RatingDoc) []models.RatingDoc {
	mean := 0.0
	if len(ratings) > 0 {
		raw := make([]float64, len(ratings))
		for i, rd := range ratings {
			raw[i] = rd.RawScore
		}
		mean = stat.Mean(raw, nil)
	}

	out := make([]models.RatingDoc, len(ratings))
	for i, rd := range ratings {
		rd.NormalizedScore = rd.RawScore - mean
		out[i] = rd
	}
	return out
}

// RecomputeNormalizedScores corre la pasada global: por cada usuario,
// normalized = raw - mean(raw). Devuelve cuántos usuarios procesó.
func (r *RatingRepository) RecomputeNormalizedScores(ctx context.Context) (int, error) {
	all, err := r.LoadAllSorted(ctx)
	if err != nil {
		return 0, err
	}

	users := 0
	var writes []mongo.WriteModel

	flush := func() error {
		if len(writes) == 0 {
			return nil
		}
		_, err := r.col.BulkWrite(ctx, writes)
		writes = writes[:0]
		return err
	}

	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].UserID == all[i].UserID {
			j++
		}

		users++
		for _, rd := range NormalizeUserRatings(all[i:j]) {
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"userId": rd.UserID, "animeId": rd.AnimeID}).
				SetUpdate(bson.M{"$set": bson.M{"normalizedScore": rd.NormalizedScore}}))

			if len(writes) >= 500 {
				if err := flush(); err != nil {
					return users, err
				}
			}
		}
		i = j
	}

	if err := flush(); err != nil {
		return users, err
	}

	log.Printf("[ratings] normalización recalculada para %d usuarios", users)
	return users, nil
}
