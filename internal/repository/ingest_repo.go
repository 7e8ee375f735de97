package repository

import (
	"context"
	"time"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingEntry es lo mínimo que necesita la ingesta de un usuario nuevo.
type RatingEntry struct {
	AnimeID  int
	Title    string
	RawScore float64
}

// IngestRepository agrupa las tres colecciones para la escritura atómica
// por usuario: o entran usuario + anime + ratings completos, o no entra nada.
type IngestRepository struct {
	users   *mongo.Collection
	anime   *mongo.Collection
	ratings *mongo.Collection
}

func NewIngestRepository() *IngestRepository {
	return &IngestRepository{
		users:   db.DB().Collection("users"),
		anime:   db.DB().Collection("anime"),
		ratings: db.DB().Collection("ratings"),
	}
}

// InsertUserBatch persiste el lote completo de un usuario dentro de una
// transacción. Un crash a mitad de ingesta nunca deja un usuario con un
// set de ratings parcial.
func (r *IngestRepository) InsertUserBatch(ctx context.Context, userID string, entries []RatingEntry) error {
	session, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		nowStr := now.Format(time.RFC3339)

		_, err := r.users.UpdateOne(sc,
			bson.M{"userId": userID},
			bson.M{
				"$set":         bson.M{"ratingCount": len(entries)},
				"$setOnInsert": bson.M{"createdAt": nowStr},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			// primero el padre (anime), después el rating
			_, err := r.anime.UpdateOne(sc,
				bson.M{"animeId": e.AnimeID},
				bson.M{
					"$set":         bson.M{"title": e.Title, "updatedAt": nowStr},
					"$setOnInsert": bson.M{"createdAt": nowStr},
				},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return nil, err
			}

			_, err = r.ratings.UpdateOne(sc,
				bson.M{"userId": userID, "animeId": e.AnimeID},
				bson.M{
					"$set":         bson.M{"rawScore": e.RawScore, "updatedAt": now.Unix()},
					"$setOnInsert": bson.M{"normalizedScore": 0.0},
				},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return nil, err
			}
		}

		return nil, nil
	})

	return err
}
