package service

import (
	"context"

	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/cache"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/models"
	"github.com/OptimumAF/WhatAnimeShouldIWatch/internal/repository"
)

const datasetCacheKey = "dataset:anonymized"

type DatasetService struct {
	users   *repository.UserRepository
	anime   *repository.AnimeRepository
	ratings *repository.RatingRepository
}

func NewDatasetService(
	u *repository.UserRepository,
	a *repository.AnimeRepository,
	r *repository.RatingRepository,
) *DatasetService {
	return &DatasetService{users: u, anime: a, ratings: r}
}

// Snapshot arma el dataset completo agrupado por usuario, en orden estable
// (userId asc, animeId asc). Es lo que consume el cliente desktop y la
// entrada del builder del grafo.
func (s *DatasetService) Snapshot(ctx context.Context, refresh bool) (*models.Dataset, error) {
	if !refresh {
		var cached models.Dataset
		if ok, err := cache.GetJSON(ctx, datasetCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	all, err := s.ratings.LoadAllSorted(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := s.anime.GetTitles(ctx)
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{Users: []models.UserRatings{}}
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].UserID == all[i].UserID {
			j++
		}

		ur := models.UserRatings{UserID: all[i].UserID}
		for _, rd := range all[i:j] {
			ur.Ratings = append(ur.Ratings, models.DatasetRating{
				AnimeID:         rd.AnimeID,
				Title:           titles[rd.AnimeID],
				RawScore:        rd.RawScore,
				NormalizedScore: rd.NormalizedScore,
			})
		}
		ds.Users = append(ds.Users, ur)
		i = j
	}

	// 10 minutos: el dataset solo cambia cuando corre el crawler
	_ = cache.SetJSON(ctx, datasetCacheKey, ds, 10*60)

	return ds, nil
}

func (s *DatasetService) Stats(ctx context.Context) (*models.DatasetStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	anime, err := s.anime.Count(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DatasetStats{Users: users, Anime: anime, Ratings: ratings}, nil
}

// RecomputeNormalized expone la pasada global para el endpoint admin.
func (s *DatasetService) RecomputeNormalized(ctx context.Context) (int, error) {
	n, err := s.ratings.RecomputeNormalizedScores(ctx)
	if err != nil {
		return 0, err
	}
	_ = cache.Invalidate(ctx, datasetCacheKey)
	return n, nil
}
