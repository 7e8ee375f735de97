package models

// Formato que consume el cliente de visualización (mismo JSON que
// data/anonymized-ratings.json del desktop).

type DatasetRating struct {
	AnimeID         int     `json:"animeId"`
	Title           string  `json:"title"`
	RawScore        float64 `json:"rawScore"`
	NormalizedScore float64 `json:"normalizedScore"`
}

type UserRatings struct {
	UserID  string          `json:"userId"`
	Ratings []DatasetRating `json:"ratings"`
}

type Dataset struct {
	Users []UserRatings `json:"users"`
}

// Stats para el endpoint /stats.
type DatasetStats struct {
	Users   int64 `json:"users"`
	Anime   int64 `json:"anime"`
	Ratings int64 `json:"ratings"`
}
