package models

// Lo que está en Mongo: un rating por par (userId, animeId).
// normalizedScore = rawScore - promedio(rawScore) del usuario; queda stale
// hasta que corre el recompute global.
type RatingDoc struct {
	UserID          string  `json:"userId" bson:"userId"`
	AnimeID         int     `json:"animeId" bson:"animeId"`
	RawScore        float64 `json:"rawScore" bson:"rawScore"`
	NormalizedScore float64 `json:"normalizedScore" bson:"normalizedScore"`
	UpdatedAt       int64   `json:"updatedAt" bson:"updatedAt"`
}
