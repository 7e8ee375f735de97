package models

// AnimeDoc es el catálogo mínimo: id de MAL + título.
// El título se pisa en cada upsert (last-write-wins).
type AnimeDoc struct {
	AnimeID   int    `json:"animeId" bson:"animeId"`
	Title     string `json:"title" bson:"title"`
	CreatedAt string `json:"createdAt" bson:"createdAt"`
	UpdatedAt string `json:"updatedAt" bson:"updatedAt"`
}
