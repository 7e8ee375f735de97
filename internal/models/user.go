package models

// UserDoc es el usuario anonimizado en Mongo. UserID es el hash (24 hex),
// nunca el username real.
type UserDoc struct {
	UserID      string `json:"userId" bson:"userId"`
	RatingCount int    `json:"ratingCount" bson:"ratingCount"`
	CreatedAt   string `json:"createdAt" bson:"createdAt"`
}
