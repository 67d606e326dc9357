package models

import "time"

// CollectionProfile carries the sharing settings of one user's collection.
// Collections are private until their owner opts in.
type CollectionProfile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"username"`
	IsPublic    bool      `json:"isPublic"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
