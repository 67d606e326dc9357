package models

import "time"

const (
	DeckSize        = 52
	MaxCopiesInDeck = 4
	PublicDeckLimit = 50
)

type DeckCardEntry struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
}

// DeckDraft is the caller-editable part of a deck. Colors and votes are
// derived or maintained by the deck service and cannot be supplied here.
type DeckDraft struct {
	Name        string          `json:"name" validate:"required|maxLen:120"`
	Description string          `json:"description" validate:"maxLen:2000"`
	Cards       []DeckCardEntry `json:"cards"`
	IsPublic    *bool           `json:"isPublic"`
}

type Deck struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Cards            []DeckCardEntry `json:"cards"`
	IsPublic         bool            `json:"isPublic"`
	Colors           []string        `json:"colors"`
	OwnerID          string          `json:"userId"`
	OwnerDisplayName string          `json:"username"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	UpvoteCount      int             `json:"upvotes"`
	UpvotedBy        []string        `json:"upvotedBy"`
}

func (d *Deck) HasUpvoted(userID string) bool {
	for _, id := range d.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Identity is the caller as reported by the upstream auth layer.
type Identity struct {
	UserID      string
	DisplayName string
}

func (i *Identity) Authenticated() bool {
	return i != nil && i.UserID != ""
}

func (i *Identity) Name() string {
	if i == nil || i.DisplayName == "" {
		return "Anonymous"
	}
	return i.DisplayName
}
