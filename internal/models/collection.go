package models

import "time"

// Collection is a user-owned group of flashcards (folder/list)
type Collection struct {
	ID             int       `json:"id"`
	OwnerID        int       `json:"ownerId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	FlashcardCount int       `json:"flashcardCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CollectionRequest represents a create or update collection request
type CollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Flashcard is a term/translation pair with an optional hint
type Flashcard struct {
	ID           int       `json:"id"`
	CollectionID int       `json:"collectionId"`
	Term         string    `json:"term"`
	Translation  string    `json:"translation"`
	Hint         string    `json:"hint,omitempty"`
	Alternatives []string  `json:"alternatives"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FlashcardRequest represents a create or update flashcard request
type FlashcardRequest struct {
	Term         string   `json:"term"`
	Translation  string   `json:"translation"`
	Hint         string   `json:"hint"`
	Alternatives []string `json:"alternatives"`
}

// FlashcardWithOwner is a flashcard together with the owner of its collection
type FlashcardWithOwner struct {
	Flashcard
	OwnerID int
}
