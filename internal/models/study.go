package models

import "time"

// Direction selects which side of a flashcard the user is asked to produce
type Direction string

const (
	// DirectionForward asks for the translation of the term
	DirectionForward Direction = "forward"
	// DirectionReverse asks for the term given the translation
	DirectionReverse Direction = "reverse"
)

// StudyMode represents a game mode
type StudyMode string

const (
	StudyModeWrite StudyMode = "write"
	StudyModeQuiz  StudyMode = "quiz"
	StudyModeMatch StudyMode = "match"
)

// PointsPerCorrectAnswer is the number of points awarded for each correct answer in a session
const PointsPerCorrectAnswer = 10

// CheckAnswerRequest represents an answer check request
type CheckAnswerRequest struct {
	FlashcardID int       `json:"flashcardId"`
	Answer      string    `json:"answer"`
	Direction   Direction `json:"direction"`
	Threshold   *float64  `json:"threshold,omitempty"`
}

// CheckAnswerResponse represents the result of an answer check
type CheckAnswerResponse struct {
	Correct  bool   `json:"correct"`
	Matched  string `json:"matched,omitempty"`
	Distance int    `json:"distance"`
	Expected string `json:"expected"`
}

// HintResponse represents a progressive hint
type HintResponse struct {
	Hint  string `json:"hint"`
	Level int    `json:"level"`
}

// StudySessionRequest represents a finished study session submission
type StudySessionRequest struct {
	CollectionID int       `json:"collectionId"`
	Mode         StudyMode `json:"mode"`
	Correct      int       `json:"correct"`
	Total        int       `json:"total"`
}

// StudySession is a stored study session
type StudySession struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	CollectionID  int       `json:"collectionId"`
	Mode          StudyMode `json:"mode"`
	Correct       int       `json:"correct"`
	Total         int       `json:"total"`
	PointsAwarded int       `json:"pointsAwarded"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StudySessionResponse is returned after a session is recorded
type StudySessionResponse struct {
	PointsAwarded int `json:"pointsAwarded"`
	Points        int `json:"points"`
}
