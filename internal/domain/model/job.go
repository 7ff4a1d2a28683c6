package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status will never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}

// GenerateRequest is the client payload for one deck generation.
type GenerateRequest struct {
	CommanderRef  string `json:"commanderRef"`
	CardPool      []Card `json:"cardPool"`
	Bracket       int    `json:"bracket"`
	HouseRules    bool   `json:"houseRules"`
	SaltThreshold int    `json:"saltThreshold"`
}

// DeckJob is the descriptor stored for one asynchronous generation request.
// The worker that claims the job is the sole writer of its status and result.
type DeckJob struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Request   GenerateRequest `json:"request"`
	Status    JobStatus       `json:"status"`
	LastError string          `json:"lastError,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
