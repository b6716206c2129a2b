package model

import (
	"time"

	"github.com/google/uuid"
)

// EvolutionRecordID is a UUID-based identifier for EvolutionRecord
type EvolutionRecordID string

// NewEvolutionRecordID generates a new UUID v4 EvolutionRecordID
func NewEvolutionRecordID() EvolutionRecordID {
	return EvolutionRecordID(uuid.New().String())
}

// EvolutionRecord is an append-only audit entry describing one mutation of a
// note's context/tags. Records are never updated or deleted.
type EvolutionRecord struct {
	ID         EvolutionRecordID
	NoteID     NoteID
	OldContext string
	NewContext string
	OldTags    []string
	NewTags    []string
	Reason     string
	CreatedAt  time.Time
}
