package model

import (
	"time"

	"github.com/secmon-lab/mnemon/pkg/domain/types"
)

// DefaultLinkStrength is the strength assigned to semantic links. The link
// judge returns a binary include/exclude decision, so there is no per-link
// confidence to record.
const DefaultLinkStrength = 0.5

// Link is a directed, typed association between two notes. The edge is keyed
// by (Source, Target); re-inserting the same pair replaces the prior edge.
type Link struct {
	Source    NoteID
	Target    NoteID
	Strength  float64
	Type      types.LinkType
	CreatedAt time.Time
}
