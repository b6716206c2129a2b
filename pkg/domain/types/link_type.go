package types

import "github.com/m-mizutani/goerr/v2"

// LinkType classifies how two notes relate to each other
type LinkType string

const (
	// LinkTypeSemantic is a relation selected by the LLM among
	// similarity-search candidates
	LinkTypeSemantic LinkType = "semantic"

	// LinkTypeTemporal is a relation between notes of the same conversation
	LinkTypeTemporal LinkType = "temporal"

	// LinkTypeEvolved marks a link from a new note to a note it caused to evolve
	LinkTypeEvolved LinkType = "evolved"
)

// Validate checks if the LinkType is a known value
func (t LinkType) Validate() error {
	switch t {
	case LinkTypeSemantic, LinkTypeTemporal, LinkTypeEvolved:
		return nil
	default:
		return goerr.New("invalid link type", goerr.V("type", string(t)))
	}
}

func (t LinkType) String() string {
	return string(t)
}
