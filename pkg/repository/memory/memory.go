package memory

import (
	"github.com/secmon-lab/mnemon/pkg/domain/interfaces"
)

// Memory is the in-memory Repository implementation for development and tests
type Memory struct {
	note      *noteRepository
	link      *linkRepository
	evolution *evolutionRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		note:      newNoteRepository(),
		link:      newLinkRepository(),
		evolution: newEvolutionRepository(),
	}
}

func (m *Memory) Note() interfaces.NoteRepository {
	return m.note
}

func (m *Memory) Link() interfaces.LinkRepository {
	return m.link
}

func (m *Memory) Evolution() interfaces.EvolutionRepository {
	return m.evolution
}

func (m *Memory) Close() error {
	return nil
}
