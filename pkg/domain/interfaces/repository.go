package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Note() NoteRepository
	Link() LinkRepository
	Evolution() EvolutionRepository

	Close() error
}
