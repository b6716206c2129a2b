package model

// LinkJudgment is the LLM's decision on which similarity-search candidates
// are genuinely related to a new note. The zero value means "no links" and
// is the safe default when the model's output cannot be parsed.
type LinkJudgment struct {
	TargetIDs []NoteID
}

// EvolutionJudgment is the LLM's decision on whether a stored note's
// understanding should change given a newer related note. The zero value
// means "no evolution" and is the safe default when the model's output
// cannot be parsed.
type EvolutionJudgment struct {
	ShouldEvolve bool
	Context      string
	Tags         []string
	Reason       string
}
