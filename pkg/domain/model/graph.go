package model

import "time"

// GraphNode is the externally observable projection of a note for rendering.
// Consumers must not depend on any other field layout of Note.
type GraphNode struct {
	ID          NoteID    `json:"id"`
	Label       string    `json:"label"`
	Content     string    `json:"content"`
	Context     string    `json:"context"`
	Keywords    []string  `json:"keywords"`
	Tags        []string  `json:"tags"`
	Importance  float64   `json:"importance"`
	Timestamp   time.Time `json:"timestamp"`
	AccessCount int64     `json:"access_count"`
	Evolved     bool      `json:"evolved"`
}

// GraphEdge is the externally observable projection of a link
type GraphEdge struct {
	Source   NoteID  `json:"source"`
	Target   NoteID  `json:"target"`
	Strength float64 `json:"strength"`
	Type     string  `json:"type"`
}

// GraphData is the read-only projection of all notes and links for the
// visualization boundary
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// ToGraphNode projects a note into its visualization shape. The label is the
// first keyword when one exists.
func (n *Note) ToGraphNode() GraphNode {
	label := ""
	if len(n.Keywords) > 0 {
		label = n.Keywords[0]
	}
	return GraphNode{
		ID:          n.ID,
		Label:       label,
		Content:     n.Content,
		Context:     n.Context,
		Keywords:    n.Keywords,
		Tags:        n.Tags,
		Importance:  n.Importance,
		Timestamp:   n.CreatedAt,
		AccessCount: n.AccessCount,
		Evolved:     n.Evolved,
	}
}

// ToGraphEdge projects a link into its visualization shape
func (l *Link) ToGraphEdge() GraphEdge {
	return GraphEdge{
		Source:   l.Source,
		Target:   l.Target,
		Strength: l.Strength,
		Type:     l.Type.String(),
	}
}
