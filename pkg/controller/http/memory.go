package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/domain/model"
	"github.com/secmon-lab/mnemon/pkg/utils/errutil"
	"github.com/secmon-lab/mnemon/pkg/utils/safe"
)

const defaultSearchLimit = 10

type noteResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Content        string    `json:"content"`
	Context        string    `json:"context"`
	Keywords       []string  `json:"keywords"`
	Tags           []string  `json:"tags"`
	LinkedIDs      []string  `json:"linked_ids"`
	CreatedAt      time.Time `json:"created_at"`
	Importance     float64   `json:"importance"`
	AccessCount    int64     `json:"access_count"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	Evolved        bool      `json:"evolved"`
}

func toNoteResponse(note *model.Note) *noteResponse {
	linkedIDs := make([]string, len(note.LinkedIDs))
	for i, id := range note.LinkedIDs {
		linkedIDs[i] = string(id)
	}

	return &noteResponse{
		ID:             string(note.ID),
		ConversationID: note.ConversationID,
		Content:        note.Content,
		Context:        note.Context,
		Keywords:       note.Keywords,
		Tags:           note.Tags,
		LinkedIDs:      linkedIDs,
		CreatedAt:      note.CreatedAt,
		Importance:     note.Importance,
		AccessCount:    note.AccessCount,
		LastAccessedAt: note.LastAccessedAt,
		Evolved:        note.Evolved,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(r.Context(), w, data)
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content        string `json:"content"`
		ConversationID string `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode request body"), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("content is required"), http.StatusBadRequest)
		return
	}

	note, err := s.uc.AddMemory(r.Context(), req.Content, req.ConversationID)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) handleSearchMemories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("query parameter 'q' is required"), http.StatusBadRequest)
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errutil.HandleHTTP(r.Context(), w, goerr.New("limit must be a positive integer", goerr.V("limit", raw)), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	notes, err := s.uc.RetrieveMemories(r.Context(), query, limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Memories []*noteResponse `json:"memories"`
	}{
		Memories: make([]*noteResponse, len(notes)),
	}
	for i, note := range notes {
		resp.Memories[i] = toNoteResponse(note)
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleEvolutionHistory(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")

	records, err := s.uc.EvolutionHistory(r.Context(), model.NoteID(noteID))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	type recordResponse struct {
		ID         string    `json:"id"`
		NoteID     string    `json:"note_id"`
		OldContext string    `json:"old_context"`
		NewContext string    `json:"new_context"`
		OldTags    []string  `json:"old_tags"`
		NewTags    []string  `json:"new_tags"`
		Reason     string    `json:"reason"`
		CreatedAt  time.Time `json:"created_at"`
	}

	resp := struct {
		Evolutions []recordResponse `json:"evolutions"`
	}{
		Evolutions: make([]recordResponse, len(records)),
	}
	for i, rec := range records {
		resp.Evolutions[i] = recordResponse{
			ID:         string(rec.ID),
			NoteID:     string(rec.NoteID),
			OldContext: rec.OldContext,
			NewContext: rec.NewContext,
			OldTags:    rec.OldTags,
			NewTags:    rec.NewTags,
			Reason:     rec.Reason,
			CreatedAt:  rec.CreatedAt,
		}
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := s.uc.GraphData(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, graph)
}

func (s *Server) handleDecay(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.ApplyForgettingCurve(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Scanned int `json:"scanned"`
		Updated int `json:"updated"`
	}{
		Scanned: summary.Scanned,
		Updated: summary.Updated,
	}

	writeJSON(w, r, http.StatusOK, resp)
}
