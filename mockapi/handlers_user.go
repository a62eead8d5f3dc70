package mockapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/client"
)

func validListKind(kind client.ListKind) bool {
	for _, k := range client.ListKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	// The user_id query parameter mirrors the real API shape; it may only
	// name the authenticated user.
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = p.ID
	}
	if userID != p.ID && !p.IsAdmin() {
		writeError(w, http.StatusForbidden, "cannot read another user's notifications")
		return
	}

	s.mu.Lock()
	batch := append([]streambase.Notification(nil), s.notifications[userID]...)
	s.mu.Unlock()

	if batch == nil {
		batch = []streambase.Notification{}
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications[p.ID] {
		if n.ID == id {
			s.notifications[p.ID][i].Read = true
			writeJSON(w, http.StatusNoContent, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "notification not found")
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications[p.ID] {
		s.notifications[p.ID][i].Read = true
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	kind := client.ListKind(mux.Vars(r)["kind"])
	if !validListKind(kind) {
		writeError(w, http.StatusNotFound, "unknown list")
		return
	}

	s.mu.Lock()
	entries := append([]client.ListEntry(nil), s.lists[p.ID][kind]...)
	s.mu.Unlock()

	if entries == nil {
		entries = []client.ListEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddToList(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	kind := client.ListKind(mux.Vars(r)["kind"])
	if !validListKind(kind) {
		writeError(w, http.StatusNotFound, "unknown list")
		return
	}

	var entry client.ListEntry
	if err := decodeBody(r, &entry); err != nil || entry.MovieID == "" {
		writeError(w, http.StatusBadRequest, "movie_id is required")
		return
	}
	entry.AddedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lists[p.ID] == nil {
		s.lists[p.ID] = map[client.ListKind][]client.ListEntry{}
	}
	for _, existing := range s.lists[p.ID][kind] {
		if existing.MovieID == entry.MovieID {
			writeJSON(w, http.StatusNoContent, nil)
			return
		}
	}
	s.lists[p.ID][kind] = append(s.lists[p.ID][kind], entry)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemoveFromList(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	vars := mux.Vars(r)
	kind := client.ListKind(vars["kind"])
	movieID := vars["movieID"]
	if !validListKind(kind) {
		writeError(w, http.StatusNotFound, "unknown list")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.lists[p.ID][kind]
	for i, entry := range entries {
		if entry.MovieID == movieID {
			s.lists[p.ID][kind] = append(entries[:i], entries[i+1:]...)
			writeJSON(w, http.StatusNoContent, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "entry not found")
}

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	var body struct {
		Title string `json:"title"`
		Kind  string `json:"kind"`
		Note  string `json:"note"`
	}
	if err := decodeBody(r, &body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if body.Kind != "movie" && body.Kind != "tv" {
		writeError(w, http.StatusBadRequest, "kind must be movie or tv")
		return
	}

	req := client.ContentRequest{
		ID:        uuid.New().String(),
		UserID:    p.ID,
		Title:     body.Title,
		Kind:      body.Kind,
		Note:      body.Note,
		Status:    client.RequestPending,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleMyRequests(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mine := []client.ContentRequest{}
	for _, req := range s.requests {
		if req.UserID == p.ID {
			mine = append(mine, req)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

func (s *Server) handleAllRequests(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append([]client.ContentRequest(nil), s.requests...)
	if all == nil {
		all = []client.ContentRequest{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleResolveRequest(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	id := mux.Vars(r)["id"]

	var body struct {
		Status client.RequestStatus `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	switch body.Status {
	case client.RequestApproved, client.RequestRejected, client.RequestAvailable:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests[i].Status = body.Status
			s.notifications[s.requests[i].UserID] = append(s.notifications[s.requests[i].UserID], streambase.Notification{
				ID:        uuid.New().String(),
				UserID:    s.requests[i].UserID,
				Message:   "Your request for " + s.requests[i].Title + " is " + string(body.Status),
				CreatedAt: time.Now(),
			})
			writeJSON(w, http.StatusNoContent, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "request not found")
}
