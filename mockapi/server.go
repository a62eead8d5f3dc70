// Package mockapi is an in-process fake of the Streambase REST API. The
// real service was always mocked during client development; this package is
// that mock, used by integration tests and runnable standalone for local
// work against realistic fixtures.
package mockapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/client"
)

const defaultTokenTTL = 24 * time.Hour

type account struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	PINHash        string
	Roles          []string
	PrivilegeLevel int
	Kind           streambase.PrincipalKind
}

func (a *account) principal() streambase.Principal {
	if a.Kind == streambase.KindAdmin {
		return streambase.NewAdminPrincipal(a.ID, a.Name, a.Email, a.PrivilegeLevel)
	}
	return streambase.NewUserPrincipal(a.ID, a.Name, a.Email, a.Roles)
}

// Server holds the mock API state. All state is in memory and guarded by a
// single mutex; this is a fixture, not a database.
type Server struct {
	signingKey []byte
	tokenTTL   time.Duration
	router     *mux.Router

	mu sync.Mutex
	// accounts is keyed by email; notifications and lists by user id.
	accounts      map[string]*account
	movies        []client.Movie
	notifications map[string][]streambase.Notification
	lists         map[string]map[client.ListKind][]client.ListEntry
	requests      []client.ContentRequest
}

// New builds a mock server with the default fixture catalog. Seed accounts
// with SeedUser/SeedAdmin before issuing logins.
func New(signingKey string) *Server {
	s := &Server{
		signingKey:    []byte(signingKey),
		tokenTTL:      defaultTokenTTL,
		accounts:      map[string]*account{},
		movies:        fixtureMovies(),
		notifications: map[string][]streambase.Notification{},
		lists:         map[string]map[client.ListKind][]client.ListEntry{},
	}
	s.routes()
	return s
}

func (s *Server) WithTokenTTL(ttl time.Duration) *Server {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// Handler returns the HTTP surface of the mock API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/admin/login", s.handleAdminLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/profile", s.requireAuth(s.handleDeleteProfile)).Methods(http.MethodDelete)

	r.HandleFunc("/catalog/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/catalog/movies/{id}", s.handleMovieDetails).Methods(http.MethodGet)
	r.HandleFunc("/catalog/movies/{id}/similar", s.handleSimilar).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{kind}", s.handleDiscover).Methods(http.MethodGet)

	r.HandleFunc("/notifications", s.requireAuth(s.handleNotifications)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/read-all", s.requireAuth(s.handleMarkAllRead)).Methods(http.MethodPost)
	r.HandleFunc("/notifications/{id}/read", s.requireAuth(s.handleMarkRead)).Methods(http.MethodPost)

	r.HandleFunc("/lists/{kind}", s.requireUser(s.handleListEntries)).Methods(http.MethodGet)
	r.HandleFunc("/lists/{kind}", s.requireUser(s.handleAddToList)).Methods(http.MethodPost)
	r.HandleFunc("/lists/{kind}/{movieID}", s.requireUser(s.handleRemoveFromList)).Methods(http.MethodDelete)

	r.HandleFunc("/requests", s.requireUser(s.handleSubmitRequest)).Methods(http.MethodPost)
	r.HandleFunc("/requests/mine", s.requireUser(s.handleMyRequests)).Methods(http.MethodGet)
	r.HandleFunc("/requests", s.requireAdmin(s.handleAllRequests)).Methods(http.MethodGet)
	r.HandleFunc("/requests/{id}/resolve", s.requireAdmin(s.handleResolveRequest)).Methods(http.MethodPost)

	s.router = r
}

type authedHandler func(w http.ResponseWriter, r *http.Request, p streambase.Principal)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.principalFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r, p)
	}
}

func (s *Server) requireUser(next authedHandler) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
		if !p.IsUser() {
			writeError(w, http.StatusForbidden, "user account required")
			return
		}
		next(w, r, p)
	})
}

func (s *Server) requireAdmin(next authedHandler) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin account required")
			return
		}
		next(w, r, p)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
