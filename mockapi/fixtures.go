package mockapi

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/client"
)

// Fixture hashes use MinCost: this server exists to exercise clients, not to
// resist offline attacks.
func hashSecret(secret string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func compareSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// SeedUser registers a regular user fixture and returns its id.
func (s *Server) SeedUser(name, email, password string, roles ...string) string {
	if len(roles) == 0 {
		roles = []string{"member"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.accounts[email] = &account{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hashSecret(password),
		Roles:        roles,
		Kind:         streambase.KindUser,
	}
	return id
}

// SeedAdmin registers an admin fixture and returns its id.
func (s *Server) SeedAdmin(name, email, password, pin string, privilegeLevel int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.accounts[email] = &account{
		ID:             id,
		Name:           name,
		Email:          email,
		PasswordHash:   hashSecret(password),
		PINHash:        hashSecret(pin),
		PrivilegeLevel: privilegeLevel,
		Kind:           streambase.KindAdmin,
	}
	return id
}

// SeedNotification adds a notification fixture for the user.
func (s *Server) SeedNotification(userID, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := streambase.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.notifications[userID] = append(s.notifications[userID], n)
	return n.ID
}

// SeedMovies replaces the catalog fixtures.
func (s *Server) SeedMovies(movies []client.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = append([]client.Movie(nil), movies...)
}

func fixtureMovies() []client.Movie {
	return []client.Movie{
		{ID: "m-1001", Title: "The Long Orbit", ReleaseYear: 2021, Rating: 7.9, Genres: []string{"sci-fi", "drama"}},
		{ID: "m-1002", Title: "Harbor Lights", ReleaseYear: 2019, Rating: 7.1, Genres: []string{"drama"}},
		{ID: "m-1003", Title: "Midnight Ledger", ReleaseYear: 2022, Rating: 6.8, Genres: []string{"thriller"}},
		{ID: "m-1004", Title: "Paper Compass", ReleaseYear: 2020, Rating: 8.2, Genres: []string{"adventure"}},
		{ID: "m-1005", Title: "Glass Meridian", ReleaseYear: 2023, Rating: 7.6, Genres: []string{"sci-fi", "thriller"}},
		{ID: "m-1006", Title: "Quiet Divide", ReleaseYear: 2018, Rating: 6.4, Genres: []string{"drama"}},
	}
}
