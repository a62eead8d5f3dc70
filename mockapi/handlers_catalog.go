package mockapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/darhlilove/streambase/client"
)

const pageSize = 20

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	s.mu.Lock()
	var matches []client.Movie
	for _, m := range s.movies {
		if strings.Contains(strings.ToLower(m.Title), query) {
			matches = append(matches, m)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(matches, pageFrom(r)))
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	kind := client.DiscoverKind(mux.Vars(r)["kind"])

	s.mu.Lock()
	movies := append([]client.Movie(nil), s.movies...)
	s.mu.Unlock()

	switch kind {
	case client.DiscoverTrending:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].ReleaseYear > movies[j].ReleaseYear
		})
	case client.DiscoverPopular:
		// Fixture ordering stands in for popularity.
	case client.DiscoverTopRated:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].Rating > movies[j].Rating
		})
	default:
		writeError(w, http.StatusNotFound, "unknown catalog row")
		return
	}

	writeJSON(w, http.StatusOK, paginate(movies, pageFrom(r)))
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.movies {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeError(w, http.StatusNotFound, "movie not found")
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	var source *client.Movie
	for i := range s.movies {
		if s.movies[i].ID == id {
			source = &s.movies[i]
			break
		}
	}
	if source == nil {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	similar := []client.Movie{}
	for _, m := range s.movies {
		if m.ID != source.ID && sharesGenre(m.Genres, source.Genres) {
			similar = append(similar, m)
		}
	}
	writeJSON(w, http.StatusOK, similar)
}

func sharesGenre(a, b []string) bool {
	for _, ga := range a {
		for _, gb := range b {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

func pageFrom(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func paginate(movies []client.Movie, page int) client.CatalogPage {
	total := len(movies)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	results := movies[start:end]
	if results == nil {
		results = []client.Movie{}
	}

	return client.CatalogPage{
		Page:         page,
		TotalPages:   totalPages,
		TotalResults: total,
		Results:      results,
	}
}
