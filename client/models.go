package client

import "time"

// Movie is a catalog entry as served by the API.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// CatalogPage is one page of catalog results.
type CatalogPage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

// DiscoverKind selects a curated catalog row.
type DiscoverKind string

const (
	DiscoverTrending DiscoverKind = "trending"
	DiscoverPopular  DiscoverKind = "popular"
	DiscoverTopRated DiscoverKind = "top-rated"
)

// ListKind selects one of the per-user lists.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListWatchlist ListKind = "watchlist"
	ListWatched   ListKind = "watched"
)

// ListKinds enumerates every per-user list.
var ListKinds = []ListKind{ListFavorites, ListWatchlist, ListWatched}

// ListEntry is a movie saved on one of the user's lists.
type ListEntry struct {
	MovieID   string    `json:"movie_id"`
	Title     string    `json:"title"`
	PosterURL string    `json:"poster_url,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// RequestStatus tracks a content request through review.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestAvailable RequestStatus = "available"
)

// ContentRequest asks the service to add a title to the catalog.
type ContentRequest struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	Kind      string        `json:"kind"` // movie or tv
	Note      string        `json:"note,omitempty"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
