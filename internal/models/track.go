package models

// Track is the normalized record every music source is mapped into.
type Track struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"releaseDate"`
	ArtworkURL  string `json:"artworkUrl"`
}
