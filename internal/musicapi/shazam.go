package musicapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arjunvn/melodia-backend/internal/models"
)

const defaultShazamBaseURL = "https://shazam.p.rapidapi.com"

// ShazamClient talks to the Shazam-style search API on RapidAPI.
type ShazamClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

func NewShazamClient(apiKey string) *ShazamClient {
	return &ShazamClient{
		http:    newHTTPClient(),
		apiKey:  apiKey,
		baseURL: defaultShazamBaseURL,
	}
}

// NewShazamClientWithBaseURL is used by tests to point the client at a
// stub server.
func NewShazamClientWithBaseURL(apiKey, baseURL string) *ShazamClient {
	c := NewShazamClient(apiKey)
	c.baseURL = baseURL
	return c
}

type shazamSearchResponse struct {
	Tracks struct {
		Hits []struct {
			Track struct {
				Title    string `json:"title"`
				Subtitle string `json:"subtitle"`
				Images   struct {
					CoverArt string `json:"coverart"`
				} `json:"images"`
			} `json:"track"`
		} `json:"hits"`
	} `json:"tracks"`
}

type shazamLatestReleaseResponse struct {
	Data []struct {
		Attributes struct {
			Name        string `json:"name"`
			ArtistName  string `json:"artistName"`
			ReleaseDate string `json:"releaseDate"`
			Artwork     struct {
				URL string `json:"url"`
			} `json:"artwork"`
		} `json:"attributes"`
	} `json:"data"`
}

// Search looks up tracks matching term and maps them to the normalized
// record. The search shape carries no release date.
func (c *ShazamClient) Search(ctx context.Context, term string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("%s/search?term=%s&limit=%s",
		c.baseURL, url.QueryEscape(term), strconv.Itoa(maxResults))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	var decoded shazamSearchResponse
	if err := doJSON(ctx, c.http, req, &decoded); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(decoded.Tracks.Hits))
	for _, hit := range decoded.Tracks.Hits {
		tracks = append(tracks, models.Track{
			Title:      hit.Track.Title,
			Artist:     hit.Track.Subtitle,
			ArtworkURL: hit.Track.Images.CoverArt,
		})
	}

	return tracks, nil
}

// ArtistLatest returns an artist's most recent releases.
func (c *ShazamClient) ArtistLatest(ctx context.Context, artistID string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("%s/artists/get-latest-release?id=%s", c.baseURL, url.QueryEscape(artistID))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	var decoded shazamLatestReleaseResponse
	if err := doJSON(ctx, c.http, req, &decoded); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(decoded.Data))
	for _, item := range decoded.Data {
		tracks = append(tracks, models.Track{
			Title:       item.Attributes.Name,
			Artist:      item.Attributes.ArtistName,
			ReleaseDate: item.Attributes.ReleaseDate,
			ArtworkURL:  item.Attributes.Artwork.URL,
		})
	}

	return tracks, nil
}

func (c *ShazamClient) setHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", "shazam.p.rapidapi.com")
}
