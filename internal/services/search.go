package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SearchService proxies song searches to Saavn-compatible catalog APIs.
// Upstreams are tried in configuration order with a per-attempt timeout; the
// first success wins and the caller sees a single aggregated error only after
// every upstream has failed.
type SearchService struct {
	upstreams  []string
	timeout    time.Duration
	httpClient *http.Client
}

// Track is one search result from the external catalog.
type Track struct {
	TrackID  string
	Title    string
	Artist   string
	ImageURL string
	Album    string
}

type saavnSearchResponse struct {
	Data saavnSearchData `json:"data"`
}

type saavnSearchData struct {
	Results []saavnSong `json:"results"`
}

type saavnSong struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Artists saavnArtists `json:"artists"`
	Image   []saavnImage `json:"image"`
	Album   saavnAlbum   `json:"album"`
}

type saavnArtists struct {
	Primary []saavnArtist `json:"primary"`
}

type saavnArtist struct {
	Name string `json:"name"`
}

type saavnImage struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type saavnAlbum struct {
	Name string `json:"name"`
}

// NewSearchService creates a SearchService over the given upstream base URLs.
func NewSearchService(upstreams []string, timeout time.Duration) *SearchService {
	return &SearchService{
		upstreams: upstreams,
		timeout:   timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Available reports whether at least one upstream is configured.
func (s *SearchService) Available() bool {
	return len(s.upstreams) > 0
}

// Search queries the upstreams in order and returns the first successful
// result set. Each attempt gets its own timeout so one hung upstream cannot
// consume the whole request budget.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	if len(s.upstreams) == 0 {
		return nil, errors.New("no search upstreams configured")
	}

	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var attemptErrs []error
	for _, base := range s.upstreams {
		tracks, err := s.searchUpstream(ctx, base, query, limit)
		if err == nil {
			return tracks, nil
		}

		slog.Warn("search upstream failed",
			slog.String("upstream", base),
			slog.String("error", err.Error()))
		attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", base, err))

		// Give up early if the caller is gone; no point trying the next upstream.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("all search upstreams failed: %w", errors.Join(attemptErrs...))
}

func (s *SearchService) searchUpstream(ctx context.Context, base, query string, limit int) ([]Track, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	searchURL := fmt.Sprintf("%s/api/search/songs?query=%s&limit=%d",
		strings.TrimRight(base, "/"), url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp saavnSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	tracks := make([]Track, len(searchResp.Data.Results))
	for i, song := range searchResp.Data.Results {
		tracks[i] = Track{
			TrackID:  song.ID,
			Title:    song.Name,
			Artist:   joinArtists(song.Artists.Primary),
			ImageURL: pickImage(song.Image),
			Album:    song.Album.Name,
		}
	}

	return tracks, nil
}

// joinArtists flattens the primary artist list into a display string.
func joinArtists(artists []saavnArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// pickImage prefers the 500x500 rendition and falls back to the last entry,
// which Saavn orders smallest to largest.
func pickImage(images []saavnImage) string {
	for _, img := range images {
		if img.Quality == "500x500" {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[len(images)-1].URL
	}
	return ""
}
