package metadata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultOEmbedURL = "https://www.youtube.com/oembed"

// Resolver looks up video titles and durations via the oEmbed endpoint.
// The HTTP client is injectable so tests can stub the network.
type Resolver struct {
	client    *http.Client
	oembedURL string
}

// NewResolver creates a resolver backed by the given HTTP client.
// A nil client gets a default with a short timeout.
func NewResolver(client *http.Client, oembedURL string) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if oembedURL == "" {
		oembedURL = defaultOEmbedURL
	}
	return &Resolver{client: client, oembedURL: oembedURL}
}

// VideoMetadata holds the resolved fields for a video link
type VideoMetadata struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// ResolveVideoMetadata fetches the title for a video link. Errors are
// returned for the caller to decide: enqueue paths degrade to the raw
// link as title rather than failing the request.
func (r *Resolver) ResolveVideoMetadata(link string) (*VideoMetadata, error) {
	normalized, err := NormalizeVideoLink(link)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?url=%s&format=json", r.oembedURL, url.QueryEscape(normalized))
	resp, err := r.client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata lookup returned status %d", resp.StatusCode)
	}

	var meta VideoMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode video metadata: %w", err)
	}
	return &meta, nil
}

// NormalizeVideoLink canonicalizes the common YouTube URL shapes
// (watch?v=, youtu.be/, embed/, shorts/) to the watch form so the
// same video always dedupes to one song row.
func NormalizeVideoLink(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", fmt.Errorf("invalid video link: %w", err)
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + strings.TrimSpace(link))
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("invalid video link")
		}
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/live/"):
			id = strings.TrimPrefix(u.Path, "/live/")
		}
	default:
		// Non-YouTube links pass through untouched
		return u.String(), nil
	}

	id = strings.Trim(id, "/")
	if id == "" {
		return "", fmt.Errorf("could not extract video id from link")
	}
	return "https://www.youtube.com/watch?v=" + id, nil
}
