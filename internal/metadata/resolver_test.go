package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeVideoLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"watch form", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"embed form", "https://www.youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"shorts form", "https://youtube.com/shorts/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"extra params dropped", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"whitespace trimmed", "  https://youtu.be/dQw4w9WgXcQ  ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"non-youtube passthrough", "https://soundcloud.com/artist/track", "https://soundcloud.com/artist/track"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeVideoLink(tt.in)
			if err != nil {
				t.Fatalf("NormalizeVideoLink(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeVideoLink(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeVideoLinkInvalid(t *testing.T) {
	for _, in := range []string{
		"https://www.youtube.com/watch",
		"https://youtu.be/",
	} {
		if _, err := NormalizeVideoLink(in); err == nil {
			t.Fatalf("NormalizeVideoLink(%q) accepted, want error", in)
		}
	}
}

func TestResolveVideoMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "" {
			http.Error(w, "missing url", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Never Gonna Give You Up","author_name":"Rick Astley"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), srv.URL)
	meta, err := r.ResolveVideoMetadata("https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ResolveVideoMetadata error: %v", err)
	}
	if meta.Title != "Never Gonna Give You Up" {
		t.Fatalf("title = %q", meta.Title)
	}
	if meta.AuthorName != "Rick Astley" {
		t.Fatalf("author = %q", meta.AuthorName)
	}
}

func TestResolveVideoMetadataUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), srv.URL)
	if _, err := r.ResolveVideoMetadata("https://youtu.be/doesnotexist"); err == nil {
		t.Fatalf("upstream 404 did not error")
	}
}
