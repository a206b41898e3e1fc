package websocket

import (
	"net/http"
	"testing"
)

func TestHandlerCheckOrigin(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, []string{"https://dash.example.com", "*.example.org"})

	cases := []struct {
		origin string
		want   bool
	}{
		{"https://dash.example.com", true},
		{"https://app.example.org", true},
		{"https://evil.example.net", false},
		{"", false},
	}
	for _, tc := range cases {
		req, err := http.NewRequest(http.MethodGet, "/ws/teststreamer", nil)
		if err != nil {
			t.Fatalf("NewRequest error: %v", err)
		}
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if got := h.upgrader.CheckOrigin(req); got != tc.want {
			t.Fatalf("CheckOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}
}

func TestHandlerCheckOriginOpenByDefault(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	req, err := http.NewRequest(http.MethodGet, "/ws/teststreamer", nil)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	req.Header.Set("Origin", "https://anywhere.example.com")
	if !h.upgrader.CheckOrigin(req) {
		t.Fatalf("empty allow list rejected an origin")
	}
}
