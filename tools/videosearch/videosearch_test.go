package videosearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contentagent/tools"
)

const sampleResponse = `{
  "items": [
    {
      "id": {"videoId": "dQw4w9WgXcQ"},
      "snippet": {"title": "A Video", "description": "about things", "channelTitle": "Chan"}
    },
    {
      "id": {},
      "snippet": {"title": "A Playlist", "description": "skipped"}
    }
  ]
}`

func newTestSearch(t *testing.T, handler http.HandlerFunc) *Search {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := New("test-key")
	s.BaseURL = srv.URL
	s.HTTPClient = srv.Client()
	return s
}

func TestDiscover(t *testing.T) {
	t.Parallel()
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "video" {
			t.Errorf("type = %q, want video", q.Get("type"))
		}
		if q.Get("maxResults") != "10" {
			t.Errorf("maxResults = %q, want clamped 10", q.Get("maxResults"))
		}
		w.Write([]byte(sampleResponse))
	})

	results, err := s.Discover(context.Background(), "golang talks", 25)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (non-video items skipped): %+v", len(results), results)
	}
	if results[0].URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("URL = %q", results[0].URL)
	}
	if !strings.Contains(results[0].Snippet, "by Chan") {
		t.Errorf("snippet missing channel: %q", results[0].Snippet)
	}
}

func TestDiscoverErrors(t *testing.T) {
	t.Parallel()
	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()
		_, err := New("").Discover(context.Background(), "golang", 5)
		terr, ok := err.(*tools.Error)
		if !ok || terr.Kind != tools.KindInvalidInput {
			t.Fatalf("err = %v, want invalid-input tools.Error", err)
		}
		if !strings.Contains(terr.Message, "YOUTUBE_API_KEY") {
			t.Fatalf("message %q does not name the variable", terr.Message)
		}
	})
	t.Run("zero results requested", func(t *testing.T) {
		t.Parallel()
		s := newTestSearch(t, func(http.ResponseWriter, *http.Request) {
			t.Error("unexpected request")
		})
		_, err := s.Discover(context.Background(), "golang", 0)
		terr, ok := err.(*tools.Error)
		if !ok || terr.Kind != tools.KindInvalidInput {
			t.Fatalf("err = %v, want invalid-input tools.Error", err)
		}
	})
	t.Run("quota error", func(t *testing.T) {
		t.Parallel()
		s := newTestSearch(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"code": 403, "message": "quotaExceeded"}}`))
		})
		_, err := s.Discover(context.Background(), "golang", 5)
		terr, ok := err.(*tools.Error)
		if !ok || terr.Kind != tools.KindUpstream {
			t.Fatalf("err = %v, want upstream tools.Error", err)
		}
		if !strings.Contains(terr.Message, "quotaExceeded") {
			t.Fatalf("message %q missing upstream detail", terr.Message)
		}
	})
}
