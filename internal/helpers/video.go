package helpers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"contentagent/models"
)

// videoIDPattern matches the canonical 11-character YouTube video id.
var videoIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// videoHosts are hostnames we accept video references from.
var videoHosts = map[string]bool{
	"youtube.com":          true,
	"youtu.be":             true,
	"youtube-nocookie.com": true,
}

// ParseVideoID resolves a raw video reference to its 11-character id.
// Accepted shapes:
//
//	https://www.youtube.com/watch?v=ID
//	https://youtu.be/ID
//	https://www.youtube.com/embed/ID
//	https://www.youtube.com/shorts/ID
//	ID (bare id)
//
// Every other shape is rejected.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty reference", models.ErrInvalidVideoReference)
	}
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidVideoReference, err)
	}
	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
	host = strings.TrimPrefix(host, "m.")
	if !videoHosts[host] {
		return "", fmt.Errorf("%w: unrecognised host %q", models.ErrInvalidVideoReference, parsed.Hostname())
	}

	var candidate string
	switch {
	case host == "youtu.be":
		candidate = firstPathSegment(parsed.Path)
	case strings.HasPrefix(parsed.Path, "/watch"):
		candidate = parsed.Query().Get("v")
	case strings.HasPrefix(parsed.Path, "/embed/"):
		candidate = firstPathSegmentAfter(parsed.Path, "/embed/")
	case strings.HasPrefix(parsed.Path, "/shorts/"):
		candidate = firstPathSegmentAfter(parsed.Path, "/shorts/")
	case strings.HasPrefix(parsed.Path, "/live/"):
		candidate = firstPathSegmentAfter(parsed.Path, "/live/")
	default:
		return "", fmt.Errorf("%w: unsupported URL shape %q", models.ErrInvalidVideoReference, parsed.Path)
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", fmt.Errorf("%w: no 11-character id in %q", models.ErrInvalidVideoReference, raw)
	}
	return candidate, nil
}

// WatchURL builds the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func firstPathSegment(p string) string {
	return firstPathSegmentAfter(p, "/")
}

func firstPathSegmentAfter(p, prefix string) string {
	rest := strings.TrimPrefix(p, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
