package youtube

import (
	"net/url"
	"regexp"
	"strings"

	"ytworkout/errors"
)

// videoIDRE matches the 11-character identifier YouTube assigns to videos.
var videoIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ResolveVideoID extracts the video identifier from a YouTube URL.
// Supported forms: watch?v=, youtu.be/, embed/, shorts/, live/, v/.
// Resolution is deterministic for a given input.
func ResolveVideoID(rawURL string) (string, error) {
	const op = "youtube.ResolveVideoID"

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", errors.InvalidURL(op, err, "Invalid URL format")
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch {
	case host == "youtu.be":
		id = firstPathSegment(parsed.Path)
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if v := parsed.Query().Get("v"); v != "" {
			id = v
			break
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				id = firstPathSegment(strings.TrimPrefix(parsed.Path, prefix))
				break
			}
		}
	default:
		return "", errors.InvalidURL(op, nil, "Only YouTube URLs are supported")
	}

	if !videoIDRE.MatchString(id) {
		return "", errors.InvalidURL(op, nil, "Could not extract a video ID from the URL")
	}
	return id, nil
}

func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
