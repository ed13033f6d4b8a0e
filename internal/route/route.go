// Package route builds and reads the navigation paths that hand an album
// over to a player screen.
package route

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/albumshelf/internal/domain"
)

// Player paths per media kind.
const (
	VideoPlayerPath = "/play"
	AudioPlayerPath = "/audio_play"
)

// Route is a request to open the player for one album.
type Route struct {
	Kind    domain.MediaKind
	AlbumID string
	Episode int
}

// ForAlbum routes to the first episode of an album.
func ForAlbum(kind domain.MediaKind, albumID string) Route {
	return Route{Kind: kind, AlbumID: albumID, Episode: 0}
}

// Path returns the player path for the route's kind.
func (r Route) Path() string {
	if r.Kind == domain.KindAudio {
		return AudioPlayerPath
	}
	return VideoPlayerPath
}

// String renders the route as path plus query, e.g. /play?album=42&ep=0.
func (r Route) String() string {
	q := url.Values{}
	q.Set("album", r.AlbumID)
	q.Set("ep", strconv.Itoa(r.Episode))
	return r.Path() + "?" + q.Encode()
}

// Parse reads a route back. Only the presence of the parameters is checked;
// whether the album exists is the player's concern.
func Parse(s string) (Route, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %w", domain.ErrInvalidRoute, err)
	}

	var r Route
	switch u.Path {
	case VideoPlayerPath:
		r.Kind = domain.KindVideo
	case AudioPlayerPath:
		r.Kind = domain.KindAudio
	default:
		return Route{}, fmt.Errorf("%w: unknown path %q", domain.ErrInvalidRoute, u.Path)
	}

	q := u.Query()
	r.AlbumID = q.Get("album")
	if r.AlbumID == "" {
		return Route{}, fmt.Errorf("%w: missing album", domain.ErrInvalidRoute)
	}
	if ep := q.Get("ep"); ep != "" {
		n, err := strconv.Atoi(ep)
		if err != nil {
			return Route{}, fmt.Errorf("%w: bad episode %q", domain.ErrInvalidRoute, ep)
		}
		r.Episode = n
	}
	return r, nil
}
