package notify

import "github.com/vjsonic/sonic/internal/catalog"

// nowPlayingTimeout is how long a track notification stays visible.
const nowPlayingTimeout int32 = 5000

// NowPlaying builds a notification announcing the song. replacesID
// chains successive track notifications so they update in place.
func NowPlaying(song catalog.Song, replacesID uint32) Notification {
	body := song.PrimaryArtist()
	if album := song.Album.Name; album != "" {
		if body != "" {
			body += " • " + album
		} else {
			body = album
		}
	}
	return Notification{
		Title:      song.Name,
		Body:       body,
		Timeout:    nowPlayingTimeout,
		ReplacesID: replacesID,
		Urgency:    UrgencyLow,
	}
}
