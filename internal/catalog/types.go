// Package catalog provides a client for the remote song search API.
package catalog

// Album is the album a song belongs to.
type Album struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Artist represents a credited artist on a song.
type Artist struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Role  string         `json:"role"`
	Image []QualityAsset `json:"image"`
	Type  string         `json:"type"`
	URL   string         `json:"url"`
}

// ArtistCredits groups the artists credited on a song.
type ArtistCredits struct {
	Primary  []Artist `json:"primary"`
	Featured []Artist `json:"featured"`
	All      []Artist `json:"all"`
}

// QualityAsset is one quality tier of an image or audio asset.
// Lists are ordered low to high fidelity: index 0 is the smallest
// image / lowest bitrate, the last index the largest / highest.
type QualityAsset struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Song is a catalog song record. Songs are immutable once retrieved;
// identity is ID. The full record is stored verbatim when a song is
// copied into a playlist or the play history.
type Song struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            string         `json:"type"`
	Year            string         `json:"year"`
	ReleaseDate     *string        `json:"releaseDate"`
	Duration        int            `json:"duration"` // seconds
	Label           string         `json:"label"`
	ExplicitContent bool           `json:"explicitContent"`
	PlayCount       int            `json:"playCount"`
	Language        string         `json:"language"`
	HasLyrics       bool           `json:"hasLyrics"`
	LyricsID        *string        `json:"lyricsId"`
	URL             string         `json:"url"`
	Copyright       string         `json:"copyright"`
	Album           Album          `json:"album"`
	Artists         ArtistCredits  `json:"artists"`
	Image           []QualityAsset `json:"image"`
	DownloadURL     []QualityAsset `json:"downloadUrl"`
}

// StreamURL returns the playable URL at the highest available quality,
// falling back through lower tiers when a tier's URL is absent.
// Returns "" when no tier has a URL.
func (s Song) StreamURL() string {
	return bestAsset(s.DownloadURL)
}

// ImageURL returns the largest available image variant, or "".
func (s Song) ImageURL() string {
	return bestAsset(s.Image)
}

func bestAsset(assets []QualityAsset) string {
	for i := len(assets) - 1; i >= 0; i-- {
		if assets[i].URL != "" {
			return assets[i].URL
		}
	}
	return ""
}

// PrimaryArtist returns the display name of the song's primary artists,
// joined with ", ". Falls back to the full credit list when no primary
// artists are present.
func (s Song) PrimaryArtist() string {
	artists := s.Artists.Primary
	if len(artists) == 0 {
		artists = s.Artists.All
	}
	name := ""
	for _, a := range artists {
		if a.Name == "" {
			continue
		}
		if name != "" {
			name += ", "
		}
		name += a.Name
	}
	return name
}

// searchResponse is the raw envelope returned by the search endpoint.
type searchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Total   int    `json:"total"`
		Start   int    `json:"start"`
		Results []Song `json:"results"`
	} `json:"data"`
}
