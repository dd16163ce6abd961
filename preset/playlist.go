package preset

import "sort"

// DefaultPlaylist is used for any cap stored without a playlist.
const DefaultPlaylist = "lofi"

// Playlist lists the tracks the front end's music player cycles through.
type Playlist struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Tracks []string `json:"tracks"`
}

var playlists = map[string]Playlist{
	"lofi": {
		Key:   "lofi",
		Title: "Lofi",
		Tracks: []string{
			"audio/lofi/lofi-background.mp3",
			"audio/lofi/good-night-lofi-cozy-chill-music-160166.mp3",
			"audio/lofi/lofi-piano-beat-305563.mp3",
		},
	},
	"techno": {
		Key:    "techno",
		Title:  "Techno",
		Tracks: []string{"audio/techno/techno-background.mp3"},
	},
}

// IsPlaylist reports whether key names a known playlist.
func IsPlaylist(key string) bool {
	_, ok := playlists[key]
	return ok
}

// Playlists returns the catalog sorted by key.
func Playlists() []Playlist {
	out := make([]Playlist, 0, len(playlists))
	for _, p := range playlists {
		tracks := make([]string, len(p.Tracks))
		copy(tracks, p.Tracks)
		p.Tracks = tracks
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
