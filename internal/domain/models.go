package domain

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// MediaMetadata contains information about the currently playing media
type MediaMetadata struct {
	// Title of the currently playing track
	Title string
	// Artist name
	Artist string
	// Album name
	Album string
	// ArtUrl is the URL or local path to the album artwork
	ArtUrl string
	// Status is the current playback status
	Status PlayerStatus
}

// WallpaperEntry is one image file in the wallpaper directory.
// Entries are recomputed from disk on every invocation.
type WallpaperEntry struct {
	// Path is the absolute file path
	Path string
	// Name is the file name including extension
	Name string
	// Number is the numeric tag derived from the file name
	Number int
	// DisplayNumber is the 1-based position in the sorted ordering
	DisplayNumber int
}

// CycleState is the durable pointer to the active wallpaper
type CycleState struct {
	Index int    `yaml:"index"`
	Path  string `yaml:"path"`
}

// Sink is an audio output endpoint as reported by pactl
type Sink struct {
	Index string
	Name  string
}

// Command describes a single external program invocation
type Command struct {
	Name  string
	Args  []string
	Stdin string
}
