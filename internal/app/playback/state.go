// Package playback provides the preview playback controller.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No track loaded
	StateLoading              // Source acquired, metadata not yet available
	StatePlaying              // Track is playing
	StatePaused               // Track is paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
