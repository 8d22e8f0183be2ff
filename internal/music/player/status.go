package player

// State is the playback state of one engine.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// PlayerStatus names the operation that produced a notification.
type PlayerStatus string

const (
	StatusPlaying      PlayerStatus = "Playing"
	StatusAdded        PlayerStatus = "Track(s) Added"
	StatusFinished     PlayerStatus = "Track Finished"
	StatusStopped      PlayerStatus = "Playback Stopped"
	StatusPaused       PlayerStatus = "Playback Paused"
	StatusResumed      PlayerStatus = "Playback Resumed"
	StatusVolume       PlayerStatus = "Volume Changed"
	StatusDisconnected PlayerStatus = "Disconnected"
	StatusError        PlayerStatus = "Error"
)

func (status PlayerStatus) StringEmoji() string {
	m := map[PlayerStatus]string{
		StatusPlaying:      "▶️",
		StatusAdded:        "🎶",
		StatusFinished:     "⏭️",
		StatusStopped:      "⏹",
		StatusPaused:       "⏸",
		StatusResumed:      "▶️",
		StatusVolume:       "🔊",
		StatusDisconnected: "👋",
		StatusError:        "❌",
	}
	return m[status]
}

// Snapshot is the observable state of an engine at one point in time.
type Snapshot struct {
	GuildID  string
	Status   PlayerStatus
	Track    *Track // nil when idle
	State    State
	Volume   float64
	QueueLen int
	Err      error // set with StatusError
}

// VolumePercent returns Volume as an integer percentage.
func (s Snapshot) VolumePercent() int {
	return int(s.Volume*100 + 0.5)
}

// Observer is told about every observable state change of an engine. Calls
// for one engine arrive in order on a single goroutine that is not the
// playback loop; a slow observer delays only later notifications.
type Observer interface {
	Notify(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) Notify(s Snapshot) { f(s) }
