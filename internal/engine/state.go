package engine

// State is the engine's position in its single run.
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateGenerating
	StateFinishing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateGenerating:
		return "generating"
	case StateFinishing:
		return "finishing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
