package harvester

// State is the lifecycle position of a run
type State int

const (
	Idle State = iota
	Fetching
	Running
	Completed
	Cancelled
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Fetching:
		return "Fetching"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition can happen from s
func (s State) Terminal() bool {
	return s == Completed || s == Cancelled || s == Aborted
}

// RunState holds the counters of one run. It is owned by the goroutine
// executing Run; observers receive copies.
type RunState struct {
	State     State
	Total     int
	Processed int
	Succeeded int
	Failed    int
}

// Remaining returns how many items have not been attempted
func (s RunState) Remaining() int {
	return s.Total - s.Processed
}
