package reactor

// Phase is the operating mode of a batch reactor
type Phase string

const (
	// PhaseInitial is the mode after deployment, before the first full core
	PhaseInitial Phase = "INITIAL"

	// PhaseProcessing means a full core is irradiating
	PhaseProcessing Phase = "PROCESSING"

	// PhaseWaiting means the last run ended and the core waits for fuel or refuel time
	PhaseWaiting Phase = "WAITING"
)

// Label returns the human-readable description of the phase
func (p Phase) Label() string {
	switch p {
	case PhaseInitial:
		return "initialization"
	case PhaseProcessing:
		return "processing batch(es)"
	case PhaseWaiting:
		return "waiting for fuel"
	default:
		return "unknown phase"
	}
}

func (p Phase) String() string {
	return string(p)
}

// IsValid checks if the phase is one of the known phases
func (p Phase) IsValid() bool {
	switch p {
	case PhaseInitial, PhaseProcessing, PhaseWaiting:
		return true
	default:
		return false
	}
}
