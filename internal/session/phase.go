package session

// Phase is the current step of the recitation state machine.
type Phase int

const (
	PhaseSetup      Phase = iota // Choosing chunks and level
	PhasePractice                // Recording the current chunk
	PhaseProcessing              // Waiting on transcription
	PhaseCorrection              // Reviewing the aligned words
	PhaseResults                 // Run finished, scores available
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePractice:
		return "practice"
	case PhaseProcessing:
		return "processing"
	case PhaseCorrection:
		return "correction"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}
