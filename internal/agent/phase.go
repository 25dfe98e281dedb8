package agent

// Phase is the position of the agent within a turn.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingUserIntent
	PhaseBuildingPrompt
	PhaseStreamingResponse
	PhasePostProcessing
	PhaseDone
	PhaseCheckingSummary
	PhasePersisting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingUserIntent:
		return "awaiting_user_intent"
	case PhaseBuildingPrompt:
		return "building_prompt"
	case PhaseStreamingResponse:
		return "streaming_response"
	case PhasePostProcessing:
		return "post_processing"
	case PhaseDone:
		return "done"
	case PhaseCheckingSummary:
		return "checking_summary"
	case PhasePersisting:
		return "persisting"
	default:
		return "unknown"
	}
}
