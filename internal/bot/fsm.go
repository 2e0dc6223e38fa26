package bot

import "fmt"

// State is a step of the land-plot form. It is persisted in the chat session.
type State string

const (
	StateIdle                     State = "idle"
	StateCollectingArea           State = "collecting_area"
	StateCollectingZone           State = "collecting_zone"
	StateCollectingInfrastructure State = "collecting_infrastructure"
	StateCollectingPower          State = "collecting_power"
	StateCollectingBudget         State = "collecting_budget"
	StateDone                     State = "done"
)

type Event string

const (
	EventStart  Event = "start"
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventCancel Event = "cancel"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventStart:  StateCollectingArea,
		EventCancel: StateIdle,
	},
	StateCollectingArea: {
		EventStart:  StateCollectingArea,
		EventNext:   StateCollectingZone,
		EventBack:   StateIdle,
		EventCancel: StateIdle,
	},
	StateCollectingZone: {
		EventStart:  StateCollectingArea,
		EventNext:   StateCollectingInfrastructure,
		EventBack:   StateCollectingArea,
		EventCancel: StateIdle,
	},
	StateCollectingInfrastructure: {
		EventStart:  StateCollectingArea,
		EventNext:   StateCollectingPower,
		EventBack:   StateCollectingZone,
		EventCancel: StateIdle,
	},
	StateCollectingPower: {
		EventStart:  StateCollectingArea,
		EventNext:   StateCollectingBudget,
		EventBack:   StateCollectingInfrastructure,
		EventCancel: StateIdle,
	},
	StateCollectingBudget: {
		EventStart:  StateCollectingArea,
		EventNext:   StateDone,
		EventBack:   StateCollectingPower,
		EventCancel: StateIdle,
	},
	StateDone: {
		EventStart:  StateCollectingArea,
		EventCancel: StateIdle,
	},
}

// Transition returns the state reached from s on e.
func Transition(s State, e Event) (State, error) {
	next, ok := transitions[s][e]
	if !ok {
		return s, fmt.Errorf("no transition from %q on %q", s, e)
	}
	return next, nil
}

// parseState maps a stored session state onto a known State; unknown or empty
// values count as idle.
func parseState(raw string) State {
	s := State(raw)
	if _, ok := transitions[s]; ok {
		return s
	}
	return StateIdle
}
