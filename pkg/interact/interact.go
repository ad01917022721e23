// Package interact implements the hover, selection and drag state machine.
//
// [Transition] is a pure function from a [State] and an [Event] to the next
// state plus the side effects the host must carry out, expressed as
// [Command] values. The package never touches a simulator, a renderer or a
// panel itself.
//
// While a drag is in progress, hover and click events only update
// bookkeeping and never change the highlight, not even when the drag ends.
package interact

import "github.com/matzehuels/netscope/pkg/geom"

// State is the interaction state. An empty id means "none".
type State struct {
	Selected   string `json:"selected,omitempty"`
	Hovering   string `json:"hovering,omitempty"`
	DragTarget string `json:"drag_target,omitempty"`
	Dragging   bool   `json:"dragging"`
}

// Idle is the initial state.
var Idle = State{}

// Target returns the node that should be highlighted in s when no drag is
// in progress: the hovered node, else the selected one.
func (s State) Target() string {
	if s.Hovering != "" {
		return s.Hovering
	}
	return s.Selected
}

// Event is an input to the state machine.
type Event interface{ isEvent() }

// Events. Positions are world coordinates.
type (
	PointerEnter    struct{ Node string }
	PointerExit     struct{ Node string }
	NodeClick       struct{ Node string }
	BackgroundClick struct{}
	DragStart       struct {
		Node string
		At   geom.Point
	}
	DragMove struct{ At geom.Point }
	DragEnd  struct{}
)

func (PointerEnter) isEvent()    {}
func (PointerExit) isEvent()     {}
func (NodeClick) isEvent()       {}
func (BackgroundClick) isEvent() {}
func (DragStart) isEvent()       {}
func (DragMove) isEvent()        {}
func (DragEnd) isEvent()         {}

// Command is a side effect requested by a transition.
type Command interface{ isCommand() }

// Commands.
type (
	// Highlight makes Target the highlighted node; "" clears the highlight.
	Highlight struct{ Target string }
	// Pin fixes Node at the world position At.
	Pin struct {
		Node string
		At   geom.Point
	}
	// Unpin clears the pin on Node.
	Unpin struct{ Node string }
	// Boost raises the simulator energy to its working level.
	Boost struct{}
	// Release lets the simulator energy decay.
	Release struct{}
)

func (Highlight) isCommand() {}
func (Pin) isCommand()       {}
func (Unpin) isCommand()     {}
func (Boost) isCommand()     {}
func (Release) isCommand()   {}

// Result is the outcome of a transition.
type Result struct {
	State    State
	Commands []Command
	// StopPropagation is set for node clicks; a host that also dispatches
	// background clicks for the same pointer event must drop them.
	StopPropagation bool
}

// Transition returns the next state and the commands to execute.
func Transition(s State, ev Event) (State, []Command) {
	r := Step(s, ev)
	return r.State, r.Commands
}

// Step is Transition with propagation information.
func Step(s State, ev Event) Result {
	switch ev := ev.(type) {
	case PointerEnter:
		s.Hovering = ev.Node
		if s.Dragging {
			return Result{State: s}
		}
		return Result{State: s, Commands: []Command{Highlight{Target: ev.Node}}}

	case PointerExit:
		if s.Hovering == ev.Node {
			s.Hovering = ""
		}
		if s.Dragging {
			return Result{State: s}
		}
		return Result{State: s, Commands: []Command{Highlight{Target: s.Selected}}}

	case NodeClick:
		if s.Dragging {
			s.Hovering = ev.Node
			return Result{State: s, StopPropagation: true}
		}
		s.Selected = ev.Node
		return Result{
			State:           s,
			Commands:        []Command{Highlight{Target: ev.Node}},
			StopPropagation: true,
		}

	case BackgroundClick:
		s.Selected = ""
		if s.Dragging {
			return Result{State: s}
		}
		return Result{State: s, Commands: []Command{Highlight{Target: ""}}}

	case DragStart:
		var cmds []Command
		if s.Dragging && s.DragTarget != ev.Node {
			cmds = append(cmds, Unpin{Node: s.DragTarget})
		}
		s.Dragging = true
		s.DragTarget = ev.Node
		cmds = append(cmds, Pin{Node: ev.Node, At: ev.At}, Boost{})
		return Result{State: s, Commands: cmds}

	case DragMove:
		if !s.Dragging {
			return Result{State: s}
		}
		return Result{State: s, Commands: []Command{Pin{Node: s.DragTarget, At: ev.At}}}

	case DragEnd:
		if !s.Dragging {
			return Result{State: s}
		}
		cmds := []Command{Unpin{Node: s.DragTarget}, Release{}}
		s.Dragging = false
		s.DragTarget = ""
		return Result{State: s, Commands: cmds}
	}
	return Result{State: s}
}
