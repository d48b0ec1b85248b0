// Package session - Line-oriented quoting session
// A small state machine that drives the prompt/retry loop of a terminal
// front end. It performs no I/O: callers print Prompt() and feed each
// line the user types to Handle.
package session

import (
	"fmt"
	"strings"

	"wc-rating/core/rating"
	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// State is a session state
type State string

const (
	StateAwaitCode    State = "await_code"
	StateAwaitPayroll State = "await_payroll"
	StateConfirm      State = "confirm"
	StateDone         State = "done"
)

// QuitToken ends the session from any prompt
const QuitToken = "QUIT"

// Outcome describes what a single line of input did
type Outcome struct {
	// From and To are the states before and after the line
	From State
	To   State

	// Result is set when the line completed a quote
	Result *types.RatingResult

	// Err is set when the line was rejected; the session stays usable
	Err error

	// Quit is set when the user typed the quit token
	Quit bool
}

// Session is a single user's prompt loop
type Session struct {
	calc  *rating.Calculator
	state State
	code  string

	// Quotes counts completed computations
	Quotes int
}

// New starts a session in StateAwaitCode
func New(calc *rating.Calculator) *Session {
	return &Session{calc: calc, state: StateAwaitCode}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Done reports whether the session has finished
func (s *Session) Done() bool {
	return s.state == StateDone
}

// Prompt returns the text to show for the current state
func (s *Session) Prompt() string {
	switch s.state {
	case StateAwaitCode:
		return "Enter Class Code: "
	case StateAwaitPayroll:
		return "Enter Annual Payroll (Total $): "
	case StateConfirm:
		return "Perform another calculation? (Y/N): "
	}
	return ""
}

// Handle consumes one line of user input and advances the state machine
func (s *Session) Handle(line string) Outcome {
	from := s.state
	token := strings.ToUpper(strings.TrimSpace(line))

	if s.state == StateDone {
		return Outcome{From: from, To: from, Err: errors.Input("session is finished")}
	}
	if token == QuitToken {
		s.state = StateDone
		return Outcome{From: from, To: s.state, Quit: true}
	}

	switch s.state {
	case StateAwaitCode:
		if _, ok := s.calc.Plan().Lookup(token); !ok {
			return Outcome{From: from, To: s.state, Err: errors.InvalidClassCode(token)}
		}
		s.code = token
		s.state = StateAwaitPayroll
		return Outcome{From: from, To: s.state}

	case StateAwaitPayroll:
		payroll, err := rating.ParsePayroll(token)
		if err != nil {
			s.reset()
			return Outcome{From: from, To: s.state, Err: err}
		}
		result, err := s.calc.Compute(s.calc.Plan().NewInput(s.code, payroll))
		if err != nil {
			s.reset()
			return Outcome{From: from, To: s.state, Err: err}
		}
		s.Quotes++
		s.state = StateConfirm
		return Outcome{From: from, To: s.state, Result: result}

	case StateConfirm:
		if token == "Y" || token == "YES" {
			s.reset()
		} else {
			s.state = StateDone
		}
		return Outcome{From: from, To: s.state}
	}

	return Outcome{From: from, To: s.state, Err: errors.Internal(fmt.Sprintf("unknown session state %q", s.state), nil)}
}

// reset returns to the class code prompt, like restarting the loop
func (s *Session) reset() {
	s.code = ""
	s.state = StateAwaitCode
}
