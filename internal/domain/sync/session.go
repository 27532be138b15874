package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
)

// State is the lifecycle state of a Session.
type State string

// Session states.
const (
	StateIdle      State = "idle"
	StatePlanning  State = "planning"
	StatePlanned   State = "planned"
	StateExecuting State = "executing"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Session events.
const (
	EventPlan     = "PLAN"
	EventPlanned  = "PLANNED"
	EventExecute  = "EXECUTE"
	EventComplete = "COMPLETE"
	EventFail     = "FAIL"
	EventReset    = "RESET"
)

// ErrInvalidTransition is returned when a session step is out of order.
var ErrInvalidTransition = errors.New("invalid sync session transition")

// SessionContext holds what a Session has produced so far.
type SessionContext struct {
	Plan   *Plan
	Result *Result
	Err    error
}

// Session drives one sync through planning and execution.
type Session struct {
	planner  *Planner
	executor *Executor
	ctx      *SessionContext
	interp   *statekit.Interpreter[SessionContext]
}

// NewSession creates a Session in the idle state.
func NewSession(fs ports.FileSystem, logger ports.Logger) (*Session, error) {
	machine, err := statekit.NewMachine[SessionContext]("plm-sync").
		WithInitial("idle").
		WithContext(SessionContext{}).
		State("idle").
		On(EventPlan).Target("planning").Done().
		State("planning").
		On(EventPlanned).Target("planned").
		On(EventFail).Target("failed").Done().
		State("planned").
		On(EventExecute).Target("executing").Done().
		State("executing").
		On(EventComplete).Target("completed").
		On(EventFail).Target("failed").Done().
		State("completed").
		On(EventReset).Target("idle").Done().
		State("failed").
		On(EventReset).Target("idle").Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("building sync session: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &Session{
		planner:  NewPlanner(fs),
		executor: NewExecutor(fs, logger),
		ctx:      &SessionContext{},
		interp:   interp,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.interp.State().Value)
}

// Plan computes the plan and moves the session to planned, or to failed
// when planning errors.
func (s *Session) Plan(from, to target.Target, roots placement.Roots, opts Options) (*Plan, error) {
	if s.State() != StateIdle {
		return nil, fmt.Errorf("%w: plan from %s", ErrInvalidTransition, s.State())
	}
	s.interp.Send(statekit.Event{Type: EventPlan})

	plan, err := s.planner.Plan(from, to, roots, opts)
	if err != nil {
		s.ctx.Err = err
		s.interp.Send(statekit.Event{Type: EventFail, Payload: err})
		return nil, err
	}
	s.ctx.Plan = plan
	s.interp.Send(statekit.Event{Type: EventPlanned})
	return plan, nil
}

// Execute applies the planned items. A result with failures moves the
// session to failed; the result is returned either way.
func (s *Session) Execute(ctx context.Context) (*Result, error) {
	if s.State() != StatePlanned {
		return nil, fmt.Errorf("%w: execute from %s", ErrInvalidTransition, s.State())
	}
	s.interp.Send(statekit.Event{Type: EventExecute})

	result := s.executor.Execute(ctx, s.ctx.Plan)
	s.ctx.Result = result
	if err := result.Err(); err != nil {
		s.ctx.Err = err
		s.interp.Send(statekit.Event{Type: EventFail, Payload: err})
		return result, nil
	}
	s.interp.Send(statekit.Event{Type: EventComplete})
	return result, nil
}

// Run plans and executes in one step.
func (s *Session) Run(ctx context.Context, from, to target.Target, roots placement.Roots, opts Options) (*Result, error) {
	if _, err := s.Plan(from, to, roots, opts); err != nil {
		return nil, err
	}
	return s.Execute(ctx)
}

// Err returns the error that failed the session, if any.
func (s *Session) Err() error {
	return s.ctx.Err
}

// Reset returns a finished session to idle so it can plan again.
func (s *Session) Reset() error {
	switch s.State() {
	case StateCompleted, StateFailed:
	default:
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, s.State())
	}
	s.interp.Send(statekit.Event{Type: EventReset})
	*s.ctx = SessionContext{}
	return nil
}

// Stop releases the state machine.
func (s *Session) Stop() {
	s.interp.Stop()
}
