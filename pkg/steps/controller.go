// Package steps layers step gating over a session: forward navigation
// requires the current step's fields to validate, backward navigation is
// unconditional, and the final step exposes a review projection recomputed on
// every visit.
package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/session"
)

// ErrNotAtFinalStep signals a Submit call before the controller reached the
// review step.
var ErrNotAtFinalStep = errors.New("steps: submit requires the final step")

// Controller decorates a session with step-local gating. It shares the
// session's field state rather than keeping its own copy.
type Controller struct {
	session *session.Session
	steps   int
	current int
}

// New wraps an existing session. The step count comes from the bound form.
func New(sess *session.Session) (*Controller, error) {
	if sess == nil {
		return nil, errors.New("steps: session is required")
	}
	return &Controller{
		session: sess,
		steps:   sess.Form().StepCount(),
		current: 1,
	}, nil
}

// Session exposes the underlying session for value plumbing.
func (c *Controller) Session() *session.Session {
	return c.session
}

// Current returns the active step, in [1, Steps].
func (c *Controller) Current() int {
	return c.current
}

// Steps returns the total step count.
func (c *Controller) Steps() int {
	return c.steps
}

// AtFinalStep reports whether the controller sits on the review step.
func (c *Controller) AtFinalStep() bool {
	return c.current == c.steps
}

// ValidateStep validates every field belonging to step, updating each field's
// state so errors become visible. All fields run; no short-circuit.
func (c *Controller) ValidateStep(step int) bool {
	valid := true
	for _, field := range c.session.Form().StepFields(step) {
		if !c.session.ValidateField(field.Name) {
			valid = false
		}
	}
	return valid
}

// GoTo moves to target. Forward moves are gated on the current step
// validating; a failed gate leaves the controller in place and returns false
// with the per-field errors already surfaced. Backward moves always succeed
// and run no validation. Out-of-range targets are rejected.
func (c *Controller) GoTo(target int) bool {
	if target < 1 || target > c.steps || target == c.current {
		return false
	}
	if target > c.current {
		for step := c.current; step < target; step++ {
			if !c.ValidateStep(step) {
				return false
			}
			c.current = step + 1
		}
		return true
	}
	c.current = target
	return true
}

// Next advances one step, subject to the forward gate.
func (c *Controller) Next() bool {
	return c.GoTo(c.current + 1)
}

// Back retreats one step unconditionally.
func (c *Controller) Back() bool {
	return c.GoTo(c.current - 1)
}

// Submit delegates to the session once the review step is active. A rejected
// submission keeps the controller at the review step; success resets it to
// step 1 alongside the session's own reset.
func (c *Controller) Submit(ctx context.Context) (session.SubmissionResult, error) {
	if !c.AtFinalStep() {
		return session.SubmissionResult{}, fmt.Errorf("%w: at step %d of %d", ErrNotAtFinalStep, c.current, c.steps)
	}

	result, err := c.session.Submit(ctx)
	if err != nil {
		return result, err
	}
	c.current = 1
	return result, nil
}
