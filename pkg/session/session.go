// Package session binds a form definition to live values, tracks per-field
// validity, and drives submission. A session is owned by one host goroutine;
// the internal mutex exists so message auto-hide timers and Close remain safe
// against that owner, not to support concurrent callers.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// FieldState is the mutable validity record tracked per field. LastError
// holds the message currently visible to the user; clearing on input wipes
// the message without re-validating.
type FieldState struct {
	Valid     bool
	LastError string
}

var (
	// ErrValidation signals that Submit aborted because one or more fields
	// failed validation. Field-level messages are on the states.
	ErrValidation = errors.New("session: validation failed")
	// ErrSubmissionInFlight signals a Submit call while one is running.
	ErrSubmissionInFlight = errors.New("session: submission already in flight")
	// ErrClosed signals use after Close.
	ErrClosed = errors.New("session: closed")
	// ErrUnknownField signals a value operation against an undeclared field.
	ErrUnknownField = errors.New("session: unknown field")
)

const (
	genericErrorMessage   = "Please correct the errors below and try again."
	genericFailureMessage = "Submission failed. Please try again."
)

// Session is the live binding of one form.
type Session struct {
	mu sync.Mutex

	form      schema.Form
	eval      *validate.Evaluator
	values    map[string]string
	states    map[string]*FieldState
	announcer Announcer
	loading   LoadingIndicator
	submitter Submitter
	drafts    draft.Store
	timers    *timerRegistry

	submitting  bool
	closed      bool
	formMessage string
	messageTTL  time.Duration
}

// New binds form and applies options. The form is validated, field states
// are seeded, and any stored draft is restored into non-password fields.
func New(form schema.Form, options ...Option) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		form:       form,
		values:     make(map[string]string, len(form.Fields)),
		states:     make(map[string]*FieldState, len(form.Fields)),
		announcer:  NopAnnouncer{},
		loading:    NopLoading{},
		timers:     newTimerRegistry(),
		messageTTL: 5 * time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.eval == nil {
		s.eval = validate.New()
	}
	if s.submitter == nil {
		s.submitter = NewSimulatedProcessor(0, 0)
	}

	for _, field := range form.Fields {
		s.states[field.Name] = &FieldState{Valid: true}
	}

	s.restoreDraft()
	return s, nil
}

// Form returns the bound definition.
func (s *Session) Form() schema.Form {
	return s.form
}

// Value returns the current value for name.
func (s *Session) Value(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

// Values returns a snapshot of all current values.
func (s *Session) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetValue stores a value without touching validity state.
func (s *Session) SetValue(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.form.Field(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.values[name] = value
	return nil
}

// Input records a value change from the host. A previously invalid field has
// its visible error cleared without re-validating, matching the
// clear-on-input trigger. The draft cache is refreshed as a side effect.
func (s *Session) Input(name, value string) error {
	s.mu.Lock()
	if _, ok := s.form.Field(name); !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.values[name] = value
	if state := s.states[name]; state != nil && !state.Valid {
		state.LastError = ""
	}
	s.mu.Unlock()

	s.saveDraft()
	return nil
}

// Blur runs validate-on-blur for the named field.
func (s *Session) Blur(name string) bool {
	return s.ValidateField(name)
}

// ValidateField evaluates the field's rule set against its current value,
// updates FieldState, and announces the error message when invalid.
func (s *Session) ValidateField(name string) bool {
	s.mu.Lock()
	valid, message := s.validateFieldLocked(name)
	s.mu.Unlock()

	if !valid && message != "" {
		s.announcer.Announce(message)
	}
	return valid
}

// ValidateAll validates every bound field in declaration order. Every field's
// state is refreshed even after a failure so the host can surface all errors
// at once.
func (s *Session) ValidateAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateAllLocked()
}

// State returns a copy of the named field's state.
func (s *Session) State(name string) (FieldState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[name]
	if !ok {
		return FieldState{}, false
	}
	return *state, true
}

// FirstInvalid returns the first field, in declaration order, whose state is
// invalid. Hosts use it to move focus after a failed submit.
func (s *Session) FirstInvalid() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, field := range s.form.Fields {
		if state := s.states[field.Name]; state != nil && !state.Valid {
			return field.Name, true
		}
	}
	return "", false
}

// FormMessage returns the current top-level success/failure text.
func (s *Session) FormMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formMessage
}

// Submit validates everything and, if clean, runs the injected Submitter.
// Exactly one submission may be in flight; a second call is rejected with
// ErrSubmissionInFlight before any state changes. On success field values and
// states reset and the draft is cleared; on rejection everything is left for
// the user to retry.
func (s *Session) Submit(ctx context.Context) (SubmissionResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SubmissionResult{}, ErrClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return SubmissionResult{}, ErrSubmissionInFlight
	}

	if !s.validateAllLocked() {
		s.formMessage = genericErrorMessage
		s.mu.Unlock()
		s.announcer.Announce(genericErrorMessage)
		return SubmissionResult{}, ErrValidation
	}

	s.submitting = true
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.loading.ShowLoading()
	result, err := s.submitter.Submit(ctx, snapshot)
	s.loading.HideLoading()

	s.mu.Lock()
	s.submitting = false

	if err != nil {
		message := result.Message
		if message == "" {
			message = genericFailureMessage
		}
		s.formMessage = message
		s.mu.Unlock()

		s.announcer.Announce(message)
		return result, fmt.Errorf("session: submit %q: %w", s.form.ID, err)
	}

	s.formMessage = result.Message
	s.resetLocked()
	s.mu.Unlock()

	s.clearDraft()
	if result.Message != "" {
		s.announcer.Announce(result.Message)
		s.scheduleMessageHide()
	}
	return result, nil
}

// Reset clears values, field states, and the top-level message.
func (s *Session) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.formMessage = ""
	s.mu.Unlock()
	s.clearDraft()
}

// Close cancels pending timers and rejects further submissions. Safe to call
// more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.timers.close()
}

func (s *Session) validateFieldLocked(name string) (bool, string) {
	field, ok := s.form.Field(name)
	if !ok {
		return false, ""
	}
	state, ok := s.states[name]
	if !ok {
		return false, ""
	}

	value := s.values[name]
	if field.Kind == schema.KindCheckbox && !isTruthy(value) {
		value = ""
	}

	result := s.eval.Evaluate(value, field.Rules)
	state.Valid = result.Valid
	if result.Valid {
		state.LastError = ""
	} else {
		state.LastError = result.Message
	}
	return result.Valid, result.Message
}

func (s *Session) validateAllLocked() bool {
	allValid := true
	for _, field := range s.form.Fields {
		valid, _ := s.validateFieldLocked(field.Name)
		if !valid {
			allValid = false
		}
	}
	return allValid
}

func (s *Session) snapshotLocked() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Session) resetLocked() {
	s.values = make(map[string]string, len(s.form.Fields))
	for _, field := range s.form.Fields {
		s.states[field.Name] = &FieldState{Valid: true}
	}
}

func (s *Session) scheduleMessageHide() {
	if s.messageTTL <= 0 {
		return
	}
	s.timers.after(s.messageTTL, func() {
		s.mu.Lock()
		s.formMessage = ""
		s.mu.Unlock()
	})
}

// Draft persistence is best effort: a failing store never blocks input or
// submission.

func (s *Session) restoreDraft() {
	if s.drafts == nil {
		return
	}
	stored, err := s.drafts.Load(s.form.ID)
	if err != nil {
		return
	}
	for name, value := range stored {
		field, ok := s.form.Field(name)
		if !ok || field.Kind == schema.KindPassword {
			continue
		}
		s.values[name] = value
	}
}

func (s *Session) saveDraft() {
	if s.drafts == nil {
		return
	}
	s.mu.Lock()
	persistable := make(map[string]string, len(s.values))
	for _, field := range s.form.Fields {
		if field.Kind == schema.KindPassword {
			continue
		}
		if value, ok := s.values[field.Name]; ok {
			persistable[field.Name] = value
		}
	}
	s.mu.Unlock()

	_ = s.drafts.Save(s.form.ID, persistable)
}

func (s *Session) clearDraft() {
	if s.drafts == nil {
		return
	}
	_ = s.drafts.Clear(s.form.ID)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes", "checked":
		return true
	default:
		return false
	}
}
