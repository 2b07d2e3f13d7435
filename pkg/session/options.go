package session

import (
	"time"

	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// Option customises a Session at construction time.
type Option func(*Session)

// WithEvaluator injects a configured rule evaluator (custom clock, custom
// messages).
func WithEvaluator(eval *validate.Evaluator) Option {
	return func(s *Session) {
		if eval != nil {
			s.eval = eval
		}
	}
}

// WithAnnouncer injects the accessibility announcer capability.
func WithAnnouncer(announcer Announcer) Option {
	return func(s *Session) {
		if announcer != nil {
			s.announcer = announcer
		}
	}
}

// WithLoadingIndicator injects the loading-state capability.
func WithLoadingIndicator(loading LoadingIndicator) Option {
	return func(s *Session) {
		if loading != nil {
			s.loading = loading
		}
	}
}

// WithSubmitter injects the submission strategy.
func WithSubmitter(submitter Submitter) Option {
	return func(s *Session) {
		if submitter != nil {
			s.submitter = submitter
		}
	}
}

// WithDraftStore enables draft persistence through store.
func WithDraftStore(store draft.Store) Option {
	return func(s *Session) {
		s.drafts = store
	}
}

// WithMessageTTL controls how long the top-level success message stays
// visible before the auto-hide timer clears it. Zero or negative disables
// auto-hide.
func WithMessageTTL(ttl time.Duration) Option {
	return func(s *Session) {
		s.messageTTL = ttl
	}
}
