package session

// Announcer receives assistive-technology style announcements: field errors
// on validation failure and the top-level form messages. The session treats
// it as optional; NopAnnouncer stands in when none is injected.
type Announcer interface {
	Announce(message string)
}

// LoadingIndicator brackets the submission round trip so hosts can reflect
// an in-flight state (spinner, disabled control).
type LoadingIndicator interface {
	ShowLoading()
	HideLoading()
}

// NopAnnouncer discards announcements.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(string) {}

// NopLoading ignores loading transitions.
type NopLoading struct{}

func (NopLoading) ShowLoading() {}
func (NopLoading) HideLoading() {}

// AnnouncerFunc adapts a function to the Announcer interface.
type AnnouncerFunc func(message string)

func (f AnnouncerFunc) Announce(message string) { f(message) }
