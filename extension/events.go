// events.go defines the event types for extension notifications.
//
// Separated from extension.go to isolate the event system. Events enable
// extensions to react to session and document changes without modifying
// core logic.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Extensions cannot block or veto operations via events - they observe
// after the fact. This keeps the core system simple and predictable.
// If approval workflows are needed, a separate hook system should be added.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventSessionOpened   EventType = "session:opened"
	EventSessionClosed   EventType = "session:closed"
	EventDocumentSaved   EventType = "document:saved"
	EventDocumentDeleted EventType = "document:deleted"
	EventDocumentRenamed EventType = "document:renamed"
	EventDocumentCloned  EventType = "document:cloned"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventPath() string
}

// SessionEvent is fired when a session is opened or closed.
type SessionEvent struct {
	Path   string
	Opened bool // true=opened, false=closed
}

func (e SessionEvent) EventType() EventType {
	if e.Opened {
		return EventSessionOpened
	}
	return EventSessionClosed
}
func (e SessionEvent) EventPath() string { return e.Path }

// DocumentSavedEvent is fired after a document is written to the store.
type DocumentSavedEvent struct {
	Path string
}

func (e DocumentSavedEvent) EventType() EventType { return EventDocumentSaved }
func (e DocumentSavedEvent) EventPath() string    { return e.Path }

// DocumentDeletedEvent is fired after a document is removed from the store.
type DocumentDeletedEvent struct {
	Path string
}

func (e DocumentDeletedEvent) EventType() EventType { return EventDocumentDeleted }
func (e DocumentDeletedEvent) EventPath() string    { return e.Path }

// DocumentRenamedEvent is fired after a document is moved.
type DocumentRenamedEvent struct {
	Path string // old path
	To   string // new path
}

func (e DocumentRenamedEvent) EventType() EventType { return EventDocumentRenamed }
func (e DocumentRenamedEvent) EventPath() string    { return e.Path }

// DocumentClonedEvent is fired after a document is copied.
type DocumentClonedEvent struct {
	Path string // source path
	To   string // clone path
}

func (e DocumentClonedEvent) EventType() EventType { return EventDocumentCloned }
func (e DocumentClonedEvent) EventPath() string    { return e.Path }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
