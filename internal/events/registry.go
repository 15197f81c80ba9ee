// Package events is a small listener registry standing in for the
// document-level touch listeners a drag gesture installs.
//
// A Registry is not safe for concurrent use; its owner serializes access.
package events

// Kind names an event type.
type Kind string

const (
	TouchMove Kind = "touchmove"
	TouchEnd  Kind = "touchend"
)

// Event is delivered to every handler registered for its Kind.
type Event struct {
	Kind Kind
	X, Y float64

	prevented bool
}

// PreventDefault marks the event so the renderer suppresses its default
// action (page scrolling for touch-move).
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Handler receives dispatched events.
type Handler func(*Event)

// ID identifies one registration.
type ID uint64

type entry struct {
	id   ID
	kind Kind
	fn   Handler
}

// Registry holds the currently installed handlers in registration order.
type Registry struct {
	next    ID
	entries []entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// On installs fn for kind and returns its registration ID.
func (r *Registry) On(kind Kind, fn Handler) ID {
	r.next++
	r.entries = append(r.entries, entry{id: r.next, kind: kind, fn: fn})
	return r.next
}

// Off removes a registration. Unknown IDs are ignored.
func (r *Registry) Off(id ID) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to the handlers registered for ev.Kind when the
// dispatch began; handlers may install or remove registrations. It returns
// how many handlers ran.
func (r *Registry) Dispatch(ev *Event) int {
	var fns []Handler
	for _, e := range r.entries {
		if e.kind == ev.Kind {
			fns = append(fns, e.fn)
		}
	}
	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}

// Len returns the number of installed handlers.
func (r *Registry) Len() int { return len(r.entries) }
