package muloader

import (
	"errors"
	"slices"

	"github.com/hashicorp/go-hclog"
)

// EventName names a host lifecycle event.
type EventName string

const (
	// EventPrePackageInstall fires before a package is installed.
	EventPrePackageInstall EventName = "pre-package-install"

	// EventPrePackageUpdate fires before a package is updated.
	EventPrePackageUpdate EventName = "pre-package-update"

	// EventPreAutoloadDump fires before the autoloader is regenerated.
	EventPreAutoloadDump EventName = "pre-autoload-dump"
)

// ErrNoHost is returned when an event that needs the host arrives without one.
var ErrNoHost = errors.New("event has no host")

// Event is a lifecycle event delivered by the host.
type Event struct {
	Name EventName
	Host Host

	// Operation is set for package events only.
	Operation Operation
}

// Handler handles one event.
type Handler func(Event) error

// Subscriber declares the handlers it wants registered.
type Subscriber interface {
	SubscribedEvents() map[EventName]Handler
}

// Dispatcher routes events to the handlers registered for them.
type Dispatcher struct {
	logger   hclog.Logger
	handlers map[EventName][]Handler
}

// NewDispatcher builds the registration table from subscribers. Handlers for
// the same event run in subscriber order.
func NewDispatcher(logger hclog.Logger, subscribers ...Subscriber) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	d := &Dispatcher{
		logger:   logger,
		handlers: make(map[EventName][]Handler),
	}
	for _, s := range subscribers {
		for name, h := range s.SubscribedEvents() {
			d.handlers[name] = append(d.handlers[name], h)
		}
	}
	return d
}

// Dispatch runs the handlers registered for ev.Name, stopping at the first
// error. Events without handlers are ignored.
func (d *Dispatcher) Dispatch(ev Event) error {
	handlers := d.handlers[ev.Name]
	if len(handlers) == 0 {
		d.logger.Trace("no handlers for event", "event", ev.Name)
		return nil
	}

	d.logger.Debug("dispatching event", "event", ev.Name, "handlers", len(handlers))
	for _, h := range handlers {
		if err := h(ev); err != nil {
			return err
		}
	}
	return nil
}

// Events returns the names of all events with at least one handler, sorted.
func (d *Dispatcher) Events() []EventName {
	names := make([]EventName, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
