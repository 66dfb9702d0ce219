package action

import (
	"context"
	"errors"
	"fmt"
)

// Name identifies a callback command on the wire.
type Name string

// Commands a keyboard can emit.
const (
	ListLocations  Name = "list_locations"
	SelectLocation Name = "select_location"
	ShowReference  Name = "show_reference"
	ShowPhotos     Name = "show_photos"
	ShowWeather    Name = "show_weather"
	DeleteMessages Name = "delete"
)

// Names returns every command a keyboard can reference.
func Names() []Name {
	return []Name{ListLocations, SelectLocation, ShowReference, ShowPhotos, ShowWeather, DeleteMessages}
}

var (
	ErrDuplicateHandler = errors.New("handler already registered")
	ErrUnregistered     = errors.New("command has no handler")
)

// Event is the platform context a callback arrived with.
type Event struct {
	CallbackID string
	ChatID     int64
	MessageID  int
	Username   string
	FirstName  string
}

// Handler runs one command.
type Handler interface {
	Handle(ctx context.Context, ev Event, args []string) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event, args []string) error

func (f HandlerFunc) Handle(ctx context.Context, ev Event, args []string) error {
	return f(ctx, ev, args)
}

// Registry maps command names to handlers. It is populated at startup and
// read-only afterwards.
type Registry struct {
	handlers map[Name]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Name]Handler)}
}

// Register binds name to h. Binding a name twice is an error.
func (r *Registry) Register(name Name, h Handler) error {
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
	}
	r.handlers[name] = h
	return nil
}

// Lookup returns the handler bound to name.
func (r *Registry) Lookup(name Name) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Require fails if any of names has no handler.
func (r *Registry) Require(names ...Name) error {
	var missing []error
	for _, name := range names {
		if _, ok := r.handlers[name]; !ok {
			missing = append(missing, fmt.Errorf("%w: %s", ErrUnregistered, name))
		}
	}
	return errors.Join(missing...)
}
