package events

import (
	"fmt"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("events")

// EventType is the type of an Event
type EventType uint8

const (
	EventTUnknown EventType = iota
	// EventTSet is emitted after a key was created or overwritten
	EventTSet
	// EventTRemove is emitted after an existing key was removed
	EventTRemove
	// EventTClear is emitted after the store was cleared
	EventTClear
	// EventTLoadError is emitted when the initial load failed and the store started empty
	EventTLoadError
	// EventTSaveError is emitted when a background save failed
	EventTSaveError
)

var eventTypeNames = map[EventType]string{
	EventTSet:       "EntrySet",
	EventTRemove:    "EntryRemoved",
	EventTClear:     "Cleared",
	EventTLoadError: "LoadFailed",
	EventTSaveError: "SaveFailed",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is a notification about a change or a failure in a store.
// Key is set for EventTSet and EventTRemove, Err for EventTLoadError and EventTSaveError.
type Event struct {
	Type EventType
	Key  string
	Err  error
}

func (e Event) String() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("%s(%s)", e.Type, e.Key)
	case e.Err != nil:
		return fmt.Sprintf("%s(%v)", e.Type, e.Err)
	default:
		return e.Type.String()
	}
}

// EntrySet creates an EventTSet event
func EntrySet(key string) Event { return Event{Type: EventTSet, Key: key} }

// EntryRemoved creates an EventTRemove event
func EntryRemoved(key string) Event { return Event{Type: EventTRemove, Key: key} }

// Cleared creates an EventTClear event
func Cleared() Event { return Event{Type: EventTClear} }

// LoadFailed creates an EventTLoadError event
func LoadFailed(cause error) Event { return Event{Type: EventTLoadError, Err: cause} }

// SaveFailed creates an EventTSaveError event
func SaveFailed(cause error) Event { return Event{Type: EventTSaveError, Err: cause} }

// Listener receives events. Listeners are called from the dispatcher goroutine of the
// bus, one event at a time, and should return quickly.
type Listener func(Event)

// ListenerID identifies a registered listener
type ListenerID uint64
