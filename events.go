package overlap

import (
	"sort"
	"unsafe"

	"github.com/akmonengine/overlap/actor"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
)

type pairKey struct {
	bodyA *actor.Body
	bodyB *actor.Body
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.Body) pairKey {
	ptrA := uintptr(unsafe.Pointer(bodyA))
	ptrB := uintptr(unsafe.Pointer(bodyB))

	if ptrB < ptrA {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

func (t EventType) String() string {
	switch t {
	case COLLISION_ENTER:
		return "enter"
	case COLLISION_STAY:
		return "stay"
	case COLLISION_EXIT:
		return "exit"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CollisionEnterEvent is emitted on the first step a pair overlaps
type CollisionEnterEvent struct {
	Contact Contact
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

// CollisionStayEvent is emitted on every following step the pair still overlaps
type CollisionStayEvent struct {
	Contact Contact
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

// CollisionExitEvent is emitted once, on the first step the pair no longer overlaps.
// It only carries the bodies, there is no overlap result to report.
type CollisionExitEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks overlapping pairs across steps and dispatches Enter/Stay/Exit events
type Events struct {
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	previousActivePairs map[pairKey]Contact
	currentActivePairs  map[pairKey]Contact
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]Contact),
		currentActivePairs:  make(map[pairKey]Contact),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts marks the overlapping pairs of the current step
func (e *Events) recordContacts(contacts []Contact) {
	for _, c := range contacts {
		if !c.Result.Intersects {
			continue
		}
		e.currentActivePairs[makePairKey(c.BodyA, c.BodyB)] = c
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit.
// The buffered events are ordered by body names so a step always reports them in the same order.
func (e *Events) processCollisionEvents() {
	for pair, contact := range e.currentActivePairs {
		if _, active := e.previousActivePairs[pair]; active {
			e.buffer = append(e.buffer, CollisionStayEvent{Contact: contact})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{Contact: contact})
		}
	}

	for pair, contact := range e.previousActivePairs {
		if _, active := e.currentActivePairs[pair]; !active {
			e.buffer = append(e.buffer, CollisionExitEvent{
				BodyA: contact.BodyA,
				BodyB: contact.BodyB,
			})
		}
	}

	sort.SliceStable(e.buffer, func(i, j int) bool {
		return eventLess(e.buffer[i], e.buffer[j])
	})

	// Keep the current pairs for the next step
	clear(e.previousActivePairs)
	for pair, contact := range e.currentActivePairs {
		e.previousActivePairs[pair] = contact
	}
	clear(e.currentActivePairs)
}

func eventBodies(event Event) (*actor.Body, *actor.Body) {
	switch ev := event.(type) {
	case CollisionEnterEvent:
		return ev.Contact.BodyA, ev.Contact.BodyB
	case CollisionStayEvent:
		return ev.Contact.BodyA, ev.Contact.BodyB
	case CollisionExitEvent:
		return ev.BodyA, ev.BodyB
	}
	return nil, nil
}

func bodyName(body *actor.Body) string {
	if body == nil {
		return ""
	}
	return body.Name
}

// eventLess orders events by the names of their bodies, then by type
func eventLess(a, b Event) bool {
	a1, a2 := eventBodies(a)
	b1, b2 := eventBodies(b)
	if n1, n2 := bodyName(a1), bodyName(b1); n1 != n2 {
		return n1 < n2
	}
	if n1, n2 := bodyName(a2), bodyName(b2); n1 != n2 {
		return n1 < n2
	}
	return a.Type() < b.Type()
}

// forget drops every tracked pair involving body, without emitting an Exit event
func (e *Events) forget(body *actor.Body) {
	for pair := range e.previousActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.previousActivePairs, pair)
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
