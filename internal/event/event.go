package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserRegistered Type = "user.registered"
	TypeUserUpdated    Type = "user.updated"
	TypeUserDeleted    Type = "user.deleted"
	TypeJokeCreated    Type = "joke.created"
	TypeJokeUpdated    Type = "joke.updated"
	TypeJokeDeleted    Type = "joke.deleted"
)

const (
	TopicUser = "user"
	TopicJoke = "joke"
)

// Topic is the part of the type before the first dot.
func (t Type) Topic() string {
	topic, _, _ := strings.Cut(string(t), ".")
	return topic
}

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"` // empty for scheduled jobs
}

func New(t Type, subject string, actorID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Subject:   subject,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actorID,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe(topics ...string) (<-chan Event, func())
}

// Publisher is the write side of a Bus.
type Publisher interface {
	Publish(e Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
