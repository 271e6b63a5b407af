package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"liveclass-service/internal/model"
)

type EventPublisher interface {
	PublishSessionEnrolled(sessionID string, userID uuid.UUID) error
	PublishSessionLive(session model.Session) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type SessionEnrolledEvent struct {
	EventType  string    `json:"event_type"`
	SessionID  string    `json:"session_id"`
	UserID     uuid.UUID `json:"user_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type SessionLiveEvent struct {
	EventType string `json:"event_type"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	StartAt   int64  `json:"start_at"`
}

func (p *NatsPublisher) PublishSessionEnrolled(sessionID string, userID uuid.UUID) error {
	event := SessionEnrolledEvent{
		EventType:  "session.enrolled",
		SessionID:  sessionID,
		UserID:     userID,
		EnrolledAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		return err
	}

	subject := "session.enrolled"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s' for user '%s'", subject, userID)

	return nil
}

func (p *NatsPublisher) PublishSessionLive(session model.Session) error {
	event := SessionLiveEvent{
		EventType: "session.live",
		SessionID: session.ID,
		Name:      session.Name,
		StartAt:   session.StartTime,
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	subject := "session.live"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s'", subject)

	return nil
}
