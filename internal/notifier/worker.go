package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sideshow/apns2"
	apnstoken "github.com/sideshow/apns2/token"

	"liveclass-service/internal/repository"
)

type SessionEnrolledEvent struct {
	EventType string    `json:"event_type"`
	SessionID string    `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
}

type SessionLiveEvent struct {
	EventType string `json:"event_type"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type Worker struct {
	natsConn   *nats.Conn
	apnsClient *apns2.Client
	repo       repository.DeviceTokenRepository
}

func (w *Worker) handleSessionEnrolled(msg *nats.Msg) {
	var event SessionEnrolledEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling event: %v", err)
		return
	}

	log.Printf(
		"📬 Event Received: User %s enrolled in session %s.",
		event.UserID,
		event.SessionID,
	)

	tokens, err := w.repo.GetUserDeviceTokens(context.Background(), event.UserID)
	if err != nil {
		log.Printf("Failed to retrieve device tokens for user %s: %v", event.UserID, err)
		return
	}

	if len(tokens) == 0 {
		log.Printf("No device tokens found for user %s. No notifications sent.", event.UserID)
		return
	}

	log.Printf("Found %d device token(s) for user %s. Sending notifications...", len(tokens), event.UserID)
	payload := `{"aps":{"alert":"You are enrolled. See you in class!","sound":"default"}}`
	w.push(tokens, payload)
}

func (w *Worker) handleSessionLive(msg *nats.Msg) {
	var event SessionLiveEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling event: %v", err)
		return
	}

	log.Printf("📬 Event Received: Session %s (%s) is now live.", event.SessionID, event.Name)

	tokens, err := w.repo.GetSessionParticipantTokens(context.Background(), event.SessionID)
	if err != nil {
		log.Printf("Failed to retrieve participant tokens for session %s: %v", event.SessionID, err)
		return
	}

	if len(tokens) == 0 {
		log.Printf("No participants with device tokens for session %s. No notifications sent.", event.SessionID)
		return
	}

	log.Printf("Found %d participant token(s) for session %s. Sending notifications...", len(tokens), event.SessionID)
	payload := fmt.Sprintf(`{"aps":{"alert":"%s is live now. Join in!","sound":"default"}}`, event.Name)
	w.push(tokens, payload)
}

func (w *Worker) push(tokens []string, payload string) {
	for _, token := range tokens {
		notification := &apns2.Notification{
			DeviceToken: token,
			Topic:       os.Getenv("APNS_TOPIC"),
			Payload:     []byte(payload),
		}

		if w.apnsClient == nil {
			log.Printf("✅ SUCCESS (mock): Push notification sent to device %s", token)
			continue
		}

		res, err := w.apnsClient.Push(notification)
		if err != nil {
			log.Printf("❌ FAILED to send notification: %v", err)
		} else if res.Sent() {
			log.Printf("✅ SUCCESS: Notification sent with APNS ID: %s", res.ApnsID)
		} else {
			log.Printf("❌ FAILED: Notification not sent. Reason: %s", res.Reason)
		}
	}
}

func Start(natsURL string, repo repository.DeviceTokenRepository) error {
	authKeyPath := os.Getenv("APNS_AUTH_KEY_PATH")
	keyID := os.Getenv("APNS_KEY_ID")
	teamID := os.Getenv("APNS_TEAM_ID")

	var apnsClient *apns2.Client
	if authKeyPath != "" && authKeyPath[0] != '#' && keyID != "" && teamID != "" {
		log.Println("APNs credentials found, initializing APNs client...")
		authKey, err := apnstoken.AuthKeyFromFile(authKeyPath)
		if err != nil {
			return fmt.Errorf("Failed to read auth key APNs: %w", err)
		}

		authToken := &apnstoken.Token{
			AuthKey: authKey,
			KeyID:   keyID,
			TeamID:  teamID,
		}

		if os.Getenv("APNS_MODE") == "production" {
			apnsClient = apns2.NewTokenClient(authToken).Production()
		} else {
			apnsClient = apns2.NewTokenClient(authToken).Development()
		}
	} else {
		log.Println("APNs credentials not found or invalid. Worker will run in MOCK mode.")
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return err
	}

	worker := &Worker{
		natsConn:   nc,
		apnsClient: apnsClient,
		repo:       repo,
	}

	if _, err := nc.Subscribe("session.enrolled", worker.handleSessionEnrolled); err != nil {
		return err
	}

	if _, err := nc.Subscribe("session.live", worker.handleSessionLive); err != nil {
		return err
	}

	return nil
}
