package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// WebSocket Message Types
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"

	MessageTypeCertificateSubmitted = "certificate_submitted"
	MessageTypeCertificateApproved  = "certificate_approved"
	MessageTypeCertificateRejected  = "certificate_rejected"
	MessageTypeCertificateIssued    = "certificate_issued"
	MessageTypeCertificateRevoked   = "certificate_revoked"
	MessageTypeDocumentReviewed     = "document_reviewed"
	MessageTypeUserStatusChanged    = "user_status_changed"
	MessageTypeDataRestored         = "data_restored"
)

// WSMessage is the envelope for every message on the wire
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// CertificateEventData carries certificate lifecycle changes to clients
type CertificateEventData struct {
	CertificateID string `json:"certificate_id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	RecipientID   string `json:"recipient_id"`
	ActorID       string `json:"actor_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// DocumentEventData carries document review outcomes to the uploader
type DocumentEventData struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ReviewNote string `json:"review_note,omitempty"`
}

// UserStatusEventData carries account status changes to the affected user
type UserStatusEventData struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// RestoreEventData tells every client their local state may be stale after
// a backup restore replaced the collections.
type RestoreEventData struct {
	BackupID string `json:"backup_id"`
	Restored int    `json:"restored"`
	Failed   int    `json:"failed"`
}

// PublishToUser sends an event to a single connected user. Offline users
// are skipped silently; events are not queued.
func (m *Manager) PublishToUser(userID, eventType string, data interface{}) {
	message := WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal %s event: %v", eventType, err)
		return
	}

	m.SendToUser(userID, messageBytes)
}

// PublishToAll fans an event out to every connected client through the
// manager loop. Delivery is best-effort: if the loop is not draining the
// broadcast channel, the event is dropped.
func (m *Manager) PublishToAll(eventType string, data interface{}) {
	message := WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal %s event: %v", eventType, err)
		return
	}

	select {
	case m.broadcast <- messageBytes:
	default:
		log.Printf("WebSocket: Broadcast channel full, dropping %s event", eventType)
	}
}

// PublishToReviewers sends an event to every connected admin and
// certificate authority client.
func (m *Manager) PublishToReviewers(eventType string, data interface{}) {
	message := WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal %s event: %v", eventType, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		if client.UserType != "admin" && client.UserType != "ca" {
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("Send channel full for %s, dropping event", client.UserID)
		}
	}
}

// HandleClientMessage processes incoming WebSocket messages. The stream is
// server-to-client; clients only send keepalive pings.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		log.Printf("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.handlePing(client)

	default:
		log.Printf("WebSocket: Unknown message type '%s' from client %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) handlePing(client *Client) {
	pongMessage := WSMessage{
		Type:      MessageTypePong,
		Data:      map[string]string{"status": "alive"},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	m.sendToClient(client, pongMessage)
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		log.Printf("WebSocket: Client %s send channel full, closing connection", client.UserID)
		m.RemoveClient(client.UserID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	errorMessage := WSMessage{
		Type: "error",
		Data: map[string]string{
			"error":   errorMsg,
			"user_id": client.UserID,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	m.sendToClient(client, errorMessage)
}
