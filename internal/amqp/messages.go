package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReminderMessage tells the notify worker that a subscription crossed one of
// the configured lead days. It carries enough to build the message text; the
// worker re-reads the subscription only to record the delivery.
type ReminderMessage struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Name           string    `json:"name"`
	ExpiryDate     string    `json:"expiry_date"` // YYYY-MM-DD
	DaysLeft       int       `json:"days_left"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewReminderMessage(id uuid.UUID, name string, expiry time.Time, daysLeft int) *ReminderMessage {
	return &ReminderMessage{
		SubscriptionID: id,
		Name:           name,
		ExpiryDate:     expiry.Format("2006-01-02"),
		DaysLeft:       daysLeft,
		Timestamp:      time.Now(),
	}
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
