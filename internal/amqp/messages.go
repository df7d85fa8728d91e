package amqp

import (
	"encoding/json"
	"time"
)

// TransactionRecordedMessage notifies the worker that a period's snapshot is
// stale. It carries only the transaction ID and period key; the worker loads
// the full period from the database before rebuilding.
type TransactionRecordedMessage struct {
	ID        int64     `json:"id"`
	Period    string    `json:"period"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionRecordedMessage(id int64, period string) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:        id,
		Period:    period,
		Timestamp: time.Now(),
	}
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
