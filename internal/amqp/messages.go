package amqp

import (
	"encoding/json"
	"time"
)

// TransactionPostedMessage announces a committed transaction posting. It
// carries identifiers only; consumers fetch current state from the store,
// so a stale or redelivered message is harmless.
type TransactionPostedMessage struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	AccountID     string    `json:"account_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionPostedMessage creates a message for a committed posting.
func NewTransactionPostedMessage(transactionID, userID, accountID string) *TransactionPostedMessage {
	return &TransactionPostedMessage{
		TransactionID: transactionID,
		UserID:        userID,
		AccountID:     accountID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionPostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionPostedMessageFromJSON creates a message from JSON bytes
func TransactionPostedMessageFromJSON(data []byte) (*TransactionPostedMessage, error) {
	var msg TransactionPostedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
