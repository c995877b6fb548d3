// Package store persists chat messages. Append-only: the gateway writes
// and never reads back except for the write acknowledgment.
package store

import (
	"context"

	"github.com/openclass/live/internal/domain"
)

// MessageStore is the durable sink for chat messages. Append returns only
// after the record is durable; a broadcast must never precede that.
type MessageStore interface {
	Append(ctx context.Context, msg *domain.ChatMessage) error
}
