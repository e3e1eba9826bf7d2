// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationEvent is published whenever the alarm core wants a text
// delivered to a user: wake-up calls, puzzle questions, success and
// failure verdicts. The chat transport is a downstream consumer of the
// alarm.notify queue; the core never talks to it directly and does not
// depend on delivery confirmation.
type NotificationEvent struct {
	UserID uint64 `json:"user_id"`
	Text   string `json:"text"`
	SentAt string `json:"sent_at"`
}

// NotifyQueueName is the durable queue notification events go through.
const NotifyQueueName = "alarm.notify"
