// Package queue moves outbound mail through RabbitMQ: handlers publish
// MailRequestedEvent messages and the background consumer delivers them.
package queue

// mailQueueName is the durable queue shared by publisher and consumer.
const mailQueueName = "mail.requests"

// MailRequestedEvent is published whenever an operation wants a one-time
// code mailed out. It carries everything the consumer needs to render and
// deliver the message without querying the primary database.
type MailRequestedEvent struct {
	ID          string `json:"id"`
	To          string `json:"to"`
	Kind        string `json:"kind"`
	OTP         string `json:"otp"`
	RequestedAt string `json:"requested_at"`
}
