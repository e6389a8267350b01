package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andriansp/account-service/internal/config"
	"github.com/andriansp/account-service/internal/mail"
)

// StartMailConsumer connects to RabbitMQ, declares the mail.requests queue
// (durable), and starts consuming messages. Each message is rendered into a
// subject and body and delivered over SMTP when an SMTP host is configured;
// without one, a line is appended to logs/mail.log instead so the flow stays
// observable in development. The function runs a reconnect loop and keeps
// running, logging processing errors and rejecting the offending message so
// the server continues operating.
func StartMailConsumer(cfg config.Config) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			log.Printf("mail-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, cfg); err != nil {
			log.Printf("mail-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, cfg config.Config) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("mail-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(mailQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(mailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(cfg, d.Body); err != nil {
			log.Printf("mail-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(cfg config.Config, body []byte) error {
	var ev MailRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	subject, text, err := mail.Render(mail.Kind(ev.Kind), ev.OTP)
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}

	if cfg.SMTPHost != "" {
		return sendSMTP(cfg, ev.To, subject, text)
	}
	return appendMailLog(ev, subject)
}

func sendSMTP(cfg config.Config, to, subject, text string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.SMTPFrom, to, subject, text)

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func appendMailLog(ev MailRequestedEvent, subject string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "mail.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(mailLogLine(ev, subject)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func mailLogLine(ev MailRequestedEvent, subject string) string {
	return fmt.Sprintf("[%s] Mail queued for delivery | id=%s | to=%s | kind=%s | subject=%q | otp=%s\n",
		ev.RequestedAt, ev.ID, ev.To, ev.Kind, subject, ev.OTP)
}
