// Пакет собирает письма о смене статуса записей журнала и отправляет их
// пользователям через SMTP. Используется воркером уведомлений.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/lib/smtp"
	"github.com/mrhason/aitaskify/internal/models"
)

type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type SenderService struct {
	transport smtp.TransportInterface
	users     UserDirectory
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, users UserDirectory, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		users:     users,
		log:       log,
	}
}

// SendTrxStatusNotification отправляет пользователю письмо о событии
// журнала: создании заявки на вывод или решении администратора.
func (s *SenderService) SendTrxStatusNotification(body []byte) error {
	var event models.TrxEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	user, err := s.users.GetUser(context.Background(), event.UserID)
	if err != nil {
		s.log.Error("failed to load user for notification", sl.Err(err))
		return err
	}

	to := []string{user.Email}
	subject, bodyText := composeTrxMessage(user.FullName, event)
	return s.sendEmail(to, subject, bodyText)
}

func composeTrxMessage(fullName string, event models.TrxEvent) (subject, body string) {
	switch {
	case event.Type == models.TrxTypeWithdraw && event.Status == models.StatusPending:
		subject = "Withdrawal request received"
		body = fmt.Sprintf("Hello, %s!\n\nYour withdrawal request for %d Tk has been received and is pending review.",
			fullName, event.Amount)
	case event.Type == models.TrxTypeWithdraw && event.Status == models.StatusApproved:
		subject = "Withdrawal approved"
		body = fmt.Sprintf("Hello, %s!\n\nYour withdrawal of %d Tk has been approved and sent to your account.",
			fullName, event.Amount)
	case event.Type == models.TrxTypeWithdraw && event.Status == models.StatusRejected:
		subject = "Withdrawal rejected"
		body = fmt.Sprintf("Hello, %s!\n\nYour withdrawal request for %d Tk was rejected. The reserved coins have been returned to your balance.",
			fullName, event.Amount)
	case event.Status == models.StatusApproved:
		subject = "Earning approved"
		body = fmt.Sprintf("Hello, %s!\n\nYour %s earning of %d coins has been approved and added to your balance.",
			fullName, event.Category, event.Amount)
	default:
		subject = "Transaction update"
		body = fmt.Sprintf("Hello, %s!\n\nYour %s transaction is now %s.",
			fullName, event.Category, event.Status)
	}
	return subject, body
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
