// Package telegram pushes complaint lifecycle notifications to agency staff
// through the Telegram Bot API.
package telegram

import (
	"fmt"
	"log"

	"civicvoice/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifierService sends one-way notifications to a configured staff chat.
// It implements complaint.Notifier.
type NotifierService struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
}

// NewNotifierService authorizes the bot. Returns an error when the token is
// rejected; callers treat a nil notifier as "notifications disabled".
func NewNotifierService(token string, chatID int64) (*NotifierService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Telegram notifier authorized on account %s", bot.Self.UserName)

	return &NotifierService{BotAPI: bot, ChatID: chatID}, nil
}

// NotifyNewComplaint announces a freshly submitted complaint.
func (n *NotifierService) NotifyNewComplaint(complaint *models.Complaint) {
	text := fmt.Sprintf("New complaint %s\n%s\nStatus: %s",
		complaint.TicketNumber, complaint.Title, complaint.Status)
	n.send(text)
}

// NotifyStatusChange announces a status transition.
func (n *NotifierService) NotifyStatusChange(complaint *models.Complaint, oldStatus, newStatus string) {
	text := fmt.Sprintf("Complaint %s: %s -> %s",
		complaint.TicketNumber, oldStatus, newStatus)
	n.send(text)
}

func (n *NotifierService) send(text string) {
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram notification: %v", err)
	}
}
