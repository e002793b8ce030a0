// Package notifier provides fire-and-forget implementations of the box
// event notifier.
package notifier

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Bloinx/investco/internal/domain"
)

// TelegramNotifier posts box events to a Telegram chat. Delivery failures
// are logged and dropped; box operations never block on notifications.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authorizes the bot and returns a notifier for the
// given chat.
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	slog.Info("telegram notifier authorized", "bot", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) BoxCreated(cfg domain.BoxConfig) {
	t.send(fmt.Sprintf("📦 Savings box created: %d per period × %d periods, %s each, %d%% withdrawal fee",
		cfg.ContributionAmount, cfg.NumPayments, cfg.PayTime, cfg.WithdrawFeePercent))
}

func (t *TelegramNotifier) UserRegistered(ref string, userID int64, position int) {
	t.send(fmt.Sprintf("👤 User %d registered at position %d (ref %s)", userID, position, ref))
}

func (t *TelegramNotifier) PaymentMade(ref string, userID int64, amount int64, period int) {
	t.send(fmt.Sprintf("💰 User %d paid %d for period %d (ref %s)", userID, amount, period, ref))
}

func (t *TelegramNotifier) FundsWithdrawn(ref string, userID int64, net, fee int64) {
	t.send(fmt.Sprintf("🏧 User %d withdrew %d (fee %d, ref %s)", userID, net, fee, ref))
}

func (t *TelegramNotifier) StageChanged(from, to domain.Stage) {
	t.send(fmt.Sprintf("🔁 Box stage changed: %s → %s", from, to))
}

func (t *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		slog.Warn("telegram notification failed", "error", err)
	}
}
