package bot

import (
	"context"
	"fmt"
	"sync"

	"skip-selector/internal/catalog"
	"skip-selector/internal/metrics"
	"skip-selector/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type SkipQuery interface {
	Fetch(ctx context.Context) catalog.Result
}

type Bot struct {
	api      Sender
	updates  tgbotapi.UpdatesChannel
	logger   *zap.Logger
	sessions *session.Manager
	query    SkipQuery
	metrics  *metrics.Collector
	mu       sync.Mutex
}

// New authorizes against Telegram and opens the long-polling update channel.
func New(
	token string,
	debug bool,
	sessions *session.Manager,
	query SkipQuery,
	m *metrics.Collector,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	b := newBot(botAPI, sessions, query, m, logger)
	b.updates = botAPI.GetUpdatesChan(u)
	return b, nil
}

func newBot(api Sender, sessions *session.Manager, query SkipQuery, m *metrics.Collector, logger *zap.Logger) *Bot {
	return &Bot{
		api:      api,
		logger:   logger,
		sessions: sessions,
		query:    query,
		metrics:  m,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update, ok := <-b.updates:
			if !ok {
				return fmt.Errorf("updates channel closed")
			}
			b.mu.Lock()
			b.processUpdate(ctx, update)
			b.mu.Unlock()
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.processMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command())
		return
	}
	b.handleDefault(chatID)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		b.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	b.handleCallback(ctx, chatID, callback)
}

func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	msg, err := b.api.Send(c)
	if err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
		return tgbotapi.Message{}, false
	}
	return msg, true
}

func (b *Bot) request(c tgbotapi.Chattable) {
	if _, err := b.api.Request(c); err != nil {
		b.logger.Error("Telegram request failed", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(chatID, "❌ "+text)
}

func (b *Bot) answerCallback(id, text string) {
	b.request(tgbotapi.NewCallback(id, text))
}
