package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"skip-selector/internal/session"
	"skip-selector/internal/view"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const helpText = `Available commands:
/start - Show the skip sizes available for NR32, Lowestoft
/help - Show this help

Tap a skip to select it, tap it again to deselect.`

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.sendMessage(chatID, helpText)
	default:
		b.sendError(chatID, "Unknown command. Use /start to see the skips.")
	}
}

func (b *Bot) handleDefault(chatID int64) {
	b.sendError(chatID, "Use /start to see the skips.")
}

// handleStart mounts the screen: skeleton first, then the fetch outcome.
func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	sid := sessionID(chatID)

	prev, err := b.sessions.Get(ctx, sid)
	switch {
	case err == nil:
		b.retireScreen(chatID, prev.Messages)
	case !errors.Is(err, session.ErrNotFound):
		b.logger.Warn("Failed to load previous session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	s, err := b.sessions.Mount(ctx, sid)
	if err != nil {
		b.logger.Error("Failed to mount session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, view.ErrorTitle)
		return
	}

	loading, ok := b.send(tgbotapi.NewMessage(chatID, skeletonText(view.Skeleton())))
	if !ok {
		return
	}
	s.Messages = &session.Messages{Loading: loading.MessageID}

	res := b.query.Fetch(ctx)
	resolved, err := b.sessions.Resolve(ctx, sid, res)
	if err != nil {
		b.logger.Error("Failed to store fetch result",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.request(tgbotapi.NewEditMessageText(chatID, loading.MessageID, errorText(view.ErrorScreen().Error)))
		return
	}
	resolved.Messages = s.Messages

	screen := view.Build(resolved.Result(), resolved.Selection)
	if screen.Error != nil {
		b.request(tgbotapi.NewEditMessageText(chatID, loading.MessageID, errorText(screen.Error)))
		b.saveSession(ctx, resolved)
		return
	}

	b.request(tgbotapi.NewEditMessageText(chatID, loading.MessageID, headingText(screen)))

	resolved.Messages.Cards = make(map[int64]int, len(screen.Cards))
	for _, card := range screen.Cards {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(card.ImageURL))
		photo.Caption = cardCaption(card)
		photo.ReplyMarkup = cardKeyboard(card)

		msg, ok := b.send(photo)
		if !ok {
			continue
		}
		resolved.Messages.Cards[card.ID] = msg.MessageID
	}

	b.saveSession(ctx, resolved)
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, callback *tgbotapi.CallbackQuery) {
	switch {
	case strings.HasPrefix(callback.Data, callbackSelectPrefix):
		skipID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, callbackSelectPrefix), 10, 64)
		if err != nil {
			b.answerCallback(callback.ID, "")
			return
		}
		b.handleToggle(ctx, chatID, callback.ID, skipID)

	case callback.Data == callbackContinue:
		b.handleContinue(ctx, chatID, callback.ID)

	default:
		b.answerCallback(callback.ID, "")
	}
}

func (b *Bot) handleToggle(ctx context.Context, chatID int64, callbackID string, skipID int64) {
	sid := sessionID(chatID)

	before, err := b.sessions.Get(ctx, sid)
	if err != nil {
		b.sessionFailed(chatID, callbackID, err)
		return
	}
	if !listed(before, skipID) {
		b.answerCallback(callbackID, "This skip is no longer listed, send /start")
		return
	}
	prevID, hadPrev := before.Selection.Selected()

	s, selected, err := b.sessions.Toggle(ctx, sid, skipID)
	if err != nil {
		b.sessionFailed(chatID, callbackID, err)
		return
	}
	b.metrics.RecordToggle(selected)

	screen := view.Build(s.Result(), s.Selection)

	changed := map[int64]bool{skipID: true}
	if hadPrev {
		changed[prevID] = true
	}
	for _, card := range screen.Cards {
		if changed[card.ID] {
			b.refreshCard(chatID, s.Messages, card)
		}
	}

	b.refreshSummary(chatID, s, screen.Summary)
	b.saveSession(ctx, s)

	text := "Deselected"
	if selected {
		text = "Selected"
	}
	b.answerCallback(callbackID, text)
}

func (b *Bot) handleContinue(ctx context.Context, chatID int64, callbackID string) {
	s, err := b.sessions.Get(ctx, sessionID(chatID))
	if err != nil {
		b.sessionFailed(chatID, callbackID, err)
		return
	}

	skipID, ok := s.Selection.Selected()
	if !ok {
		b.answerCallback(callbackID, "Select a skip first")
		return
	}

	b.metrics.RecordContinue()
	b.logger.Info("Continuing with skip",
		zap.Int64("chat_id", chatID),
		zap.Int64("skip_id", skipID))
	b.answerCallback(callbackID, fmt.Sprintf("Continuing with skip: %d", skipID))
}

func (b *Bot) refreshCard(chatID int64, msgs *session.Messages, card view.Card) {
	if msgs == nil {
		return
	}
	msgID, ok := msgs.Cards[card.ID]
	if !ok {
		return
	}

	edit := tgbotapi.NewEditMessageCaption(chatID, msgID, cardCaption(card))
	markup := cardKeyboard(card)
	edit.ReplyMarkup = &markup
	b.request(edit)
}

func (b *Bot) refreshSummary(chatID int64, s *session.Session, summary *view.Summary) {
	if s.Messages == nil {
		s.Messages = &session.Messages{}
	}

	switch {
	case summary == nil && s.Messages.Summary != 0:
		b.request(tgbotapi.NewDeleteMessage(chatID, s.Messages.Summary))
		s.Messages.Summary = 0

	case summary != nil && s.Messages.Summary != 0:
		b.request(tgbotapi.NewEditMessageTextAndMarkup(chatID, s.Messages.Summary,
			summaryText(summary), summaryKeyboard(summary)))

	case summary != nil:
		msg := tgbotapi.NewMessage(chatID, summaryText(summary))
		msg.ReplyMarkup = summaryKeyboard(summary)
		if sent, ok := b.send(msg); ok {
			s.Messages.Summary = sent.MessageID
		}
	}
}

// retireScreen removes the summary of a replaced screen and strips the
// buttons from its cards.
func (b *Bot) retireScreen(chatID int64, msgs *session.Messages) {
	if msgs == nil {
		return
	}
	if msgs.Summary != 0 {
		b.request(tgbotapi.NewDeleteMessage(chatID, msgs.Summary))
	}
	for _, msgID := range msgs.Cards {
		b.request(tgbotapi.NewEditMessageReplyMarkup(chatID, msgID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}))
	}
}

func listed(s *session.Session, skipID int64) bool {
	for _, skip := range s.Skips {
		if skip.ID == skipID {
			return true
		}
	}
	return false
}

func (b *Bot) saveSession(ctx context.Context, s *session.Session) {
	if err := b.sessions.Save(ctx, s); err != nil {
		b.logger.Error("Failed to save session",
			zap.String("session_id", s.ID),
			zap.Error(err))
	}
}

func (b *Bot) sessionFailed(chatID int64, callbackID string, err error) {
	if errors.Is(err, session.ErrNotFound) {
		b.answerCallback(callbackID, "This list has expired, send /start")
		return
	}
	b.logger.Error("Session storage failed",
		zap.Int64("chat_id", chatID),
		zap.Error(err))
	b.answerCallback(callbackID, view.ErrorDetail)
}

func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
