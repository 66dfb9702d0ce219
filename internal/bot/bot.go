// Package bot is the chat front end: it turns Telegram updates into
// callback dispatches and slash-command replies.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/action"
	"github.com/i474232898/traveller-conductor/internal/catalogue"
	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

// Bot processes updates one at a time, in arrival order.
type Bot struct {
	source     UpdateSource
	dispatcher *Dispatcher
	commands   *Commands
}

// New wires handlers, registry, dispatcher and slash commands.
func New(api BotAPI, store *catalogue.Store, reader weather.Reader) (*Bot, error) {
	handlers := NewHandlers(api, store, reader)

	registry := action.NewRegistry()
	if err := handlers.Register(registry); err != nil {
		return nil, fmt.Errorf("register handlers: %w", err)
	}

	dispatcher, err := NewDispatcher(api, registry)
	if err != nil {
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}

	return &Bot{
		source:     api,
		dispatcher: dispatcher,
		commands:   NewCommands(api, handlers),
	}, nil
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.source.GetUpdatesChan(u)

	log := logging.Component("telegram")
	log.Info().Msg("polling started")

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		case <-ctx.Done():
			b.source.StopReceivingUpdates()
			log.Info().Msg("polling stopped")
			return nil
		}
	}
}

// HandleUpdate is the top-level hook: errors and panics from one update are
// logged and never escape.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx).With().Int("update_id", update.UpdateID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("update handling panicked")
		}
	}()

	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		err = b.commands.Handle(ctx, update.Message)
	}

	if err != nil {
		log.Error().Err(err).Msg("update handling failed")
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	ev := action.Event{CallbackID: q.ID}
	if q.From != nil {
		ev.Username = q.From.UserName
		ev.FirstName = q.From.FirstName
	}

	logging.Ctx(ctx).Debug().Str("username", ev.Username).Msg("received callback")

	if q.Message == nil || q.Message.Chat == nil {
		// Inline-mode callbacks carry no chat; only acknowledge them.
		return b.dispatcher.Dispatch(ctx, ev, "")
	}
	ev.ChatID = q.Message.Chat.ID
	ev.MessageID = q.Message.MessageID

	return b.dispatcher.Dispatch(ctx, ev, q.Data)
}
