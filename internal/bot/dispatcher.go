package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/action"
	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/metrics"
)

// Dispatcher routes callback payloads to registered handlers.
type Dispatcher struct {
	api      API
	registry *action.Registry
}

// NewDispatcher fails if any command a keyboard can emit has no handler.
func NewDispatcher(api API, registry *action.Registry) (*Dispatcher, error) {
	if err := registry.Require(action.Names()...); err != nil {
		return nil, err
	}
	return &Dispatcher{api: api, registry: registry}, nil
}

// Dispatch acknowledges the callback, then runs every command line of payload
// in order, each to completion before the next. Unknown commands and
// transport rejections are logged and skipped; any other handler error stops
// the payload and is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, ev action.Event, payload string) error {
	d.acknowledge(ctx, ev)

	for _, cmd := range action.Parse(payload) {
		if err := d.run(ctx, ev, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) acknowledge(ctx context.Context, ev action.Event) {
	if ev.CallbackID == "" {
		return
	}
	if _, err := d.api.Request(tgbotapi.NewCallback(ev.CallbackID, "")); err != nil {
		logging.Ctx(ctx).Warn().Str("component", "dispatcher").Err(err).Msg("answer callback failed")
	}
}

func (d *Dispatcher) run(ctx context.Context, ev action.Event, cmd action.Command) error {
	log := logging.Ctx(ctx).With().
		Str("component", "dispatcher").
		Str("command", string(cmd.Name)).
		Str("username", ev.Username).
		Logger()

	h, ok := d.registry.Lookup(cmd.Name)
	if !ok {
		log.Warn().Msg("invoked unknown action")
		metrics.CallbacksTotal.WithLabelValues(metrics.OutcomeUnknown, metrics.OutcomeUnknown).Inc()

		if _, err := d.api.Send(tgbotapi.NewMessage(ev.ChatID, invalidInteractionText)); err != nil {
			if !IsBadRequest(err) {
				return fmt.Errorf("send invalid interaction notice: %w", err)
			}
			log.Warn().Err(err).Msg("invalid interaction notice rejected")
		}
		return nil
	}

	log.Debug().Strs("args", cmd.Args).Msg("dispatching")
	err := h.Handle(ctx, ev, cmd.Args)
	switch {
	case err == nil:
		metrics.CallbacksTotal.WithLabelValues(string(cmd.Name), metrics.OutcomeOK).Inc()
		return nil
	case IsBadRequest(err):
		metrics.CallbacksTotal.WithLabelValues(string(cmd.Name), metrics.OutcomeBadRequest).Inc()
		log.Warn().Err(err).Msg("request rejected by platform")
		return nil
	default:
		metrics.CallbacksTotal.WithLabelValues(string(cmd.Name), metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
}
