package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/metrics"
)

type commandFunc func(ctx context.Context, msg *tgbotapi.Message) error

// Commands handles slash commands.
type Commands struct {
	api      API
	handlers *Handlers
	routes   map[string]commandFunc
}

// NewCommands wires /start, /bye and /help.
func NewCommands(api API, handlers *Handlers) *Commands {
	c := &Commands{api: api, handlers: handlers}
	c.routes = map[string]commandFunc{
		"start": c.start,
		"bye":   c.bye,
		"help":  c.help,
	}
	return c
}

// Handle runs the command in msg. Unknown commands are ignored.
func (c *Commands) Handle(ctx context.Context, msg *tgbotapi.Message) error {
	name := msg.Command()
	fn, ok := c.routes[name]
	if !ok {
		logging.Ctx(ctx).Debug().Str("component", "commands").Str("command", name).Msg("ignoring unknown command")
		return nil
	}
	metrics.EntryCommandsTotal.WithLabelValues(name).Inc()
	return fn(ctx, msg)
}

func firstName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return "traveller"
	}
	return msg.From.FirstName
}

func (c *Commands) start(ctx context.Context, msg *tgbotapi.Message) error {
	reply := tgbotapi.NewMessage(msg.Chat.ID, greetingText(firstName(msg)))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = startKeyboard()
	_, err := c.api.Send(reply)
	return err
}

func (c *Commands) bye(ctx context.Context, msg *tgbotapi.Message) error {
	reply := tgbotapi.NewMessage(msg.Chat.ID, farewellText(firstName(msg)))
	reply.ParseMode = tgbotapi.ModeHTML
	_, err := c.api.Send(reply)
	return err
}

// help posts the location list as a brand-new message.
func (c *Commands) help(ctx context.Context, msg *tgbotapi.Message) error {
	return c.handlers.ShowLocations(msg.Chat.ID, 0)
}
