package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/traveller-conductor/internal/action"
	"github.com/i474232898/traveller-conductor/internal/catalogue"
	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

// Handlers implements every callback command. Each handler reads the
// catalogue and the weather cache and answers through the API.
type Handlers struct {
	api       API
	catalogue *catalogue.Store
	weather   weather.Reader
	now       func() time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(api API, store *catalogue.Store, reader weather.Reader) *Handlers {
	return &Handlers{
		api:       api,
		catalogue: store,
		weather:   reader,
		now:       time.Now,
	}
}

// Register binds every handler in r.
func (h *Handlers) Register(r *action.Registry) error {
	handlers := map[action.Name]action.HandlerFunc{
		action.ListLocations:  h.listLocations,
		action.SelectLocation: h.selectLocation,
		action.ShowReference:  h.showReference,
		action.ShowPhotos:     h.showPhotos,
		action.ShowWeather:    h.showWeather,
		action.DeleteMessages: h.deleteMessages,
	}
	for _, name := range action.Names() {
		if err := r.Register(name, handlers[name]); err != nil {
			return err
		}
	}
	return nil
}

func handlerLog(ctx context.Context, name action.Name) zerolog.Logger {
	return logging.Ctx(ctx).With().Str("component", "handlers").Str("command", string(name)).Logger()
}

func (h *Handlers) send(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	return h.api.Send(msg)
}

func (h *Handlers) edit(ev action.Event, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	cfg := tgbotapi.NewEditMessageTextAndMarkup(ev.ChatID, ev.MessageID, text, markup)
	cfg.ParseMode = tgbotapi.ModeHTML
	_, err := h.api.Send(cfg)
	return err
}

// ShowLocations sends the location list, editing messageID when it is set
// and sending a new message otherwise.
func (h *Handlers) ShowLocations(chatID int64, messageID int) error {
	markup := locationsKeyboard(h.catalogue.Locations())
	if messageID == 0 {
		_, err := h.send(chatID, chooseLocationText, markup)
		return err
	}
	return h.edit(action.Event{ChatID: chatID, MessageID: messageID}, chooseLocationText, markup)
}

func (h *Handlers) listLocations(ctx context.Context, ev action.Event, args []string) error {
	return h.ShowLocations(ev.ChatID, ev.MessageID)
}

// location resolves args[0]. ok is false when the handler should stop; an
// unknown id is answered with an apology before returning.
func (h *Handlers) location(ctx context.Context, name action.Name, ev action.Event, args []string) (loc catalogue.Location, ok bool, err error) {
	log := handlerLog(ctx, name)
	if len(args) < 1 {
		log.Warn().Msg("missing location id argument")
		return loc, false, nil
	}

	loc, ok = h.catalogue.Location(args[0])
	if !ok {
		log.Warn().Str("location", args[0]).Msg("unknown location")
		return loc, false, h.edit(ev, locationNotFoundText(args[0]), backToListKeyboard())
	}
	return loc, true, nil
}

func (h *Handlers) selectLocation(ctx context.Context, ev action.Event, args []string) error {
	loc, ok, err := h.location(ctx, action.SelectLocation, ev, args)
	if !ok {
		return err
	}
	return h.edit(ev, actionMenuText(loc), actionMenuKeyboard(loc.ID))
}

func (h *Handlers) showReference(ctx context.Context, ev action.Event, args []string) error {
	loc, ok, err := h.location(ctx, action.ShowReference, ev, args)
	if !ok {
		return err
	}
	return h.edit(ev, referenceText(loc), backToMenuKeyboard(loc.ID))
}

func (h *Handlers) showPhotos(ctx context.Context, ev action.Event, args []string) error {
	loc, ok, err := h.location(ctx, action.ShowPhotos, ev, args)
	if !ok {
		return err
	}
	if len(loc.Photos) == 0 {
		return h.edit(ev, photosMissingText(loc), backToMenuKeyboard(loc.ID))
	}

	log := handlerLog(ctx, action.ShowPhotos)
	if _, err := h.api.Request(tgbotapi.NewDeleteMessage(ev.ChatID, ev.MessageID)); err != nil {
		if !IsBadRequest(err) {
			return fmt.Errorf("delete action menu: %w", err)
		}
		log.Warn().Err(err).Msg("action menu already gone")
	}

	media := make([]interface{}, 0, len(loc.Photos))
	for _, photo := range loc.Photos {
		media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(photo.FileID)))
	}
	sent, err := h.api.SendMediaGroup(tgbotapi.NewMediaGroup(ev.ChatID, media))
	if err != nil {
		// The menu is already gone, so the apology goes out as a new message.
		log.Warn().Err(err).Msg("media group rejected")
		if _, sendErr := h.send(ev.ChatID, photosUnavailableText(loc), backToMenuKeyboard(loc.ID)); sendErr != nil {
			return fmt.Errorf("send media group: %w", errors.Join(err, sendErr))
		}
		return nil
	}

	ids := make([]int, 0, len(sent))
	for _, m := range sent {
		ids = append(ids, m.MessageID)
	}

	back := photosBackButton(loc.ID, ev.ChatID, ids)
	if !action.Fits(*back.CallbackData) {
		log.Warn().Int("bytes", len(*back.CallbackData)).Msg("callback data exceeds platform limit, photos stay in chat")
		back = backToMenuButton(loc.ID)
	}

	_, err = h.send(ev.ChatID, photosText(loc), photoSourcesKeyboard(loc, back))
	return err
}

func (h *Handlers) showWeather(ctx context.Context, ev action.Event, args []string) error {
	loc, ok, err := h.location(ctx, action.ShowWeather, ev, args)
	if !ok {
		return err
	}

	snap, ok := h.weather.Latest(loc.ID)
	if !ok {
		return h.edit(ev, weatherMissingText(loc), backToMenuKeyboard(loc.ID))
	}

	cond, ok := h.catalogue.Condition(snap.ConditionCode)
	if !ok {
		log := handlerLog(ctx, action.ShowWeather)
		log.Warn().Int("code", snap.ConditionCode).Msg("unknown weather condition code")
		cond = unknownCondition
	}

	return h.edit(ev, weatherText(loc, snap, cond, h.now()), backToMenuKeyboard(loc.ID))
}

// deleteMessages expects a chat id followed by one or more message ids. All
// deletions run concurrently; nothing is deleted if any argument is malformed.
func (h *Handlers) deleteMessages(ctx context.Context, ev action.Event, args []string) error {
	log := handlerLog(ctx, action.DeleteMessages)
	if len(args) < 1 {
		log.Warn().Msg("missing chat id argument")
		return nil
	}
	if len(args) < 2 {
		log.Warn().Msg("missing message id arguments")
		return nil
	}

	chatID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		log.Warn().Str("arg", args[0]).Msg("malformed chat id")
		return nil
	}

	ids := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := strconv.Atoi(arg)
		if err != nil {
			log.Warn().Str("arg", arg).Msg("malformed message id")
			return nil
		}
		ids = append(ids, id)
	}

	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, id))
			return err
		})
	}
	return g.Wait()
}
