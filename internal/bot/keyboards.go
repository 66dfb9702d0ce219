package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/action"
	"github.com/i474232898/traveller-conductor/internal/catalogue"
)

const (
	locationsPerRow = 2
	sourcesPerRow   = 5
)

func dataButton(text string, cmds ...action.Command) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, action.Encode(cmds...))
}

// locationsKeyboard lists every catalogue location, in catalogue order.
func locationsKeyboard(locations []catalogue.Location) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, loc := range locations {
		row = append(row, dataButton(loc.Emoji+" "+loc.Name, action.New(action.SelectLocation, loc.ID)))
		if len(row) == locationsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dataButton("🔎 Get fresh info", action.New(action.ListLocations))),
	)
}

func backToListKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dataButton("🏘 Choose another city", action.New(action.ListLocations))),
	)
}

// actionMenuKeyboard is the per-location menu.
func actionMenuKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			dataButton("📚 Open reference", action.New(action.ShowReference, id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			dataButton("📷 Photos", action.New(action.ShowPhotos, id)),
			dataButton("🌤 Weather", action.New(action.ShowWeather, id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			dataButton("🏘 Choose another city", action.New(action.ListLocations)),
		),
	)
}

const backToMenuLabel = "🎲 Back to actions"

func backToMenuKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(backToMenuButton(id)),
	)
}

// photoSourcesKeyboard links every photo source, then adds back as the last row.
func photoSourcesKeyboard(loc catalogue.Location, back tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, photo := range loc.Photos {
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL(fmt.Sprintf("Source #%d", i+1), photo.Source))
		if len(row) == sourcesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(back))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// photosBackButton first deletes the media group messages, then reopens the
// action menu.
func photosBackButton(id string, chatID int64, mediaIDs []int) tgbotapi.InlineKeyboardButton {
	deleteArgs := make([]string, 0, len(mediaIDs)+1)
	deleteArgs = append(deleteArgs, strconv.FormatInt(chatID, 10))
	for _, mid := range mediaIDs {
		deleteArgs = append(deleteArgs, strconv.Itoa(mid))
	}

	return dataButton(backToMenuLabel,
		action.New(action.DeleteMessages, deleteArgs...),
		action.New(action.SelectLocation, id),
	)
}

func backToMenuButton(id string) tgbotapi.InlineKeyboardButton {
	return dataButton(backToMenuLabel, action.New(action.SelectLocation, id))
}

// OversizedCallbacks returns every callback payload in markup longer than
// the platform allows.
func OversizedCallbacks(markup tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil && !action.Fits(*b.CallbackData) {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

// StaticKeyboards returns every keyboard that depends only on the catalogue,
// used by the validate command.
func StaticKeyboards(store *catalogue.Store) []tgbotapi.InlineKeyboardMarkup {
	boards := []tgbotapi.InlineKeyboardMarkup{
		startKeyboard(),
		backToListKeyboard(),
		locationsKeyboard(store.Locations()),
	}
	for _, loc := range store.Locations() {
		boards = append(boards, actionMenuKeyboard(loc.ID), backToMenuKeyboard(loc.ID))
	}
	return boards
}
