package bot

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/action"
	"github.com/i474232898/traveller-conductor/internal/store"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

func newTestHandlers(t *testing.T) (*Handlers, *mockAPI, *store.MemoryStore) {
	t.Helper()
	api := newMockAPI()
	mem := store.NewMemoryStore()
	return NewHandlers(api, testCatalogue(t), mem), api, mem
}

var testEvent = action.Event{CallbackID: "cb", ChatID: 42, MessageID: 7, Username: "ann", FirstName: "Ann"}

func TestSelectLocationEndToEnd(t *testing.T) {
	api := newMockAPI()
	b, err := New(api, testCatalogue(t), store.NewMemoryStore())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b.HandleUpdate(context.Background(), tgbotapi.Update{
		UpdateID: 1,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{UserName: "ann", FirstName: "Ann"},
			Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 42}},
			Data:    "#select_location perm",
		},
	})

	edits := api.edits()
	if len(edits) != 1 {
		t.Fatalf("expected exactly one edit, got %d", len(edits))
	}
	e := edits[0]
	if e.ChatID != 42 || e.MessageID != 7 {
		t.Fatalf("edit targets wrong message: %d/%d", e.ChatID, e.MessageID)
	}
	if !strings.Contains(e.Text, "Perm") || !strings.Contains(e.Text, "Russia") {
		t.Fatalf("menu text missing name or country: %q", e.Text)
	}

	data := callbackData(*e.ReplyMarkup)
	for _, want := range []string{"#show_reference perm", "#show_photos perm", "#show_weather perm", "#list_locations"} {
		if !contains(data, want) {
			t.Errorf("menu missing %q, got %v", want, data)
		}
	}
}

func TestListLocationsEditsWithEveryLocation(t *testing.T) {
	h, api, _ := newTestHandlers(t)

	if err := h.listLocations(context.Background(), testEvent, nil); err != nil {
		t.Fatalf("listLocations: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(edits))
	}
	markup := *edits[0].ReplyMarkup
	if len(markup.InlineKeyboard) != 2 || len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected grid shape: %+v", markup.InlineKeyboard)
	}
	data := callbackData(markup)
	want := []string{"#select_location perm", "#select_location sochi", "#select_location delhi"}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("button %d: got %q, want %q", i, data[i], want[i])
		}
	}
}

func TestUnknownLocationFailsSoftly(t *testing.T) {
	h, api, _ := newTestHandlers(t)

	if err := h.selectLocation(context.Background(), testEvent, []string{"atlantis"}); err != nil {
		t.Fatalf("selectLocation: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 || !strings.Contains(edits[0].Text, "atlantis") {
		t.Fatalf("expected an apology edit, got %+v", edits)
	}
	if !contains(callbackData(*edits[0].ReplyMarkup), "#list_locations") {
		t.Fatal("apology must offer a way back to the list")
	}
}

func TestMissingArgumentsAreIgnored(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	ctx := context.Background()

	for name, fn := range map[string]action.HandlerFunc{
		"select_location": h.selectLocation,
		"show_reference":  h.showReference,
		"show_photos":     h.showPhotos,
		"show_weather":    h.showWeather,
	} {
		if err := fn(ctx, testEvent, nil); err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
	if n := len(api.sentMessages()); n != 0 {
		t.Fatalf("expected no messages, got %d", n)
	}
}

func TestShowReference(t *testing.T) {
	h, api, _ := newTestHandlers(t)

	if err := h.showReference(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showReference: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(edits))
	}
	for _, want := range []string{"58°00′N", "56°15′E", "799.7", "1034002"} {
		if !strings.Contains(edits[0].Text, want) {
			t.Errorf("reference missing %q", want)
		}
	}
	if data := callbackData(*edits[0].ReplyMarkup); len(data) != 1 || data[0] != "#select_location perm" {
		t.Fatalf("unexpected back button: %v", data)
	}
}

func TestShowPhotosWithoutPhotos(t *testing.T) {
	h, api, _ := newTestHandlers(t)

	if err := h.showPhotos(context.Background(), testEvent, []string{"sochi"}); err != nil {
		t.Fatalf("showPhotos: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 || !strings.Contains(edits[0].Text, "no photos") {
		t.Fatalf("expected apology edit, got %+v", edits)
	}
	if len(api.groups) != 0 || len(api.deletes()) != 0 {
		t.Fatal("no media should be sent and nothing deleted")
	}
}

func TestShowPhotos(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	api.groupIDs = []int{101, 102}

	if err := h.showPhotos(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showPhotos: %v", err)
	}

	deletes := api.deletes()
	if len(deletes) != 1 || deletes[0].ChatID != 42 || deletes[0].MessageID != 7 {
		t.Fatalf("expected the menu to be deleted, got %+v", deletes)
	}
	if len(api.groups) != 1 || len(api.groups[0].Media) != 2 {
		t.Fatalf("expected one media group of 2, got %+v", api.groups)
	}

	msgs := api.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one follow-up message, got %d", len(msgs))
	}
	markup, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("unexpected markup type %T", msgs[0].ReplyMarkup)
	}
	if urls := urlButtons(markup); len(urls) != 2 || urls[0] != "https://example.com/perm/1.jpg" {
		t.Fatalf("unexpected source buttons: %v", urls)
	}
	data := callbackData(markup)
	want := "#delete 42 101 102\n#select_location perm"
	if len(data) != 1 || data[0] != want {
		t.Fatalf("back button: got %v, want %q", data, want)
	}
}

func TestShowPhotosMenuAlreadyDeleted(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	api.groupIDs = []int{101, 102}
	api.requestErr = func(c tgbotapi.Chattable) error {
		if _, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			return &tgbotapi.Error{Code: 400, Message: "Bad Request: message to delete not found"}
		}
		return nil
	}

	if err := h.showPhotos(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showPhotos: %v", err)
	}
	if len(api.groups) != 1 || len(api.messages()) != 1 {
		t.Fatal("photos should still be sent")
	}
}

func TestShowPhotosMediaGroupRejected(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	api.groupErr = &tgbotapi.Error{Code: 400, Message: "Bad Request: wrong file identifier"}

	if err := h.showPhotos(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showPhotos: %v", err)
	}

	if len(api.deletes()) != 1 {
		t.Fatal("expected the menu to be deleted")
	}
	msgs := api.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "could not be sent") || msgs[0].ChatID != 42 {
		t.Fatalf("expected an apology as a new message, got %+v", msgs)
	}
	markup := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if data := callbackData(markup); len(data) != 1 || data[0] != "#select_location perm" {
		t.Fatalf("apology must lead back to the menu, got %v", data)
	}
}

func TestShowPhotosMediaGroupAndApologyFail(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	api.groupErr = errors.New("connection reset")
	api.sendErr = errors.New("connection reset")

	if err := h.showPhotos(context.Background(), testEvent, []string{"perm"}); err == nil {
		t.Fatal("expected error when nothing could be sent")
	}
}

func TestShowPhotosOversizedBackFallsBackToMenu(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	ev := testEvent
	ev.ChatID = -1001234567890
	api.groupIDs = []int{1000001, 1000002, 1000003, 1000004, 1000005, 1000006, 1000007, 1000008, 1000009, 1000010}

	if err := h.showPhotos(context.Background(), ev, []string{"perm"}); err != nil {
		t.Fatalf("showPhotos: %v", err)
	}

	msgs := api.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one follow-up message, got %d", len(msgs))
	}
	markup := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if over := OversizedCallbacks(markup); len(over) != 0 {
		t.Fatalf("follow-up keyboard carries oversized payloads: %v", over)
	}
	if data := callbackData(markup); len(data) != 1 || data[0] != "#select_location perm" {
		t.Fatalf("expected a plain back button, got %v", data)
	}
	if urls := urlButtons(markup); len(urls) != 2 {
		t.Fatalf("source links must survive the fallback, got %v", urls)
	}
}

func TestShowWeatherMissing(t *testing.T) {
	h, api, _ := newTestHandlers(t)

	if err := h.showWeather(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showWeather: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 || !strings.Contains(edits[0].Text, "not available") {
		t.Fatalf("expected apology edit, got %+v", edits)
	}
}

func TestShowWeather(t *testing.T) {
	h, api, mem := newTestHandlers(t)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	mem.Save("perm", weather.Snapshot{
		ObservedAt:    now.Add(-90 * time.Second),
		TempC:         21.4,
		TempF:         70.5,
		FeelsLikeC:    20.6,
		FeelsLikeF:    69.1,
		Humidity:      55,
		Cloud:         10,
		IsDay:         true,
		ConditionCode: 1000,
	})

	if err := h.showWeather(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showWeather: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(edits))
	}
	text := edits[0].Text
	for _, want := range []string{"Sunny", "01.03.24 15:00:00", "GMT+5", "21°C / 71°F", "21°C / 69°F", "55%", "10%", "1 min. ago"} {
		if !strings.Contains(text, want) {
			t.Errorf("weather text missing %q:\n%s", want, text)
		}
	}
}

func TestShowWeatherUnknownCondition(t *testing.T) {
	h, api, mem := newTestHandlers(t)
	mem.Save("perm", weather.Snapshot{ObservedAt: time.Now().UTC(), ConditionCode: 9999})

	if err := h.showWeather(context.Background(), testEvent, []string{"perm"}); err != nil {
		t.Fatalf("showWeather: %v", err)
	}
	edits := api.edits()
	if len(edits) != 1 || !strings.Contains(edits[0].Text, unknownCondition.DayText) {
		t.Fatalf("expected fallback condition text, got %+v", edits)
	}
}

func TestDeleteMessages(t *testing.T) {
	h, api, _ := newTestHandlers(t)

	if err := h.deleteMessages(context.Background(), testEvent, []string{"42", "5", "6", "7"}); err != nil {
		t.Fatalf("deleteMessages: %v", err)
	}

	deletes := api.deletes()
	ids := make([]int, 0, len(deletes))
	for _, d := range deletes {
		if d.ChatID != 42 {
			t.Fatalf("wrong chat id %d", d.ChatID)
		}
		ids = append(ids, d.MessageID)
	}
	sort.Ints(ids)
	if len(ids) != 3 || ids[0] != 5 || ids[1] != 6 || ids[2] != 7 {
		t.Fatalf("unexpected deletions: %v", ids)
	}
}

func TestDeleteMessagesRejectsMalformedArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"chat only", []string{"42"}},
		{"bad chat", []string{"chat", "5"}},
		{"bad message", []string{"42", "5", "x", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, api, _ := newTestHandlers(t)
			if err := h.deleteMessages(context.Background(), testEvent, tt.args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n := len(api.deletes()); n != 0 {
				t.Fatalf("expected no deletions, got %d", n)
			}
		})
	}
}

func TestDeleteMessagesReturnsBadRequest(t *testing.T) {
	h, api, _ := newTestHandlers(t)
	api.requestErr = func(c tgbotapi.Chattable) error {
		if d, ok := c.(tgbotapi.DeleteMessageConfig); ok && d.MessageID == 6 {
			return &tgbotapi.Error{Code: 400, Message: "Bad Request: message to delete not found"}
		}
		return nil
	}

	err := h.deleteMessages(context.Background(), testEvent, []string{"42", "5", "6"})
	if !IsBadRequest(err) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if n := len(api.deletes()); n != 2 {
		t.Fatalf("every deletion should be attempted, got %d", n)
	}
}
