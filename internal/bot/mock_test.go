package bot

import (
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/catalogue"
)

// mockAPI records every outbound call. It is safe for concurrent use.
type mockAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	groups   []tgbotapi.MediaGroupConfig

	sendErr    error
	requestErr func(c tgbotapi.Chattable) error
	groupErr   error
	groupIDs   []int
	nextID     int

	updates chan tgbotapi.Update
	stopped bool
}

func newMockAPI() *mockAPI {
	return &mockAPI{nextID: 500, updates: make(chan tgbotapi.Update)}
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, c)
	if m.sendErr != nil {
		return tgbotapi.Message{}, m.sendErr
	}
	m.nextID++
	return tgbotapi.Message{MessageID: m.nextID}, nil
}

func (m *mockAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, c)
	if m.requestErr != nil {
		if err := m.requestErr(c); err != nil {
			return nil, err
		}
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockAPI) SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = append(m.groups, config)
	if m.groupErr != nil {
		return nil, m.groupErr
	}
	msgs := make([]tgbotapi.Message, 0, len(m.groupIDs))
	for _, id := range m.groupIDs {
		msgs = append(msgs, tgbotapi.Message{MessageID: id})
	}
	return msgs, nil
}

func (m *mockAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updates
}

func (m *mockAPI) StopReceivingUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *mockAPI) sentMessages() []tgbotapi.Chattable {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), m.sent...)
}

func (m *mockAPI) edits() []tgbotapi.EditMessageTextConfig {
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range m.sentMessages() {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockAPI) messages() []tgbotapi.MessageConfig {
	var out []tgbotapi.MessageConfig
	for _, c := range m.sentMessages() {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (m *mockAPI) deletes() []tgbotapi.DeleteMessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tgbotapi.DeleteMessageConfig
	for _, c := range m.requests {
		if d, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

func (m *mockAPI) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func callbackData(markup tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func urlButtons(markup tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, b := range row {
			if b.URL != nil {
				out = append(out, *b.URL)
			}
		}
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func testCatalogue(t *testing.T) *catalogue.Store {
	t.Helper()
	locations := []catalogue.Location{
		{
			ID: "perm", Name: "Perm", Country: "Russia", Emoji: "🐻",
			Latitude: "58°00′N", Longitude: "56°15′E", RawLat: 58.01, RawLon: 56.25,
			Area: "799.7", Population: "1034002", TimeOffset: 300,
			Photos: []catalogue.PhotoRef{
				{FileID: "photo-1", Source: "https://example.com/perm/1.jpg"},
				{FileID: "photo-2", Source: "https://example.com/perm/2.jpg"},
			},
		},
		{
			ID: "sochi", Name: "Sochi", Country: "Russia", Emoji: "🌴",
			RawLat: 43.6, RawLon: 39.73, TimeOffset: 180,
		},
		{
			ID: "delhi", Name: "Delhi", Country: "India", Emoji: "🛕",
			RawLat: 28.61, RawLon: 77.2, TimeOffset: 330,
		},
	}
	conditions := []catalogue.Condition{
		{Code: 1000, DayText: "Sunny", DayEmoji: "☀️", NightText: "Clear", NightEmoji: "🌙"},
	}
	store, err := catalogue.New(locations, conditions)
	if err != nil {
		t.Fatalf("catalogue.New: %v", err)
	}
	return store
}
