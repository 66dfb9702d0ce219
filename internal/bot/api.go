package bot

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/traveller-conductor/internal/logging"
)

// API is the part of the Telegram client the handlers talk to.
// *tgbotapi.BotAPI satisfies it.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// UpdateSource delivers inbound updates.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// BotAPI is everything the running bot needs from the platform client.
type BotAPI interface {
	API
	UpdateSource
}

// Factory creates BotAPI instances (allows mocking).
type Factory func(token, apiEndpoint string, client *http.Client) (BotAPI, error)

// DefaultFactory creates a real Telegram client.
var DefaultFactory Factory = func(token, apiEndpoint string, client *http.Client) (BotAPI, error) {
	b, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
	if err != nil {
		return nil, err
	}
	log := logging.Component("telegram")
	log.Info().Str("username", b.Self.UserName).Msg("authorized")
	return b, nil
}

// Connect builds a Telegram client, optionally through an HTTP proxy.
func Connect(token, proxy string, factory Factory) (BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if factory == nil {
		factory = DefaultFactory
	}

	client := http.DefaultClient
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		client = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}
	}

	b, err := factory(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

// IsBadRequest reports whether err is the platform rejecting a request, for
// example editing a message that no longer exists.
func IsBadRequest(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && tgErr.Code == http.StatusBadRequest
}
