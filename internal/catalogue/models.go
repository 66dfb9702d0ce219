package catalogue

import (
	"github.com/i474232898/traveller-conductor/internal/weather"
)

// PhotoRef points at a photo already uploaded to the messaging platform.
type PhotoRef struct {
	FileID string `json:"tg_id" validate:"required"`
	Source string `json:"source" validate:"required,url"`
}

// Location is one catalogue entry. Latitude and Longitude are display
// strings; RawLat and RawLon are only used for weather queries.
type Location struct {
	ID         string     `json:"-"`
	Name       string     `json:"name" validate:"required"`
	Country    string     `json:"country" validate:"required"`
	Emoji      string     `json:"emoji"`
	Latitude   string     `json:"latitude"`
	Longitude  string     `json:"longitude"`
	RawLat     float64    `json:"raw_lat" validate:"latitude"`
	RawLon     float64    `json:"raw_lon" validate:"longitude"`
	Area       string     `json:"area"`
	Population string     `json:"population"`
	TimeOffset int        `json:"time_offset" validate:"min=-720,max=840"` // minutes from UTC
	Photos     []PhotoRef `json:"photos" validate:"max=10,dive"`
}

// Point returns the refresh-loop view of the location.
func (l Location) Point() weather.Point {
	return weather.Point{LocationID: l.ID, Lat: l.RawLat, Lon: l.RawLon}
}

// Condition maps a provider condition code to display text and emoji.
type Condition struct {
	Code       int    `json:"code" validate:"required"`
	Icon       int    `json:"icon"`
	DayText    string `json:"day_text" validate:"required"`
	DayEmoji   string `json:"day_emoji"`
	NightText  string `json:"night_text" validate:"required"`
	NightEmoji string `json:"night_emoji"`
}

// Text returns the day or night label.
func (c Condition) Text(isDay bool) string {
	if isDay {
		return c.DayText
	}
	return c.NightText
}

// Emoji returns the day or night glyph.
func (c Condition) Emoji(isDay bool) string {
	if isDay {
		return c.DayEmoji
	}
	return c.NightEmoji
}
