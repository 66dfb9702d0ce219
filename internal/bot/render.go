package bot

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/i474232898/traveller-conductor/internal/catalogue"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

const (
	chooseLocationText     = "🏘 Choose a city from the list:"
	invalidInteractionText = "😡 Stop poking around..."
)

var unknownCondition = catalogue.Condition{
	DayText:    "Unknown conditions",
	DayEmoji:   "❔",
	NightText:  "Unknown conditions",
	NightEmoji: "❔",
}

func greetingText(firstName string) string {
	return fmt.Sprintf("🎉 Hello, %s!", html.EscapeString(firstName))
}

func farewellText(firstName string) string {
	return fmt.Sprintf("👋 See you soon, %s!\n🥺 I'll be waiting for you here.", html.EscapeString(firstName))
}

func locationNotFoundText(id string) string {
	return fmt.Sprintf("<i>Sorry, city <code>%s</code> is not in the catalogue any more :(</i>", html.EscapeString(id))
}

func locationTitle(loc catalogue.Location) string {
	return html.EscapeString(loc.Name) + " " + loc.Emoji
}

func actionMenuText(loc catalogue.Location) string {
	return fmt.Sprintf("<b>Choose what to do with the city</b>\n\n%s City: <code>%s</code>\n🌍 Country: <code>%s</code>",
		loc.Emoji, html.EscapeString(loc.Name), html.EscapeString(loc.Country))
}

func referenceText(loc catalogue.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>About %s</b>\n\n", locationTitle(loc))
	fmt.Fprintf(&b, "○ Country: <code>%s</code>\n", html.EscapeString(loc.Country))
	fmt.Fprintf(&b, "○ Latitude: <code>%s</code>\n", html.EscapeString(loc.Latitude))
	fmt.Fprintf(&b, "○ Longitude: <code>%s</code>\n", html.EscapeString(loc.Longitude))
	fmt.Fprintf(&b, "○ Area: <code>%s km²</code>\n", html.EscapeString(loc.Area))
	fmt.Fprintf(&b, "○ Population: <code>%s</code>", html.EscapeString(loc.Population))
	return b.String()
}

func photosMissingText(loc catalogue.Location) string {
	return fmt.Sprintf("<b>City photos</b>\n\n<b>City:</b> %s\n\n<i>Sorry, there are no photos yet :(</i>\n<i>We will add some later.</i>",
		locationTitle(loc))
}

func photosText(loc catalogue.Location) string {
	return fmt.Sprintf("<b>City photos</b>\n\n<b>City:</b> %s\n\nHere are a few photos of the city 🥺\nOriginal sources are linked below.",
		locationTitle(loc))
}

func photosUnavailableText(loc catalogue.Location) string {
	return fmt.Sprintf("<b>City photos</b>\n\n<b>City:</b> %s\n\n<i>Sorry, photos could not be sent right now :(</i>\n<i>Please try again later.</i>",
		locationTitle(loc))
}

func weatherMissingText(loc catalogue.Location) string {
	return fmt.Sprintf("<b>Current weather</b>\n\n<b>City:</b> %s\n\n<i>Sorry, weather data is not available right now :(</i>\n<i>This may be caused by technical problems.</i>\n<i>Please try again later.</i>",
		locationTitle(loc))
}

func weatherText(loc catalogue.Location, snap weather.Snapshot, cond catalogue.Condition, now time.Time) string {
	local := now.UTC().Add(time.Duration(loc.TimeOffset) * time.Minute)

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Current weather</b>\n\n<b>City:</b> %s\n", locationTitle(loc))
	fmt.Fprintf(&b, "<i>%s</i> %s\n\n", html.EscapeString(cond.Text(snap.IsDay)), cond.Emoji(snap.IsDay))
	fmt.Fprintf(&b, "○ Local time: <code>%s</code> <code>%s</code>\n", local.Format("02.01.06 15:04:05"), gmtLabel(loc.TimeOffset))
	fmt.Fprintf(&b, "○ Temperature: <code>%d°C / %d°F</code>\n", roundDegrees(snap.TempC), roundDegrees(snap.TempF))
	fmt.Fprintf(&b, "○ Feels like: <code>%d°C / %d°F</code>\n", roundDegrees(snap.FeelsLikeC), roundDegrees(snap.FeelsLikeF))
	fmt.Fprintf(&b, "○ Humidity: <code>%d%%</code>\n", snap.Humidity)
	fmt.Fprintf(&b, "○ Cloud cover: <code>%d%%</code>\n\n", snap.Cloud)
	fmt.Fprintf(&b, "Last updated: <b>%d min. ago</b>", snap.MinutesSince(now))
	return b.String()
}

// gmtLabel renders a UTC offset in minutes as GMT+5, GMT-3 or GMT+5:30.
func gmtLabel(offsetMinutes int) string {
	sign := "+"
	if offsetMinutes < 0 {
		sign = "-"
		offsetMinutes = -offsetMinutes
	}
	hours, minutes := offsetMinutes/60, offsetMinutes%60
	if minutes == 0 {
		return fmt.Sprintf("GMT%s%d", sign, hours)
	}
	return fmt.Sprintf("GMT%s%d:%02d", sign, hours, minutes)
}

func roundDegrees(v float64) int {
	return int(math.Round(v))
}
