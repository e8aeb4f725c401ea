package render

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// ICSWriter exports the annotations of a calendar as all-day iCalendar
// events. Padding days of the neighbouring years are left out.
type ICSWriter struct {
	Locale *Locale
	// Stamp is written as DTSTAMP on every event.
	Stamp time.Time
}

// NewICSWriter returns a writer stamping events with stamp.
func NewICSWriter(l *Locale, stamp time.Time) *ICSWriter {
	return &ICSWriter{Locale: l, Stamp: stamp}
}

// Render writes the iCalendar stream to w. A calendar without any
// annotation still yields a valid, empty VCALENDAR.
func (c *ICSWriter) Render(w io.Writer, yc calendar.YearCalendar) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, fmt.Sprintf(config.ICalCalName, yc.Year))
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(c.Stamp.UTC())

	for day := range yc.Days() {
		if !day.InYear(yc.Year) {
			continue
		}
		for i, e := range c.Locale.Entries(day) {
			event := ical.NewEvent()
			event.Props.SetText(config.PropUID, eventUID(day.Date, i, e))
			event.Props.SetText(config.PropSummary, e.Text)
			event.Props.SetText(config.PropCategories, e.Category)

			start := ical.NewProp(config.PropDTStart)
			start.SetDate(day.Date.Time())
			event.Props.Set(start)
			event.Props.Set(stamp)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	if len(cal.Children) == 0 {
		if _, err := io.WriteString(w, config.StubVCalendar); err != nil {
			return fmt.Errorf("%s: %w", config.ErrRenderICS, err)
		}
		return nil
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRenderICS, err)
	}
	return nil
}

// eventUID is stable across runs so that calendar clients update events
// in place instead of duplicating them.
func eventUID(d calendar.Date, index int, e Entry) string {
	input := fmt.Sprintf(config.FormatHashInput, d, index, e.Category, e.Text, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), d.Year(), config.ICalDomain)
}
