package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// Contacts are the rules imported from an address book.
type Contacts struct {
	// Birthdays holds the contacts whose birth year is known.
	Birthdays []calendar.Birthday
	// SpecialDates holds the contacts with a --MM-DD birthday, labelled
	// with their name.
	SpecialDates []calendar.SpecialDate
}

// Len returns the number of imported rules.
func (c Contacts) Len() int {
	return len(c.Birthdays) + len(c.SpecialDates)
}

// DecodeContacts reads every vCard of r. Cards without a usable BDAY are
// skipped; malformed cards are logged and skipped. A failure of r itself
// ends the import.
func DecodeContacts(ctx context.Context, r io.Reader) (Contacts, error) {
	var out Contacts
	stats := struct{ processed, withBday, skipped int }{}

	src := &stickyReader{r: r}
	decoder := vcard.NewDecoder(src)
	for {
		if err := ctx.Err(); err != nil {
			return Contacts{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if src.err != nil {
			return Contacts{}, fmt.Errorf("%s: %w", config.ErrContactsRead, src.err)
		}
		if err != nil {
			stats.skipped++
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		name := contactName(card)
		date, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			stats.skipped++
			slog.Warn(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyName, name,
				config.LogKeyValue, bday.Value)
			continue
		}

		if yearKnown {
			b, err := calendar.NewBirthday(date, name)
			if err != nil {
				stats.skipped++
				continue
			}
			out.Birthdays = append(out.Birthdays, b)
		} else {
			s, err := calendar.NewSpecialDate(date.Month(), date.Day(), name)
			if err != nil {
				stats.skipped++
				continue
			}
			out.SpecialDates = append(out.SpecialDates, s)
		}
		stats.withBday++
	}

	slog.Info(config.MsgContactsLoaded,
		config.LogKeyComponent, config.CompContacts,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyCount, stats.processed),
			slog.Int(config.LogKeyRules, stats.withBday),
			slog.Int(config.LogKeySkipped, stats.skipped),
		),
	)
	return out, nil
}

// stickyReader remembers the first read error other than io.EOF. The vCard
// decoder cannot tell a broken stream from a broken card.
type stickyReader struct {
	r   io.Reader
	err error
}

func (s *stickyReader) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}

// contactName prefers FN, then N, then a fallback.
func contactName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		return strings.TrimSpace(fn.Value)
	}
	if n := card.Get(config.VCardN); n != nil {
		// N is "Family;Given;Additional;Prefix;Suffix".
		parts := strings.Split(n.Value, ";")
		var words []string
		for _, i := range []int{3, 1, 2, 0, 4} {
			if i < len(parts) && strings.TrimSpace(parts[i]) != "" {
				words = append(words, strings.TrimSpace(parts[i]))
			}
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
	}
	return config.FallbackName
}

// parseDate handles the BDAY forms seen in the wild. The boolean reports
// whether the birth year is known.
func parseDate(value string) (calendar.Date, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			d := calendar.FromTime(t)
			if d.Year() < config.MinYear || d.Year() > config.MaxYear {
				return calendar.Date{}, false, fmt.Errorf("%w: %s", calendar.ErrInvalidDate, value)
			}
			return d, true, nil
		}
	}

	if rest, ok := strings.CutPrefix(value, config.NoYearPrefix); ok {
		if len(rest) == 4 {
			rest = rest[:2] + "-" + rest[2:]
		}
		month, day, err := calendar.ParseMonthDay(rest)
		if err != nil {
			return calendar.Date{}, false, err
		}
		d, err := calendar.NewDate(config.LeapReferenceYear, month, day)
		return d, false, err
	}

	return calendar.Date{}, false, fmt.Errorf("%w: %s", calendar.ErrInvalidDate, value)
}
