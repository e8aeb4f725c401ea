// Package engine runs the whole pipeline of a calendar: loading the YAML
// description, importing contacts, building the year grid and rendering
// the documents.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
	"github.com/tartampluch/go-weekcalendar/internal/holidays"
	"github.com/tartampluch/go-weekcalendar/internal/loader"
	"github.com/tartampluch/go-weekcalendar/internal/render"
)

// Request selects the config file and the documents to produce.
type Request struct {
	ConfigPath string
	// Year and Locale override the values of the config file when set.
	Year   int
	Locale string
	// ICS also renders the iCalendar export.
	ICS bool
}

// Result holds everything a run produced.
type Result struct {
	Config   *loader.Config
	Calendar calendar.YearCalendar
	ODT      []byte
	ICS      []byte
}

// Generator is the core service turning a config file into documents.
type Generator struct {
	// Now stamps the iCalendar export; nil means time.Now.
	Now func() time.Time
	// Contacts opens the address book of a config; nil means a
	// ContactsFetcher with default settings.
	Contacts AddressBook
}

// NewGenerator returns a generator wired to the real clock, network and
// keyring.
func NewGenerator() *Generator {
	return &Generator{
		Now:      time.Now,
		Contacts: NewContactsFetcher(),
	}
}

// Run executes load, import, build and render.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyFile, req.ConfigPath,
	)
	log.InfoContext(ctx, config.MsgGenStarted)

	cfg, err := loader.Load(req.ConfigPath, loader.Options{Year: req.Year, Locale: req.Locale})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLoadConfig, err)
	}

	rules := cfg.Rules
	if cfg.Contacts != nil {
		contacts, err := g.importContacts(ctx, cfg.Contacts)
		if err != nil {
			return nil, err
		}
		rules = rules.With(contacts.SpecialDates, contacts.Birthdays, nil)
	}

	hc, err := holidays.Lookup(cfg.Holidays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildCalendar, err)
	}
	yc, err := calendar.Build(cfg.Year, rules, calendar.WithHolidays(hc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildCalendar, err)
	}

	locale, err := render.NewLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}

	res := &Result{Config: cfg, Calendar: yc}
	if res.ODT, err = renderBytes(render.NewODTWriter(locale), yc); err != nil {
		return nil, err
	}
	if req.ICS {
		if res.ICS, err = renderBytes(render.NewICSWriter(locale, g.now()), yc); err != nil {
			return nil, err
		}
	}

	annotated := 0
	for day := range yc.Days() {
		if !day.Empty() {
			annotated++
		}
	}
	log.InfoContext(ctx, config.MsgGenSuccess,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyYear, yc.Year),
			slog.Int(config.LogKeyWeeks, len(yc.Weeks)),
			slog.Int(config.LogKeyRules, rules.Len()),
			slog.Int(config.LogKeyAnnotated, annotated),
		),
	)
	log.DebugContext(ctx, config.MsgGenFinished, config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func renderBytes(r render.Renderer, yc calendar.YearCalendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, yc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// importContacts reads the address book of src.
func (g *Generator) importContacts(ctx context.Context, src *loader.ContactsSource) (Contacts, error) {
	book := g.Contacts
	if book == nil {
		book = &ContactsFetcher{}
	}
	rc, err := book.Open(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return Contacts{}, ctx.Err()
		}
		return Contacts{}, fmt.Errorf("%s: %w", config.ErrContactsOpen, err)
	}
	defer func() { _ = rc.Close() }()
	return DecodeContacts(ctx, rc)
}
