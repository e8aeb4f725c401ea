// Package loader reads the YAML description of a calendar and turns it into
// a validated, strongly typed configuration.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cerrors "cloudeng.io/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
	"github.com/tartampluch/go-weekcalendar/internal/holidays"
)

// ContactsSource describes an optional vCard file or URL to import
// birthdays from.
type ContactsSource struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
	User string `yaml:"user"`
}

// Config is the validated in-memory form of a calendar description.
type Config struct {
	Year     int
	Locale   string
	Holidays string
	Contacts *ContactsSource
	Rules    *calendar.RuleSet
}

// Options override values of the file.
type Options struct {
	// Year replaces the year of the file when non-zero.
	Year int
	// Locale replaces the locale of the file when non-empty.
	Locale string
}

// file mirrors the YAML document. The annotation sections are kept as
// nodes so that the declaration order of their keys survives decoding.
type file struct {
	Year         int             `yaml:"year"`
	Locale       string          `yaml:"locale"`
	Holidays     string          `yaml:"holidays"`
	SpecialDates yaml.Node       `yaml:"special dates"`
	Birthdays    yaml.Node       `yaml:"birthdays"`
	Weddings     yaml.Node       `yaml:"weddings"`
	Contacts     *ContactsSource `yaml:"contacts"`
}

// Load reads and validates the config file at path. A relative contacts
// path is resolved against the directory of the file.
func Load(path string, opts Options) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadConfig, err)
	}
	cfg, err := Parse(data, opts)
	if err != nil {
		return nil, err
	}
	if c := cfg.Contacts; c != nil && c.Path != "" && !filepath.IsAbs(c.Path) {
		c.Path = filepath.Join(filepath.Dir(path), c.Path)
	}
	slog.Debug(config.MsgConfigLoaded,
		config.LogKeyComponent, config.CompLoader,
		config.LogKeyFile, path,
		config.LogKeyYear, cfg.Year,
		config.LogKeyRules, cfg.Rules.Len(),
	)
	return cfg, nil
}

// Parse validates a YAML document. Every malformed entry is reported; the
// returned error matches calendar.ErrInvalidConfig.
func Parse(data []byte, opts Options) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, calendar.NewConfigError("", "", fmt.Errorf("%s: %w", config.ErrParseYAML, err))
	}

	errs := &cerrors.M{}
	cfg := &Config{
		Year:     f.Year,
		Locale:   f.Locale,
		Holidays: f.Holidays,
		Contacts: f.Contacts,
	}
	if opts.Year != 0 {
		cfg.Year = opts.Year
	}
	if opts.Locale != "" {
		cfg.Locale = opts.Locale
	}
	if cfg.Locale == "" {
		cfg.Locale = config.DefaultLocale
	}
	if cfg.Holidays == "" {
		cfg.Holidays = config.DefaultHolidayTable
	}

	switch {
	case cfg.Year == 0:
		errs.Append(calendar.NewConfigError(config.SectionYear, "", fmt.Errorf("%s", config.ErrYearMissing)))
	case cfg.Year < config.MinYear || cfg.Year > config.MaxYear:
		errs.Append(calendar.NewConfigError(config.SectionYear, "", fmt.Errorf("%w: %d", calendar.ErrInvalidYear, cfg.Year)))
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		errs.Append(calendar.NewConfigError(config.SectionLocale, cfg.Locale, err))
	}
	if _, err := holidays.Lookup(cfg.Holidays); err != nil {
		errs.Append(calendar.NewConfigError(config.SectionHolidays, cfg.Holidays, fmt.Errorf("%s: expected one of %s", config.ErrUnknownHolidays, strings.Join(holidays.Names(), ", "))))
	}
	if c := cfg.Contacts; c != nil && c.Path == "" && c.URL == "" {
		errs.Append(calendar.NewConfigError(config.SectionContacts, "", fmt.Errorf("%s", config.ErrContactsSource)))
	}

	special := parseSpecialDates(&f.SpecialDates, errs)
	birthdays := parseBirthdays(&f.Birthdays, errs)
	weddings := parseWeddings(&f.Weddings, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	cfg.Rules = calendar.NewRuleSet(special, birthdays, weddings)
	return cfg, nil
}

// entries walks a mapping node in declaration order. An absent or null
// section yields nothing.
func entries(section string, n *yaml.Node, errs *cerrors.M, fn func(key string, value *yaml.Node)) {
	switch {
	case n.Kind == 0:
		return
	case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return
	case n.Kind != yaml.MappingNode:
		errs.Append(calendar.NewConfigError(section, "", fmt.Errorf("%s (line %d)", config.ErrNotMapping, n.Line)))
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		fn(n.Content[i].Value, n.Content[i+1])
	}
}

func parseSpecialDates(n *yaml.Node, errs *cerrors.M) []calendar.SpecialDate {
	var out []calendar.SpecialDate
	entries(config.SectionSpecialDates, n, errs, func(key string, value *yaml.Node) {
		month, day, err := calendar.ParseMonthDay(key)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionSpecialDates, key, err))
			return
		}
		var label string
		if err := value.Decode(&label); err != nil {
			errs.Append(calendar.NewConfigError(config.SectionSpecialDates, key, err))
			return
		}
		s, err := calendar.NewSpecialDate(month, day, label)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionSpecialDates, key, err))
			return
		}
		out = append(out, s)
	})
	return out
}

func parseBirthdays(n *yaml.Node, errs *cerrors.M) []calendar.Birthday {
	var out []calendar.Birthday
	entries(config.SectionBirthdays, n, errs, func(key string, value *yaml.Node) {
		origin, err := calendar.ParseDate(key)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionBirthdays, key, err))
			return
		}
		names, err := decodeNames(value)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionBirthdays, key, err))
			return
		}
		b, err := calendar.NewBirthday(origin, names...)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionBirthdays, key, err))
			return
		}
		out = append(out, b)
	})
	return out
}

// parseWeddings accepts either a single couple ("[A, B]") or a list of
// couples ("[[A, B], [C, D]]") under one date.
func parseWeddings(n *yaml.Node, errs *cerrors.M) []calendar.Wedding {
	var out []calendar.Wedding
	entries(config.SectionWeddings, n, errs, func(key string, value *yaml.Node) {
		origin, err := calendar.ParseDate(key)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionWeddings, key, err))
			return
		}
		couples, err := decodeCouples(value)
		if err != nil {
			errs.Append(calendar.NewConfigError(config.SectionWeddings, key, err))
			return
		}
		for _, c := range couples {
			if len(c) != 2 {
				errs.Append(calendar.NewConfigError(config.SectionWeddings, key, fmt.Errorf("%w: %s (got %d)", calendar.ErrInvalidConfig, config.ErrCoupleSize, len(c))))
				continue
			}
			w, err := calendar.NewWedding(origin, c[0], c[1])
			if err != nil {
				errs.Append(calendar.NewConfigError(config.SectionWeddings, key, err))
				continue
			}
			out = append(out, w)
		}
	})
	return out
}

func decodeNames(value *yaml.Node) ([]string, error) {
	var names []string
	switch value.Kind {
	case yaml.SequenceNode:
		if err := value.Decode(&names); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrNamesShape, err)
		}
	case yaml.ScalarNode:
		if value.Tag != "!!null" && value.Value != "" {
			names = []string{value.Value}
		}
	default:
		return nil, fmt.Errorf("%s (line %d)", config.ErrNamesShape, value.Line)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", calendar.ErrInvalidConfig, config.ErrEmptyNames)
	}
	return names, nil
}

func decodeCouples(value *yaml.Node) ([][]string, error) {
	if value.Kind != yaml.SequenceNode || len(value.Content) == 0 {
		return nil, fmt.Errorf("%w: %s", calendar.ErrInvalidConfig, config.ErrEmptyNames)
	}
	if value.Content[0].Kind == yaml.SequenceNode {
		var couples [][]string
		if err := value.Decode(&couples); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrNamesShape, err)
		}
		return couples, nil
	}
	var couple []string
	if err := value.Decode(&couple); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNamesShape, err)
	}
	return [][]string{couple}, nil
}
