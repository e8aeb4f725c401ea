package render

import (
	"embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
)

//go:embed locales/*.toml
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".toml"
)

// bundle is loaded once; go-i18n bundles are read-only after loading.
var bundle = sync.OnceValues(loadBundle)

func loadBundle() (*i18n.Bundle, []string) {
	b := i18n.NewBundle(language.Dutch)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return b, nil
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if lang == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}
		if _, err := b.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyFile, name,
		)
		langs = append(langs, lang)
	}
	return b, langs
}

// Languages returns the locales shipped with the binary.
func Languages() []string {
	_, langs := bundle()
	return langs
}

// Locale provides the static name tables and annotation texts of one
// language. It is safe for concurrent use.
type Locale struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// NewLocale returns the locale for lang, e.g. "nl" or "en-GB". Languages
// without a message file fall back to Dutch.
func NewLocale(lang string) (*Locale, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", config.ErrLocaleTag, lang, err)
	}
	b, _ := bundle()
	return &Locale{
		tag:       tag,
		localizer: i18n.NewLocalizer(b, tag.String()),
	}, nil
}

// Tag returns the language of the locale.
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// msg translates key, falling back to the key itself.
func (l *Locale) msg(key string, data map[string]any) string {
	out, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, l.tag.String(),
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
	}
	if out == "" {
		return key
	}
	return out
}

func (l *Locale) title(s string) string {
	return cases.Title(l.tag).String(s)
}

// MonthName returns the capitalized month name, e.g. "Januari".
func (l *Locale) MonthName(m time.Month) string {
	return l.title(l.msg(config.TKeyMonthPrefix+strconv.Itoa(int(m)), nil))
}

// ShortMonthName returns the lower case abbreviation, e.g. "jan".
func (l *Locale) ShortMonthName(m time.Month) string {
	return l.msg(config.TKeyShortPrefix+strconv.Itoa(int(m)), nil)
}

// WeekdayName returns the capitalized day name, e.g. "Maandag".
func (l *Locale) WeekdayName(w calendar.Weekday) string {
	return l.title(l.msg(config.TKeyWeekdayPrefix+strconv.Itoa(int(w)), nil))
}

// WeekTitle returns the heading of a week page.
func (l *Locale) WeekTitle(number int) string {
	return l.msg(config.TKeyWeekTitle, map[string]any{"Number": number})
}

// DocumentTitle returns the title of the whole calendar.
func (l *Locale) DocumentTitle(year int) string {
	return l.msg(config.TKeyDocTitle, map[string]any{"Year": year})
}

// MonthHeader names the month of a week, or both months joined with " / "
// when the week straddles a month boundary.
func (l *Locale) MonthHeader(w calendar.Week) string {
	first, last := w.Months()
	if first == last {
		return l.MonthName(first)
	}
	return l.MonthName(first) + config.MonthSeparator + l.MonthName(last)
}

// Entry is one printed line of a day together with the kind of
// annotation it comes from.
type Entry struct {
	Category string
	Text     string
}

// Entries returns the lines printed on a day: holidays first, then the
// rule matches in their precedence order. Birthdays print one line per
// name.
func (l *Locale) Entries(day calendar.AnnotatedDay) []Entry {
	out := make([]Entry, 0, len(day.Holidays)+len(day.Matches))
	for _, h := range day.Holidays {
		out = append(out, Entry{Category: config.SectionHolidays, Text: h})
	}
	year := day.Date.Year()
	for _, m := range day.Matches {
		category := m.Rule.Kind().String()
		switch r := m.Rule.(type) {
		case calendar.Birthday:
			age, _ := r.Age(year)
			for _, name := range r.Names {
				out = append(out, Entry{category, l.msg(config.TKeyBirthday, map[string]any{"Name": name, "Age": age})})
			}
		case calendar.Wedding:
			age, _ := r.Age(year)
			names := strings.Join(r.Couple[:], config.CoupleSeparator)
			out = append(out, Entry{category, l.msg(config.TKeyWedding, map[string]any{"Names": names, "Age": age})})
		default:
			out = append(out, Entry{category, m.Label})
		}
	}
	return out
}

// Events returns only the texts of Entries.
func (l *Locale) Events(day calendar.AnnotatedDay) []string {
	entries := l.Entries(day)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}
