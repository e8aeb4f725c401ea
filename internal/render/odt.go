// Package render turns a built calendar into documents: an Open Document
// Text file with one page per week, and an iCalendar export.
package render

import (
	"archive/zip"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("odt").
	Funcs(template.FuncMap{"x": escapeXML}).
	ParseFS(templateFS, "templates/*.tmpl"))

// Renderer writes a calendar in some document format.
type Renderer interface {
	Render(w io.Writer, yc calendar.YearCalendar) error
}

// ODTWriter renders a week calendar as an Open Document Text file.
type ODTWriter struct {
	Locale *Locale
}

// NewODTWriter returns a writer that uses l for every name printed.
func NewODTWriter(l *Locale) *ODTWriter {
	return &ODTWriter{Locale: l}
}

type dayView struct {
	Weekday    string
	Day        int
	ShortMonth string
	Events     []string
	Padding    bool
}

type weekView struct {
	Title string
	Month string
	Days  []dayView
}

type documentView struct {
	Version   string
	MimeType  string
	Generator string
	Title     string
	Language  string
	Weeks     []weekView
}

// part is one member of the zip container. The mimetype member must be
// first and stored uncompressed.
type part struct {
	name     string
	template string
	method   uint16
}

var parts = []part{
	{config.ODFFileManifest, "manifest.xml.tmpl", zip.Deflate},
	{config.ODFFileMeta, "meta.xml.tmpl", zip.Deflate},
	{config.ODFFileStyles, "styles.xml.tmpl", zip.Deflate},
	{config.ODFFileContent, "content.xml.tmpl", zip.Deflate},
}

// Render writes the whole document to w.
func (o *ODTWriter) Render(w io.Writer, yc calendar.YearCalendar) error {
	doc := o.view(yc)

	zw := zip.NewWriter(w)
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: config.ODFFileMimetype, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrRenderODT, err)
	}
	if _, err := io.WriteString(mt, config.ODFMimeType); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRenderODT, err)
	}
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: p.method})
		if err != nil {
			return fmt.Errorf("%s: %s: %w", config.ErrRenderODT, p.name, err)
		}
		if err := templates.ExecuteTemplate(fw, p.template, doc); err != nil {
			return fmt.Errorf("%s: %s: %w", config.ErrRenderODT, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRenderODT, err)
	}
	return nil
}

func (o *ODTWriter) view(yc calendar.YearCalendar) documentView {
	l := o.Locale
	base, _ := l.Tag().Base()
	doc := documentView{
		Version:   config.ODFVersion,
		MimeType:  config.ODFMimeType,
		Generator: config.ODFGenerator + config.Version,
		Title:     l.DocumentTitle(yc.Year),
		Language:  base.String(),
		Weeks:     make([]weekView, 0, len(yc.Weeks)),
	}
	for _, w := range yc.Weeks {
		wv := weekView{
			Title: l.WeekTitle(w.Number),
			Month: l.MonthHeader(w),
			Days:  make([]dayView, 0, len(w.Days)),
		}
		events := 0
		for _, d := range w.Days {
			dv := dayView{
				Weekday:    l.WeekdayName(d.Date.Weekday()),
				Day:        d.Date.Day(),
				ShortMonth: l.ShortMonthName(d.Date.Month()),
				Events:     l.Events(d),
				Padding:    !d.InYear(yc.Year),
			}
			events += len(dv.Events)
			wv.Days = append(wv.Days, dv)
		}
		slog.Debug(config.MsgWeek,
			config.LogKeyComponent, config.CompRender,
			config.LogKeyWeek, w.Number,
			config.LogKeyEvents, events,
		)
		doc.Weeks = append(doc.Weeks, wv)
	}
	return doc
}

// escapeXML escapes s for use in element content. Newlines become ODF
// line breaks.
func escapeXML(s string) string {
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteString("<text:line-break/>")
		}
		// strings.Builder never fails.
		_ = xml.EscapeText(&b, []byte(line))
	}
	return b.String()
}
