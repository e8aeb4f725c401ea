package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      calendar.Date
		yearKnown bool
		wantErr   bool
	}{
		{"ISO dash", "1991-01-11", calendar.MustDate(1991, time.January, 11), true, false},
		{"ISO basic", "19910111", calendar.MustDate(1991, time.January, 11), true, false},
		{"RFC3339", "1991-01-11T08:00:00+01:00", calendar.MustDate(1991, time.January, 11), true, false},
		{"UTC timestamp", "1991-01-11T00:00:00Z", calendar.MustDate(1991, time.January, 11), true, false},
		{"No year dash", "--02-29", calendar.MustDate(2000, time.February, 29), false, false},
		{"No year basic", "--1231", calendar.MustDate(2000, time.December, 31), false, false},
		{"Impossible date", "1991-02-30", calendar.Date{}, false, true},
		{"Impossible no year", "--02-30", calendar.Date{}, false, true},
		{"Garbage", "yesterday", calendar.Date{}, false, true},
		{"Empty", "", calendar.Date{}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, yearKnown, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.yearKnown, yearKnown)
		})
	}
}

func TestContactName(t *testing.T) {
	card := func(fields map[string]string) vcard.Card {
		c := vcard.Card{}
		for k, v := range fields {
			c.SetValue(k, v)
		}
		return c
	}
	assert.Equal(t, "John Doe", contactName(card(map[string]string{vcard.FieldFormattedName: " John Doe "})))
	assert.Equal(t, "Dr. Jane Q Public", contactName(card(map[string]string{vcard.FieldName: "Public;Jane;Q;Dr.;"})))
	assert.Equal(t, "Unknown", contactName(card(map[string]string{vcard.FieldName: ";;;;"})))
	assert.Equal(t, "Unknown", contactName(card(nil)))
}

const addressBook = `BEGIN:VCARD
VERSION:4.0
FN:Remco
BDAY:1991-01-11
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Yearless
BDAY:--03-15
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:No Birthday
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Broken Date
BDAY:sometime
END:VCARD
`

func TestDecodeContacts(t *testing.T) {
	c, err := DecodeContacts(context.Background(), strings.NewReader(addressBook))
	require.NoError(t, err)

	require.Len(t, c.Birthdays, 1)
	assert.Equal(t, calendar.MustDate(1991, time.January, 11), c.Birthdays[0].Origin)
	assert.Equal(t, []string{"Remco"}, c.Birthdays[0].Names)

	require.Len(t, c.SpecialDates, 1)
	assert.Equal(t, calendar.SpecialDate{Month: time.March, Day: 15, Text: "Yearless"}, c.SpecialDates[0])
	assert.Equal(t, 2, c.Len())
}

func TestDecodeContacts_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DecodeContacts(ctx, strings.NewReader(addressBook))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeContacts_Empty(t *testing.T) {
	c, err := DecodeContacts(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

var errBrokenStream = errors.New("stream broken")

// brokenReader serves data, then fails on every further read.
type brokenReader struct {
	data  *strings.Reader
	fails int
}

func (b *brokenReader) Read(p []byte) (int, error) {
	if b.data.Len() > 0 {
		return b.data.Read(p)
	}
	b.fails++
	return 0, errBrokenStream
}

func TestDecodeContacts_ReadError(t *testing.T) {
	r := &brokenReader{data: strings.NewReader("BEGIN:VCARD\nVERSION:4.0\nFN:Remco\nBDAY:1991-01-11\nEND:VCARD\n")}

	_, err := DecodeContacts(context.Background(), r)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBrokenStream)
	assert.Contains(t, err.Error(), config.ErrContactsRead)
	assert.LessOrEqual(t, r.fails, 2, "a failing stream is not retried")
}
