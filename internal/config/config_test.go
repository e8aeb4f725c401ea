package config_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"ODFMimeType", config.ODFMimeType},
		{"DefaultLocale", config.DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestCalendarLimits checks the supported year range and grid constants.
func TestCalendarLimits(t *testing.T) {
	assert.Equal(t, 1, config.MinYear)
	assert.Equal(t, 9999, config.MaxYear)
	assert.Equal(t, 7, config.DaysPerWeek)
	assert.Equal(t, 12, config.MonthsPerYear)
	assert.Equal(t, 2000, config.LeapReferenceYear, "reference year must keep February 29 valid")
}

// TestFormats ensures the format strings render what the documents expect.
func TestFormats(t *testing.T) {
	assert.Equal(t, "calendar-2016.odt", fmt.Sprintf(config.DefaultOutputFormat, 2016))
	assert.Equal(t, "0042-01-09", fmt.Sprintf(config.FormatDate, 42, 1, 9))
	assert.Equal(t, "Remco (25)", fmt.Sprintf(config.FormatAgeLabel, "Remco", 25))
	assert.True(t, strings.HasSuffix(config.StubVCalendar, "END:VCALENDAR\r\n"))
	assert.Contains(t, config.StubVCalendar, config.ICalProdid)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-WeekCalendar/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.WatchDebounce, 0*time.Second)

	assert.Greater(t, config.MaxContactsSize, 0, "MaxContactsSize must be positive")
	assert.Less(t, int64(config.MaxContactsSize), int64(1*1024*1024*1024), "MaxContactsSize should stay under 1GB to protect RAM")
	assert.Less(t, config.MinPort, config.MaxPort)
}
