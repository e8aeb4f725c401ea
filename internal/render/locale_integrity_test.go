package render

import (
	"strconv"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// requiredKeys lists every message the renderer asks for.
func requiredKeys() []string {
	keys := []string{
		config.TKeyWeekTitle,
		config.TKeyBirthday,
		config.TKeyWedding,
		config.TKeyDocTitle,
	}
	for m := 1; m <= config.MonthsPerYear; m++ {
		keys = append(keys,
			config.TKeyMonthPrefix+strconv.Itoa(m),
			config.TKeyShortPrefix+strconv.Itoa(m),
		)
	}
	for d := 0; d < config.DaysPerWeek; d++ {
		keys = append(keys, config.TKeyWeekdayPrefix+strconv.Itoa(d))
	}
	return keys
}

// TestLocaleIntegrity ensures every shipped locale defines every key and
// nothing else.
func TestLocaleIntegrity(t *testing.T) {
	required := map[string]bool{}
	for _, k := range requiredKeys() {
		required[k] = true
	}

	for _, lang := range Languages() {
		t.Run(lang, func(t *testing.T) {
			content, err := localeFS.ReadFile(localeDir + "/" + localePrefix + lang + localeSuffix)
			require.NoError(t, err)

			var messages map[string]string
			require.NoError(t, toml.Unmarshal(content, &messages), "TOML must be valid")

			for key := range required {
				assert.NotEmptyf(t, messages[key], "key %q missing in %s", key, lang)
			}
			for key := range messages {
				assert.Truef(t, required[key], "key %q in %s is never used", key, lang)
			}
		})
	}
}
