package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-weekcalendar/internal/config"
	"github.com/tartampluch/go-weekcalendar/internal/engine"
	"github.com/tartampluch/go-weekcalendar/internal/loader"
)

// mapKeyring serves passwords from memory, keyed by user.
type mapKeyring map[string]string

func (m mapKeyring) Get(service, user string) (string, error) {
	if service != config.KeyringService {
		return "", keyring.ErrNotFound
	}
	p, ok := m[user]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return p, nil
}

func newFetcher(kr engine.Keyring) *engine.ContactsFetcher {
	f := engine.NewContactsFetcher()
	f.Keyring = kr
	return f
}

// TestContactsFetcher_Download verifies a complete successful download flow.
// The password comes from the keyring of the configured user.
func TestContactsFetcher_Download(t *testing.T) {
	expectedBody := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nBDAY:1991-01-11\nEND:VCARD"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, "testuser", user)
		assert.Equal(t, "securepass", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, config.MimeVCard, r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	f := newFetcher(mapKeyring{"testuser": "securepass"})
	rc, err := f.Open(context.Background(), &loader.ContactsSource{URL: ts.URL, User: "testuser"})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

// TestContactsFetcher_NoPassword sends the user alone when the keyring
// has no entry, and no credentials at all without a user.
func TestContactsFetcher_NoPassword(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		wantAuth bool
	}{
		{"User without keyring entry", "nobody", true},
		{"Anonymous", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, pass, ok := r.BasicAuth()
				assert.Equal(t, tt.wantAuth, ok)
				assert.Equal(t, tt.user, user)
				assert.Empty(t, pass)
			}))
			defer ts.Close()

			rc, err := newFetcher(mapKeyring{}).Open(context.Background(), &loader.ContactsSource{URL: ts.URL, User: tt.user})
			require.NoError(t, err)
			_ = rc.Close()
		})
	}
}

// TestContactsFetcher_StatusErrors verifies proper error handling for non-200 statuses.
func TestContactsFetcher_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := newFetcher(mapKeyring{}).Open(context.Background(), &loader.ContactsSource{URL: ts.URL})

			assert.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), config.ErrHTTPStatus)
		})
	}
}

// TestContactsFetcher_LoginPage rejects an HTML answer served with 200.
func TestContactsFetcher_LoginPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>Please sign in</body></html>"))
	}))
	defer ts.Close()

	rc, err := newFetcher(mapKeyring{}).Open(context.Background(), &loader.ContactsSource{URL: ts.URL})
	require.Error(t, err)
	assert.Nil(t, rc)
	assert.Contains(t, err.Error(), config.ErrContentType)
}

// TestContactsFetcher_Timeout ensures the client respects context deadlines.
func TestContactsFetcher_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := newFetcher(mapKeyring{}).Open(ctx, &loader.ContactsSource{URL: ts.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestContactsFetcher_BadURL ensures malformed URLs and foreign schemes
// are caught before any request.
func TestContactsFetcher_BadURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Control character", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP", "ftp://example.com/file.vcf", config.ErrProtocol},
		{"File scheme", "file:///etc/passwd", config.ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFetcher(mapKeyring{}).Open(context.Background(), &loader.ContactsSource{URL: tt.url})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestContactsFetcher_SizeLimit caps the body at MaxContactsSize.
func TestContactsFetcher_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 1024*1024)
		for written := 0; written <= config.MaxContactsSize; written += len(chunk) {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer ts.Close()

	rc, err := newFetcher(mapKeyring{}).Open(context.Background(), &loader.ContactsSource{URL: ts.URL})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	n, err := io.Copy(io.Discard, rc)
	require.NoError(t, err)
	assert.Equal(t, int64(config.MaxContactsSize), n)
}

// TestContactsFetcher_LocalFile prefers the path over the URL.
func TestContactsFetcher_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.vcf")
	require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCARD\nEND:VCARD\n"), 0o600))

	var f engine.ContactsFetcher
	rc, err := f.Open(context.Background(), &loader.ContactsSource{Path: path, URL: "https://unused.invalid/"})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCARD\nEND:VCARD\n", string(body))

	_, err = f.Open(context.Background(), &loader.ContactsSource{Path: filepath.Join(t.TempDir(), "missing.vcf")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
