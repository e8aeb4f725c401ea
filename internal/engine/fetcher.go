package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-weekcalendar/internal/config"
	"github.com/tartampluch/go-weekcalendar/internal/loader"
)

// AddressBook opens the vCard stream a contacts section points at.
type AddressBook interface {
	Open(ctx context.Context, src *loader.ContactsSource) (io.ReadCloser, error)
}

// Keyring looks up the password stored for a user.
type Keyring interface {
	Get(service, user string) (string, error)
}

// SystemKeyring reads from the keyring of the operating system.
type SystemKeyring struct{}

// Get implements Keyring.
func (SystemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

// ContactsFetcher implements AddressBook for local vCard files and remote
// address book exports (CardDAV servers, web shares). The zero value uses
// the system keyring and a client with the default timeout.
type ContactsFetcher struct {
	Client  *http.Client
	Keyring Keyring
}

// NewContactsFetcher returns a fetcher wired to the network and the
// system keyring.
func NewContactsFetcher() *ContactsFetcher {
	return &ContactsFetcher{
		Client:  &http.Client{Timeout: config.HTTPTimeout},
		Keyring: SystemKeyring{},
	}
}

// Open returns the address book of src, capped at config.MaxContactsSize.
// A path wins over a URL.
func (f *ContactsFetcher) Open(ctx context.Context, src *loader.ContactsSource) (io.ReadCloser, error) {
	if src.Path != "" {
		return openFile(src.Path)
	}
	return f.download(ctx, src)
}

func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug(config.MsgContactsFile,
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyPath, path,
	)
	return capped(file), nil
}

// download fetches src.URL with the keyring password of src.User. Query
// parameters are never logged.
func (f *ContactsFetcher) download(ctx context.Context, src *loader.ContactsSource) (io.ReadCloser, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.DebugContext(ctx, config.MsgFetchStart, slog.String(config.LogKeyUser, src.User))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestCreate, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCard)
	if src.User != "" {
		req.SetBasicAuth(src.User, f.password(src.User))
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: config.HTTPTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.WarnContext(ctx, config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrHTTPStatus, resp.StatusCode, resp.Status)
	}
	// Expired sessions often answer 200 with a login page.
	if ct := resp.Header.Get(config.HeaderContentType); ct != "" {
		if media, _, err := mime.ParseMediaType(ct); err == nil && media == config.MediaHTML {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%s: %s", config.ErrContentType, media)
		}
	}

	log.InfoContext(ctx, config.MsgFetchBody, slog.Int64(config.LogKeyLength, resp.ContentLength))
	return capped(resp.Body), nil
}

// password returns the keyring secret of user, or "" when there is none.
func (f *ContactsFetcher) password(user string) string {
	kr := f.Keyring
	if kr == nil {
		kr = SystemKeyring{}
	}
	p, err := kr.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompFetcher,
			config.LogKeyUser, user,
			config.LogKeyError, err)
		return ""
	}
	return p
}

// cappedReadCloser reads through a size limit and closes the source.
type cappedReadCloser struct {
	io.Reader
	io.Closer
}

func capped(rc io.ReadCloser) io.ReadCloser {
	return cappedReadCloser{
		Reader: io.LimitReader(rc, config.MaxContactsSize),
		Closer: rc,
	}
}
