package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-WeekCalendar/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Week Calendar"
	AppID             = "com.github.tartampluch.go-weekcalendar"
	KeyringService    = "com.github.tartampluch.go-weekcalendar"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// FilePermOutput represents -rw-r--r--, used for generated documents.
	FilePermOutput fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagYear    = "year"
	FlagOutput  = "output"
	FlagICS     = "ics"
	FlagLang    = "lang"
	FlagServe   = "serve"
	FlagPort    = "port"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescYear    = "The year to render the calendar for (default: year specified in config file)"
	FlagDescOutput  = "The output file to write the calendar to (default: calendar-{year}.odt)"
	FlagDescICS     = "Also export the annotations as an iCalendar file"
	FlagDescLang    = "Language used for day and month names (default: locale from config file)"
	FlagDescServe   = "Keep running, publish the calendar over HTTP and regenerate it when the config changes"
	FlagDescPort    = "Port of the local HTTP server used with -serve"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUsage         = "Usage: %s [flags] <config.yaml>\n\nGenerate a week calendar for an entire year in odt format.\n\nFlags:\n"
)

// -----------------------------------------------------------------------------
// Calendar Limits & Defaults
// -----------------------------------------------------------------------------

const (
	// MinYear and MaxYear bound the years a calendar can be built for.
	// The rendered grid may still spill into year 0 or 10000 by a few days.
	MinYear = 1
	MaxYear = 9999

	DaysPerWeek   = 7
	MonthsPerYear = 12

	DefaultLocale       = "nl"
	DefaultHolidayTable = "nl"
	DefaultPort         = "18080"
	DefaultOutputFormat = "calendar-%d.odt"
	ExtICS              = ".ics"

	// WatchDebounce collapses the burst of events editors emit on save.
	WatchDebounce = 250 * time.Millisecond
)

// Holiday table identifiers.
const (
	HolidaysNone  = "none"
	HolidaysNL    = "nl"
	HolidaysDENRW = "de-nrw"
)

// -----------------------------------------------------------------------------
// Config File Keys (YAML)
// -----------------------------------------------------------------------------

const (
	SectionYear         = "year"
	SectionLocale       = "locale"
	SectionHolidays     = "holidays"
	SectionSpecialDates = "special dates"
	SectionBirthdays    = "birthdays"
	SectionWeddings     = "weddings"
	SectionContacts     = "contacts"
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// NoYearPrefix marks a vCard date without a year (--MM-DD or --MMDD).
	NoYearPrefix = "--"
	// LeapReferenceYear stands in for unknown years so that February 29 stays valid.
	LeapReferenceYear = 2000

	FormatDate      = "%04d-%02d-%02d"
	FormatAgeLabel  = "%s (%d)"
	FormatUID       = "%s-%d@%s"
	FormatHashInput = "%s|%d|%s|%s|%s"
	FormatETag      = `"%s"`

	NameSeparator   = ", "
	CoupleSeparator = " & "
	MonthSeparator  = " / "

	UIDHashLength = 16
	UIDSalt       = "go-weekcalendar-v1-"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Week Calendar//Engine//EN"
	ICalCalName = "Week Calendar %d"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goweekcalendar"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"
	PropCategories = "CATEGORIES"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + ICalVersion + "\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	FallbackName = "Unknown"
)

// -----------------------------------------------------------------------------
// Open Document Format
// -----------------------------------------------------------------------------

const (
	ODFMimeType     = "application/vnd.oasis.opendocument.text"
	ODFFileMimetype = "mimetype"
	ODFFileManifest = "META-INF/manifest.xml"
	ODFFileContent  = "content.xml"
	ODFFileStyles   = "styles.xml"
	ODFFileMeta     = "meta.xml"
	ODFVersion      = "1.2"
	ODFGenerator    = "GoWeekCalendar/"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	MaxContactsSize    = 64 * 1024 * 1024 // 64MB
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
	RouteODT           = "/calendar.odt"
	RouteICS           = "/calendar.ics"
	AddrSeparator      = ":"
	MinPort            = 1
	MaxPort            = 65535
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAccept          = "Accept"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeODT             = ODFMimeType
	MimeNoSniff         = "nosniff"
	MimeVCard           = "text/vcard"
	MediaHTML           = "text/html"
	CacheControlPrivate = "private, no-cache"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate      = "invalid calendar date"
	ErrInvalidYear      = "year outside supported range"
	ErrInvalidConfig    = "invalid configuration"
	ErrMonthRange       = "month must be between 1 and 12"
	ErrDayRange         = "day does not exist in month"
	ErrKeyFormat        = "malformed date key"
	ErrEmptyNames       = "name list is empty"
	ErrBlankName        = "name is blank"
	ErrCoupleSize       = "a couple needs exactly two names"
	ErrNotMapping       = "section must be a mapping"
	ErrNamesShape       = "value must be a list of names"
	ErrYearMissing      = "year is required"
	ErrUnknownHolidays  = "unknown holiday table"
	ErrContactsSource   = "contacts need either a path or a url"
	ErrReadConfig       = "failed to read config file"
	ErrParseYAML        = "failed to parse YAML"
	ErrContentType      = "unexpected content type for an address book"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrContactsOpen     = "failed to open contacts"
	ErrContactsRead     = "failed to read contacts"
	ErrRenderODT        = "failed to render odt document"
	ErrRenderICS        = "failed to encode iCalendar data"
	ErrWriteOutput      = "failed to write output file"
	ErrBuildCalendar    = "failed to build calendar"
	ErrLoadConfig       = "failed to load configuration"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrWatcher          = "failed to watch config file"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrLocaleTag        = "invalid locale"
	ErrArgsConfig       = "exactly one config file is required"
	ErrHolidayRule      = "invalid holiday rule"
	ErrRegenerateFailed = "calendar regeneration failed"
	ErrRequestCreate    = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgNotFound     = "Not Found"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgGenStarted     = "Calendar generation started"
	MsgGenSuccess     = "Calendar generation successful"
	MsgGenFinished    = "Generation finished"
	MsgWeek           = "Week rendered"
	MsgOutputWritten  = "Output written"
	MsgContactsLoaded = "Contacts imported"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgWorkerStart    = "Config watcher started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgConfigChanged  = "Config file changed"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgConfigLoaded   = "Config file loaded"
	MsgContactsFile   = "Opening local address book"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgFetchStart     = "Initiating vCard download"
	MsgFetchStatus    = "Server returned error status"
	MsgFetchBody      = "vCards downloading"
	MsgDebounced      = "Regenerating after config change"
	MsgPublished      = "Calendar published"
	MsgUnknownRoute   = "Publish to unknown route ignored"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyYear      = "year"
	LogKeyWeek      = "week"
	LogKeyEvents    = "events"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyUser      = "user"
	LogKeyPath      = "path"
	LogKeyRoute     = "route"
	LogKeyOp        = "op"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyWeeks     = "weeks"
	LogKeyAnnotated = "annotated_days"
	LogKeyRules     = "rules"
	LogKeyLength    = "content_length"
	LogKeySkipped   = "skipped"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompEngine   = "engine"
	CompLoader   = "loader"
	CompContacts = "contacts"
	CompFetcher  = "fetcher"
	CompRender   = "render"
	CompServer   = "server"
	CompWorker   = "worker"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWeekTitle     = "week_title"     // Requires Number
	TKeyBirthday      = "birthday_text"  // Requires Name, Age
	TKeyWedding       = "wedding_text"   // Requires Names, Age
	TKeyMonthPrefix   = "month_"         // month_1 .. month_12
	TKeyShortPrefix   = "short_month_"   // short_month_1 .. short_month_12
	TKeyWeekdayPrefix = "weekday_"       // weekday_0 (Monday) .. weekday_6
	TKeyDocTitle      = "document_title" // Requires Year
)
