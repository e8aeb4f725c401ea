package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/tartampluch/go-weekcalendar/internal/config"
	"github.com/tartampluch/go-weekcalendar/internal/engine"
	"github.com/tartampluch/go-weekcalendar/internal/server"
)

// main delegates to runMain so that deferred calls run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[0], os.Args[1:]))
}

// options holds the parsed command line.
type options struct {
	configPath string
	year       int
	output     string
	ics        bool
	lang       string
	serve      bool
	port       string
	debug      bool
	version    bool
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(name string, args []string) int {
	opts, err := parseArgs(name, args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return config.ExitCodeSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	if opts.version {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// parseArgs reads the flags and the single positional config file.
func parseArgs(name string, args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), config.MsgUsage, filepath.Base(name))
		fs.PrintDefaults()
	}

	fs.BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.IntVar(&opts.year, config.FlagYear, 0, config.FlagDescYear)
	fs.StringVar(&opts.output, config.FlagOutput, "", config.FlagDescOutput)
	fs.BoolVar(&opts.ics, config.FlagICS, false, config.FlagDescICS)
	fs.StringVar(&opts.lang, config.FlagLang, "", config.FlagDescLang)
	fs.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	fs.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.version {
		return opts, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, errors.New(config.ErrArgsConfig)
	}
	opts.configPath = fs.Arg(0)

	if opts.serve {
		if err := validatePort(opts.port); err != nil {
			return options{}, err
		}
	}
	return opts, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %q", config.ErrPortNumber, port)
	}
	if n < config.MinPort || n > config.MaxPort {
		return fmt.Errorf("%s: %d", config.ErrPortRange, n)
	}
	return nil
}

func (o options) request() engine.Request {
	return engine.Request{
		ConfigPath: o.configPath,
		Year:       o.year,
		Locale:     o.lang,
		ICS:        o.ics || o.serve,
	}
}

// run either writes the documents once or keeps serving them.
func run(ctx context.Context, opts options) error {
	gen := engine.NewGenerator()
	if opts.serve {
		return serve(ctx, gen, opts)
	}
	return generate(ctx, gen, opts)
}

// generate writes the ODT file and, on request, the ICS file next to it.
func generate(ctx context.Context, gen *engine.Generator, opts options) error {
	res, err := gen.Run(ctx, opts.request())
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = fmt.Sprintf(config.DefaultOutputFormat, res.Calendar.Year)
	}
	if err := writeOutput(output, res.ODT); err != nil {
		return err
	}
	if res.ICS != nil {
		if err := writeOutput(icsPath(output), res.ICS); err != nil {
			return err
		}
	}
	return nil
}

// icsPath replaces the extension of the document path with .ics.
func icsPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + config.ExtICS
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, config.FilePermOutput); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	slog.Info(config.MsgOutputWritten,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyPath, path,
		config.LogKeySizeBytes, len(data),
	)
	return nil
}

// serve runs the HTTP server and the config watcher until ctx is done.
func serve(ctx context.Context, gen *engine.Generator, opts options) error {
	srv := server.NewCalendarServer(opts.port)
	worker := &engine.Worker{
		Generator: gen,
		Request:   opts.request(),
		Publisher: srv,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerErr := make(chan error, config.ChannelBufferSize)
	go func() {
		err := worker.Run(ctx)
		if err != nil {
			cancel()
		}
		workerErr <- err
	}()

	srvErr := srv.Start(ctx)
	cancel()
	return errors.Join(srvErr, <-workerErr)
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
