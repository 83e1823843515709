package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/mcncl/jsontocs/internal/analyzer"
	"github.com/mcncl/jsontocs/internal/config"
	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/formatter"
	"github.com/mcncl/jsontocs/internal/output"
	"github.com/mcncl/jsontocs/internal/server"
	"github.com/mcncl/jsontocs/internal/source"
	"github.com/mcncl/jsontocs/internal/watch"
)

// Version information
const (
	Version = "0.1.0"
)

// stdinMarker selects stdin as input or stdout as output.
const stdinMarker = "-"

// CLI defines the command-line interface
type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error"`
	Config   string `help:"Path to config file. Defaults to the nearest .jsontocs.yml." short:"c"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate C# classes from a JSON file."`
	Watch    WatchCmd    `cmd:"" help:"Regenerate whenever the input file changes."`
	Serve    ServeCmd    `cmd:"" help:"Serve the generation API over HTTP."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// GenerateFlags are shared by generate and watch.
type GenerateFlags struct {
	Name       string `help:"Name for the root class. Defaults to the input file name." short:"n"`
	Namespace  string `help:"Namespace wrapping the generated classes." short:"s"`
	DataMember bool   `help:"Annotate classes with DataContract and DataMember." short:"d"`
	ListType   string `help:"List container: IEnumerable or IReadOnlyList." short:"l"`
	Output     string `help:"Output directory, or '-' for stdout. Defaults to <input dir>/out." short:"o"`
}

// GenerateCmd converts one JSON document.
type GenerateCmd struct {
	Input string        `arg:"" optional:"" help:"Path to input JSON file. Reads stdin when omitted or '-'."`
	Flags GenerateFlags `embed:""`
}

// WatchCmd regenerates on every save.
type WatchCmd struct {
	Input string        `arg:"" help:"Path to input JSON file."`
	Flags GenerateFlags `embed:""`
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr      string `help:"Listen address. Overrides server.addr and JSONTOCS_ADDR."`
	CacheSize int    `help:"Number of cached results. Zero disables the cache. Negative keeps the configured size." default:"-1"`
	EnvFile   string `help:"Environment file to load." default:".env"`
}

// VersionCmd prints the version.
type VersionCmd struct{}

// Context holds the runtime context
type Context struct {
	context.Context
	Logger     zerolog.Logger
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontocs --help\n")
		stop()
		os.Exit(1)
	}
}

// execute parses args and runs the selected command.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsontocs"),
		kong.Description("A tool to convert JSON samples to immutable C# classes"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewInputError("invalid arguments", err)
	}

	level, err := zerolog.ParseLevel(cli.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	return kctx.Run(&Context{
		Context:    ctx,
		Logger:     logger,
		ConfigPath: cli.Config,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
	})
}

// Run executes the generate command.
func (c *GenerateCmd) Run(ctx *Context) error {
	cfg, err := loadConfig(ctx, c.Flags)
	if err != nil {
		return err
	}
	return run(ctx, c.Input, c.Flags.Name, cfg)
}

// Run generates once, then again after every change to the input.
func (c *WatchCmd) Run(ctx *Context) error {
	cfg, err := loadConfig(ctx, c.Flags)
	if err != nil {
		return err
	}
	if c.Input == stdinMarker {
		return errors.NewInputError("watch needs a file", errors.ErrInvalidFilePath)
	}

	if err := run(ctx, c.Input, c.Flags.Name, cfg); err != nil {
		ctx.Logger.Error().Msg(errors.UserFriendlyError(err))
	}

	w, err := watch.New(c.Input, watch.DefaultDebounce, ctx.Logger)
	if err != nil {
		return errors.NewInputError("failed to watch input", err)
	}
	defer func() { _ = w.Close() }()

	ctx.Logger.Info().Str("file", c.Input).Msg("Watching for changes")
	return w.Run(ctx, func() error {
		if err := run(ctx, c.Input, c.Flags.Name, cfg); err != nil {
			return fmt.Errorf("%s", errors.UserFriendlyError(err))
		}
		return nil
	})
}

// Run serves the HTTP API until interrupted.
func (c *ServeCmd) Run(ctx *Context) error {
	cfg, err := loadConfig(ctx, GenerateFlags{})
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(c.EnvFile); err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.CacheSize >= 0 {
		cfg.Server.CacheSize = c.CacheSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(cfg.Server.Addr, cfg.Server.CacheSize, ctx.Logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// Run prints the version.
func (c *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "jsontocs version %s\n", Version)
	return err
}

// loadConfig merges the config file, if any, with command-line flags.
func loadConfig(ctx *Context, flags GenerateFlags) (*config.Config, error) {
	path := ctx.ConfigPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		ctx.Logger.Debug().Str("path", path).Msg("Using config file")
	}

	overrides := config.CLIOverrides{
		RootName:  flags.Name,
		Namespace: flags.Namespace,
		ListType:  flags.ListType,
		OutputDir: flags.Output,
	}
	if flags.DataMember {
		overrides.DeclareDataMember = &flags.DataMember
	}

	cfg, err := config.LoadConfigWithCLI(path, overrides)
	if err != nil {
		return nil, errors.NewInputError("failed to load configuration", err)
	}
	if cfg.Dev.Debug {
		ctx.Logger = ctx.Logger.Level(zerolog.DebugLevel)
	}
	return cfg, nil
}

// run executes the main program logic. name is the root name given on the
// command line, if any.
func run(ctx *Context, input, name string, cfg *config.Config) error {
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return errors.NewInputError("invalid configuration", err)
	}

	// 1. Open the input
	src, closeInput, err := openInput(ctx, input)
	if err != nil {
		return err
	}
	defer closeInput()

	// 2. Infer and render the classes
	reg, err := analyzer.Create(rootName(input, name, cfg.RootName), src, opts)
	if err != nil {
		return errors.NewParsingError("failed to analyze JSON structure", err)
	}
	ctx.Logger.Debug().Strs("types", reg.Names()).Msg("Generated classes")

	// 3. Write the result
	writer := output.NewWriter(formatter.NewFormatter(formatter.Options{
		Indent:     cfg.Output.Indent,
		LineEnding: cfg.Output.LineEnding,
		FileHeader: cfg.Output.FileHeader,
	}))

	dir := outputDir(input, cfg.Output.Directory)
	if dir == stdinMarker {
		return writer.WriteStream(ctx.Stdout, reg)
	}

	paths, err := writer.WriteDir(dir, reg)
	if err != nil {
		return err
	}
	ctx.Logger.Info().Int("files", len(paths)).Str("dir", dir).Msg("Generated C# classes")
	fmt.Fprintf(ctx.Stderr, "Generated %d class(es) in %s\n", len(paths), dir)
	return nil
}

// openInput opens the input file, or stdin for "" and "-".
func openInput(ctx *Context, input string) (source.Source, func(), error) {
	if input == "" || input == stdinMarker {
		return source.NewReader(ctx.Stdin), func() {}, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", input), errors.ErrFileNotFound)
		}
		return nil, nil, errors.NewInputError(fmt.Sprintf("failed to access '%s'", input), err)
	}
	if info.IsDir() {
		return nil, nil, errors.NewInputError(fmt.Sprintf("'%s' is a directory", input), errors.ErrInvalidFilePath)
	}
	if info.Size() == 0 {
		return nil, nil, errors.NewInputError(fmt.Sprintf("file '%s' is empty", input), errors.ErrFileEmpty)
	}

	f, err := source.Open(input)
	if err != nil {
		return nil, nil, errors.NewInputError(fmt.Sprintf("failed to open '%s'", input), err)
	}
	return f, func() { _ = f.Close() }, nil
}

// rootName prefers the command-line name, then a configured name, then the
// input file's base name.
func rootName(input, explicit, configured string) string {
	if explicit != "" {
		return explicit
	}
	if configured != "" && configured != config.DefaultRootName {
		return configured
	}
	if input == "" || input == stdinMarker {
		return config.DefaultRootName
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" {
		return config.DefaultRootName
	}
	return base
}

// outputDir resolves where files go: the configured directory, stdout for
// stdin input, otherwise an "out" directory beside the input.
func outputDir(input, configured string) string {
	if configured != "" {
		return configured
	}
	if input == "" || input == stdinMarker {
		return stdinMarker
	}
	return filepath.Join(filepath.Dir(input), config.DefaultOutputDir)
}
