package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/services"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/desertthunder/tunebox/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	library  *library.Service
	youtube  *services.YouTubeService
	resolver services.MetadataResolver
	logger   *log.Logger
	output   io.Writer
	seeder   *tasks.Seeder
	exporter *tasks.Exporter
	browser  func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Library  *library.Service
	YouTube  *services.YouTubeService
	Resolver services.MetadataResolver
	Logger   *log.Logger
	Output   io.Writer
	Browser  func(url string) error // defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	r := &Runner{
		config:   opts.Config,
		library:  opts.Library,
		youtube:  opts.YouTube,
		resolver: opts.Resolver,
		logger:   opts.Logger,
		output:   opts.Output,
		browser:  opts.Browser,
	}
	r.buildTasks()
	return r
}

func (r *Runner) buildTasks() {
	if r.library == nil {
		return
	}
	var searcher services.Searcher
	if r.youtube != nil {
		searcher = r.youtube
	}
	r.seeder = tasks.NewSeeder(r.library, searcher, r.logger)
	r.exporter = tasks.NewExporter(r.library, r.logger)
}

// SetLogger replaces the logger used by the runner and its tasks.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.buildTasks()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, searchCommand, songCommand, playlistCommand, seedCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// lib returns the library service or an error when the database was not opened.
func (r *Runner) lib() (*library.Service, error) {
	if r.library == nil {
		return nil, fmt.Errorf("%w: database not initialized (run 'tunebox setup database')", shared.ErrMissingConfig)
	}
	return r.library, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
