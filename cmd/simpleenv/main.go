// Command simpleenv solves tabular MDPs by Value Iteration and runs the
// resulting greedy policies.
//
// Run configurations are read from an HCL file (see package envconfig);
// flags override the values in the file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/samuelfneumann/simpleenv/environment/envconfig"
)

// version is set by ldflags during build
var version = "dev"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	terminalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`
	Config  string           `short:"c" help:"HCL run configuration" default:"simpleenv.hcl" type:"path"`

	Train  TrainCmd  `cmd:"" help:"Solve an environment by Value Iteration"`
	Run    RunCmd    `cmd:"" help:"Run episodes of the greedy policy of a solved environment"`
	Envs   EnvsCmd   `cmd:"" help:"List registered environments"`
	Render RenderCmd `cmd:"" help:"Render an environment as a PNG state graph"`
}

// Globals are shared by all commands
type Globals struct {
	Out    io.Writer
	Err    io.Writer
	Logger *log.Logger
	Config string
}

// File loads the run configuration
func (g *Globals) File() (*envconfig.File, error) {
	f, err := envconfig.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out, errOut io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("simpleenv"),
		kong.Description("Value Iteration on tabular MDPs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Writers(out, errOut),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ctx.Run(&Globals{
		Out:    out,
		Err:    errOut,
		Logger: setupLogger(errOut, cli.Debug),
		Config: cli.Config,
	})
}

func setupLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	return logger
}
