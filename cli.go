package comterm

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/peco/comterm/config"
	"github.com/peco/comterm/sig"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const version = "v0.1.0"

// terminal is what the CLI needs from the screen: a Display and an
// InputSource that can be started and stopped.
type terminal interface {
	InputSource
	Display
	Init() error
	Close() error
}

// CLI runs a session from command line arguments.
type CLI struct {
	stdout io.Writer
	stderr io.Writer

	isTerminal  func() bool
	openDevice  func(*config.Config) (Device, error)
	newTerminal func(*config.Config) terminal
}

// NewCLI creates a CLI wired to the real terminal and serial port.
func NewCLI() *CLI {
	return &CLI{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		openDevice: func(cfg *config.Config) (Device, error) {
			return OpenSerialDevice(cfg.Port, cfg.Baud, cfg.ReadTimeoutDuration())
		},
		newTerminal: func(cfg *config.Config) terminal {
			return NewScreen(cfg)
		},
	}
}

// Run parses args, sets everything up and runs the session until the
// user types the sentinel or a termination signal arrives.
func (cli *CLI) Run(ctx context.Context, args []string) error {
	cfg, err := cli.configure(args)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return setExitStatus(err, 1)
	}
	defer closeLog()

	if !cli.isTerminal() {
		return setExitStatus(errors.New("standard input is not a terminal"), 1)
	}

	dev, err := cli.openDevice(cfg)
	if err != nil {
		return setExitStatus(err, 1)
	}

	scr := cli.newTerminal(cfg)
	sess, err := New(cfg, dev, scr, scr)
	if err != nil {
		dev.Close()
		return err
	}
	sess.SetLogger(logger)

	if err := scr.Init(); err != nil {
		dev.Close()
		return setExitStatus(err, 1)
	}
	defer scr.Close()

	logger.Printf("session started on %s at %d baud", cfg.Port, cfg.Baud)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sh := sig.New(sig.ReceivedHandlerFunc(func(s os.Signal) {
		logger.Printf("received %s, shutting down", s)
		sess.Shutdown()
	}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sh.Loop(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return sess.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return setExitStatus(err, 1)
	}
	logger.Printf("session ended")
	return nil
}

// configure builds the configuration: defaults, then the config file,
// then the command line.
func (cli *CLI) configure(args []string) (*config.Config, error) {
	var opts CLIOptions
	rest, err := opts.parse(args, cli.stderr)
	if err != nil {
		return nil, setExitStatus(err, 1)
	}

	if opts.OptHelp {
		cli.stdout.Write(opts.help())
		return nil, makeIgnorable(errors.New("user asked to show help message"))
	}

	if opts.OptVersion {
		fmt.Fprintf(cli.stdout, "comterm version %s (built with %s)\n", version, runtime.Version())
		return nil, makeIgnorable(errors.New("user asked to show version"))
	}

	cfg := config.New()
	rcfile := opts.OptRcfile
	if rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			rcfile = file
		}
	}
	if rcfile != "" {
		if err := cfg.ReadFilename(rcfile); err != nil {
			return nil, setExitStatus(errors.Wrap(err, "failed to read config file"), 1)
		}
	}

	opts.apply(cfg, rest)
	if err := cfg.Validate(); err != nil {
		return nil, setExitStatus(errors.Wrap(err, "invalid configuration"), 1)
	}
	return cfg, nil
}

func openLogger(path string) (Logger, func(), error) {
	if path == "" {
		return tracer, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open log file %s", path)
	}
	return log.New(f, "comterm: ", log.LstdFlags), func() { f.Close() }, nil
}
