package comterm

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/jessevdk/go-flags"
	"github.com/peco/comterm/config"
	"github.com/pkg/errors"
)

// CLIOptions are the command line options. Zero values mean "not
// given"; the config file or the defaults apply then.
type CLIOptions struct {
	OptHelp         bool   `short:"h" long:"help" description:"show this help message and exit"`
	OptBaud         int    `short:"b" long:"baud" description:"line speed in bits per second (default 2400)"`
	OptRcfile       string `long:"rcfile" description:"path to the settings file"`
	OptLog          string `long:"log" description:"append diagnostics to this file"`
	OptSourceBuffer int    `long:"source-buffer" description:"number of bytes buffered from the serial line (default 2000)"`
	OptInputBuffer  int    `long:"input-buffer" description:"number of keystrokes buffered for the serial line (default 200)"`
	OptReadTimeout  int    `long:"read-timeout" description:"serial read timeout in milliseconds (default 100)"`
	OptVersion      bool   `long:"version" description:"print the version and exit"`
}

func (options *CLIOptions) parse(s []string, errOut io.Writer) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		errOut.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}

	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line arguments")
	}

	if len(args) > 1 {
		return nil, errors.Errorf("too many arguments: %v", args)
	}

	return args, nil
}

func (options CLIOptions) Validate() error {
	if options.OptBaud < 0 {
		return errors.Errorf("invalid baud rate: %d", options.OptBaud)
	}
	if options.OptSourceBuffer < 0 || options.OptInputBuffer < 0 {
		return errors.New("buffer sizes must be positive")
	}
	if options.OptReadTimeout < 0 {
		return errors.Errorf("invalid read timeout: %d", options.OptReadTimeout)
	}
	return nil
}

// apply copies the options that were given, and the port argument if
// any, over cfg.
func (options CLIOptions) apply(cfg *config.Config, args []string) {
	if len(args) > 0 && args[0] != "" {
		cfg.Port = args[0]
	}
	if options.OptBaud > 0 {
		cfg.Baud = options.OptBaud
	}
	if options.OptSourceBuffer > 0 {
		cfg.SourceBufferSize = options.OptSourceBuffer
	}
	if options.OptInputBuffer > 0 {
		cfg.InputBufferSize = options.OptInputBuffer
	}
	if options.OptReadTimeout > 0 {
		cfg.ReadTimeout = options.OptReadTimeout
	}
	if options.OptLog != "" {
		cfg.LogFile = options.OptLog
	}
}

func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: comterm [options] [PORT]

PORT defaults to %s. Type Ctrl-Z to end the session.

Options:
`, config.DefaultPort)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			tag.Get("description"),
		)
	}

	return buf.Bytes()
}
