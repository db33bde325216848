package comterm

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peco/comterm/config"
	"github.com/peco/comterm/internal/mock"
	"github.com/peco/comterm/internal/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	*CLI
	stdout bytes.Buffer
	stderr bytes.Buffer
	home   string
	dev    *mock.Device
	term   *fakeTerminal
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	tc := &testCLI{
		home: home,
		dev:  mock.NewDevice(10 * time.Millisecond),
		term: &fakeTerminal{
			scriptedInput:    newScriptedInput(),
			recordingDisplay: newRecordingDisplay(),
		},
	}
	tc.CLI = &CLI{
		stdout:     &tc.stdout,
		stderr:     &tc.stderr,
		isTerminal: func() bool { return true },
		openDevice: func(*config.Config) (Device, error) {
			return tc.dev, nil
		},
		newTerminal: func(*config.Config) terminal {
			return tc.term
		},
	}
	return tc
}

func TestCLIHelp(t *testing.T) {
	cli := newTestCLI(t)

	err := cli.Run(context.Background(), []string{"--help"})
	require.True(t, util.IsIgnorableError(err), "help is not a failure")
	require.Contains(t, cli.stdout.String(), "Usage: comterm [options] [PORT]")
	require.Contains(t, cli.stdout.String(), "--baud")
	require.False(t, cli.dev.Closed(), "nothing was opened")
}

func TestCLIVersion(t *testing.T) {
	cli := newTestCLI(t)

	err := cli.Run(context.Background(), []string{"--version"})
	require.True(t, util.IsIgnorableError(err))
	require.Contains(t, cli.stdout.String(), "comterm version "+version)
}

func TestCLIConfigure(t *testing.T) {
	cli := newTestCLI(t)

	cfg, err := cli.configure([]string{"-b", "9600", "--source-buffer", "64", "--read-timeout", "250", "/dev/ttyUSB1"})
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB1", cfg.Port)
	require.Equal(t, 9600, cfg.Baud)
	require.Equal(t, 64, cfg.SourceBufferSize)
	require.Equal(t, config.DefaultInputBufferSize, cfg.InputBufferSize)
	require.Equal(t, 250*time.Millisecond, cfg.ReadTimeoutDuration())
}

func TestCLIConfigureDefaults(t *testing.T) {
	cli := newTestCLI(t)

	cfg, err := cli.configure(nil)
	require.NoError(t, err)
	require.Equal(t, config.DefaultPort, cfg.Port)
	require.Equal(t, config.DefaultBaud, cfg.Baud)
}

func TestCLIConfigureRcfile(t *testing.T) {
	cli := newTestCLI(t)

	rcfile := filepath.Join(t.TempDir(), "modem.yaml")
	require.NoError(t, os.WriteFile(rcfile, []byte("Port: /dev/ttyS3\nBaud: 1200\n"), 0o644))

	cfg, err := cli.configure([]string{"--rcfile", rcfile, "--baud", "19200"})
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyS3", cfg.Port, "port comes from the file")
	require.Equal(t, 19200, cfg.Baud, "command line wins over the file")
}

func TestCLIConfigureLocatesRcfile(t *testing.T) {
	cli := newTestCLI(t)

	dir := filepath.Join(cli.home, ".comterm")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"Baud": 4800}`), 0o644))

	cfg, err := cli.configure(nil)
	require.NoError(t, err)
	require.Equal(t, 4800, cfg.Baud)
}

func TestCLIConfigureErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"unknown option", []string{"--no-such-option"}},
		{"too many arguments", []string{"/dev/ttyS0", "/dev/ttyS1"}},
		{"negative baud", []string{"--baud", "-5"}},
		{"missing rcfile", []string{"--rcfile", "/nonexistent/comterm.json"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cli := newTestCLI(t)
			_, err := cli.configure(tc.args)
			require.Error(t, err)
			require.False(t, util.IsIgnorableError(err))
			st, ok := util.GetExitStatus(err)
			require.True(t, ok)
			require.Equal(t, 1, st)
		})
	}
}

func TestCLIRequiresTerminal(t *testing.T) {
	cli := newTestCLI(t)
	cli.isTerminal = func() bool { return false }

	err := cli.Run(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a terminal")
	require.False(t, cli.dev.Closed(), "device was never opened")
}

func TestCLIDeviceOpenFailure(t *testing.T) {
	cli := newTestCLI(t)
	cli.openDevice = func(*config.Config) (Device, error) {
		return nil, errors.New("no such device")
	}

	err := cli.Run(context.Background(), nil)
	require.Error(t, err)
	st, _ := util.GetExitStatus(err)
	require.Equal(t, 1, st)
	require.Zero(t, cli.term.recordingDisplay.Count("Close"), "terminal was never taken over")
}

func TestCLIBufferAllocationFailure(t *testing.T) {
	cli := newTestCLI(t)

	err := cli.Run(context.Background(), []string{"--source-buffer", "999999999"})
	require.Error(t, err)
	st, _ := util.GetExitStatus(err)
	require.Equal(t, 1, st)
	require.True(t, cli.dev.Closed(), "device is released")
	require.Zero(t, cli.term.recordingDisplay.Count("Close"), "terminal was never taken over")
}

func TestCLIRunSession(t *testing.T) {
	cli := newTestCLI(t)
	logfile := filepath.Join(t.TempDir(), "comterm.log")

	errCh := make(chan error, 1)
	go func() {
		errCh <- cli.Run(context.Background(), []string{"--log", logfile, "/dev/ttyUSB2"})
	}()

	cli.dev.Feed([]byte("OK")...)
	require.Eventually(t, func() bool {
		return bytes.Contains(cli.term.Rendered(), []byte("OK"))
	}, 5*time.Second, time.Millisecond)

	cli.term.Send(CharEvent('A'), CharEvent(0x1A))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "session did not end")
	}

	require.Equal(t, []byte("A"), cli.dev.Written())
	require.True(t, cli.dev.Closed())
	require.Equal(t, 1, cli.term.recordingDisplay.Count("Close"), "terminal is given back")

	logged, err := os.ReadFile(logfile)
	require.NoError(t, err)
	require.Contains(t, string(logged), "session started on /dev/ttyUSB2")
	require.Contains(t, string(logged), "session ended")
}
