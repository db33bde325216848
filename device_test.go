package comterm

import (
	"bytes"
	"io"
	"testing"

	"github.com/peco/comterm/internal/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakePort stands in for an open serial port.
type fakePort struct {
	reads    [][]byte
	readErr  error
	written  bytes.Buffer
	writeErr error
	closed   bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		return 0, io.EOF
	}
	n := copy(b, p.reads[0])
	p.reads = p.reads[1:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestSerialDeviceRead(t *testing.T) {
	port := &fakePort{reads: [][]byte{[]byte("RING")}}
	d := &SerialDevice{name: "fake", port: port}

	buf := make([]byte, 8)
	n, err := d.ReadBytes(buf)
	require.NoError(t, err)
	require.Equal(t, "RING", string(buf[:n]))

	n, err = d.ReadBytes(buf)
	require.NoError(t, err, "an expired read timeout is not an error")
	require.Zero(t, n)

	n, err = d.ReadBytes(nil)
	require.NoError(t, err)
	require.Zero(t, n)

	port.readErr = errors.New("input/output error")
	_, err = d.ReadBytes(buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fake")
}

func TestSerialDeviceWriteAndClose(t *testing.T) {
	port := &fakePort{}
	d := &SerialDevice{name: "fake", port: port}

	require.NoError(t, d.WriteByte('A'))
	require.NoError(t, d.WriteByte('T'))
	require.Equal(t, "AT", port.written.String())

	port.writeErr = errors.New("broken pipe")
	require.Error(t, d.WriteByte('Z'))

	require.NoError(t, d.Close())
	require.True(t, port.closed)
	require.Equal(t, "fake", d.Name())
}

func TestOpenSerialDeviceMissingPort(t *testing.T) {
	_, err := OpenSerialDevice("/nonexistent/comterm-test-port", 2400, 0)
	require.Error(t, err)
	st, ok := util.GetExitStatus(err)
	require.True(t, ok)
	require.Equal(t, 1, st)
}
