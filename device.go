package comterm

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// DefaultReadTimeout is used when a SerialDevice is opened without a
// positive read timeout. Reads must time out so that the reader can
// notice shutdown.
const DefaultReadTimeout = 100 * time.Millisecond

// SerialDevice is a Device backed by a serial port.
type SerialDevice struct {
	name string
	port io.ReadWriteCloser
}

// OpenSerialDevice opens the named port at baud, 8 data bits, no
// parity, one stop bit. Flow control and modem lines are left alone.
func OpenSerialDevice(name string, baud int, readTimeout time.Duration) (*SerialDevice, error) {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, setExitStatus(errors.Wrapf(err, "failed to open serial port %s", name), 1)
	}
	return &SerialDevice{name: name, port: port}, nil
}

func (d *SerialDevice) Name() string {
	return d.name
}

// ReadBytes reads whatever arrived, waiting at most the read timeout.
// The port reports an expired timeout as io.EOF; that is not an error
// here.
func (d *SerialDevice) ReadBytes(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := d.port.Read(p)
	if err == io.EOF {
		return n, nil
	}
	if err != nil {
		return n, errors.Wrapf(err, "failed to read from %s", d.name)
	}
	return n, nil
}

func (d *SerialDevice) WriteByte(c byte) error {
	if _, err := d.port.Write([]byte{c}); err != nil {
		return errors.Wrapf(err, "failed to write to %s", d.name)
	}
	return nil
}

func (d *SerialDevice) Close() error {
	if err := d.port.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", d.name)
	}
	return nil
}
