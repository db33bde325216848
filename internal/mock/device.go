package mock

import (
	"os"
	"sync"
	"time"
)

// Device is an in-memory serial device. Bytes given to Feed come out
// of ReadBytes; bytes given to WriteByte are kept for Written.
type Device struct {
	*Interceptor
	timeout time.Duration
	feedCh  chan []byte
	closeCh chan struct{}

	mutex     sync.Mutex
	leftover  []byte
	written   []byte
	writeErr  error
	closeOnce sync.Once
}

// NewDevice creates a Device whose reads give up after timeout.
func NewDevice(timeout time.Duration) *Device {
	return &Device{
		Interceptor: NewInterceptor(),
		timeout:     timeout,
		feedCh:      make(chan []byte, 64),
		closeCh:     make(chan struct{}),
	}
}

// Feed queues data to be returned by subsequent reads.
func (d *Device) Feed(data ...byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	d.feedCh <- buf
}

// SetWriteError makes every following WriteByte fail with err.
func (d *Device) SetWriteError(err error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.writeErr = err
}

func (d *Device) ReadBytes(p []byte) (int, error) {
	d.Record("ReadBytes", len(p))

	d.mutex.Lock()
	if len(d.leftover) > 0 {
		n := copy(p, d.leftover)
		d.leftover = d.leftover[n:]
		d.mutex.Unlock()
		return n, nil
	}
	d.mutex.Unlock()

	t := time.NewTimer(d.timeout)
	defer t.Stop()

	select {
	case <-d.closeCh:
		return 0, os.ErrClosed
	case <-t.C:
		return 0, nil
	case chunk := <-d.feedCh:
		n := copy(p, chunk)
		if n < len(chunk) {
			d.mutex.Lock()
			d.leftover = append(d.leftover, chunk[n:]...)
			d.mutex.Unlock()
		}
		return n, nil
	}
}

func (d *Device) WriteByte(c byte) error {
	d.Record("WriteByte", c)

	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.written = append(d.written, c)
	return nil
}

// Written returns the bytes successfully written so far.
func (d *Device) Written() []byte {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	out := make([]byte, len(d.written))
	copy(out, d.written)
	return out
}

func (d *Device) Close() error {
	d.Record("Close")
	d.closeOnce.Do(func() { close(d.closeCh) })
	return nil
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool {
	select {
	case <-d.closeCh:
		return true
	default:
		return false
	}
}
