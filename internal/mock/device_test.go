package mock

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeviceRead(t *testing.T) {
	d := NewDevice(10 * time.Millisecond)

	buf := make([]byte, 4)
	n, err := d.ReadBytes(buf)
	require.NoError(t, err, "timeout is not an error")
	require.Equal(t, 0, n)

	d.Feed('a', 'b', 'c', 'd', 'e', 'f')
	n, err = d.ReadBytes(buf)
	require.NoError(t, err)
	require.Equal(t, []byte("abcd"), buf[:n])

	n, err = d.ReadBytes(buf)
	require.NoError(t, err)
	require.Equal(t, []byte("ef"), buf[:n], "leftover is returned before new data")

	require.Equal(t, 3, d.Count("ReadBytes"))
}

func TestDeviceWriteAndClose(t *testing.T) {
	d := NewDevice(time.Hour)

	require.NoError(t, d.WriteByte('x'))
	d.SetWriteError(errors.New("line dropped"))
	require.Error(t, d.WriteByte('y'))
	require.Equal(t, []byte("x"), d.Written())
	require.Equal(t, []any{byte('y')}, d.Calls("WriteByte")[1])

	require.False(t, d.Closed())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	require.True(t, d.Closed())

	_, err := d.ReadBytes(make([]byte, 1))
	require.ErrorIs(t, err, os.ErrClosed, "a closed device does not wait for its timeout")
}
