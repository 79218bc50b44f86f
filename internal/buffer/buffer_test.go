package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	t.Run("append and consume", func(t *testing.T) {
		buff := New(8, 0)
		require.True(t, buff.Append([]byte("GET / HTTP/1.1\r\n")))
		require.Equal(t, 16, buff.Len())
		require.Equal(t, 14, buff.Index([]byte("\r\n")))

		buff.Consume(4)
		require.Equal(t, "/ HTTP/1.1\r\n", string(buff.Bytes()))
		require.Equal(t, "/ H", string(buff.Peek(3)))
		require.Equal(t, -1, buff.Index([]byte("\r\n\r\n")))
	})

	t.Run("consume everything resets", func(t *testing.T) {
		buff := New(8, 0)
		require.True(t, buff.Append([]byte("hello")))
		buff.Consume(5)
		require.Zero(t, buff.Len())
		require.Empty(t, buff.Bytes())
		require.Zero(t, buff.off)
	})

	t.Run("compacts before growing", func(t *testing.T) {
		buff := New(8, 0)
		require.True(t, buff.Append([]byte("abcdefgh")))
		buff.Consume(6)
		require.True(t, buff.Append([]byte("ijk")))
		require.Equal(t, "ghijk", string(buff.Bytes()))
		require.Equal(t, 8, cap(buff.data))
	})

	t.Run("limit", func(t *testing.T) {
		buff := New(4, 6)
		require.True(t, buff.Append([]byte("abcd")))
		require.False(t, buff.Append([]byte("efg")))
		require.Equal(t, "abcd", string(buff.Bytes()))
		buff.Consume(2)
		require.True(t, buff.Append([]byte("efg")))
		require.Equal(t, "cdefg", string(buff.Bytes()))
	})

	t.Run("peek beyond length", func(t *testing.T) {
		buff := New(4, 0)
		require.True(t, buff.Append([]byte("ab")))
		require.Equal(t, "ab", string(buff.Peek(10)))
	})

	t.Run("over-consume panics", func(t *testing.T) {
		buff := New(4, 0)
		require.True(t, buff.Append([]byte("ab")))
		require.Panics(t, func() {
			buff.Consume(3)
		})
	})
}
