package http1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitRequestLine(t *testing.T) {
	method, url, protocol, err := splitRequestLine([]byte("OPTIONS * HTTP/1.1"))
	require.NoError(t, err)
	require.Equal(t, "OPTIONS", string(method))
	require.Equal(t, "*", string(url))
	require.Equal(t, "HTTP/1.1", string(protocol))

	_, _, protocol, err = splitRequestLine([]byte("GET / "))
	require.NoError(t, err)
	require.Empty(t, protocol)
}

func TestSplitProtocol(t *testing.T) {
	scheme, major, minor, err := splitProtocol([]byte("HTTP/1.0"))
	require.NoError(t, err)
	require.Equal(t, "HTTP", string(scheme))
	require.Equal(t, 1, major)
	require.Equal(t, 0, minor)

	for _, protocol := range []string{"", "HTTP", "/1.1", "HTTP/", "HTTP/1.", "HTTP/.1", "HTTP/10.1", "HTTP/1.1.1"} {
		_, _, _, err = splitProtocol([]byte(protocol))
		require.ErrorIs(t, err, ErrBadProtocol, protocol)
	}
}

func TestSplitHeader(t *testing.T) {
	name, value, err := splitHeader([]byte("Host: localhost:8080"))
	require.NoError(t, err)
	require.Equal(t, "Host", string(name))
	require.Equal(t, "localhost:8080", string(value))

	_, _, err = splitHeader([]byte("Host\x7f: a"))
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestParseUint(t *testing.T) {
	num, err := parseUint([]byte("1234"), 10000)
	require.NoError(t, err)
	require.Equal(t, 1234, num)

	_, err = parseUint([]byte("10001"), 10000)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = parseUint([]byte("12a"), 10000)
	require.ErrorIs(t, err, errNotNumber)

	_, err = parseUint(nil, 10000)
	require.ErrorIs(t, err, errNotNumber)
}

func TestHeaders(t *testing.T) {
	headers := NewHeaders()
	headers.set("accept", "Accept", "text/html")
	headers.set("x-id", "X-ID", "1")
	headers.set("x-id", "x-Id", "2")

	require.Equal(t, 2, headers.Len())
	require.Equal(t, "2", headers.Value("X-Id"))
	require.Equal(t, "x-Id", headers.Name("X-ID"))
	require.Empty(t, headers.Value("missing"))

	var visited int
	headers.Range(func(name, value string) bool {
		visited++
		require.Equal(t, "Accept", name)
		return false
	})
	require.Equal(t, 1, visited)

	headers.clear()
	require.Zero(t, headers.Len())
	require.False(t, headers.Has("accept"))
}

func TestPrepareSettings(t *testing.T) {
	settings := PrepareSettings(Settings{})
	require.Equal(t, maxLineLength, settings.MaxLineLength)
	require.Equal(t, headersInitialSize, settings.HeadersInitialSize)
	require.Equal(t, headersMaxSize, settings.HeadersMaxSize)
	require.Equal(t, maxBodyLength, settings.MaxBodyLength)

	settings = PrepareSettings(Settings{HeadersMaxSize: 100})
	require.Equal(t, 100, settings.HeadersInitialSize)
}
