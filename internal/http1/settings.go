package http1

import "math"

const (
	// hard limits
	maxLineLength  = 4096
	headersMaxSize = 64 * 1024
	maxBodyLength  = math.MaxInt32

	// soft limits
	headersInitialSize = 2048
)

type Settings struct {
	// MaxLineLength limits a request line or a header line which is still waiting
	// for its CRLF
	MaxLineLength int
	// HeadersInitialSize and HeadersMaxSize bound the arena holding the request line
	// and all the header names and values of a single request
	HeadersInitialSize int
	HeadersMaxSize     int
	// MaxBodyLength is the greatest Content-Length value accepted
	MaxBodyLength int
}

func PrepareSettings(settings Settings) Settings {
	if settings.MaxLineLength < 1 {
		settings.MaxLineLength = maxLineLength
	}
	if settings.HeadersInitialSize < 1 {
		settings.HeadersInitialSize = headersInitialSize
	}
	if settings.HeadersMaxSize < 1 {
		settings.HeadersMaxSize = headersMaxSize
	}
	if settings.HeadersMaxSize < settings.HeadersInitialSize {
		settings.HeadersInitialSize = settings.HeadersMaxSize
	}
	if settings.MaxBodyLength < 1 {
		settings.MaxBodyLength = maxBodyLength
	}

	return settings
}
