package http1

import (
	"bytes"
	"errors"

	"github.com/scott-ainsworth/go-ascii"
)

var (
	crlf            = []byte("\r\n")
	headerSeparator = []byte(": ")
	contentLength   = "content-length"
	connection      = "connection"
)

// RequestLine is written once, when the first line of the request is parsed
type RequestLine struct {
	Method       string
	URL          string
	Protocol     string
	URLScheme    string
	VersionMajor int
	VersionMinor int
}

// splitRequestLine splits the line on the first two spaces. Everything after the
// second space belongs to the protocol
func splitRequestLine(line []byte) (method, url, protocol []byte, err error) {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return nil, nil, nil, ErrBadRequestLine
	}

	method, line = line[:sp], line[sp+1:]

	sp = bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return nil, nil, nil, ErrBadRequestLine
	}

	url, protocol = line[:sp], line[sp+1:]

	if !isPrintable(method) || !isPrintable(url) {
		return nil, nil, nil, ErrBadRequestLine
	}

	return method, url, protocol, nil
}

// splitProtocol parses strings like HTTP/1.1 into the scheme and the version pair
func splitProtocol(protocol []byte) (scheme []byte, major, minor int, err error) {
	slash := bytes.IndexByte(protocol, '/')
	if slash <= 0 {
		return nil, 0, 0, ErrBadProtocol
	}

	scheme, version := protocol[:slash], protocol[slash+1:]

	dot := bytes.IndexByte(version, '.')
	if dot == -1 {
		return nil, 0, 0, ErrBadProtocol
	}

	if major, err = parseUint(version[:dot], maxVersionNumber); err != nil {
		return nil, 0, 0, ErrBadProtocol
	}
	if minor, err = parseUint(version[dot+1:], maxVersionNumber); err != nil {
		return nil, 0, 0, ErrBadProtocol
	}

	return scheme, major, minor, nil
}

// splitHeader splits the header line on the first ": "
func splitHeader(line []byte) (name, value []byte, err error) {
	sep := bytes.Index(line, headerSeparator)
	if sep <= 0 {
		return nil, nil, ErrBadHeader
	}

	name, value = line[:sep], line[sep+len(headerSeparator):]

	for _, char := range name {
		if char == ' ' || !ascii.IsPrint(char) {
			return nil, nil, ErrBadHeader
		}
	}

	return name, value, nil
}

const maxVersionNumber = 9

var errNotNumber = errors.New("not a number")

// parseUint parses a non-empty unsigned decimal number not greater than limit
func parseUint(raw []byte, limit int) (num int, err error) {
	if len(raw) == 0 {
		return 0, errNotNumber
	}

	for _, char := range raw {
		char -= '0'

		if char > 9 {
			return 0, errNotNumber
		}

		num = num*10 + int(char)

		if num > limit {
			return 0, ErrTooLarge
		}
	}

	return num, nil
}

func isPrintable(b []byte) bool {
	for _, char := range b {
		if !ascii.IsPrint(char) {
			return false
		}
	}

	return true
}
