package http1

import (
	"strconv"
	"strings"
	"testing"

	"github.com/floordiv/h1state/internal/buffer"
)

func BenchmarkMachine(b *testing.B) {
	bench := func(b *testing.B, request string) {
		conn := new(mockConn)
		m := New(conn, func(m *Machine) {
			_ = m.ReadBody(nil)
			_ = m.End(nil)
		}, Settings{})
		buf := buffer.New(len(request), 0)
		b.SetBytes(int64(len(request)))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = buf.Append([]byte(request))
			_ = m.Feed(buf)
			conn.complete()
			conn.writes = conn.writes[:0]
			m.Reset()
		}
	}

	b.Run("simple get no headers", func(b *testing.B) {
		bench(b, "GET / HTTP/1.1\r\n\r\n")
	})

	b.Run("get with 5 headers", func(b *testing.B) {
		bench(b, generateRequest(5, 0))
	})

	b.Run("get with 10 headers", func(b *testing.B) {
		bench(b, generateRequest(10, 0))
	})

	b.Run("post with 10 headers and body", func(b *testing.B) {
		bench(b, generateRequest(10, 13)+"Hello, world!")
	})
}

func generateRequest(headersNum int, contentLengthValue int) string {
	request := "GET /" + strings.Repeat("a", 500) + " HTTP/1.1\r\n"

	for i := 0; i < headersNum; i++ {
		request += "some-random-header-name-nobody-cares-about" + strconv.Itoa(i) + ": " +
			strings.Repeat("b", 100) + "\r\n"
	}

	request += "Host: www.google.com\r\n"
	request += "Content-Length: " + strconv.Itoa(contentLengthValue) + "\r\n"

	return request + "\r\n"
}
