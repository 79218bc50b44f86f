package http

import (
	"errors"
	"io"
	"log"
	"net"

	"github.com/floordiv/h1state/internal/buffer"
	"github.com/floordiv/h1state/internal/http1"
	"github.com/floordiv/h1state/internal/server/tcp"
)

// Conn serves HTTP/1.x requests over a single client connection, one request at a time,
// reusing the same state machine for every request. It's driven by a single goroutine.
type Conn struct {
	client  tcp.Client
	buffer  *buffer.Buffer
	machine *http1.Machine

	// completions of writes are deferred until the current step of the machine is
	// over, so write callbacks never re-enter it
	completions []func()
	restarted   bool
	closed      bool
}

// NewConn returns a connection reading through the client. The maxBuffered limits
// how many received bytes may wait for being parsed, non-positive means no limit
func NewConn(client tcp.Client, handler http1.Handler, settings http1.Settings, bufferSize, maxBuffered int) *Conn {
	c := &Conn{
		client: client,
		buffer: buffer.New(bufferSize, maxBuffered),
	}
	c.machine = http1.New(c, handler, settings)

	return c
}

func (c *Conn) Serve() {
	defer func() {
		_ = c.client.Close()
	}()

	for {
		if err := c.machine.Feed(c.buffer); err != nil {
			log.Println("error: http:", c.client.Remote(), err)
			return
		}

		c.flush()

		switch {
		case c.closed:
			return
		case c.restarted:
			// the next pipelined request may be already buffered
			c.restarted = false
			continue
		}

		data, err := c.client.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Println("error: http: read:", c.client.Remote(), err)
			}

			return
		}

		if !c.buffer.Append(data) {
			log.Println("error: http:", c.client.Remote(), "too much unparsed data")
			return
		}
	}
}

func (c *Conn) flush() {
	for len(c.completions) > 0 {
		completion := c.completions[0]
		c.completions[0] = nil
		c.completions = c.completions[1:]
		completion()
	}

	c.completions = c.completions[:0]
}

// ReadBody does nothing, as the serve loop feeds the machine after every read anyway
func (c *Conn) ReadBody() {}

func (c *Conn) Write(data []byte, onComplete func(), onError func(error)) {
	if c.closed {
		c.completions = append(c.completions, func() {
			onError(net.ErrClosed)
		})

		return
	}

	if len(data) > 0 {
		if err := c.client.Write(data); err != nil {
			c.closed = true
			log.Println("error: http: write:", c.client.Remote(), err)
			c.completions = append(c.completions, func() {
				onError(err)
			})

			return
		}
	}

	c.completions = append(c.completions, onComplete)
}

func (c *Conn) StartRequest() {
	c.machine.Reset()
	c.restarted = true
}

func (c *Conn) Close(reason error) {
	if reason != nil {
		log.Println("error: http: closing:", c.client.Remote(), reason)
	}

	c.closed = true
}
