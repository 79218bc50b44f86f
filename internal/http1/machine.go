package http1

import (
	"strings"

	"github.com/floordiv/h1state/internal/buffer"
	"github.com/indigo-web/utils/arena"
	"github.com/indigo-web/utils/uf"
)

// maxErrorData limits how many bytes of garbage are quoted in a ProtocolError
const maxErrorData = 64

// Machine is the state of a single in-flight request on a connection. It parses
// the request out of the buffer lent by the connection, hands it to the handler
// and serializes the handler's writes, deferring them until the request is fully
// read.
//
// The machine isn't safe for concurrent use: all of its methods, including the
// write callbacks, must be called from the goroutine driving the connection.
type Machine struct {
	conn     Connection
	handler  Handler
	settings Settings

	state State
	err   error
	// generation is bumped on every Reset, so completions of writes belonging to
	// previous requests are ignored
	generation uint64

	// arena keeps the request line and the headers. All the strings exposed by
	// RequestLine and Headers point into it
	arena   *arena.Arena[byte]
	line    RequestLine
	headers *Headers

	contentLength int
	remaining     int
	mode          bodyMode
	bodyCb        BodyCallback
	body          []byte

	pending     pendingQueue
	outstanding int
	ended       bool
	writeEnded  bool
	sendClose   bool
	finished    bool
}

func New(conn Connection, handler Handler, settings Settings) *Machine {
	settings = PrepareSettings(settings)

	return &Machine{
		conn:     conn,
		handler:  handler,
		settings: settings,
		arena:    arena.NewArena[byte](settings.HeadersInitialSize, settings.HeadersMaxSize),
		headers:  NewHeaders(),
	}
}

// Feed steps the machine until it either needs more data, waits for the handler,
// or fails
func (m *Machine) Feed(buf *buffer.Buffer) error {
	for {
		progressed, err := m.Step(buf)
		if err != nil || !progressed {
			return err
		}
	}
}

// Step runs a single step of the current state. The buffer may be partially
// consumed. When progressed is false and there's no error, the step must be called
// again once more data is buffered (or the handler has made its choice).
//
// Any returned error is a *ProtocolError and the machine stays dead until Reset
func (m *Machine) Step(buf *buffer.Buffer) (progressed bool, err error) {
	if m.err != nil {
		return false, m.err
	}

	switch m.state {
	case StateAction:
		progressed, err = m.stepAction(buf)
	case StateHeaders:
		progressed, err = m.stepHeaders(buf)
	case StateHeadersCompleted:
		progressed, err = m.stepHeadersCompleted()
	case StateWaiting, StateWrite:
		return false, nil
	case StateBody:
		progressed = m.stepBody(buf)
	case StateCompleted:
		progressed, err = m.stepCompleted(buf)
	default:
		panic("BUG: unknown request state")
	}

	if err != nil {
		m.err = err
	}

	return progressed, err
}

func (m *Machine) stepAction(buf *buffer.Buffer) (bool, error) {
	line, found, err := m.nextLine(buf)
	if err != nil || !found {
		return false, err
	}

	method, url, protocol, err := splitRequestLine(line)
	if err != nil {
		return false, newProtocolError(err, quote(line))
	}

	scheme, major, minor, err := splitProtocol(protocol)
	if err != nil {
		return false, newProtocolError(err, quote(protocol))
	}

	stored, ok := m.keep(line)
	if !ok {
		return false, newProtocolError(ErrTooLarge, "")
	}

	protocolBegin := len(method) + len(url) + 2
	m.line = RequestLine{
		Method:       stored[:len(method)],
		URL:          stored[len(method)+1 : protocolBegin-1],
		Protocol:     stored[protocolBegin:],
		URLScheme:    stored[protocolBegin : protocolBegin+len(scheme)],
		VersionMajor: major,
		VersionMinor: minor,
	}

	buf.Consume(len(line) + len(crlf))
	m.state = StateHeaders

	return true, nil
}

func (m *Machine) stepHeaders(buf *buffer.Buffer) (bool, error) {
	line, found, err := m.nextLine(buf)
	if err != nil || !found {
		return false, err
	}

	if len(line) == 0 {
		buf.Consume(len(crlf))
		m.state = StateHeadersCompleted

		return true, nil
	}

	name, value, err := splitHeader(line)
	if err != nil {
		return false, newProtocolError(err, quote(line))
	}

	folded, ok := m.keepFolded(name)
	if !ok {
		return false, newProtocolError(ErrTooLarge, "")
	}

	original, ok := m.keep(name)
	if !ok {
		return false, newProtocolError(ErrTooLarge, "")
	}

	storedValue, ok := m.keep(value)
	if !ok {
		return false, newProtocolError(ErrTooLarge, "")
	}

	m.headers.set(folded, original, storedValue)
	buf.Consume(len(line) + len(crlf))

	return true, nil
}

func (m *Machine) stepHeadersCompleted() (bool, error) {
	if value, found := m.headers.values[contentLength]; found {
		length, err := parseUint(uf.S2B(value), m.settings.MaxBodyLength)
		switch err {
		case nil:
		case ErrTooLarge:
			return false, newProtocolError(ErrTooLarge, value)
		default:
			return false, newProtocolError(ErrBadContentLength, value)
		}

		m.contentLength = length
	}

	m.state = StateWaiting

	if m.handler != nil {
		m.handler(m)
	}

	if m.state == StateWaiting && m.pending.Len() > 0 {
		// the response was started even before the headers were parsed
		m.promote()
	}

	return true, nil
}

func (m *Machine) stepBody(buf *buffer.Buffer) bool {
	switch m.mode {
	case eStreamed:
		n := min(buf.Len(), m.remaining)
		if n > 0 {
			m.remaining -= n
			m.deliver(buf.Peek(n))
			buf.Consume(n)
		}

		if m.remaining == 0 {
			// empty chunk tells the end of the body
			m.deliver(nil)
			m.state = StateCompleted

			return true
		}

		return n > 0
	case eBuffered:
		if buf.Len() < m.remaining {
			return false
		}

		m.body = make([]byte, m.remaining)
		copy(m.body, buf.Peek(m.remaining))
		buf.Consume(m.remaining)
		m.remaining = 0
		m.state = StateCompleted

		return true
	default:
		// nobody asked for the body: the handler started responding right away
		m.state = StateCompleted

		return true
	}
}

func (m *Machine) stepCompleted(buf *buffer.Buffer) (bool, error) {
	if m.mode == eBuffered {
		body := m.body
		m.body = nil
		m.deliver(body)
	}

	switch {
	case buf.Len() == 0:
	case buf.Len() == len(crlf) && buf.Index(crlf) == 0:
		// single CRLF between pipelined requests is tolerated
		buf.Consume(len(crlf))
	default:
		return false, newProtocolError(ErrTrailingData, quote(buf.Bytes()))
	}

	m.state = StateWrite
	m.pending.drain(m.replay)

	return true, nil
}

func (m *Machine) nextLine(buf *buffer.Buffer) (line []byte, found bool, err error) {
	pos := buf.Index(crlf)
	if pos == -1 {
		if buf.Len() > m.settings.MaxLineLength {
			return nil, false, newProtocolError(ErrTooLarge, "")
		}

		return nil, false, nil
	}

	if pos > m.settings.MaxLineLength {
		return nil, false, newProtocolError(ErrTooLarge, "")
	}

	return buf.Peek(pos), true, nil
}

func (m *Machine) keep(b []byte) (string, bool) {
	if !m.arena.Append(b...) {
		return "", false
	}

	return uf.B2S(m.arena.Finish()), true
}

func (m *Machine) keepFolded(b []byte) (string, bool) {
	if !m.arena.Append(b...) {
		return "", false
	}

	folded := m.arena.Finish()
	foldBytes(folded)

	return uf.B2S(folded), true
}

func (m *Machine) deliver(body []byte) {
	if m.bodyCb != nil {
		m.bodyCb(body)
	}
}

// ReadBody delivers the whole body in a single callback once Content-Length bytes
// are received. The body is a copy and may be retained
func (m *Machine) ReadBody(cb BodyCallback) error {
	if m.state != StateWaiting {
		return &UsageError{Reason: ErrBodyMode, Verb: "read_body"}
	}

	m.mode = eBuffered
	m.bodyCb = cb

	if m.contentLength == 0 {
		m.state = StateCompleted
	} else {
		m.remaining = m.contentLength
		m.state = StateBody
	}

	m.conn.ReadBody()

	return nil
}

// ReadBodyStream delivers the body in chunks, as they arrive. A chunk is valid only
// until the callback returns. After the last chunk the callback is called once more
// with an empty one
func (m *Machine) ReadBodyStream(cb BodyCallback) error {
	if m.state != StateWaiting {
		return &UsageError{Reason: ErrBodyMode, Verb: "read_body_stream"}
	}

	m.mode = eStreamed
	m.bodyCb = cb
	m.remaining = m.contentLength
	m.state = StateBody
	m.conn.ReadBody()

	return nil
}

// Write sends the data as soon as the request is completely read, queueing it until
// then. A queued write keeps its own copy of data, otherwise data is passed to the
// connection as is and must not be modified until cb is called
func (m *Machine) Write(data []byte, cb WriteCallback) error {
	if m.ended {
		return &UsageError{Reason: ErrWriteAfterEnd, Verb: "write"}
	}

	if m.state == StateWrite {
		m.send(data, cb)

		return nil
	}

	m.enqueue(pendingAction{
		kind: eWrite,
		data: append([]byte(nil), data...),
		cb:   cb,
	})

	return nil
}

func (m *Machine) WriteString(data string, cb WriteCallback) error {
	return m.Write(uf.S2B(data), cb)
}

// End finishes the response. Once all the writes are acknowledged, the connection
// proceeds with the next request
func (m *Machine) End(cb WriteCallback) error {
	if m.ended {
		return &UsageError{Reason: ErrEndTwice, Verb: "end"}
	}

	m.ended = true

	if m.state == StateWrite {
		m.sendEnd(cb)

		return nil
	}

	m.enqueue(pendingAction{kind: eEnd, cb: cb})

	return nil
}

// Close finishes the response like End does, but closes the connection afterwards
func (m *Machine) Close(cb WriteCallback) error {
	if m.ended {
		return &UsageError{Reason: ErrEndTwice, Verb: "close"}
	}

	m.ended = true

	if m.state == StateWrite {
		m.sendClose = true
		m.sendEnd(cb)

		return nil
	}

	m.enqueue(pendingAction{kind: eClose, cb: cb})

	return nil
}

func (m *Machine) enqueue(action pendingAction) {
	m.pending.push(action)

	if m.state == StateWaiting {
		m.promote()
	}
}

// promote is used when the handler responds without reading the body. The body is
// treated as empty, so parsing can reach the write state
func (m *Machine) promote() {
	m.state = StateBody
	m.remaining = 0
	m.conn.ReadBody()
}

func (m *Machine) replay(action pendingAction) {
	switch action.kind {
	case eWrite:
		m.send(action.data, action.cb)
	case eEnd:
		m.sendEnd(action.cb)
	case eClose:
		m.sendClose = true
		m.sendEnd(action.cb)
	default:
		panic("BUG: unknown pending action")
	}
}

func (m *Machine) sendEnd(cb WriteCallback) {
	m.writeEnded = true
	// zero-length write marks the end of the response
	m.send(nil, cb)
}

func (m *Machine) send(data []byte, cb WriteCallback) {
	generation := m.generation
	m.outstanding++

	m.conn.Write(data, func() {
		if m.generation == generation {
			m.writeDone(cb)
		}
	}, func(err error) {
		if m.generation == generation {
			m.writeFailed(cb, err)
		}
	})
}

func (m *Machine) writeDone(cb WriteCallback) {
	if m.outstanding == 0 {
		panic("BUG: write completed more times than issued")
	}

	m.outstanding--

	if cb != nil {
		cb(nil)
	}

	if m.outstanding == 0 && m.writeEnded && !m.finished {
		m.finished = true

		if m.sendClose {
			m.conn.Close(nil)
		} else {
			m.conn.StartRequest()
		}
	}
}

func (m *Machine) writeFailed(cb WriteCallback, err error) {
	if m.outstanding > 0 {
		m.outstanding--
	}

	if cb != nil {
		cb(&TransportError{Err: err})
	}
}

// Reset prepares the machine for the next request on the same connection. All the
// strings previously returned by RequestLine and Headers become invalid
func (m *Machine) Reset() {
	m.generation++
	m.state = StateAction
	m.err = nil
	m.arena.Clear()
	m.line = RequestLine{}
	m.headers.clear()
	m.contentLength = 0
	m.remaining = 0
	m.mode = eNoBody
	m.bodyCb = nil
	m.body = nil
	m.pending.clear()
	m.outstanding = 0
	m.ended = false
	m.writeEnded = false
	m.sendClose = false
	m.finished = false
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) RequestLine() RequestLine {
	return m.line
}

func (m *Machine) Headers() *Headers {
	return m.headers
}

// Header is a shortcut for Headers().Get
func (m *Machine) Header(name string) (value string, found bool) {
	return m.headers.Get(name)
}

func (m *Machine) ContentLength() int {
	return m.contentLength
}

// Outstanding returns the number of writes issued to the connection, but not
// yet acknowledged
func (m *Machine) Outstanding() int {
	return m.outstanding
}

// Pending returns the number of writes, ends and closes waiting for the write state
func (m *Machine) Pending() int {
	return m.pending.Len()
}

// KeepAlive reports whether the client expects the connection to stay open after
// the response
func (m *Machine) KeepAlive() bool {
	value := m.headers.values[connection]

	if m.line.VersionMajor < 1 || (m.line.VersionMajor == 1 && m.line.VersionMinor == 0) {
		return strings.EqualFold(value, "keep-alive")
	}

	return !strings.EqualFold(value, "close")
}

func quote(data []byte) string {
	if len(data) > maxErrorData {
		data = data[:maxErrorData]
	}

	return string(data)
}
