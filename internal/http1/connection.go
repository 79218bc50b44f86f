package http1

// Connection is the owner of the socket and the buffer. The machine never touches
// the socket by itself, all the I/O goes through these methods.
type Connection interface {
	// ReadBody asks the connection to keep feeding the machine, as the handler has
	// decided how to consume the request body
	ReadBody()
	// Write sends data asynchronously. Exactly one of the callbacks must be called
	// once the write is done, and never from inside of Write itself
	Write(data []byte, onComplete func(), onError func(error))
	// StartRequest is called once the response is completely written and the
	// connection may proceed with the next pipelined request
	StartRequest()
	// Close is called instead of StartRequest when the response was finished by
	// Machine.Close. The reason is nil for a regular close
	Close(reason error)
}

// Handler receives the request as soon as its headers are parsed
type Handler func(m *Machine)

type (
	BodyCallback  func(body []byte)
	WriteCallback func(err error)
)
