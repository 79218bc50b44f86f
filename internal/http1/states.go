package http1

// State is the parsing (and later writing) stage of a single request
type State uint8

const (
	StateAction State = iota
	StateHeaders
	StateHeadersCompleted
	StateWaiting
	StateBody
	StateCompleted
	StateWrite
)

func (s State) String() string {
	switch s {
	case StateAction:
		return "action"
	case StateHeaders:
		return "headers"
	case StateHeadersCompleted:
		return "headers_completed"
	case StateWaiting:
		return "waiting"
	case StateBody:
		return "body"
	case StateCompleted:
		return "completed"
	case StateWrite:
		return "write"
	default:
		return "unknown"
	}
}

type bodyMode uint8

const (
	eNoBody bodyMode = iota
	eBuffered
	eStreamed
)
