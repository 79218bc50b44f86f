package http1

type actionKind uint8

const (
	eWrite actionKind = iota + 1
	eEnd
	eClose
)

// pendingAction is a write, end or close called before the machine reached the
// write state
type pendingAction struct {
	kind actionKind
	data []byte
	cb   WriteCallback
}

// pendingQueue is a FIFO of deferred actions. It's drained once per request
type pendingQueue struct {
	actions []pendingAction
}

func (q *pendingQueue) push(action pendingAction) {
	q.actions = append(q.actions, action)
}

func (q *pendingQueue) Len() int {
	return len(q.actions)
}

// drain calls fn for every queued action in arrival order and empties the queue
func (q *pendingQueue) drain(fn func(action pendingAction)) {
	for i := range q.actions {
		fn(q.actions[i])
		q.actions[i] = pendingAction{}
	}

	q.actions = q.actions[:0]
}

func (q *pendingQueue) clear() {
	clear(q.actions)
	q.actions = q.actions[:0]
}
