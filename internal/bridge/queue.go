package bridge

import "sync"

// Message is one outbound bus publication.
type Message struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool

	// state carries the decoded snapshot for sink fan-out when this is
	// a state publication, along with the component that produced it.
	state     map[string]any
	component string
	kind      string
}

// queue is an unbounded FIFO of outbound messages. It is safe for
// concurrent producers with a single consumer. There is no capacity
// bound: every worker publication is accepted, and the drain loop is
// the only drop point (on publish failure).
type queue struct {
	mu    sync.Mutex
	items []Message
}

// Enqueue appends a message. Never blocks.
func (q *queue) Enqueue(m Message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
}

// Dequeue removes and returns the oldest message. The second return is
// false when the queue is empty.
func (q *queue) Dequeue() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Message{}, false
	}
	m := q.items[0]
	q.items[0] = Message{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return m, true
}

// Len returns the number of queued messages.
func (q *queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
