package display

// pendingCmd stores a serialized command awaiting a broker connection.
type pendingCmd struct {
	topic   string
	payload []byte
}

// pendingQueue is a bounded FIFO holding commands issued while the broker is
// unreachable. When full, the oldest command is dropped; visibility commands
// are state-based, so the newest ones are the ones worth replaying.
// Not safe for concurrent use — caller must synchronize.
type pendingQueue struct {
	max     int
	cmds    []pendingCmd
	dropped int
}

func newPendingQueue(max int) *pendingQueue {
	return &pendingQueue{max: max}
}

func (q *pendingQueue) add(topic string, payload []byte) {
	if len(q.cmds) >= q.max {
		copy(q.cmds, q.cmds[1:])
		q.cmds = q.cmds[:len(q.cmds)-1]
		q.dropped++
	}
	q.cmds = append(q.cmds, pendingCmd{topic: topic, payload: payload})
}

// drain returns all queued commands in arrival order and resets the queue,
// including the dropped counter.
func (q *pendingQueue) drain() (cmds []pendingCmd, dropped int) {
	cmds, dropped = q.cmds, q.dropped
	q.cmds = nil
	q.dropped = 0
	return cmds, dropped
}

func (q *pendingQueue) len() int {
	return len(q.cmds)
}
