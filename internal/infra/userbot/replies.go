package userbot

import "sync"

// replyWaiters routes incoming private messages to the check currently
// waiting on that peer. At most one waiter per peer exists at a time;
// concurrent checks always target distinct peers.
type replyWaiters struct {
	mu      sync.Mutex
	waiting map[int64]chan string
}

func newReplyWaiters() *replyWaiters {
	return &replyWaiters{waiting: make(map[int64]chan string)}
}

// expect registers a waiter for messages from the given user. The
// channel is buffered so the update handler never blocks on a slow or
// departed consumer.
func (w *replyWaiters) expect(userID int64) chan string {
	ch := make(chan string, 8)
	w.mu.Lock()
	w.waiting[userID] = ch
	w.mu.Unlock()
	return ch
}

// cancel removes the waiter for the given user.
func (w *replyWaiters) cancel(userID int64) {
	w.mu.Lock()
	delete(w.waiting, userID)
	w.mu.Unlock()
}

// deliver hands a message text to the waiter for the given user, if
// any. Messages from peers nobody is waiting on are dropped.
func (w *replyWaiters) deliver(userID int64, text string) {
	w.mu.Lock()
	ch, ok := w.waiting[userID]
	w.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- text:
	default:
		// Buffer full: the waiter already has more than enough to
		// decide, drop the rest.
	}
}
