package userbot

import "testing"

func TestReplyWaiters_DeliverToWaiter(t *testing.T) {
	w := newReplyWaiters()

	ch := w.expect(42)
	w.deliver(42, "hello")

	select {
	case text := <-ch:
		if text != "hello" {
			t.Errorf("Expected delivered text, got %q", text)
		}
	default:
		t.Error("Expected a buffered delivery")
	}
}

func TestReplyWaiters_DropWithoutWaiter(t *testing.T) {
	w := newReplyWaiters()

	// Nobody is waiting on peer 42; must not block or panic.
	w.deliver(42, "unsolicited")

	ch := w.expect(42)
	select {
	case text := <-ch:
		t.Errorf("Expected no backlog for a fresh waiter, got %q", text)
	default:
	}
}

func TestReplyWaiters_CancelStopsDelivery(t *testing.T) {
	w := newReplyWaiters()

	ch := w.expect(42)
	w.cancel(42)
	w.deliver(42, "late")

	select {
	case text := <-ch:
		t.Errorf("Expected no delivery after cancel, got %q", text)
	default:
	}
}

func TestReplyWaiters_FullBufferDoesNotBlock(t *testing.T) {
	w := newReplyWaiters()

	w.expect(42)
	for i := 0; i < 20; i++ {
		w.deliver(42, "spam") // must never block, even past the buffer
	}
}
