package lifecycle_test

import (
	"testing"

	"gear/internal/platform/lifecycle"
)

func TestHandlerInvokesRegisteredActions(t *testing.T) {
	t.Parallel()
	h := lifecycle.NewHandler()
	// Unregistered transitions are no-ops.
	h.DidEnterBackground()
	h.WillEnterForeground()

	var events []string
	h.SetDidEnterBackgroundAction(func() { events = append(events, "background") })
	h.SetWillEnterForegroundAction(func() { events = append(events, "foreground") })
	h.DidEnterBackground()
	h.WillEnterForeground()

	if len(events) != 2 || events[0] != "background" || events[1] != "foreground" {
		t.Fatalf("unexpected events: %v", events)
	}
}
