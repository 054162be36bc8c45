package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hydrosense/waterlevel-core/internal/infrastructure/logging"
)

const testDeviceKey = "7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a6b"

// fakePublisher fails the first failures publishes, then succeeds.
type fakePublisher struct {
	mu       sync.Mutex
	failures int
	calls    []string
}

func (p *fakePublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, topic)
	if len(p.calls) <= p.failures {
		return errors.New("broker unavailable")
	}
	return nil
}

func (p *fakePublisher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// testPolicy keeps retry delays short enough for unit tests.
func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func newTestDispatcher(t *testing.T, pub Publisher, policy RetryPolicy) *Dispatcher {
	t.Helper()

	scheduler := NewTimerScheduler(2, 64)
	t.Cleanup(scheduler.Close)

	return NewDispatcher(pub, scheduler, policy, 1, logging.Default(), nil)
}

func TestDispatcher_FirstAttemptSucceeds(t *testing.T) {
	pub := &fakePublisher{}
	d := newTestDispatcher(t, pub, testPolicy())

	ok := d.Publish(context.Background(), testDeviceKey, NewPumpStartCommand("admin", time.Now()))
	if !ok {
		t.Fatal("Publish() = false, want true")
	}
	if got := pub.callCount(); got != 1 {
		t.Errorf("publish attempts = %d, want 1", got)
	}

	wantTopic := "devices/" + testDeviceKey + "/pump/start"
	if pub.calls[0] != wantTopic {
		t.Errorf("published to %q, want %q", pub.calls[0], wantTopic)
	}
}

func TestDispatcher_RecoversWithinRetryBudget(t *testing.T) {
	pub := &fakePublisher{failures: 2}
	d := newTestDispatcher(t, pub, testPolicy())

	ok := d.Publish(context.Background(), testDeviceKey, NewPumpStartCommand("admin", time.Now()))
	if !ok {
		t.Fatal("Publish() = false, want true after recovery on third attempt")
	}
	if got := pub.callCount(); got != 3 {
		t.Errorf("publish attempts = %d, want 3", got)
	}
}

func TestDispatcher_ExhaustsAttempts(t *testing.T) {
	pub := &fakePublisher{failures: 100}
	d := newTestDispatcher(t, pub, testPolicy())

	start := time.Now()
	ok := d.Publish(context.Background(), testDeviceKey, NewPumpStartCommand("admin", time.Now()))
	elapsed := time.Since(start)

	if ok {
		t.Fatal("Publish() = true, want false after exhaustion")
	}
	if got := pub.callCount(); got != 3 {
		t.Errorf("publish attempts = %d, want exactly 3", got)
	}
	if elapsed > testPolicy().budget() {
		t.Errorf("Publish() blocked %v, want under budget %v", elapsed, testPolicy().budget())
	}
}

func TestDispatcher_BackoffDelaysGrow(t *testing.T) {
	pub := &fakePublisher{failures: 100}
	policy := RetryPolicy{
		MaxAttempts:  4,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     25 * time.Millisecond,
		Multiplier:   2.0,
	}
	d := newTestDispatcher(t, pub, policy)

	start := time.Now()
	d.Publish(context.Background(), testDeviceKey, NewPumpStartCommand("admin", time.Now()))
	elapsed := time.Since(start)

	// Delays: 10ms, 20ms, then capped at 25ms. Total at least 55ms.
	if elapsed < 55*time.Millisecond {
		t.Errorf("Publish() resolved in %v, want >= 55ms of backoff", elapsed)
	}
}

func TestDispatcher_SerializationFailureIsFatal(t *testing.T) {
	pub := &fakePublisher{}
	d := newTestDispatcher(t, pub, testPolicy())

	ok := d.Publish(context.Background(), testDeviceKey, unencodableCommand{})
	if ok {
		t.Fatal("Publish() = true, want false on serialization failure")
	}
	if got := pub.callCount(); got != 0 {
		t.Errorf("publish attempts = %d, want 0 when encoding fails", got)
	}
}

// unencodableCommand cannot be marshalled to JSON.
type unencodableCommand struct {
	Ch chan int `json:"ch"`
}

func (unencodableCommand) Topic(deviceKey string) string {
	return "devices/" + deviceKey + "/pump/start"
}

func TestDispatcher_SchedulerShutdownUnblocksCaller(t *testing.T) {
	pub := &fakePublisher{failures: 100}

	scheduler := NewTimerScheduler(1, 4)
	scheduler.Close()

	d := NewDispatcher(pub, scheduler, testPolicy(), 1, logging.Default(), nil)

	done := make(chan bool, 1)
	go func() {
		done <- d.Publish(context.Background(), testDeviceKey, NewPumpStartCommand("admin", time.Now()))
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("Publish() = true, want false when retries cannot be scheduled")
		}
	case <-time.After(time.Second):
		t.Fatal("Publish() hung after scheduler shutdown")
	}
}

func TestDispatcher_ThresholdUpdateTopic(t *testing.T) {
	pub := &fakePublisher{}
	d := newTestDispatcher(t, pub, testPolicy())

	ok := d.PublishThresholdUpdate(context.Background(), testDeviceKey, 15, 85, "admin")
	if !ok {
		t.Fatal("PublishThresholdUpdate() = false, want true")
	}

	wantTopic := "devices/" + testDeviceKey + "/thresholds/update"
	if pub.calls[0] != wantTopic {
		t.Errorf("published to %q, want %q", pub.calls[0], wantTopic)
	}
}
