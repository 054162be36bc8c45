package gateway

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hydrosense/waterlevel-core/internal/infrastructure/config"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/logging"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/metrics"
)

// budgetSlack pads the caller's wait deadline beyond the theoretical
// worst-case retry schedule, covering transport publish timeouts.
const budgetSlack = 2 * time.Second

// Publisher is the outbound transport the dispatcher publishes through.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// RetryPolicy bounds the dispatcher's delivery attempts.
//
// After a failed attempt the next one is scheduled after a delay that grows
// by Multiplier each time, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy returns the standard delivery policy:
// 3 attempts, 1s initial delay, 10s ceiling, doubling.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryPolicyFromConfig converts the YAML retry settings to a policy.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.RetryInitialDelay(),
		MaxDelay:     cfg.RetryMaxDelay(),
		Multiplier:   cfg.Multiplier,
	}
}

// normalized fills zero values with the defaults.
func (p RetryPolicy) normalized() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.MaxDelay < p.InitialDelay {
		p.MaxDelay = def.MaxDelay
	}
	if p.Multiplier < 1.0 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// budget is the worst-case wallclock a Publish call may block its caller.
func (p RetryPolicy) budget() time.Duration {
	return time.Duration(p.MaxAttempts)*p.MaxDelay + budgetSlack
}

// Dispatcher delivers outbound commands to devices with bounded retries.
//
// Publish is synchronous from the caller's point of view: it returns true
// only once the transport has accepted the payload on some attempt, and
// false after exhaustion, a serialization failure or shutdown. Retries
// between attempts run on the shared Scheduler, so a caller blocked in
// Publish holds no goroutine hostage beyond its own.
type Dispatcher struct {
	publisher Publisher
	scheduler Scheduler
	codec     Codec
	policy    RetryPolicy
	qos       byte
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewDispatcher creates a command dispatcher.
//
// Parameters:
//   - publisher: Outbound transport (the MQTT client in production)
//   - scheduler: Shared delay scheduler for retry attempts
//   - policy: Retry bounds; zero values fall back to DefaultRetryPolicy
//   - qos: MQTT quality of service for command publishes
//   - logger: Structured logger
//   - m: Gateway metrics (nil disables instrumentation)
func NewDispatcher(publisher Publisher, scheduler Scheduler, policy RetryPolicy, qos byte, logger *logging.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		scheduler: scheduler,
		policy:    policy.normalized(),
		qos:       qos,
		logger:    logger,
		metrics:   m,
	}
}

// Publish serializes the command and delivers it to the device's command
// topic, retrying with exponential backoff on transport failure.
//
// The first attempt happens immediately on the caller's goroutine. Each
// subsequent attempt is scheduled after min(delay x multiplier, maxDelay),
// starting from the initial delay. The call returns as soon as an attempt
// succeeds or the policy is exhausted, and never blocks longer than
// maxAttempts x maxDelay plus a small slack.
//
// Returns:
//   - bool: true if the transport accepted the message on some attempt
func (d *Dispatcher) Publish(ctx context.Context, deviceKey string, cmd Command) bool {
	payload, err := d.codec.Encode(cmd)
	if err != nil {
		// A payload that cannot be serialized will never serialize on
		// retry. Fatal for this call.
		d.logger.Error("command serialization failed",
			"device_key", deviceKey,
			"error", err,
		)
		return false
	}

	topic := cmd.Topic(deviceKey)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.policy.InitialDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = d.policy.Multiplier
	bo.MaxInterval = d.policy.MaxDelay
	bo.MaxElapsedTime = 0
	bo.Reset()

	result := make(chan bool, 1)
	d.attempt(topic, payload, 1, bo, result)

	select {
	case delivered := <-result:
		return delivered
	case <-time.After(d.policy.budget()):
		d.logger.Error("command delivery outcome missed its deadline",
			"topic", topic,
		)
		return false
	case <-ctx.Done():
		return false
	}
}

// attempt performs one publish try and schedules the next on failure.
// Exactly one value is ever sent on result per attempt chain.
func (d *Dispatcher) attempt(topic string, payload []byte, n int, bo backoff.BackOff, result chan<- bool) {
	d.metrics.PublishAttempt()

	err := d.publisher.Publish(topic, payload, d.qos, false)
	if err == nil {
		if n > 1 {
			d.logger.Info("command delivered after retry",
				"topic", topic,
				"attempt", n,
			)
		}
		result <- true
		return
	}

	d.metrics.PublishFailure()
	d.logger.Warn("command publish attempt failed",
		"topic", topic,
		"attempt", n,
		"error", err,
	)

	if n >= d.policy.MaxAttempts {
		d.metrics.PublishExhausted()
		d.logger.Error("command delivery exhausted",
			"topic", topic,
			"attempts", n,
		)
		result <- false
		return
	}

	delay := bo.NextBackOff()
	schedErr := d.scheduler.AfterFunc(delay, func() {
		d.attempt(topic, payload, n+1, bo, result)
	})
	if schedErr != nil {
		d.logger.Error("command retry could not be scheduled",
			"topic", topic,
			"attempt", n,
			"error", schedErr,
		)
		result <- false
	}
}

// PublishPumpStart delivers a pump start command to the device.
func (d *Dispatcher) PublishPumpStart(ctx context.Context, deviceKey, initiatedBy string) bool {
	return d.Publish(ctx, deviceKey, NewPumpStartCommand(initiatedBy, time.Now()))
}

// PublishThresholdUpdate delivers new thresholds to the device.
func (d *Dispatcher) PublishThresholdUpdate(ctx context.Context, deviceKey string, minThreshold, maxThreshold float64, updatedBy string) bool {
	return d.Publish(ctx, deviceKey, NewThresholdUpdateCommand(minThreshold, maxThreshold, updatedBy, time.Now()))
}
