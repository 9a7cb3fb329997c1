package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"sheets-bridge/internal/model"
	"sheets-bridge/internal/selection"
)

// State is the terminal state of one export invocation.
type State string

const (
	// StateSucceeded means the row was accepted by the script endpoint.
	StateSucceeded State = "succeeded"
	// StateSkipped means the export was a deliberate no-op: exporting
	// disabled, no endpoint configured, or the order was ineligible.
	// Skips are successes from the caller's point of view.
	StateSkipped State = "skipped"
	// StateFailed means all attempts were exhausted without success.
	StateFailed State = "failed"
)

// Result describes the outcome of one export invocation.
type Result struct {
	State    State
	Reason   string // populated for StateSkipped
	Attempts int
	Err      error // terminal error for StateFailed
}

const (
	defaultTimeout    = 5 * time.Second
	defaultRetryDelay = 1 * time.Second

	// One retry after the initial attempt. The remote upsert is keyed by
	// order ID, so a duplicate send is idempotent and a second attempt is
	// safe.
	maxAttempts = 2

	userAgent = "sheets-bridge/1.0"
)

// Options configures a Dispatcher.
type Options struct {
	// Endpoint is the deployed Apps Script web app URL. Empty disables
	// exporting (silent no-op).
	Endpoint string
	// Enabled gates exporting globally.
	Enabled bool
	// Timeout bounds each HTTP attempt. Defaults to 5s. The legacy
	// integration used 45s with no retry, so this stays configurable.
	Timeout time.Duration
	// RetryDelay is the base delay before a retry; the wait grows
	// linearly with the attempt number. Defaults to 1s.
	RetryDelay time.Duration
	// Transport overrides the HTTP transport (TLS fingerprinting, tests).
	Transport http.RoundTripper
}

// Dispatcher orchestrates one export: eligibility check, payload assembly,
// HTTP dispatch with bounded retry. It never returns an error to the order
// flow: failures end up in the Result and the log only.
type Dispatcher struct {
	opts       Options
	engine     *selection.Engine
	fieldIDs   []string
	client     *http.Client
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewDispatcher creates a dispatcher for the given effective field
// selection and eligibility engine.
func NewDispatcher(opts Options, engine *selection.Engine, fieldIDs []string, logger *slog.Logger) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	client := &http.Client{Timeout: opts.Timeout}
	if opts.Transport != nil {
		client.Transport = opts.Transport
	}
	return &Dispatcher{
		opts:       opts,
		engine:     engine,
		fieldIDs:   fieldIDs,
		client:     client,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Export runs the pipeline for one order. The returned Result is always
// usable; the shopper-facing flow treats skips and failures alike as done.
func (d *Dispatcher) Export(ctx context.Context, o *model.Order) Result {
	if !d.opts.Enabled {
		return d.skip(o, "exporting disabled")
	}
	if d.opts.Endpoint == "" {
		return d.skip(o, "no script endpoint configured")
	}
	if ok, reason := d.engine.Eligible(o); !ok {
		return d.skip(o, reason)
	}

	payload := Assemble(o, d.fieldIDs)

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			// Linear backoff: base delay times the retry number.
			if err := sleepCtx(ctx, d.retryDelay*time.Duration(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}

		if err := d.send(ctx, payload); err != nil {
			lastErr = err
			d.logger.Warn("sheet dispatch attempt failed",
				"order_id", o.ID,
				"attempt", attempt,
				"error", err.Error())
			continue
		}

		d.logger.Info("order exported to sheet",
			"order_id", o.ID,
			"fields", payload.Len(),
			"attempts", attempt,
			"duration_ms", time.Since(start).Milliseconds())
		return Result{State: StateSucceeded, Attempts: attempt}
	}

	d.logger.Error("order export failed",
		"order_id", o.ID,
		"attempts", maxAttempts,
		"error", lastErr.Error())
	return Result{State: StateFailed, Attempts: maxAttempts, Err: lastErr}
}

func (d *Dispatcher) skip(o *model.Order, reason string) Result {
	d.logger.Debug("order export skipped", "order_id", o.ID, "reason", reason)
	return Result{State: StateSkipped, Reason: reason}
}

// scriptResponse is the body contract of the deployed Apps Script.
type scriptResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// send performs one POST attempt. Success requires both HTTP 200 and a
// body reporting status "success"; anything looser lets a script error
// page count as a delivered row.
func (d *Dispatcher) send(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to script endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("script endpoint returned status %d", resp.StatusCode)
	}

	var sr scriptResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return fmt.Errorf("script endpoint returned non-JSON body: %w", err)
	}
	if sr.Status != "success" {
		if sr.Message != "" {
			return fmt.Errorf("script endpoint reported failure: %s", sr.Message)
		}
		return fmt.Errorf("script endpoint reported status %q", sr.Status)
	}
	return nil
}

// sleepCtx waits for the duration or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
