// Package notify decides when accumulated session state is worth reporting,
// builds the report payload, and delivers it to the external endpoint with
// bounded retries. Delivery failure is logged and swallowed: the reply path
// must never depend on the reporting platform being up.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/httputil"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/session"
)

// ShouldNotify reports whether a session has accumulated enough signal: the
// scam flag is set and at least minTurns turns have been processed. Both
// inputs are monotonic, so once true the condition stays true; the caller
// gates actual dispatch through Store.MarkNotified for at-most-once delivery.
func ShouldNotify(sess session.Session, minTurns int) bool {
	if !sess.ScamDetected {
		return false
	}
	return sess.TurnCount >= minTurns
}

// Payload is the exact wire format of the outbound report.
type Payload struct {
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}

// EmptyIntelNotes is the agentNotes placeholder when nothing was extracted.
const EmptyIntelNotes = "Scam engagement; no financial details extracted yet"

// BuildPayload assembles a point-in-time report. totalMessages is the
// caller's approximation of both sides of the exchange (turnCount * 2).
func BuildPayload(sessionID string, scamDetected bool, totalMessages int, in intel.Intelligence) Payload {
	return Payload{
		SessionID:              sessionID,
		ScamDetected:           scamDetected,
		TotalMessagesExchanged: totalMessages,
		ExtractedIntelligence:  in,
		AgentNotes:             BuildAgentNotes(in),
	}
}

// BuildAgentNotes summarizes the extracted intelligence in a fixed clause
// order: UPI, bank accounts, links, phones, then the keyword flag. Only
// present clauses appear, joined with "; ".
func BuildAgentNotes(in intel.Intelligence) string {
	var parts []string
	if n := len(in.UPIIDs); n > 0 {
		parts = append(parts, fmt.Sprintf("UPI IDs shared: %d", n))
	}
	if n := len(in.BankAccounts); n > 0 {
		parts = append(parts, fmt.Sprintf("Bank accounts shared: %d", n))
	}
	if n := len(in.PhishingLinks); n > 0 {
		parts = append(parts, fmt.Sprintf("Links shared: %d", n))
	}
	if n := len(in.PhoneNumbers); n > 0 {
		parts = append(parts, fmt.Sprintf("Phone numbers shared: %d", n))
	}
	if len(in.SuspiciousKeywords) > 0 {
		parts = append(parts, "Urgency/verification tactics used")
	}
	if len(parts) == 0 {
		return EmptyIntelNotes
	}
	return strings.Join(parts, "; ")
}

// RetryPolicy is the bounded retry schedule for dispatch attempts.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts including the first
	Delay       time.Duration // Fixed pause between attempts
}

// DefaultRetryPolicy matches the platform contract: 3 attempts, 1s apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: 1 * time.Second}

// Dispatcher posts report payloads to the configured endpoint.
type Dispatcher struct {
	url    string
	client *http.Client
	policy RetryPolicy
	sleep  func(time.Duration) // injectable for tests
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClient overrides the HTTP client (fake transports in tests).
func WithClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// WithRetryPolicy overrides the retry schedule.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithSleep overrides the inter-attempt pause function.
func WithSleep(fn func(time.Duration)) Option {
	return func(d *Dispatcher) { d.sleep = fn }
}

// NewDispatcher creates a dispatcher for the given endpoint.
func NewDispatcher(url string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		url:    url,
		client: httputil.Client(httputil.TierCallback),
		policy: DefaultRetryPolicy,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func marshalPayload(p Payload) ([]byte, error) {
	// Intelligence slices may be nil; the wire format wants [] not null.
	p.ExtractedIntelligence = normalizeForWire(p.ExtractedIntelligence)
	return json.Marshal(p)
}

func normalizeForWire(in intel.Intelligence) intel.Intelligence {
	ensure := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	return intel.Intelligence{
		BankAccounts:       ensure(in.BankAccounts),
		UPIIDs:             ensure(in.UPIIDs),
		PhishingLinks:      ensure(in.PhishingLinks),
		PhoneNumbers:       ensure(in.PhoneNumbers),
		SuspiciousKeywords: ensure(in.SuspiciousKeywords),
	}
}

func drainAndClose(resp *http.Response) {
	httputil.DrainAndClose(resp.Body)
}

// Dispatch delivers the payload, retrying on any failure up to the policy's
// attempt budget. Success means some attempt returned a 2xx status. Failure
// after all attempts is logged; it is never an error the caller must handle.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) bool {
	body, err := marshalPayload(p)
	if err != nil {
		log.Printf("[NOTIFY] marshal failed for sessionId=%s: %v", p.SessionID, err)
		return false
	}

	for attempt := 1; attempt <= d.policy.MaxAttempts; attempt++ {
		if d.try(ctx, body, p.SessionID, attempt) {
			log.Printf("[NOTIFY] report delivered for sessionId=%s (attempt %d)", p.SessionID, attempt)
			return true
		}
		if attempt < d.policy.MaxAttempts {
			d.sleep(d.policy.Delay)
		}
	}

	log.Printf("[NOTIFY] report failed after %d attempts for sessionId=%s", d.policy.MaxAttempts, p.SessionID)
	return false
}

func (d *Dispatcher) try(ctx context.Context, body []byte, sessionID string, attempt int) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("[NOTIFY] attempt %d build request: %v", attempt, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("[NOTIFY] attempt %d for sessionId=%s: %v", attempt, sessionID, err)
		return false
	}
	defer drainAndClose(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true
	}
	log.Printf("[NOTIFY] attempt %d for sessionId=%s: status %d", attempt, sessionID, resp.StatusCode)
	return false
}
