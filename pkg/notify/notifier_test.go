package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/session"
)

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		name     string
		sess     session.Session
		minTurns int
		want     bool
	}{
		{"scam and at threshold", session.Session{ScamDetected: true, TurnCount: 5}, 5, true},
		{"scam past threshold", session.Session{ScamDetected: true, TurnCount: 9}, 5, true},
		{"scam below threshold", session.Session{ScamDetected: true, TurnCount: 4}, 5, false},
		{"turns but no scam", session.Session{ScamDetected: false, TurnCount: 20}, 5, false},
		{"neither", session.Session{}, 5, false},
		{"custom lower threshold", session.Session{ScamDetected: true, TurnCount: 2}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldNotify(tt.sess, tt.minTurns); got != tt.want {
				t.Errorf("ShouldNotify(%+v, %d) = %v, want %v", tt.sess, tt.minTurns, got, tt.want)
			}
		})
	}
}

func TestBuildAgentNotes(t *testing.T) {
	tests := []struct {
		name string
		in   intel.Intelligence
		want string
	}{
		{
			"empty intelligence",
			intel.Intelligence{},
			EmptyIntelNotes,
		},
		{
			"all clauses in fixed order",
			intel.Intelligence{
				UPIIDs:             []string{"a@ybl", "b@paytm"},
				BankAccounts:       []string{"123456789012"},
				PhishingLinks:      []string{"http://x.example"},
				PhoneNumbers:       []string{"+919876543210"},
				SuspiciousKeywords: []string{"urgent", "verify"},
			},
			"UPI IDs shared: 2; Bank accounts shared: 1; Links shared: 1; Phone numbers shared: 1; Urgency/verification tactics used",
		},
		{
			"only keywords",
			intel.Intelligence{SuspiciousKeywords: []string{"otp"}},
			"Urgency/verification tactics used",
		},
		{
			"phones without upi keeps order",
			intel.Intelligence{
				PhoneNumbers: []string{"+919876543210"},
				BankAccounts: []string{"987654321"},
			},
			"Bank accounts shared: 1; Phone numbers shared: 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildAgentNotes(tt.in); got != tt.want {
				t.Errorf("BuildAgentNotes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPayloadWireFormat(t *testing.T) {
	p := BuildPayload("sess-1", true, 10, intel.Intelligence{
		UPIIDs: []string{"fraud@ybl"},
	})

	body, err := marshalPayload(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"sessionId", "scamDetected", "totalMessagesExchanged", "extractedIntelligence", "agentNotes"} {
		if _, ok := m[key]; !ok {
			t.Errorf("payload is missing key %q: %s", key, body)
		}
	}
	if m["sessionId"] != "sess-1" || m["scamDetected"] != true || m["totalMessagesExchanged"] != float64(10) {
		t.Errorf("unexpected payload values: %s", body)
	}

	// Empty intelligence fields serialize as [] rather than null.
	ei, ok := m["extractedIntelligence"].(map[string]any)
	if !ok {
		t.Fatalf("extractedIntelligence not an object: %s", body)
	}
	for _, key := range []string{"bankAccounts", "upiIds", "phishingLinks", "phoneNumbers", "suspiciousKeywords"} {
		v, ok := ei[key]
		if !ok {
			t.Errorf("extractedIntelligence missing key %q", key)
			continue
		}
		if _, isList := v.([]any); !isList {
			t.Errorf("extractedIntelligence[%q] = %v, want a JSON array", key, v)
		}
	}
}

func TestDispatchSuccessFirstAttempt(t *testing.T) {
	var hits atomic.Int64
	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, WithClient(srv.Client()), WithSleep(func(time.Duration) {}))
	ok := d.Dispatch(context.Background(), BuildPayload("sess-1", true, 10, intel.Intelligence{
		UPIIDs: []string{"fraud@ybl"},
	}))
	if !ok {
		t.Fatal("Dispatch should report success")
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", hits.Load())
	}
	if received.SessionID != "sess-1" || len(received.ExtractedIntelligence.UPIIDs) != 1 {
		t.Errorf("server received unexpected payload: %+v", received)
	}
}

func TestDispatchRetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var slept []time.Duration
	d := NewDispatcher(srv.URL,
		WithClient(srv.Client()),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 3, Delay: 250 * time.Millisecond}),
		WithSleep(func(dur time.Duration) { slept = append(slept, dur) }),
	)

	if !d.Dispatch(context.Background(), BuildPayload("s", true, 2, intel.Intelligence{})) {
		t.Fatal("third attempt should succeed")
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", hits.Load())
	}
	if len(slept) != 2 || slept[0] != 250*time.Millisecond {
		t.Errorf("expected 2 pauses of the policy delay, got %v", slept)
	}
}

func TestDispatchGivesUpAfterBudget(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, WithClient(srv.Client()), WithSleep(func(time.Duration) {}))
	if d.Dispatch(context.Background(), BuildPayload("s", true, 2, intel.Intelligence{})) {
		t.Fatal("Dispatch should report failure after exhausting attempts")
	}
	if hits.Load() != int64(DefaultRetryPolicy.MaxAttempts) {
		t.Errorf("expected %d attempts, got %d", DefaultRetryPolicy.MaxAttempts, hits.Load())
	}
}

func TestDispatchUnreachableEndpoint(t *testing.T) {
	// Connection refused on every attempt still returns false, never panics.
	d := NewDispatcher("http://127.0.0.1:1", WithSleep(func(time.Duration) {}))
	if d.Dispatch(context.Background(), BuildPayload("s", true, 2, intel.Intelligence{})) {
		t.Fatal("Dispatch to an unreachable endpoint should fail")
	}
}

func TestBuildPayloadNotes(t *testing.T) {
	p := BuildPayload("s", true, 4, intel.Intelligence{})
	if p.AgentNotes != EmptyIntelNotes {
		t.Errorf("AgentNotes = %q, want placeholder", p.AgentNotes)
	}
	p = BuildPayload("s", true, 4, intel.Intelligence{UPIIDs: []string{"a@ybl"}})
	if !strings.HasPrefix(p.AgentNotes, "UPI IDs shared: 1") {
		t.Errorf("AgentNotes = %q, want UPI clause first", p.AgentNotes)
	}
}
