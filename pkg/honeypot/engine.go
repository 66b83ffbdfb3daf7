// Package honeypot wires detection, extraction, session state, reply
// generation, and notification into the per-request pipeline. The contract is
// strict: a structurally valid request always gets a success response with a
// non-empty reply, whatever fails internally.
package honeypot

import (
	"context"
	"log"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/agent"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/archive"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/config"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/detect"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/httputil"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/notify"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/session"
)

// Request is the inbound message envelope.
type Request struct {
	SessionID           string          `json:"sessionId"`
	Message             *intel.Message  `json:"message"`
	ConversationHistory []intel.Message `json:"conversationHistory"`
	Metadata            *agent.Metadata `json:"metadata"`
}

// Response is what the caller always receives for a valid request.
type Response struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Engine runs the per-request pipeline.
type Engine struct {
	store      *session.Store
	dispatcher *notify.Dispatcher
	replier    agent.ReplyGenerator
	advisor    *detect.SemanticAdvisor // optional, advisory only
	reports    *archive.Archive        // optional
	sem        *httputil.Semaphore

	minTurns        int
	fallbackNonScam string
	fallbackError   string
	syncNotify      bool // tests: dispatch inline instead of a goroutine
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithAdvisor attaches the optional semantic advisory layer.
func WithAdvisor(a *detect.SemanticAdvisor) EngineOption {
	return func(e *Engine) { e.advisor = a }
}

// WithArchive attaches the optional report archive.
func WithArchive(a *archive.Archive) EngineOption {
	return func(e *Engine) { e.reports = a }
}

// WithSyncNotify makes notification dispatch synchronous. Test use only.
func WithSyncNotify() EngineOption {
	return func(e *Engine) { e.syncNotify = true }
}

// NewEngine assembles the pipeline.
func NewEngine(store *session.Store, dispatcher *notify.Dispatcher, replier agent.ReplyGenerator, minTurns int, opts ...EngineOption) *Engine {
	e := &Engine{
		store:           store,
		dispatcher:      dispatcher,
		replier:         replier,
		sem:             httputil.NewSemaphore(32),
		minTurns:        minTurns,
		fallbackNonScam: config.FallbackReplyNonScam,
		fallbackError:   config.FallbackReplyAgentError,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process handles one inbound message end to end: detect, extract, update
// session, maybe notify, reply. It never panics out and never returns an
// error status for a structurally valid request.
func (e *Engine) Process(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PIPELINE] recovered from panic for sessionId=%s: %v", req.SessionID, r)
			resp = Response{Status: "success", Reply: e.fallbackError}
		}
	}()

	msgText := ""
	if req.Message != nil {
		msgText = req.Message.Text
	}
	history := req.ConversationHistory
	if history == nil {
		history = []intel.Message{}
	}

	e.store.GetOrCreate(req.SessionID)

	scam := detect.Detect(msgText, history)
	var reply string
	if scam {
		e.store.MarkScamDetected(req.SessionID)
		e.store.MergeIntelligence(req.SessionID, intel.FromConversation(history, msgText))
		reply = e.replier.GenerateReply(ctx, msgText, history, req.Metadata)
		e.advise(msgText)
	} else {
		reply = e.fallbackNonScam
	}

	e.store.IncrementTurn(req.SessionID)
	sess := e.store.GetOrCreate(req.SessionID)

	log.Printf("[PIPELINE] sessionId=%s turn=%d scam=%v intel=%d",
		sess.SessionID, sess.TurnCount, sess.ScamDetected, sess.Intelligence.Count())

	// MarkNotified is a compare-and-set: later turns that still satisfy the
	// threshold skip dispatch entirely.
	if notify.ShouldNotify(sess, e.minTurns) && e.store.MarkNotified(req.SessionID) {
		payload := notify.BuildPayload(sess.SessionID, sess.ScamDetected, sess.TurnCount*2, sess.Intelligence)
		e.sendReport(payload)
	}

	return Response{Status: "success", Reply: reply}
}

// sendReport dispatches the payload without blocking the reply. The dispatch
// context is detached from the request: a slow callback must not be cut short
// by the response already having been written.
func (e *Engine) sendReport(payload notify.Payload) {
	deliver := func() {
		ok := e.dispatcher.Dispatch(context.Background(), payload)
		e.reports.Record(context.Background(), payload, ok)
	}

	if e.syncNotify {
		deliver()
		return
	}
	if !e.sem.TryAcquire() {
		log.Printf("[PIPELINE] dispatch dropped at capacity for sessionId=%s", payload.SessionID)
		return
	}
	go func() {
		defer e.sem.Release()
		deliver()
	}()
}

// advise runs the optional semantic layer off the request path and logs the
// result. It never influences the verdict.
func (e *Engine) advise(text string) {
	if e.advisor == nil || !e.advisor.Ready() {
		return
	}
	if !e.sem.TryAcquire() {
		return
	}
	go func() {
		defer e.sem.Release()
		res, err := e.advisor.Check(context.Background(), text)
		if err != nil {
			log.Printf("[ADVISOR] check failed: %v", err)
			return
		}
		if res.Similar {
			log.Printf("[ADVISOR] script match %.2f (%s): %q", res.Score, res.Category, res.Matched)
		}
	}()
}

// Stats exposes session store counters for the health endpoint.
func (e *Engine) Stats() session.Stats {
	return e.store.Stats()
}
