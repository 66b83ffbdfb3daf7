// Package detect scores individual messages and whole conversations for scam
// signals. Scoring is a pure function of the message text and the shared
// pattern registry; no network, no model, no state.
package detect

import (
	"strings"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/patterns"
)

// ScamThreshold is the minimum conversation-adjusted score for a scam verdict.
const ScamThreshold = 2

// MaxMessageScore is the highest score a single message can reach
// (urgency 2 + financial 2 + authority 1 + action 1).
const MaxMessageScore = 6

// shortBenign tokens are never scored when they are the whole message.
var shortBenign = map[string]struct{}{"hi": {}, "hey": {}, "ok": {}}

// Score rates a single message for scam signals. Higher = more likely scam.
// Benign greetings short-circuit to 0 before any keyword check.
func Score(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	reg := patterns.Get()
	if reg.IsBenignGreeting(text) {
		return 0
	}

	lower := strings.TrimSpace(Normalize(text))
	if len(lower) <= 3 {
		if _, ok := shortBenign[lower]; ok {
			return 0
		}
	}

	score := 0
	for _, group := range reg.Groups() {
		// First hit only: a group never double-counts within one message.
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				score += group.Weight
				break
			}
		}
	}
	return score
}

// Detect reports whether the current message, in the context of the supplied
// conversation history, indicates scam intent.
//
// When any prior scammer-authored message scored above zero and the current
// message also scores above zero, a +1 escalation bonus is added: sustained
// engagement is a stronger signal than an isolated hit.
func Detect(messageText string, history []intel.Message) bool {
	if messageText == "" {
		return false
	}

	score := Score(messageText)

	if len(history) > 0 {
		prev := 0
		for _, m := range history {
			if m.Sender != intel.SenderScammer {
				continue
			}
			if s := Score(m.Text); s > prev {
				prev = s
			}
		}
		if prev > 0 && score > 0 {
			score++
		}
	}

	return score >= ScamThreshold
}
