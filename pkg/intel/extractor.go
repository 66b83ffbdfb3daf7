// Package intel mines structured intelligence from scammer text: UPI handles,
// bank-account-like digit runs, links, Indian phone numbers, and suspicious
// keyword hits. Extraction is pure pattern matching over the shared registry;
// results are insertion-ordered and deduplicated by exact value.
package intel

import (
	"strings"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/patterns"
)

// Intelligence holds the five extracted fields. Field names match the
// notification payload wire format. Each slice is insertion-ordered and free
// of duplicates; order is first-seen order across merges.
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// IsEmpty reports whether no field holds any value.
func (in Intelligence) IsEmpty() bool {
	return len(in.BankAccounts) == 0 && len(in.UPIIDs) == 0 &&
		len(in.PhishingLinks) == 0 && len(in.PhoneNumbers) == 0 &&
		len(in.SuspiciousKeywords) == 0
}

// Count returns the total number of extracted values across all fields.
func (in Intelligence) Count() int {
	return len(in.BankAccounts) + len(in.UPIIDs) + len(in.PhishingLinks) +
		len(in.PhoneNumbers) + len(in.SuspiciousKeywords)
}

// Sender values for conversation messages.
const (
	SenderScammer      = "scammer"
	SenderCounterparty = "user"
)

// Message is one turn of a conversation as supplied by the caller.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// FromConversation extracts intelligence from the scammer side of a full
// conversation: all scammer-authored history texts plus the current message,
// space-joined and mined as one text.
func FromConversation(history []Message, currentText string) Intelligence {
	texts := make([]string, 0, len(history)+1)
	for _, m := range history {
		if m.Sender == SenderScammer && m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	if currentText != "" {
		texts = append(texts, currentText)
	}
	return FromText(strings.Join(texts, " "))
}

// FromText mines a single text for all five intelligence fields.
func FromText(text string) Intelligence {
	if text == "" {
		return Intelligence{}
	}
	return Intelligence{
		BankAccounts:       extractBankAccounts(text),
		UPIIDs:             extractUPI(text),
		PhishingLinks:      extractLinks(text),
		PhoneNumbers:       extractPhones(text),
		SuspiciousKeywords: extractSuspiciousKeywords(text),
	}
}

// Merge folds b into a, field by field, keeping first-seen order and dropping
// duplicates. Merge is associative and idempotent: Merge(x, x) == x.
func Merge(a, b Intelligence) Intelligence {
	return Intelligence{
		BankAccounts:       mergeValues(a.BankAccounts, b.BankAccounts),
		UPIIDs:             mergeValues(a.UPIIDs, b.UPIIDs),
		PhishingLinks:      mergeValues(a.PhishingLinks, b.PhishingLinks),
		PhoneNumbers:       mergeValues(a.PhoneNumbers, b.PhoneNumbers),
		SuspiciousKeywords: mergeValues(a.SuspiciousKeywords, b.SuspiciousKeywords),
	}
}

func mergeValues(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range a {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// extractUPI matches known provider suffixes first; only when nothing matches
// does it fall back to the generic x@y matcher.
func extractUPI(text string) []string {
	reg := patterns.Get()
	matches := reg.UPI().Regex.FindAllString(text, -1)
	if len(matches) == 0 {
		matches = reg.UPIFallback().Regex.FindAllString(text, -1)
	}
	return dedupe(matches)
}

func extractBankAccounts(text string) []string {
	reg := patterns.Get()
	var results []string
	for _, raw := range reg.BankAccount().Regex.FindAllString(text, -1) {
		val := strings.NewReplacer(" ", "", "-", "").Replace(raw)
		if len(val) < 9 {
			continue
		}
		if reg.BareYear().Regex.MatchString(val) {
			continue
		}
		results = append(results, val)
	}
	return dedupe(results)
}

func extractLinks(text string) []string {
	return dedupe(patterns.Get().URL().Regex.FindAllString(text, -1))
}

// extractPhones normalizes every hit to the 12-character +91XXXXXXXXXX form.
// Hits that are neither prefixed nor exactly 10 digits are dropped by the
// final length check.
func extractPhones(text string) []string {
	reg := patterns.Get()
	var results []string
	for _, raw := range reg.Phone().Regex.FindAllString(text, -1) {
		val := strings.NewReplacer(" ", "", "-", "").Replace(raw)
		if !strings.HasPrefix(val, "+91") && len(val) == 10 {
			val = "+91" + val
		}
		if len(val) >= 12 {
			results = append(results, val)
		}
	}
	return dedupe(results)
}

// extractSuspiciousKeywords preserves the registry list order, not text order.
func extractSuspiciousKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range patterns.Get().SuspiciousKeywords() {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}
