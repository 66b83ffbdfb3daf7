// Package patterns provides the centralized lexical pattern registry used by
// both scam detection and intelligence extraction. All regexes are compiled
// once at package init and shared across every request.
//
// Design principles:
// - COMPILE ONCE: matchers are compiled at init, not per-request
// - DRY: single source of truth for keyword tables and matchers
// - CATEGORIZED: keyword groups organized by scoring category
// - OVERRIDABLE: keyword tables can be replaced from a YAML file
package patterns

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category identifies a keyword scoring group.
type Category string

const (
	CategoryUrgency   Category = "urgency"
	CategoryFinancial Category = "financial"
	CategoryAuthority Category = "authority"
	CategoryAction    Category = "action"
)

// KeywordGroup holds lowercase substrings that contribute a fixed weight to a
// message score. A group contributes its weight at most once per message.
type KeywordGroup struct {
	Category Category
	Weight   int
	Keywords []string
}

// Matcher holds a compiled regex with metadata.
type Matcher struct {
	Name        string
	Regex       *regexp.Regexp
	Description string
}

// Registry holds the keyword groups, the extraction matchers, the suspicious
// keyword report list, and the benign greeting set.
type Registry struct {
	mu       sync.RWMutex
	groups   []KeywordGroup
	suspects []string
	benign   map[string]struct{}

	upi         *Matcher
	upiFallback *Matcher
	bankAccount *Matcher
	year        *Matcher
	url         *Matcher
	phone       *Matcher
}

// global singleton - initialized once at first use
var (
	globalRegistry *Registry
	initOnce       sync.Once
)

// Get returns the global pattern registry (singleton).
// Thread-safe and guaranteed to be initialized.
func Get() *Registry {
	initOnce.Do(func() {
		globalRegistry = newRegistry()
	})
	return globalRegistry
}

func newRegistry() *Registry {
	r := &Registry{
		groups:   defaultKeywordGroups(),
		suspects: defaultSuspiciousKeywords(),
		benign:   make(map[string]struct{}, len(benignGreetings)),
	}
	for _, g := range benignGreetings {
		r.benign[g] = struct{}{}
	}

	r.upi = compile("upi_known_suffix", upiKnownSuffixPattern, "UPI handle with a known provider suffix")
	r.upiFallback = compile("upi_generic", upiGenericPattern, "Generic localpart@provider token")
	r.bankAccount = compile("bank_account", bankAccountPattern, "9-18 digit run, optionally grouped")
	r.year = compile("bare_year", bareYearPattern, "Exactly four digits (year exclusion)")
	r.url = compile("url", urlPattern, "Absolute http(s) URL")
	r.phone = compile("indian_mobile", indianMobilePattern, "Indian mobile with optional +91 prefix")

	return r
}

func compile(name, pattern, description string) *Matcher {
	return &Matcher{
		Name:        name,
		Regex:       regexp.MustCompile(pattern),
		Description: description,
	}
}

// Groups returns the keyword groups in fixed scoring order
// (urgency, financial, authority, action).
func (r *Registry) Groups() []KeywordGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groups
}

// Group returns the keyword group for a category. The boolean is false when
// the category is unknown.
func (r *Registry) Group(cat Category) (KeywordGroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.groups {
		if g.Category == cat {
			return g, true
		}
	}
	return KeywordGroup{}, false
}

// SuspiciousKeywords returns the report-only keyword list in its fixed order.
func (r *Registry) SuspiciousKeywords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suspects
}

// IsBenignGreeting reports whether the trimmed, lowercased text is an exact
// member of the benign greeting set.
func (r *Registry) IsBenignGreeting(text string) bool {
	key := strings.ToLower(strings.TrimSpace(text))
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.benign[key]
	return ok
}

// Extraction matchers. The returned regexes are shared and must not be
// mutated by callers.

func (r *Registry) UPI() *Matcher         { return r.upi }
func (r *Registry) UPIFallback() *Matcher { return r.upiFallback }
func (r *Registry) BankAccount() *Matcher { return r.bankAccount }
func (r *Registry) BareYear() *Matcher    { return r.year }
func (r *Registry) URL() *Matcher         { return r.url }
func (r *Registry) Phone() *Matcher       { return r.phone }

// TotalKeywords returns the combined size of all keyword groups.
func (r *Registry) TotalKeywords() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, g := range r.groups {
		n += len(g.Keywords)
	}
	return n
}

// overrideFile mirrors the YAML override structure.
type overrideFile struct {
	Urgency    []string `yaml:"urgency"`
	Financial  []string `yaml:"financial"`
	Authority  []string `yaml:"authority"`
	Action     []string `yaml:"action"`
	Suspicious []string `yaml:"suspicious"`
}

// LoadOverrides replaces keyword tables from a YAML file. Empty sections keep
// the built-in table for that category. Matchers are never overridden.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pattern overrides: %w", err)
	}

	var of overrideFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return fmt.Errorf("parse pattern overrides: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	replace := func(cat Category, kws []string) {
		if len(kws) == 0 {
			return
		}
		for i, g := range r.groups {
			if g.Category == cat {
				r.groups[i].Keywords = lowercaseAll(kws)
			}
		}
	}
	replace(CategoryUrgency, of.Urgency)
	replace(CategoryFinancial, of.Financial)
	replace(CategoryAuthority, of.Authority)
	replace(CategoryAction, of.Action)
	if len(of.Suspicious) > 0 {
		r.suspects = lowercaseAll(of.Suspicious)
	}
	return nil
}

func lowercaseAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
