package patterns

// =============================================================================
// KEYWORD TABLES AND MATCHER DEFINITIONS
// Single source of truth for everything the detector and extractor match on.
// =============================================================================

// Keyword group weights. Urgency and financial language are the strongest
// scam signals; authority name-dropping and action requests are weaker.
const (
	WeightUrgency   = 2
	WeightFinancial = 2
	WeightAuthority = 1
	WeightAction    = 1
)

func defaultKeywordGroups() []KeywordGroup {
	return []KeywordGroup{
		{
			Category: CategoryUrgency,
			Weight:   WeightUrgency,
			Keywords: []string{
				"immediately", "urgent", "today", "now", "blocked", "verify now",
				"act fast", "asap", "suspended", "expire", "deadline",
			},
		},
		{
			Category: CategoryFinancial,
			Weight:   WeightFinancial,
			Keywords: []string{
				"bank", "account", "upi", "payment", "transfer", "balance",
				"blocked", "suspended", "verify", "compliance", "fund", "money",
				"transaction", "refund", "reward", "prize", "lottery",
			},
		},
		{
			Category: CategoryAuthority,
			Weight:   WeightAuthority,
			Keywords: []string{
				"official", "bank", "verification", "compliance", "department",
				"reserve bank", "rbi", "government", "income tax",
			},
		},
		{
			Category: CategoryAction,
			Weight:   WeightAction,
			Keywords: []string{
				"click", "share", "send", "verify", "link", "otp", "call",
				"register", "update", "confirm", "submit",
			},
		},
	}
}

// defaultSuspiciousKeywords is the report-only list. It overlaps the scoring
// groups but is deliberately separate: scoring never consults it and its
// order is the order keywords appear in reports.
func defaultSuspiciousKeywords() []string {
	return []string{
		"urgent", "immediately", "blocked", "verify", "suspended", "account",
		"upi", "bank", "payment", "transfer", "click", "link", "otp",
		"compliance", "official", "verification",
	}
}

// benignGreetings are never scored, regardless of history.
var benignGreetings = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
}

// --- EXTRACTION MATCHERS ---

// UPI handles: localpart@knownProviderSuffix. The generic matcher is only
// consulted when the known-suffix matcher finds nothing.
const (
	upiKnownSuffixPattern = `(?i)\b\w[\w.-]*@(?:paytm|ybl|okaxis|phonepe|paypal|bank|upi|axl|ibl|icici|kotak|okbizaxis|fam|jupiteraxis|indus|federal|postbank|sbi|hdfc|pnb|payzapp)\b`
	upiGenericPattern     = `\b\w[\w.-]*@[\w.-]+\b`
)

// Bank accounts: 9-18 digit runs, optionally grouped in 4-digit chunks by
// spaces or dashes. Bare 4-digit years are excluded after separator stripping.
const (
	bankAccountPattern = `\b(?:(?:\d{4}[\s-]?){2,4}\d{0,6}|\d{9,18})\b`
	bareYearPattern    = `^\d{4}$`
)

// Absolute URLs up to the first whitespace or quote.
const urlPattern = `https?://[^\s<>"']+`

// Indian mobiles: optional +91 prefix (with optional separator), first digit
// 6-9, nine more digits. Normalization to the 12-character +91 form happens
// in the extractor.
const indianMobilePattern = `(?:\+91[-\s]?)?[6-9]\d{9}\b`
