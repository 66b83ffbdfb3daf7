package intel

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractUPIKnownSuffixes(t *testing.T) {
	in := FromText("Send to xyz@paytm or abc@ybl")
	if len(in.UPIIDs) < 2 {
		t.Fatalf("expected at least 2 UPI IDs, got %v", in.UPIIDs)
	}
	var sawPaytm, sawYbl bool
	for _, id := range in.UPIIDs {
		if strings.HasSuffix(strings.ToLower(id), "paytm") {
			sawPaytm = true
		}
		if strings.HasSuffix(strings.ToLower(id), "ybl") {
			sawYbl = true
		}
	}
	if !sawPaytm || !sawYbl {
		t.Errorf("expected paytm and ybl handles, got %v", in.UPIIDs)
	}
}

func TestExtractUPIFallback(t *testing.T) {
	// No known suffix present: the generic x@y matcher takes over.
	in := FromText("reach me at someone@randomapp")
	if len(in.UPIIDs) != 1 || in.UPIIDs[0] != "someone@randomapp" {
		t.Errorf("expected generic fallback match, got %v", in.UPIIDs)
	}

	// A known-suffix hit suppresses the fallback entirely.
	in = FromText("pay xyz@paytm or mail someone@randomapp")
	for _, id := range in.UPIIDs {
		if id == "someone@randomapp" {
			t.Errorf("fallback should not run when known suffixes matched: %v", in.UPIIDs)
		}
	}
}

func TestExtractBankAccounts(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"plain run", "transfer to 123456789012 today", []string{"123456789012"}},
		{"grouped", "account 1234 5678 9012", []string{"123456789012"}},
		{"dash grouped", "1234-5678-9012-3456", []string{"1234567890123456"}},
		{"bare year ignored", "since 2023 nothing", nil},
		{"too short", "pin 12345678", nil},
		{"dedup", "send 123456789012 again 123456789012", []string{"123456789012"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := FromText(tc.text)
			if !reflect.DeepEqual(in.BankAccounts, tc.want) {
				t.Errorf("BankAccounts = %v, want %v", in.BankAccounts, tc.want)
			}
		})
	}
}

func TestExtractLinks(t *testing.T) {
	in := FromText(`click http://fake.example/verify or "https://scam.example/kyc"`)
	want := []string{"http://fake.example/verify", "https://scam.example/kyc"}
	if !reflect.DeepEqual(in.PhishingLinks, want) {
		t.Errorf("PhishingLinks = %v, want %v", in.PhishingLinks, want)
	}
}

func TestExtractPhonesNormalized(t *testing.T) {
	in := FromText("Call +919876543210 or 9876543210")
	if len(in.PhoneNumbers) != 1 {
		t.Fatalf("both forms should normalize to one value, got %v", in.PhoneNumbers)
	}
	got := in.PhoneNumbers[0]
	if got != "+919876543210" {
		t.Errorf("expected +919876543210, got %q", got)
	}
	if len(got) != 13 { // "+91" + 10 digits
		t.Errorf("normalized phone should be +91 plus 10 digits, got %q", got)
	}
}

func TestExtractPhonesSeparators(t *testing.T) {
	in := FromText("call +91 9876543210 or +91-9123456789")
	want := []string{"+919876543210", "+919123456789"}
	if !reflect.DeepEqual(in.PhoneNumbers, want) {
		t.Errorf("PhoneNumbers = %v, want %v", in.PhoneNumbers, want)
	}
}

func TestExtractSuspiciousKeywordsListOrder(t *testing.T) {
	// "verify" precedes "urgent" in the report list, whatever the text order.
	in := FromText("this is URGENT, please verify")
	want := []string{"urgent", "verify"}
	if !reflect.DeepEqual(in.SuspiciousKeywords, want) {
		t.Errorf("SuspiciousKeywords = %v, want %v", in.SuspiciousKeywords, want)
	}
}

func TestFromTextEmpty(t *testing.T) {
	in := FromText("")
	if !in.IsEmpty() {
		t.Errorf("empty text should yield empty intelligence, got %+v", in)
	}
}

func TestFromConversationScammerSideOnly(t *testing.T) {
	history := []Message{
		{Sender: SenderScammer, Text: "pay to xyz@paytm"},
		{Sender: SenderCounterparty, Text: "my own id is me@okaxis"},
	}
	in := FromConversation(history, "also call 9876543210")

	if !reflect.DeepEqual(in.UPIIDs, []string{"xyz@paytm"}) {
		t.Errorf("only scammer-authored text should be mined, got %v", in.UPIIDs)
	}
	if !reflect.DeepEqual(in.PhoneNumbers, []string{"+919876543210"}) {
		t.Errorf("current message should be included, got %v", in.PhoneNumbers)
	}
}

func TestMergeIdempotent(t *testing.T) {
	x := FromText("pay xyz@paytm, call 9876543210, see http://a.example urgent")
	if merged := Merge(x, x); !reflect.DeepEqual(merged, x) {
		t.Errorf("Merge(x, x) should equal x\n got: %+v\nwant: %+v", merged, x)
	}
}

func TestMergeFirstSeenOrder(t *testing.T) {
	a := Intelligence{UPIIDs: []string{"one@ybl", "two@paytm"}}
	b := Intelligence{UPIIDs: []string{"two@paytm", "three@okaxis"}}
	merged := Merge(a, b)
	want := []string{"one@ybl", "two@paytm", "three@okaxis"}
	if !reflect.DeepEqual(merged.UPIIDs, want) {
		t.Errorf("merged UPIIDs = %v, want %v", merged.UPIIDs, want)
	}
}

func TestMergeAssociative(t *testing.T) {
	a := Intelligence{PhoneNumbers: []string{"+919000000001"}}
	b := Intelligence{PhoneNumbers: []string{"+919000000002"}}
	c := Intelligence{PhoneNumbers: []string{"+919000000001", "+919000000003"}}

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	if !reflect.DeepEqual(left, right) {
		t.Errorf("merge should be associative\n left: %+v\nright: %+v", left, right)
	}
}

func TestCount(t *testing.T) {
	in := Intelligence{
		UPIIDs:             []string{"a@ybl"},
		PhoneNumbers:       []string{"+919876543210"},
		SuspiciousKeywords: []string{"urgent", "verify"},
	}
	if got := in.Count(); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
}
