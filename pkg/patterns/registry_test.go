package patterns

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistrySingleton(t *testing.T) {
	r1 := Get()
	r2 := Get()
	if r1 != r2 {
		t.Error("Get() should return the same registry instance")
	}
}

func TestKeywordGroupsOrderAndWeights(t *testing.T) {
	r := newRegistry()

	groups := r.Groups()
	if len(groups) != 4 {
		t.Fatalf("expected 4 keyword groups, got %d", len(groups))
	}

	want := []struct {
		cat    Category
		weight int
	}{
		{CategoryUrgency, 2},
		{CategoryFinancial, 2},
		{CategoryAuthority, 1},
		{CategoryAction, 1},
	}
	for i, w := range want {
		if groups[i].Category != w.cat {
			t.Errorf("group %d: expected category %s, got %s", i, w.cat, groups[i].Category)
		}
		if groups[i].Weight != w.weight {
			t.Errorf("group %s: expected weight %d, got %d", w.cat, w.weight, groups[i].Weight)
		}
		if len(groups[i].Keywords) == 0 {
			t.Errorf("group %s: empty keyword list", w.cat)
		}
	}
}

func TestBenignGreetings(t *testing.T) {
	r := newRegistry()

	for _, text := range []string{"hi", "Hello", "HEY", "good morning", " Good Evening "} {
		if !r.IsBenignGreeting(text) {
			t.Errorf("expected %q to be a benign greeting", text)
		}
	}
	for _, text := range []string{"hi there", "verify now", ""} {
		if r.IsBenignGreeting(text) {
			t.Errorf("expected %q to not be a benign greeting", text)
		}
	}
}

func TestMatchers(t *testing.T) {
	r := newRegistry()

	cases := []struct {
		matcher *Matcher
		text    string
		want    bool
	}{
		{r.UPI(), "pay me at xyz@paytm", true},
		{r.UPI(), "mail me at someone@gmail.com", false},
		{r.UPIFallback(), "mail me at someone@gmail.com", true},
		{r.URL(), "visit http://fake-bank.example/verify", true},
		{r.URL(), "no link here", false},
		{r.Phone(), "call +919876543210", true},
		{r.Phone(), "call 9876543210", true},
		{r.Phone(), "call 1234567890", false}, // first digit must be 6-9
		{r.BankAccount(), "account 123456789012", true},
		{r.BareYear(), "2023", true},
		{r.BareYear(), "20231", false},
	}

	for _, tc := range cases {
		t.Run(tc.matcher.Name+"/"+tc.text, func(t *testing.T) {
			if got := tc.matcher.Regex.MatchString(tc.text); got != tc.want {
				t.Errorf("%s on %q: got %v, want %v", tc.matcher.Name, tc.text, got, tc.want)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	r := newRegistry()

	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := []byte("urgency:\n  - \"Hurry Up\"\nsuspicious:\n  - phishy\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := r.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}

	g, ok := r.Group(CategoryUrgency)
	if !ok {
		t.Fatal("urgency group missing after overrides")
	}
	if len(g.Keywords) != 1 || g.Keywords[0] != "hurry up" {
		t.Errorf("expected lowered override keywords, got %v", g.Keywords)
	}

	// Untouched sections keep their built-in tables.
	fin, _ := r.Group(CategoryFinancial)
	if len(fin.Keywords) == 0 {
		t.Error("financial group should keep built-in keywords")
	}

	if sk := r.SuspiciousKeywords(); len(sk) != 1 || sk[0] != "phishy" {
		t.Errorf("expected overridden suspicious list, got %v", sk)
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	r := newRegistry()
	if err := r.LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing overrides file")
	}
}
