package helpers

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	got := EscapeMarkdownV2("Visa (Signature) - 1.5% back!")
	want := "Visa \\(Signature\\) \\- 1\\.5% back\\!"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDetailLabel(t *testing.T) {
	cases := map[string]string{
		"annualFee":     "Annual Fee",
		"annual_fee":    "Annual Fee",
		"RewardsRate":   "Rewards Rate",
		"APR":           "APR",
		"introAPR":      "Intro APR",
		"cashback":      "Cashback",
		"welcome_bonus": "Welcome Bonus",
	}
	for in, want := range cases {
		if got := DetailLabel(in); got != want {
			t.Errorf("DetailLabel(%q): expected %q, got %q", in, want, got)
		}
	}
}
