package ast

import "testing"

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "already canonical", path: "payment.terms", want: "payment.terms"},
		{name: "uppercase is lowercased", path: "Payment.Terms", want: "payment.terms"},
		{name: "slashes normalize to dots", path: "payment/terms", want: "payment.terms"},
		{name: "mixed separators", path: "Payment/Terms.net-days", want: "payment.terms.net-days"},
		{name: "whitespace trimmed per segment", path: " payment . terms ", want: "payment.terms"},
		{name: "underscores and digits allowed", path: "net_30.tier2", want: "net_30.tier2"},
		{name: "empty segment rejected", path: "payment..terms", wantErr: true},
		{name: "empty path rejected", path: "", wantErr: true},
		{name: "invalid character rejected", path: "payment.ter ms", wantErr: true},
		{name: "unicode rejected", path: "paymént", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizePath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CanonicalizePath(%q) error = nil, want error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("CanonicalizePath(%q) error = %v, want nil", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("CanonicalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCanonicalizePath_EquivalentSpellings(t *testing.T) {
	// Paths differing only in case and separator must collide.
	a, err := CanonicalizePath("Payment/Terms")
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	b, err := CanonicalizePath("payment.terms")
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	if a != b {
		t.Errorf("equivalent spellings canonicalize differently: %q vs %q", a, b)
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath("", "root"); got != "root" {
		t.Errorf("JoinPath(\"\", \"root\") = %q, want %q", got, "root")
	}
	if got := JoinPath("a.b", "c"); got != "a.b.c" {
		t.Errorf("JoinPath(\"a.b\", \"c\") = %q, want %q", got, "a.b.c")
	}
}

func TestSplitPath(t *testing.T) {
	if got := SplitPath(""); got != nil {
		t.Errorf("SplitPath(\"\") = %v, want nil", got)
	}
	got := SplitPath("a.b.c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("SplitPath(\"a.b.c\") = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitPath(\"a.b.c\")[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
