package types

import "testing"

func TestParseLanguage(t *testing.T) {
	for _, l := range Languages() {
		got, err := ParseLanguage(string(l))
		if err != nil {
			t.Errorf("ParseLanguage(%q) failed: %v", l, err)
		}
		if got != l {
			t.Errorf("ParseLanguage(%q) = %q", l, got)
		}
	}

	if _, err := ParseLanguage("Klingon"); err == nil {
		t.Error("expected error for unsupported language")
	}

	// Case-sensitive: the literal value goes on the wire.
	if _, err := ParseLanguage("english"); err == nil {
		t.Error("expected error for lowercase language name")
	}
}
