package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"  Family / Holidays ": "Family - Holidays",
		"What? \"Now\"":        "What Now",
		"a:b*c":                "a-b-c",
		"":                     "",
	}
	for input, want := range tests {
		if got := SanitizeFileName(input); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestHasPrefixNFC(t *testing.T) {
	decomposed := "2024-06-05 Kaffee in Mu\u0308nchen.jpg"
	composed := "2024-06-05 Kaffee in M\u00fcnchen"
	if !HasPrefixNFC(decomposed, composed) {
		t.Fatal("expected decomposed filename to match composed title")
	}
	if HasPrefixNFC("2024-06-05 Sunrise.jpg", "2024-06-05 Sunset") {
		t.Fatal("unexpected prefix match")
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Summer-POSTER", "poster") {
		t.Fatal("expected case-insensitive match")
	}
	if ContainsFold("summer", "fanart") {
		t.Fatal("unexpected match")
	}
}
