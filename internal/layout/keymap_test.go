package layout

import "testing"

func TestParseKeymap(t *testing.T) {
	cases := map[string]Keymap{"en": En, "EN": En, "ru": Ru, "Ru": Ru}
	for s, want := range cases {
		got, err := ParseKeymap(s)
		if err != nil {
			t.Fatalf("ParseKeymap(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseKeymap(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseKeymapUnknown(t *testing.T) {
	if _, err := ParseKeymap("fr"); err == nil {
		t.Fatalf("expected an error for an unknown keymap")
	}
}
