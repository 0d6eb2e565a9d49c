package bot

import "testing"

func TestDisplayNameDefaults(t *testing.T) {
	want := []string{"Bot Alice", "Bot Bob", "Bot Carol", "Bot Dave"}
	for i, name := range want {
		if got := defaultDisplayNames[i]; got != name {
			t.Fatalf("seat %d default = %q, want %q", i, got, name)
		}
	}
	if got := DisplayName(9); got != "Bot 9" {
		t.Fatalf("invalid seat name = %q", got)
	}
}

func TestParseIdentities(t *testing.T) {
	names, err := parseIdentities([]byte(`[{"seat":1,"display_name":"Robo Bob"},{"seat":3,"display_name":""}]`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if names[1] != "Robo Bob" {
		t.Fatalf("seat 1 = %q, want override", names[1])
	}
	if names[3] != "Bot Dave" || names[0] != "Bot Alice" {
		t.Fatalf("unlisted or blank seats should keep defaults: %v", names)
	}

	if _, err := parseIdentities([]byte(`[{"seat":4,"display_name":"X"}]`)); err == nil {
		t.Fatal("expected error for seat 4")
	}
	if _, err := parseIdentities([]byte(`{`)); err == nil {
		t.Fatal("expected error for bad json")
	}
}
