package ui

import "testing"

func TestSignalsAccessors(t *testing.T) {
	t.Parallel()

	signals, err := ParseSignals([]byte(`{
		"searchquery": "berlin",
		"resultindex": 2,
		"zoom": 11.5,
		"moveend": true
	}`))
	if err != nil {
		t.Fatalf("ParseSignals: %v", err)
	}

	if got := signals.String("searchquery"); got != "berlin" {
		t.Fatalf("String=%q", got)
	}
	if got := signals.Int("resultindex"); got != 2 {
		t.Fatalf("Int=%d", got)
	}
	if got := signals.Float("zoom"); got != 11.5 {
		t.Fatalf("Float=%v", got)
	}
	if !signals.Bool("moveend") {
		t.Fatal("Bool=false")
	}

	// Missing or mistyped keys fall back to zero values.
	if signals.String("missing") != "" || signals.Int("searchquery") != 0 || signals.Bool("zoom") {
		t.Fatal("zero-value fallbacks broken")
	}
}

func TestParseSignalsRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseSignals([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}

	input := &SignalsInput{RawBody: []byte("{")}
	if _, err := input.MustParse(); err == nil {
		t.Fatal("expected huma error")
	}
}
