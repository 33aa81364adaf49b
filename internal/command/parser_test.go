package command

import "testing"

func TestSplitSequence(t *testing.T) {
	got := SplitSequence("forward 2; right 2 ;; forward 2 ")
	want := []string{"forward 2", "right 2", "forward 2"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseCommandNoDuration(t *testing.T) {
	tok, ok := ParseCommand("sleep")
	if !ok {
		t.Fatalf("expected ok")
	}
	if tok.Kind != Sleep || tok.Duration != nil {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestParseCommandWithDuration(t *testing.T) {
	tok, ok := ParseCommand("forward 1.5")
	if !ok {
		t.Fatalf("expected ok")
	}
	if tok.Kind != Forward || tok.Duration == nil || *tok.Duration != 1.5 {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestParseCommandColonForm(t *testing.T) {
	a, ok := ParseCommand("left:1.5")
	if !ok {
		t.Fatalf("expected ok")
	}
	b, ok := ParseCommand("left 1.5")
	if !ok {
		t.Fatalf("expected ok")
	}
	if a.Kind != b.Kind || *a.Duration != *b.Duration {
		t.Fatalf("colon form diverged: %+v vs %+v", a, b)
	}
}

func TestParseCommandUnknownKind(t *testing.T) {
	if _, ok := ParseCommand("dance 2"); ok {
		t.Fatalf("expected reject for unknown kind")
	}
}

func TestParseCommandNegativeDuration(t *testing.T) {
	if _, ok := ParseCommand("forward -1"); ok {
		t.Fatalf("expected reject for negative duration")
	}
}

func TestParseCommandEmpty(t *testing.T) {
	if _, ok := ParseCommand("   "); ok {
		t.Fatalf("expected reject for empty token")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	cases := []struct {
		kind Kind
		d    *float64
	}{
		{Forward, nil},
		{Sleep, nil},
	}
	d := 2.5
	cases = append(cases, struct {
		kind Kind
		d    *float64
	}{Left, &d})

	for _, c := range cases {
		s := Format(c.kind, c.d)
		tok, ok := ParseCommand(s)
		if !ok {
			t.Fatalf("round trip parse failed for %q", s)
		}
		if tok.Kind != c.kind {
			t.Fatalf("round trip kind mismatch: got %q want %q", tok.Kind, c.kind)
		}
		if (c.d == nil) != (tok.Duration == nil) {
			t.Fatalf("round trip duration presence mismatch for %q", s)
		}
		if c.d != nil && *tok.Duration != *c.d {
			t.Fatalf("round trip duration mismatch: got %v want %v", *tok.Duration, *c.d)
		}
	}
}

func TestParseSequenceSkipsUnknownToken(t *testing.T) {
	seq, skipped := ParseSequence("forward 1; dance 2; right 1")
	if len(seq.Tokens) != 2 {
		t.Fatalf("expected 2 parsed tokens, got %d", len(seq.Tokens))
	}
	if len(skipped) != 1 || skipped[0] != "dance 2" {
		t.Fatalf("expected dance 2 to be skipped, got %v", skipped)
	}
}
