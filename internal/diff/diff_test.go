package diff

import (
	"strings"
	"testing"
)

// reconstruct concatenates the ops of the given kinds in order.
func reconstruct(ops []Op, kinds ...OpKind) string {
	var b strings.Builder
	for _, op := range ops {
		for _, k := range kinds {
			if op.Kind == k {
				b.WriteString(op.Text)
			}
		}
	}
	return b.String()
}

func TestCompute_Losslessness(t *testing.T) {
	tests := []struct {
		name     string
		original string
		modified string
	}{
		{"simple insert", "Pekerja berhak atas cuti.", "Pekerja berhak atas cuti tahunan."},
		{"simple delete", "hak dan kewajiban warga", "hak warga"},
		{"replace", "Pasal 5 ayat (1)", "Pasal 5 ayat (2)"},
		{"both empty", "", ""},
		{"original empty", "", "teks baru"},
		{"modified empty", "teks lama", ""},
		{"whitespace runs", "a  b\tc\n\nd", "a b  c\nd e"},
		{"identical", "sama persis", "sama persis"},
		{"leading whitespace", "  indented text", "indented  text"},
		{"unicode", "hak—dan  kewajiban", "hak—dan kewajiban négara"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Compute(tt.original, tt.modified)

			if got := reconstruct(ops, Equal, Delete); got != tt.original {
				t.Errorf("Equal+Delete = %q, want original %q", got, tt.original)
			}
			if got := reconstruct(ops, Equal, Insert); got != tt.modified {
				t.Errorf("Equal+Insert = %q, want modified %q", got, tt.modified)
			}
		})
	}
}

func TestCompute_EqualInputsSingleOp(t *testing.T) {
	ops := Compute("Pekerja berhak atas cuti.", "Pekerja berhak atas cuti.")
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1: %v", len(ops), ops)
	}
	if ops[0].Kind != Equal {
		t.Errorf("op kind = %s, want equal", ops[0].Kind)
	}
	if ops[0].Text != "Pekerja berhak atas cuti." {
		t.Errorf("op text = %q", ops[0].Text)
	}
}

func TestCompute_AdjacentOpsMerged(t *testing.T) {
	ops := Compute("satu dua tiga", "empat lima enam")
	for i := 1; i < len(ops); i++ {
		if ops[i].Kind == ops[i-1].Kind {
			t.Errorf("ops %d and %d share kind %s, should be merged", i-1, i, ops[i].Kind)
		}
	}
}

func TestCompute_InsertScenario(t *testing.T) {
	ops := Compute("Pekerja berhak atas cuti.", "Pekerja berhak atas cuti tahunan.")

	inserts := 0
	for _, op := range ops {
		if op.Kind == Insert {
			inserts++
			if !strings.Contains(op.Text, "tahunan") {
				t.Errorf("insert op %q does not contain %q", op.Text, "tahunan")
			}
		}
	}
	if inserts != 1 {
		t.Fatalf("got %d insert ops, want 1", inserts)
	}

	// Without the trailing period the appended word is the only change.
	ops = Compute("Pekerja berhak atas cuti", "Pekerja berhak atas cuti tahunan")
	stats := ComputeStats(ops)
	if stats.Changes != 1 {
		t.Errorf("Changes = %d, want 1 (ops %v)", stats.Changes, ops)
	}
	if stats.CharsInserted != len("tahunan") {
		t.Errorf("CharsInserted = %d, want %d", stats.CharsInserted, len("tahunan"))
	}
}

func TestCompute_QuadraticGuard(t *testing.T) {
	// Each side well over MaxWords words; product exceeds the ceiling.
	original := strings.Repeat("kata ", 3000)
	modified := strings.Repeat("lain ", 3000)

	ops := Compute(original, modified)
	if len(ops) != 2 {
		t.Fatalf("got %d ops, want exactly 2 (delete + insert)", len(ops))
	}
	if ops[0].Kind != Delete || ops[0].Text != original {
		t.Errorf("op[0] = {%s, len %d}, want whole-original delete", ops[0].Kind, len(ops[0].Text))
	}
	if ops[1].Kind != Insert || ops[1].Text != modified {
		t.Errorf("op[1] = {%s, len %d}, want whole-modified insert", ops[1].Kind, len(ops[1].Text))
	}
}

func TestCompute_GuardNotTriggeredWhenOneSideSmall(t *testing.T) {
	// 3000 * 1 is far below the ceiling, so a real diff is computed.
	original := strings.Repeat("kata ", 3000)
	ops := Compute(original, "kata")
	if len(ops) == 2 && ops[0].Kind == Delete && ops[0].Text == original {
		t.Error("fallback script produced for a diffable input")
	}
	if got := reconstruct(ops, Equal, Delete); got != original {
		t.Error("lossless reconstruction failed")
	}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name          string
		original      string
		modified      string
		wantChanges   int
		wantDeleted   int
		wantInserted  int
	}{
		{"identical", "abc def", "abc def", 0, 0, 0},
		{"pure insert", "abc", "abc def", 1, 0, 3},
		{"pure delete", "abc def", "abc", 1, 3, 0},
		{"replace counts two changes", "abc x def", "abc y def", 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(Compute(tt.original, tt.modified))
			if got.Changes != tt.wantChanges {
				t.Errorf("Changes = %d, want %d", got.Changes, tt.wantChanges)
			}
			if got.CharsDeleted != tt.wantDeleted {
				t.Errorf("CharsDeleted = %d, want %d", got.CharsDeleted, tt.wantDeleted)
			}
			if got.CharsInserted != tt.wantInserted {
				t.Errorf("CharsInserted = %d, want %d", got.CharsInserted, tt.wantInserted)
			}
		})
	}
}

func TestComputeStats_TrimsWhitespace(t *testing.T) {
	ops := []Op{
		{Kind: Insert, Text: " tahunan "},
		{Kind: Delete, Text: "  "},
	}
	got := ComputeStats(ops)
	if got.CharsInserted != 7 {
		t.Errorf("CharsInserted = %d, want 7", got.CharsInserted)
	}
	if got.CharsDeleted != 0 {
		t.Errorf("CharsDeleted = %d, want 0 (whitespace-only op)", got.CharsDeleted)
	}
	if got.Changes != 2 {
		t.Errorf("Changes = %d, want 2", got.Changes)
	}
}
