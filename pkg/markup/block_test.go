package markup

import (
	"encoding/json"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"previewer", GrammarPreviewer, false},
		{"PREVIEWER", GrammarPreviewer, false},
		{"a", GrammarPreviewer, false},
		{"docstyle", GrammarDocStyle, false},
		{" b ", GrammarDocStyle, false},
		{"markdown", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		g, err := Lookup(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if g.Name != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.name, g.Name, tt.want)
		}
	}
}

func TestGrammarString(t *testing.T) {
	if got := Previewer.String(); got != "previewer" {
		t.Errorf("Previewer.String() = %q", got)
	}
	if got := (Grammar{}).String(); got != "custom" {
		t.Errorf("Grammar{}.String() = %q, want custom", got)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != k {
			t.Errorf("kind %v came back as %v", k, back)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("heading")); err == nil {
		t.Error("UnmarshalText should reject unknown kinds")
	}
	if _, err := Kind(99).MarshalText(); err == nil {
		t.Error("MarshalText should reject out-of-range kinds")
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestBlockJSON(t *testing.T) {
	b := Block{Kind: LinkLine, Label: "Docs", URL: "http://example.com"}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"link","label":"Docs","url":"http://example.com"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		block Block
		want  string
	}{
		{Block{Kind: Title, Text: "T"}, "T"},
		{Block{Kind: LinkLine, Label: "Docs", URL: "http://x"}, "Docs: http://x"},
		{Block{Kind: LinkLine, URL: "see http://x"}, "see http://x"},
		{Block{Kind: Paragraph, Text: "a **b**", Spans: []Span{{Text: "a "}, {Text: "b", Emphasis: true}}}, "a b"},
		{Block{Kind: Spacer}, ""},
	}
	for _, tt := range tests {
		if got := tt.block.PlainText(); got != tt.want {
			t.Errorf("PlainText(%+v) = %q, want %q", tt.block, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	blocks := Transpile("# T\n- a\n- b\n\nc", Previewer)
	counts := Count(blocks)
	if counts[BulletItem] != 2 || counts[Title] != 1 || counts[Spacer] != 1 || counts[Paragraph] != 1 {
		t.Errorf("Count = %v", counts)
	}
	if !(Block{Spans: []Span{{Text: "x", Emphasis: true}}}).HasEmphasis() {
		t.Error("HasEmphasis should be true")
	}
}
