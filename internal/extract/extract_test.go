package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestTextPlainFormats(t *testing.T) {
	for _, name := range []string{"notes.txt", "notes.md", "NOTES.TXT", "notes.markdown"} {
		got, err := Text(name, []byte("hello world"))
		if err != nil {
			t.Errorf("Text(%q) error: %v", name, err)
			continue
		}
		if got != "hello world" {
			t.Errorf("Text(%q) = %q", name, got)
		}
	}
}

func TestTextCSV(t *testing.T) {
	data := []byte("term,definition\nosmosis,diffusion of water\n")
	got, err := Text("glossary.csv", data)
	if err != nil {
		t.Fatalf("Text error: %v", err)
	}
	want := "term | definition\nosmosis | diffusion of water\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextCSVRaggedRows(t *testing.T) {
	data := []byte("a,b,c\nd,e\n")
	got, err := Text("t.csv", data)
	if err != nil {
		t.Fatalf("ragged csv rejected: %v", err)
	}
	if !strings.Contains(got, "d | e") {
		t.Errorf("got %q", got)
	}
}

func TestTextHTML(t *testing.T) {
	data := []byte(`<html><head><style>.x{color:red}</style>
		<script>var hidden = 1;</script></head>
		<body><h1>Cell Biology</h1><p>The mitochondrion is the powerhouse.</p></body></html>`)
	got, err := Text("page.html", data)
	if err != nil {
		t.Fatalf("Text error: %v", err)
	}
	if !strings.Contains(got, "Cell Biology") || !strings.Contains(got, "powerhouse") {
		t.Errorf("missing body text: %q", got)
	}
	if strings.Contains(got, "hidden") || strings.Contains(got, "color:red") {
		t.Errorf("script/style leaked into output: %q", got)
	}
}

func TestTextUnsupported(t *testing.T) {
	tests := []struct {
		name string
		hint string
	}{
		{"slides.pptx", "PDF"},
		{"paper.doc", "PDF"},
		{"archive.zip", ".zip"},
		{"noext", ""},
	}
	for _, tt := range tests {
		_, err := Text(tt.name, []byte("data"))
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("Text(%q) error = %v, want ErrUnsupported", tt.name, err)
			continue
		}
		if tt.hint != "" && !strings.Contains(err.Error(), tt.hint) {
			t.Errorf("Text(%q) error %q missing hint %q", tt.name, err, tt.hint)
		}
	}
}

func TestTextBadPDF(t *testing.T) {
	if _, err := Text("broken.pdf", []byte("not a pdf")); err == nil {
		t.Error("expected error for invalid pdf data")
	}
}
