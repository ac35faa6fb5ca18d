package parser

import (
	"errors"
	"testing"
)

func TestParse_SectionsAndBlocks(t *testing.T) {
	input := `* Project A

John Doe et al, Some Title, Some Journal (2023)
https://pubmed.ncbi.nlm.nih.gov/123456

PMID: 123123
in collaboration with ZYX

* Project B

https://doi.org/10.1000/example
`

	sections, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("Parse() sections = %d, want 2", len(sections))
	}
	if sections[0].Name != "Project A" {
		t.Errorf("section 0 name = %q, want %q", sections[0].Name, "Project A")
	}
	if sections[1].Name != "Project B" {
		t.Errorf("section 1 name = %q, want %q", sections[1].Name, "Project B")
	}

	if len(sections[0].Blocks) != 2 {
		t.Fatalf("section 0 blocks = %d, want 2", len(sections[0].Blocks))
	}

	first := sections[0].Blocks[0]
	if first.CitationText != "John Doe et al, Some Title, Some Journal (2023)" {
		t.Errorf("block 0 citation = %q", first.CitationText)
	}
	if first.URL != "https://pubmed.ncbi.nlm.nih.gov/123456" {
		t.Errorf("block 0 url = %q", first.URL)
	}
	if first.Comment != "" {
		t.Errorf("block 0 comment = %q, want empty", first.Comment)
	}

	second := sections[0].Blocks[1]
	if second.CitationText != "PMID: 123123" {
		t.Errorf("block 1 citation = %q", second.CitationText)
	}
	if second.Comment != "in collaboration with ZYX" {
		t.Errorf("block 1 comment = %q", second.Comment)
	}

	if len(sections[1].Blocks) != 1 {
		t.Fatalf("section 1 blocks = %d, want 1", len(sections[1].Blocks))
	}
}

func TestParse_BlocksBeforeFirstHeader(t *testing.T) {
	input := "Orphan citation (2020)\n\n* Named\n\nAnother citation (2021)\n"

	sections, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("Parse() sections = %d, want 2", len(sections))
	}
	if sections[0].Name != "" {
		t.Errorf("section 0 name = %q, want empty", sections[0].Name)
	}
	if len(sections[0].Blocks) != 1 || sections[0].Blocks[0].CitationText != "Orphan citation (2020)" {
		t.Errorf("section 0 blocks = %+v", sections[0].Blocks)
	}
}

func TestParse_ThreeLineBlockEitherOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "url then comment",
			input: "Citation text\nhttps://example.org/paper\nseen in the wild",
		},
		{
			name:  "comment then url",
			input: "Citation text\nseen in the wild\nhttps://example.org/paper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			block := sections[0].Blocks[0]
			if block.URL != "https://example.org/paper" {
				t.Errorf("url = %q", block.URL)
			}
			if block.Comment != "seen in the wild" {
				t.Errorf("comment = %q", block.Comment)
			}
		})
	}
}

func TestParse_MalformedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "four lines",
			input: "one\ntwo\nthree\nfour",
		},
		{
			name:  "two urls",
			input: "Citation\nhttps://a.example.org\nhttps://b.example.org",
		},
		{
			name:  "two comments",
			input: "Citation\nfirst note\nsecond note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var mbe *MalformedBlockError
			if !errors.As(err, &mbe) {
				t.Fatalf("Parse() error = %v, want MalformedBlockError", err)
			}
			if mbe.Line != 1 {
				t.Errorf("error line = %d, want 1", mbe.Line)
			}
		})
	}
}

func TestParse_OrderPreserved(t *testing.T) {
	input := "* S1\n\nfirst (2001)\n\nsecond (2002)\n\n* S2\n\nthird (2003)\n"

	sections, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []struct {
		section string
		texts   []string
	}{
		{"S1", []string{"first (2001)", "second (2002)"}},
		{"S2", []string{"third (2003)"}},
	}

	for i, w := range want {
		if sections[i].Name != w.section {
			t.Errorf("section %d name = %q, want %q", i, sections[i].Name, w.section)
		}
		for j, text := range w.texts {
			if sections[i].Blocks[j].CitationText != text {
				t.Errorf("section %d block %d = %q, want %q", i, j, sections[i].Blocks[j].CitationText, text)
			}
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	sections, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("Parse() sections = %v, want none", sections)
	}
}
