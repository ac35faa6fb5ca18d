package extract

import (
	"testing"

	"github.com/mslw/publist/internal/citation"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	x, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return x
}

func TestExtract_Patterns(t *testing.T) {
	tests := []struct {
		name       string
		block      citation.CitationBlock
		wantKind   citation.Kind
		wantValue  string
		wantOrigin citation.Origin
	}{
		{
			name:       "explicit pmid",
			block:      citation.CitationBlock{CitationText: "Doe J et al (2023). PMID: 123456"},
			wantKind:   citation.KindPMID,
			wantValue:  "123456",
			wantOrigin: citation.OriginExplicitText,
		},
		{
			name:       "explicit pmid no space",
			block:      citation.CitationBlock{CitationText: "PMID:987654"},
			wantKind:   citation.KindPMID,
			wantValue:  "987654",
			wantOrigin: citation.OriginExplicitText,
		},
		{
			name:       "explicit pmcid",
			block:      citation.CitationBlock{CitationText: "see PMCID: PMC7654321."},
			wantKind:   citation.KindPMCID,
			wantValue:  "7654321",
			wantOrigin: citation.OriginExplicitText,
		},
		{
			name:       "explicit doi tag lowercase",
			block:      citation.CitationBlock{CitationText: "available at doi: 10.1038/s41586-023-0001-x."},
			wantKind:   citation.KindDOI,
			wantValue:  "10.1038/s41586-023-0001-x",
			wantOrigin: citation.OriginExplicitText,
		},
		{
			name:       "doi.org url",
			block:      citation.CitationBlock{URL: "https://doi.org/10.1000/example.2", CitationText: "Some paper"},
			wantKind:   citation.KindDOI,
			wantValue:  "10.1000/example.2",
			wantOrigin: citation.OriginURLPattern,
		},
		{
			name:       "dx.doi.org url",
			block:      citation.CitationBlock{URL: "http://dx.doi.org/10.1016/j.cell.2022.01.001", CitationText: "Some paper"},
			wantKind:   citation.KindDOI,
			wantValue:  "10.1016/j.cell.2022.01.001",
			wantOrigin: citation.OriginURLPattern,
		},
		{
			name:       "pubmed url",
			block:      citation.CitationBlock{URL: "https://pubmed.ncbi.nlm.nih.gov/123456", CitationText: "Some paper"},
			wantKind:   citation.KindPMID,
			wantValue:  "123456",
			wantOrigin: citation.OriginURLPattern,
		},
		{
			name:       "pmc url",
			block:      citation.CitationBlock{URL: "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC9999999/", CitationText: "Some paper"},
			wantKind:   citation.KindPMCID,
			wantValue:  "9999999",
			wantOrigin: citation.OriginURLPattern,
		},
		{
			name:       "wiley doi path",
			block:      citation.CitationBlock{URL: "https://onlinelibrary.wiley.com/doi/full/10.1002/glia.24233", CitationText: "Some paper"},
			wantKind:   citation.KindDOI,
			wantValue:  "10.1002/glia.24233",
			wantOrigin: citation.OriginURLPattern,
		},
		{
			name:       "plos query id",
			block:      citation.CitationBlock{URL: "https://journals.plos.org/plosone/article?id=10.1371/journal.pone.0268354", CitationText: "Some paper"},
			wantKind:   citation.KindDOI,
			wantValue:  "10.1371/journal.pone.0268354",
			wantOrigin: citation.OriginURLPattern,
		},
		{
			name:       "biorxiv versioned",
			block:      citation.CitationBlock{URL: "https://www.biorxiv.org/content/10.1101/2023.06.12.544576v2", CitationText: "Some paper"},
			wantKind:   citation.KindDOI,
			wantValue:  "10.1101/2023.06.12.544576",
			wantOrigin: citation.OriginURLPattern,
		},
	}

	x := newExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.Extract(tt.block)
			if len(got) != 1 {
				t.Fatalf("Extract() = %+v, want exactly 1 candidate", got)
			}
			id := got[0]
			if id.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", id.Kind, tt.wantKind)
			}
			if id.Value != tt.wantValue {
				t.Errorf("value = %q, want %q", id.Value, tt.wantValue)
			}
			if id.Origin != tt.wantOrigin {
				t.Errorf("origin = %v, want %v", id.Origin, tt.wantOrigin)
			}
		})
	}
}

func TestExtract_NoCandidates(t *testing.T) {
	x := newExtractor(t)
	got := x.Extract(citation.CitationBlock{
		CitationText: "Doe J, A paper without identifiers, Journal (2020)",
		URL:          "https://example.org/press-release",
	})
	if len(got) != 0 {
		t.Errorf("Extract() = %+v, want empty", got)
	}
}

func TestExtract_MultipleKinds(t *testing.T) {
	x := newExtractor(t)
	got := x.Extract(citation.CitationBlock{
		CitationText: "Doe J (2023). PMID: 111 doi: 10.1/abc",
		URL:          "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC222",
	})
	if len(got) != 3 {
		t.Fatalf("Extract() = %+v, want 3 candidates", got)
	}

	kinds := map[citation.Kind]string{}
	for _, id := range got {
		kinds[id.Kind] = id.Value
	}
	if kinds[citation.KindPMID] != "111" || kinds[citation.KindPMCID] != "222" || kinds[citation.KindDOI] != "10.1/abc" {
		t.Errorf("Extract() kinds = %v", kinds)
	}
}

func TestExtract_ConflictKeepsFirst(t *testing.T) {
	x := newExtractor(t)
	got := x.Extract(citation.CitationBlock{
		CitationText: "PMID: 111 and also PMID: 222",
		URL:          "https://pubmed.ncbi.nlm.nih.gov/333",
	})
	if len(got) != 1 {
		t.Fatalf("Extract() = %+v, want 1 candidate", got)
	}
	if got[0].Value != "111" {
		t.Errorf("value = %q, want first match 111", got[0].Value)
	}
}

func TestExtract_TextBeforeURL(t *testing.T) {
	x := newExtractor(t)
	got := x.Extract(citation.CitationBlock{
		CitationText: "doi: 10.1/text-doi",
		URL:          "https://doi.org/10.1/url-doi",
	})
	if len(got) != 1 || got[0].Value != "10.1/text-doi" {
		t.Errorf("Extract() = %+v, want text DOI to win", got)
	}
}

func TestNew_ExtraPatternValidation(t *testing.T) {
	tests := []struct {
		name    string
		extra   []PublisherPattern
		wantErr bool
	}{
		{
			name:    "valid extra pattern",
			extra:   []PublisherPattern{{Name: "custom", Pattern: `example\.org/doi/(10\.\d{4,9}/\S+)`}},
			wantErr: false,
		},
		{
			name:    "invalid regexp",
			extra:   []PublisherPattern{{Name: "bad", Pattern: `([`}},
			wantErr: true,
		},
		{
			name:    "no capture group",
			extra:   []PublisherPattern{{Name: "nogroup", Pattern: `example\.org/10\.\d+`}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.extra)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelect_Priority(t *testing.T) {
	tests := []struct {
		name       string
		candidates []citation.Identifier
		wantKind   citation.Kind
		wantOK     bool
	}{
		{
			name: "pmid beats doi",
			candidates: []citation.Identifier{
				{Kind: citation.KindDOI, Value: "10.1/x"},
				{Kind: citation.KindPMID, Value: "123"},
			},
			wantKind: citation.KindPMID,
			wantOK:   true,
		},
		{
			name: "pmcid beats doi",
			candidates: []citation.Identifier{
				{Kind: citation.KindDOI, Value: "10.1/x"},
				{Kind: citation.KindPMCID, Value: "456"},
			},
			wantKind: citation.KindPMCID,
			wantOK:   true,
		},
		{
			name: "pmid beats pmcid",
			candidates: []citation.Identifier{
				{Kind: citation.KindPMCID, Value: "456"},
				{Kind: citation.KindPMID, Value: "123"},
			},
			wantKind: citation.KindPMID,
			wantOK:   true,
		},
		{
			name:   "empty set",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.candidates)
			if ok != tt.wantOK {
				t.Fatalf("Select() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Kind != tt.wantKind {
				t.Errorf("Select() kind = %v, want %v", got.Kind, tt.wantKind)
			}
		})
	}
}
