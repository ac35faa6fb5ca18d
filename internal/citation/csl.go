package citation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Name is a CSL-JSON contributor name. Structured names carry family/given;
// corporate authors come back as a literal.
type Name struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Literal string `json:"literal,omitempty"`

	// Highlighted marks authors matching the configured highlight list.
	// Set by the assembler, consumed by renderers.
	Highlighted bool `json:"highlighted,omitempty"`
}

// Display returns the name as "Given Family" (or the literal form).
func (n Name) Display() string {
	if n.Literal != "" {
		return n.Literal
	}
	if n.Given != "" {
		return n.Given + " " + n.Family
	}
	return n.Family
}

// Date is a CSL-JSON date field.
type Date struct {
	DateParts [][]int `json:"date-parts,omitempty"`
}

// Year returns the year of the first date-part, or 0 if absent.
func (d Date) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// flexString tolerates JSON string or number values. The NCBI citation
// exporter emits PMID/PMCID as numbers while other services use strings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// Item is a CSL-JSON bibliographic record, as returned by the NCBI
// literature citation exporter (format=csl) and by doi.org content
// negotiation (application/vnd.citationstyles.csl+json). Only the fields
// the pipeline and renderers consume are mapped.
type Item struct {
	Type           string     `json:"type,omitempty"`
	Title          string     `json:"title,omitempty"`
	Author         []Name     `json:"author,omitempty"`
	ContainerTitle string     `json:"container-title,omitempty"`
	Issued         Date       `json:"issued,omitempty"`
	DOI            string     `json:"DOI,omitempty"`
	PMID           flexString `json:"PMID,omitempty"`
	PMCID          flexString `json:"PMCID,omitempty"`
	Volume         flexString `json:"volume,omitempty"`
	Issue          flexString `json:"issue,omitempty"`
	Page           flexString `json:"page,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	URL            string     `json:"URL,omitempty"`
}

// Year returns the publication year, or 0 if unknown.
func (it *Item) Year() int {
	return it.Issued.Year()
}

// ParseItem decodes a CSL-JSON body into an Item. A body without a title
// is treated as unparsable: every service returns a title for a real
// record, and an empty item must not count as a successful resolution.
func ParseItem(data []byte) (*Item, error) {
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("parsing CSL JSON: %w", err)
	}
	if strings.TrimSpace(it.Title) == "" {
		return nil, fmt.Errorf("CSL record has no title")
	}
	return &it, nil
}

// FormatAuthorsShort formats authors as "Family F, Family F, et al." with
// at most maxCount names spelled out.
func FormatAuthorsShort(authors []Name, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		if a.Literal != "" {
			names = append(names, a.Literal)
		} else if a.Given != "" {
			names = append(names, a.Family+" "+initials(a.Given))
		} else {
			names = append(names, a.Family)
		}
	}
	return strings.Join(names, ", ")
}

// initials abbreviates a given name to its initials ("Mary Jane" -> "MJ").
func initials(given string) string {
	var b strings.Builder
	for _, part := range strings.Fields(given) {
		r := []rune(part)
		if len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return b.String()
}

// String implements fmt.Stringer for flexString so formatted output reads
// naturally.
func (f flexString) String() string { return string(f) }

// Int returns the numeric value of a flexString, or 0 if not numeric.
func (f flexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}
