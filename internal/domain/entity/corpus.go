package entity

import "strings"

// Row is one raw example read from a dataset source
type Row struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// Record is a corpus row together with its normalized text
type Record struct {
	Text           string `json:"text"`
	NormalizedText string `json:"-"`
	Label          string `json:"label,omitempty"`
}

// NormalizeText returns the form used for dataset membership checks
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Corpus is a named, immutable table of reference texts.
// It is never modified after construction; replacing a dataset means building a new Corpus.
type Corpus struct {
	name      string
	records   []Record
	index     map[string]struct{}
	hasLabels bool
}

// NewCorpus builds a corpus from rows, deriving the normalized text of every record
func NewCorpus(name string, rows []Row) *Corpus {
	c := &Corpus{
		name:    name,
		records: make([]Record, len(rows)),
		index:   make(map[string]struct{}, len(rows)),
	}
	for i, row := range rows {
		normalized := NormalizeText(row.Text)
		c.records[i] = Record{
			Text:           row.Text,
			NormalizedText: normalized,
			Label:          row.Label,
		}
		c.index[normalized] = struct{}{}
		if row.Label != "" {
			c.hasLabels = true
		}
	}
	return c
}

// Name returns the dataset name
func (c *Corpus) Name() string {
	return c.name
}

// Len returns the number of records
func (c *Corpus) Len() int {
	return len(c.records)
}

// HasLabels reports whether any record carries a label
func (c *Corpus) HasLabels() bool {
	return c.hasLabels
}

// Records returns a copy of the records in source order
func (c *Corpus) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Contains reports whether the normalized form of text is present in the corpus
func (c *Corpus) Contains(text string) bool {
	_, ok := c.index[NormalizeText(text)]
	return ok
}
