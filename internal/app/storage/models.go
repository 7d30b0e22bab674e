package storage

import "sort"

// LinkTable maps short codes to destination URLs.
type LinkTable map[string]string

// Clone returns a copy that shares nothing with t.
func (t LinkTable) Clone() LinkTable {
	c := make(LinkTable, len(t))
	for code, dest := range t {
		c[code] = dest
	}
	return c
}

// LinkRecord is a single entry of a LinkTable.
type LinkRecord struct {
	Code        string `json:"shortCode"`
	Destination string `json:"url"`
}

// Records returns the entries of t ordered by code.
func (t LinkTable) Records() []LinkRecord {
	records := make([]LinkRecord, 0, len(t))
	for code, dest := range t {
		records = append(records, LinkRecord{Code: code, Destination: dest})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Code < records[j].Code
	})

	return records
}
