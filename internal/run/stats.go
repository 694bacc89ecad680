package run

// Stats are the counters of one run.
type Stats struct {
	SourcesTotal      int          `json:"sources_total"`
	SourcesFetched    int          `json:"sources_fetched"`
	SourcesFailed     int          `json:"sources_failed"`
	RecordsParsed     int          `json:"records_parsed"`
	DuplicatesRemoved int          `json:"duplicates_removed"`
	Verified          int          `json:"verified"`
	ActiveCount       int          `json:"active_count"`
	InactiveCount     int          `json:"inactive_count"`
	Sources           []SourceStat `json:"sources"`

	// FailureKinds counts inactive records per failure kind.
	FailureKinds map[string]int `json:"failure_kinds,omitempty"`
}

// SourceStat describes what one configured source contributed.
type SourceStat struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Fetched bool   `json:"fetched"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// RecordSource appends a source outcome and updates the fetch counters.
func (s *Stats) RecordSource(st SourceStat) {
	if st.Fetched {
		s.SourcesFetched++
	} else {
		s.SourcesFailed++
	}
	s.RecordsParsed += st.Records
	s.Sources = append(s.Sources, st)
}
