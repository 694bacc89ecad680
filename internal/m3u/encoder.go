package m3u

import (
	"bufio"
	"io"
	"strings"

	"github.com/alorle/livetv-collector/internal/channel"
)

// Encoder renders channel records as an extended M3U playlist.
type Encoder struct {
	guideURLs []string
	records   []channel.Record
}

// NewEncoder creates an Encoder whose header advertises guideURLs.
func NewEncoder(guideURLs []string) *Encoder {
	return &Encoder{guideURLs: guideURLs}
}

// Add appends records in playlist order.
func (e *Encoder) Add(records ...channel.Record) {
	e.records = append(e.records, records...)
}

// Encode writes the header followed by one #EXTINF and URL line pair per
// record.
func (e *Encoder) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(headerTag)
	if len(e.guideURLs) > 0 {
		bw.WriteString(" ")
		bw.WriteString(attr(guideAttributes[0], strings.Join(e.guideURLs, ",")))
	}
	bw.WriteString("\n")

	for _, rec := range e.records {
		bw.WriteString(extinfTag + ":-1")
		if attrs := extinfAttributes(rec); attrs != "" {
			bw.WriteString(" ")
			bw.WriteString(attrs)
		}
		bw.WriteString(",")
		bw.WriteString(rec.Name())
		bw.WriteString("\n")
		bw.WriteString(rec.URL())
		bw.WriteString("\n")
	}

	return bw.Flush()
}
