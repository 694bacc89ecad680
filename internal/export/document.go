package export

import (
	"time"

	"github.com/alorle/livetv-collector/internal/run"
)

// DateLayout is the layout of Document.Date.
const DateLayout = "2006-01-02 15:04:05"

// Document is the structured rendering of a run. The same document is
// written to <base>.json and to <base>, and served by the HTTP API.
type Document struct {
	RunID     string         `json:"run_id"`
	Date      string         `json:"date"`
	Stats     run.Stats      `json:"stats"`
	GuideURLs []string       `json:"guide_urls"`
	Channels  []ChannelEntry `json:"channels"`
	Groups    []GroupEntry   `json:"groups"`
}

// ChannelEntry is one exported channel with all of its fields.
type ChannelEntry struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Group  string `json:"group"`
	Logo   string `json:"logo"`
	TVGID  string `json:"tvg_id"`
	Source string `json:"source"`
}

// GroupEntry lists channel names of one group, in channel order.
type GroupEntry struct {
	Name     string   `json:"name"`
	Channels []string `json:"channels"`
}

// NewDocument builds the structured rendering of rn. Date is the run's
// finish time in loc; a nil loc means UTC.
func NewDocument(rn run.Run, loc *time.Location) Document {
	if loc == nil {
		loc = time.UTC
	}

	sources := sourceURLs(rn)
	doc := Document{
		RunID:     rn.ID.String(),
		Date:      rn.FinishedAt.In(loc).Format(DateLayout),
		Stats:     rn.Stats,
		GuideURLs: rn.GuideURLs,
		Channels:  make([]ChannelEntry, 0, len(rn.Channels)),
		Groups:    []GroupEntry{},
	}
	if doc.GuideURLs == nil {
		doc.GuideURLs = []string{}
	}

	groupIdx := make(map[string]int)
	for _, ch := range rn.Channels {
		doc.Channels = append(doc.Channels, ChannelEntry{
			Name:   ch.Name(),
			URL:    ch.URL(),
			Group:  ch.Group(),
			Logo:   ch.Logo(),
			TVGID:  ch.TVGID(),
			Source: sources[ch.SourceIndex()],
		})

		i, ok := groupIdx[ch.Group()]
		if !ok {
			i = len(doc.Groups)
			groupIdx[ch.Group()] = i
			doc.Groups = append(doc.Groups, GroupEntry{Name: ch.Group()})
		}
		doc.Groups[i].Channels = append(doc.Groups[i].Channels, ch.Name())
	}

	return doc
}

// sourceURLs maps source index to the URL it was fetched from.
func sourceURLs(rn run.Run) map[int]string {
	out := make(map[int]string, len(rn.Stats.Sources))
	for _, s := range rn.Stats.Sources {
		out[s.Index] = s.URL
	}
	return out
}
