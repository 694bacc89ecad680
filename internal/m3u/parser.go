package m3u

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/alorle/livetv-collector/internal/channel"
)

const (
	headerTag = "#EXTM3U"
	extinfTag = "#EXTINF"

	// Some providers put very long data: URIs in tvg-logo.
	maxLineSize = 1024 * 1024
)

var attributeRx = regexp.MustCompile(`([a-zA-Z0-9._-]+)="([^"]*)"`)

// guideAttributes are the #EXTM3U header attributes that may carry EPG URLs.
var guideAttributes = []string{"url-tvg", "x-tvg-url", "tvg-url"}

// Playlist is the result of parsing one playlist document.
type Playlist struct {
	Records   []channel.Record
	GuideURLs []string
}

// metadata holds the tokenized #EXTINF line that waits for its URL line.
type metadata struct {
	attrs   map[string]string
	display string
}

// Parse reads an extended M3U playlist and returns its channel records, each
// tagged with sourceIndex. Entries whose #EXTINF line is not followed by a
// usable URL are dropped. A read error returns the records collected so far
// together with the error.
func Parse(r io.Reader, sourceIndex int) (Playlist, error) {
	var pl Playlist

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var pending *metadata
	first := true

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case line == "":
			continue
		case strings.HasPrefix(upper, headerTag):
			pl.GuideURLs = append(pl.GuideURLs, guideURLs(attributes(line))...)
		case strings.HasPrefix(upper, extinfTag):
			// An earlier #EXTINF still waiting for its URL is discarded here.
			pending = tokenizeExtinf(line)
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if pending == nil {
				continue
			}
			if rec, ok := pending.record(line, sourceIndex); ok {
				pl.Records = append(pl.Records, rec)
			}
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return pl, fmt.Errorf("scan playlist: %w", err)
	}

	return pl, nil
}

// tokenizeExtinf splits an #EXTINF line into its attribute map and the
// display name that follows the first comma outside double quotes.
func tokenizeExtinf(line string) *metadata {
	body := line[len(extinfTag):]
	body = strings.TrimPrefix(body, ":")

	attrPart, display := body, ""
	inQuote := false
	for i, r := range body {
		if r == '"' {
			inQuote = !inQuote
		} else if r == ',' && !inQuote {
			attrPart, display = body[:i], body[i+1:]
			break
		}
	}

	return &metadata{
		attrs:   attributes(attrPart),
		display: strings.TrimSpace(display),
	}
}

// attributes collects key="value" pairs with lower-cased keys. The first
// occurrence of a key wins.
func attributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attributeRx.FindAllStringSubmatch(s, -1) {
		key := strings.ToLower(m[1])
		if _, ok := attrs[key]; ok {
			continue
		}
		attrs[key] = strings.TrimSpace(m[2])
	}
	return attrs
}

func guideURLs(attrs map[string]string) []string {
	var out []string
	for _, key := range guideAttributes {
		for _, u := range strings.Split(attrs[key], ",") {
			if u = strings.TrimSpace(u); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

// record builds the channel record for the URL line that follows the
// metadata. It reports false when the line is not an absolute http(s) URL.
func (m *metadata) record(line string, sourceIndex int) (channel.Record, bool) {
	if !isStreamURL(line) {
		return channel.Record{}, false
	}

	name := m.attrs["tvg-name"]
	if name == "" {
		name = m.display
	}

	rec, err := channel.NewRecord(
		name,
		line,
		m.attrs["group-title"],
		m.attrs["tvg-logo"],
		m.attrs["tvg-id"],
		sourceIndex,
	)
	if err != nil {
		return channel.Record{}, false
	}
	return rec, true
}

func isStreamURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
