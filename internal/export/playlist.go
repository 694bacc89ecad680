package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alorle/livetv-collector/internal/m3u"
	"github.com/alorle/livetv-collector/internal/run"
)

// WritePlaylist renders the run's channels as an extended M3U playlist.
func WritePlaylist(w io.Writer, rn run.Run) error {
	enc := m3u.NewEncoder(rn.GuideURLs)
	enc.Add(rn.Channels...)
	return enc.Encode(w)
}

var textSeparator = strings.Repeat("-", 50)

// WriteText renders one human-readable block per channel.
func WriteText(w io.Writer, rn run.Run) error {
	bw := bufio.NewWriter(w)
	sources := sourceURLs(rn)

	for _, ch := range rn.Channels {
		fmt.Fprintf(bw, "Group: %s\n", ch.Group())
		fmt.Fprintf(bw, "Name: %s\n", ch.Name())
		fmt.Fprintf(bw, "URL: %s\n", ch.URL())
		fmt.Fprintf(bw, "Logo: %s\n", ch.Logo())
		fmt.Fprintf(bw, "Source: %s\n", sources[ch.SourceIndex()])
		if ch.TVGID() != "" {
			fmt.Fprintf(bw, "TVG ID: %s\n", ch.TVGID())
		}
		fmt.Fprintf(bw, "%s\n\n", textSeparator)
	}

	return bw.Flush()
}
