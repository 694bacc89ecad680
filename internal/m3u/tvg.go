package m3u

import (
	"fmt"
	"strings"

	"github.com/alorle/livetv-collector/internal/channel"
)

// extinfAttributes renders the TVG attributes of rec in the order players
// expect. Empty values are left out.
func extinfAttributes(rec channel.Record) string {
	pairs := []struct{ key, value string }{
		{"tvg-id", rec.TVGID()},
		{"tvg-name", rec.Name()},
		{"tvg-logo", rec.Logo()},
		{"group-title", rec.Group()},
	}

	attrs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value != "" {
			attrs = append(attrs, attr(p.key, p.value))
		}
	}
	return strings.Join(attrs, " ")
}

// attr renders key="value". Double quotes inside the value would end the
// attribute early, so they are replaced with single quotes.
func attr(key, value string) string {
	return fmt.Sprintf("%s=\"%s\"", key, strings.ReplaceAll(value, `"`, "'"))
}
