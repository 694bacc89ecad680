package channel

import (
	"errors"
	"strings"
)

// Defaults applied when a playlist entry omits a field.
const (
	DefaultName  = "Unknown Channel"
	DefaultGroup = "Uncategorized"
)

// Domain errors
var (
	ErrEmptyURL           = errors.New("channel url cannot be empty")
	ErrInvalidSourceIndex = errors.New("channel source index cannot be negative")
)

// Record represents one playlist entry after normalization.
// The stream URL is its identity; every other field is descriptive.
type Record struct {
	name        string
	url         string
	group       string
	logo        string
	tvgID       string
	sourceIndex int
}

// NewRecord creates a Record, trimming every field and applying defaults.
// Returns ErrEmptyURL if the url is empty or contains only whitespace.
func NewRecord(name, url, group, logo, tvgID string, sourceIndex int) (Record, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Record{}, ErrEmptyURL
	}
	if sourceIndex < 0 {
		return Record{}, ErrInvalidSourceIndex
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	group = strings.TrimSpace(group)
	if group == "" {
		group = DefaultGroup
	}

	return Record{
		name:        name,
		url:         url,
		group:       group,
		logo:        strings.TrimSpace(logo),
		tvgID:       strings.TrimSpace(tvgID),
		sourceIndex: sourceIndex,
	}, nil
}

// ReconstructRecord rebuilds a Record from persisted state.
// Intended for repository adapters only; it bypasses validation.
func ReconstructRecord(name, url, group, logo, tvgID string, sourceIndex int) Record {
	return Record{
		name:        name,
		url:         url,
		group:       group,
		logo:        logo,
		tvgID:       tvgID,
		sourceIndex: sourceIndex,
	}
}

func (r Record) Name() string     { return r.name }
func (r Record) URL() string      { return r.url }
func (r Record) Group() string    { return r.group }
func (r Record) Logo() string     { return r.logo }
func (r Record) TVGID() string    { return r.tvgID }
func (r Record) SourceIndex() int { return r.sourceIndex }
