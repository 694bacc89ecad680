package run

import (
	"slices"
	"testing"
	"time"

	"github.com/alorle/livetv-collector/internal/channel"
)

func TestNew(t *testing.T) {
	now := time.Now()
	a := New(now, 3)
	b := New(now, 3)

	if a.ID == b.ID {
		t.Error("expected distinct run IDs")
	}
	if !a.StartedAt.Equal(now) {
		t.Errorf("StartedAt = %v, want %v", a.StartedAt, now)
	}
	if a.Stats.SourcesTotal != 3 {
		t.Errorf("SourcesTotal = %d, want 3", a.Stats.SourcesTotal)
	}
	if a.Channels == nil || len(a.Channels) != 0 {
		t.Errorf("Channels = %v, want empty non-nil slice", a.Channels)
	}
	if a.Duration() != 0 {
		t.Errorf("Duration() = %v before finish, want 0", a.Duration())
	}

	a.FinishedAt = now.Add(2 * time.Second)
	if a.Duration() != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", a.Duration())
	}
}

func TestStats_RecordSource(t *testing.T) {
	var s Stats
	s.RecordSource(SourceStat{Index: 0, Fetched: true, Records: 4})
	s.RecordSource(SourceStat{Index: 1, Fetched: false, Error: "HTTP 404"})
	s.RecordSource(SourceStat{Index: 2, Fetched: true, Records: 0})

	if s.SourcesFetched != 2 {
		t.Errorf("SourcesFetched = %d, want 2", s.SourcesFetched)
	}
	if s.SourcesFailed != 1 {
		t.Errorf("SourcesFailed = %d, want 1", s.SourcesFailed)
	}
	if s.RecordsParsed != 4 {
		t.Errorf("RecordsParsed = %d, want 4", s.RecordsParsed)
	}
	if len(s.Sources) != 3 || s.Sources[1].Error != "HTTP 404" {
		t.Errorf("Sources = %+v", s.Sources)
	}
}

func TestRun_Groups(t *testing.T) {
	mk := func(name, group string) channel.Record {
		return channel.ReconstructRecord(name, "http://x/"+name, group, "", "", 0)
	}
	r := Run{Channels: []channel.Record{
		mk("a", "News"), mk("b", "Sport"), mk("c", "News"), mk("d", "Kids"),
	}}

	want := []string{"News", "Sport", "Kids"}
	if got := r.Groups(); !slices.Equal(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}
