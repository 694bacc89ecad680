package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/alorle/livetv-collector/internal/channel"
	"github.com/alorle/livetv-collector/internal/run"
)

const (
	runsBucket = "runs"
	latestKey  = "latest"
)

// RunBoltDBRepository implements the RunRepository port using BoltDB.
// A single key in the runs bucket holds the last saved run.
type RunBoltDBRepository struct {
	db *bbolt.DB
}

// NewRunBoltDBRepository creates a new BoltDB-backed run repository.
// It initializes the required bucket if it doesn't exist.
func NewRunBoltDBRepository(db *bbolt.DB) (*RunBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &RunBoltDBRepository{db: db}, nil
}

// runDTO is the JSON serialization format for a run snapshot.
type runDTO struct {
	ID         string       `json:"id"`
	StartedAt  int64        `json:"started_at"`
	FinishedAt int64        `json:"finished_at"`
	Channels   []channelDTO `json:"channels"`
	GuideURLs  []string     `json:"guide_urls"`
	Stats      run.Stats    `json:"stats"`
}

type channelDTO struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Group       string `json:"group"`
	Logo        string `json:"logo,omitempty"`
	TVGID       string `json:"tvg_id,omitempty"`
	SourceIndex int    `json:"source_index"`
}

// Save replaces the stored run snapshot.
func (r *RunBoltDBRepository) Save(ctx context.Context, rn run.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dto := runDTO{
		ID:         rn.ID.String(),
		StartedAt:  rn.StartedAt.UnixNano(),
		FinishedAt: rn.FinishedAt.UnixNano(),
		Channels:   make([]channelDTO, 0, len(rn.Channels)),
		GuideURLs:  rn.GuideURLs,
		Stats:      rn.Stats,
	}
	for _, ch := range rn.Channels {
		dto.Channels = append(dto.Channels, channelDTO{
			Name:        ch.Name(),
			URL:         ch.URL(),
			Group:       ch.Group(),
			Logo:        ch.Logo(),
			TVGID:       ch.TVGID(),
			SourceIndex: ch.SourceIndex(),
		})
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		if b == nil {
			return errors.New("runs bucket not found")
		}
		return b.Put([]byte(latestKey), data)
	})
}

// Latest returns the stored run, or run.ErrNoRun when none was saved.
func (r *RunBoltDBRepository) Latest(ctx context.Context) (run.Run, error) {
	if err := ctx.Err(); err != nil {
		return run.Run{}, err
	}

	var data []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		if b == nil {
			return errors.New("runs bucket not found")
		}
		// Values are only valid inside the transaction.
		if v := b.Get([]byte(latestKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return run.Run{}, err
	}
	if data == nil {
		return run.Run{}, run.ErrNoRun
	}

	return dtoToRun(data)
}

// Ping checks if the database is accessible by performing a read-only transaction.
func (r *RunBoltDBRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(runsBucket)) == nil {
			return errors.New("runs bucket not found")
		}
		return nil
	})
}

func dtoToRun(data []byte) (run.Run, error) {
	var dto runDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return run.Run{}, fmt.Errorf("decoding run: %w", err)
	}

	id, err := uuid.Parse(dto.ID)
	if err != nil {
		return run.Run{}, fmt.Errorf("decoding run id: %w", err)
	}

	rn := run.Run{
		ID:         id,
		StartedAt:  time.Unix(0, dto.StartedAt),
		FinishedAt: time.Unix(0, dto.FinishedAt),
		Channels:   make([]channel.Record, 0, len(dto.Channels)),
		GuideURLs:  dto.GuideURLs,
		Stats:      dto.Stats,
	}
	if rn.GuideURLs == nil {
		rn.GuideURLs = []string{}
	}
	for _, c := range dto.Channels {
		rn.Channels = append(rn.Channels, channel.ReconstructRecord(c.Name, c.URL, c.Group, c.Logo, c.TVGID, c.SourceIndex))
	}

	return rn, nil
}
