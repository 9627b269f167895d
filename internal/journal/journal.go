// Package journal records what happened during a wizard session (step
// changes, validation failures, backend calls) on an embedded NATS JetStream
// stream held in memory. Nothing outlives the process.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bcfl/predict/internal/logger"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const streamName = "bcfl_journal"

// Event types.
const (
	TypeStep       = "step"
	TypeValidation = "validation"
	TypeSubmit     = "submit"
	TypePrefill    = "prefill"
	TypeImport     = "import"
)

// Event actions.
const (
	ActionEnter   = "enter"
	ActionFailed  = "failed"
	ActionStart   = "start"
	ActionOK      = "ok"
	ActionReject  = "rejected"
	ActionError   = "error"
	ActionApplied = "applied"
)

// Event is one journal entry.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Step      int       `json:"step"`
	Detail    string    `json:"detail,omitempty"`
}

// SessionToken derives the subject token for a leaderboard name.
func SessionToken(leaderboardName string) string {
	if s := slug.Make(leaderboardName); s != "" {
		return s
	}
	return "anonymous"
}

// Subject returns the subject an event is published on: bcfl.{session}.{type}.
func Subject(session, eventType string) string {
	return fmt.Sprintf("bcfl.%s.%s", session, eventType)
}

// Journal owns the embedded server, its connection and the stream.
type Journal struct {
	ns       *server.Server
	nc       *nats.Conn
	js       jetstream.JetStream
	stream   jetstream.Stream
	storeDir string
}

// Open starts the embedded server and creates the in-memory stream.
func Open(ctx context.Context) (*Journal, error) {
	storeDir, err := os.MkdirTemp("", "bcfl-journal-*")
	if err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	j := &Journal{storeDir: storeDir}
	if err := j.start(ctx); err != nil {
		_ = j.Close()
		return nil, err
	}
	logger.Debug("Journal opened")
	return j, nil
}

func (j *Journal) start(ctx context.Context) error {
	ns, err := startEmbedded(j.storeDir)
	if err != nil {
		return fmt.Errorf("starting journal server: %w", err)
	}
	j.ns = ns

	nc, err := connectInProcess(ns)
	if err != nil {
		return fmt.Errorf("connecting to journal server: %w", err)
	}
	j.nc = nc

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("creating jetstream context: %w", err)
	}
	j.js = js

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"bcfl.>"},
		Storage:  jetstream.MemoryStorage,
	})
	if err != nil {
		return fmt.Errorf("creating journal stream: %w", err)
	}
	j.stream = stream
	return nil
}

// Record appends an event, filling in ID and timestamp when unset.
func (j *Journal) Record(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.Session == "" {
		ev.Session = SessionToken("")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling journal event: %w", err)
	}
	if _, err := j.js.Publish(ctx, Subject(ev.Session, ev.Type), data); err != nil {
		return fmt.Errorf("publishing journal event: %w", err)
	}
	return nil
}

// History returns every recorded event in publish order.
func (j *Journal) History(ctx context.Context) ([]Event, error) {
	info, err := j.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading journal info: %w", err)
	}
	if info.State.Msgs == 0 {
		return nil, nil
	}

	events := make([]Event, 0, info.State.Msgs)
	for seq := info.State.FirstSeq; seq <= info.State.LastSeq; seq++ {
		raw, err := j.stream.GetMsg(ctx, seq)
		if err != nil {
			return nil, fmt.Errorf("reading journal event %d: %w", seq, err)
		}
		var ev Event
		if err := json.Unmarshal(raw.Data, &ev); err != nil {
			logger.Warn("Skipping malformed journal event (seq=%d): %v", seq, err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close stops the server and removes its scratch directory.
func (j *Journal) Close() error {
	err := shutdown(j.nc, j.ns)
	if rmErr := os.RemoveAll(j.storeDir); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
