// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
)

var (
	ErrTooFewParticipants = errors.New("at least 2 participants are required")
	ErrAlreadyMatched     = errors.New("matching has already been completed")
)

// MinParticipants is the smallest group that can form a gift cycle.
const MinParticipants = 2

// Match is one giver -> receiver assignment.
type Match struct {
	Giver    string `json:"giver_user_id" yaml:"giver"`
	Receiver string `json:"receiver_user_id" yaml:"receiver"`
}

// PersistenceError wraps a failed read or write against the match store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Shuffler permutes a slice of participant ids in place.
type Shuffler interface {
	Shuffle(ids []string)
}

// FisherYates is a goroutine-safe reverse Fisher-Yates shuffler.
type FisherYates struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewFisherYates seeds a shuffler from crypto/rand.
func NewFisherYates() (*FisherYates, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("read shuffle seed: %w", err)
	}
	return &FisherYates{rnd: rand.New(rand.NewChaCha8(seed))}, nil
}

// NewSeededFisherYates returns a shuffler with a fixed seed, for reproducible draws.
func NewSeededFisherYates(seed uint64) *FisherYates {
	return &FisherYates{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Shuffle swaps each element i, from last to second, with a uniformly chosen index in [0, i].
func (f *FisherYates) Shuffle(ids []string) {
	if len(ids) < 2 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(ids) - 1; i > 0; i-- {
		j := f.rnd.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// Pair shuffles a copy of ids and links each participant to the next one,
// wrapping the last back to the first. ids is not modified.
func Pair(ids []string, s Shuffler) ([]Match, error) {
	if len(ids) < MinParticipants {
		return nil, ErrTooFewParticipants
	}

	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	s.Shuffle(shuffled)

	n := len(shuffled)
	matches := make([]Match, n)
	for i, giver := range shuffled {
		matches[i] = Match{
			Giver:    giver,
			Receiver: shuffled[(i+1)%n],
		}
	}
	return matches, nil
}

// Store is the persisted state the generator reads and writes.
type Store interface {
	// ListParticipants returns participant ids ordered by join time.
	ListParticipants(ctx context.Context) ([]string, error)
	// HasMatches reports whether a draw has already been stored.
	HasMatches(ctx context.Context) (bool, error)
	// SaveMatches stores a draw atomically, returning ErrAlreadyMatched
	// if another draw won.
	SaveMatches(ctx context.Context, matches []Match) error
}

// Generator runs the one-off Secret Santa draw.
type Generator struct {
	store    Store
	shuffler Shuffler
}

func NewGenerator(store Store, shuffler Shuffler) *Generator {
	return &Generator{store: store, shuffler: shuffler}
}

// Run draws and persists the matches for every current participant.
func (g *Generator) Run(ctx context.Context) ([]Match, error) {
	participants, err := g.store.ListParticipants(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list participants", Err: err}
	}
	if len(participants) < MinParticipants {
		return nil, ErrTooFewParticipants
	}

	exists, err := g.store.HasMatches(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "check matches", Err: err}
	}
	if exists {
		return nil, ErrAlreadyMatched
	}

	matches, err := Pair(participants, g.shuffler)
	if err != nil {
		return nil, err
	}

	if err := g.store.SaveMatches(ctx, matches); err != nil {
		if errors.Is(err, ErrAlreadyMatched) {
			return nil, ErrAlreadyMatched
		}
		return nil, &PersistenceError{Op: "save matches", Err: err}
	}

	slog.Info("manito matches created", "count", len(matches))
	return matches, nil
}
