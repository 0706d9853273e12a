package collections

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// ErrAlreadyFavorite rejects an add for a key that is already a member.
// Callers are expected to check membership first; the protocol never issues
// a duplicate create.
var ErrAlreadyFavorite = fmt.Errorf("movie is already in favorites")

// MembershipSource is the remote side of a toggle-membership collection.
// [services.FavoriteService] satisfies this interface.
type MembershipSource interface {
	List(ctx context.Context) ([]models.Favorite, error)
	Add(ctx context.Context, movieID string) (*models.Favorite, error)
	Remove(ctx context.Context, movieID string) error
}

// Membership mirrors the viewer's favorites as a movieID → join-record-id
// map. The join-record id is server-assigned and distinct from the movie id.
//
// Add and Remove are confirm-then-apply: the map changes only after the
// server acknowledges, so a failed mutation leaves the set byte-for-byte
// equal to its pre-mutation state.
type Membership struct {
	mu      sync.Mutex
	source  MembershipSource
	epochs  EpochSource
	entries map[string]string // movieID -> favorite (join-record) id
	movies  map[string]*models.Movie
	tickets map[string]uint64 // per-key fence for rapid toggles
	loaded  bool
}

// NewMembership creates an empty membership set backed by source.
func NewMembership(source MembershipSource, epochs EpochSource) *Membership {
	if epochs == nil {
		epochs = fixedEpoch{}
	}
	return &Membership{
		source:  source,
		epochs:  epochs,
		entries: make(map[string]string),
		movies:  make(map[string]*models.Movie),
		tickets: make(map[string]uint64),
	}
}

// Load fetches the full collection and rebuilds the local map, keyed by the
// referenced movie id.
func (m *Membership) Load(ctx context.Context) error {
	epoch := m.epochs.Epoch()

	favorites, err := m.source.List(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epochs.Epoch() != epoch {
		return shared.ErrStaleResponse
	}

	m.entries = make(map[string]string, len(favorites))
	m.movies = make(map[string]*models.Movie, len(favorites))
	for _, favorite := range favorites {
		if favorite.MovieID == "" {
			continue
		}
		m.entries[favorite.MovieID] = favorite.ID
		if favorite.Movie != nil {
			m.movies[favorite.MovieID] = favorite.Movie
		}
	}
	m.loaded = true
	return nil
}

// Loaded reports whether an initial Load has completed.
func (m *Membership) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Contains reports whether the movie is in the set.
func (m *Membership) Contains(movieID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[movieID]
	return ok
}

// RecordID returns the join-record id for a member movie.
func (m *Membership) RecordID(movieID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.entries[movieID]
	return id, ok
}

// Movie returns the cached movie payload for a member, when the server
// embedded one in the join-record.
func (m *Membership) Movie(movieID string) *models.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.movies[movieID]
}

// Keys returns the member movie ids in a stable (sorted) order.
// Insertion order carries no meaning for favorites.
func (m *Membership) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of members.
func (m *Membership) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Add issues a create for the movie and inserts the returned join-record id
// on confirmation. A movie that is already a member is rejected without a
// network call.
func (m *Membership) Add(ctx context.Context, movieID string) Result[models.Favorite] {
	m.mu.Lock()
	if _, ok := m.entries[movieID]; ok {
		m.mu.Unlock()
		return rejected[models.Favorite](ErrAlreadyFavorite)
	}
	ticket := m.nextTicketLocked(movieID)
	epoch := m.epochs.Epoch()
	m.mu.Unlock()

	favorite, err := m.source.Add(ctx, movieID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if stale := m.staleLocked(movieID, ticket, epoch); stale != nil {
		return reverted[models.Favorite](stale)
	}
	if err != nil {
		return rejected[models.Favorite](err)
	}
	if favorite == nil || favorite.ID == "" {
		return rejected[models.Favorite](fmt.Errorf("%w: favorite without id", shared.ErrMalformedResponse))
	}

	m.entries[movieID] = favorite.ID
	if favorite.Movie != nil {
		m.movies[movieID] = favorite.Movie
	}
	return applied(*favorite)
}

// Remove issues a delete keyed by movie id and drops the local entry on
// confirmation. The entry stays untouched on failure.
func (m *Membership) Remove(ctx context.Context, movieID string) Result[models.Favorite] {
	m.mu.Lock()
	recordID, ok := m.entries[movieID]
	if !ok {
		m.mu.Unlock()
		return rejected[models.Favorite](shared.ErrNotFavorite)
	}
	ticket := m.nextTicketLocked(movieID)
	epoch := m.epochs.Epoch()
	m.mu.Unlock()

	err := m.source.Remove(ctx, movieID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if stale := m.staleLocked(movieID, ticket, epoch); stale != nil {
		return reverted[models.Favorite](stale)
	}
	if err != nil {
		return rejected[models.Favorite](err)
	}

	delete(m.entries, movieID)
	delete(m.movies, movieID)
	return applied(models.Favorite{ID: recordID, MovieID: movieID})
}

// Toggle adds the movie when absent and removes it when present.
func (m *Membership) Toggle(ctx context.Context, movieID string) Result[models.Favorite] {
	if m.Contains(movieID) {
		return m.Remove(ctx, movieID)
	}
	return m.Add(ctx, movieID)
}

// nextTicketLocked bumps and returns the per-key mutation ticket.
func (m *Membership) nextTicketLocked(movieID string) uint64 {
	m.tickets[movieID]++
	return m.tickets[movieID]
}

// staleLocked reports why a resolution must be discarded, or nil when it is
// still the newest for its key and session.
func (m *Membership) staleLocked(movieID string, ticket uint64, epoch uint64) error {
	if m.epochs.Epoch() != epoch {
		return fmt.Errorf("%w: session changed", shared.ErrStaleResponse)
	}
	if m.tickets[movieID] != ticket {
		return fmt.Errorf("%w: superseded by a newer toggle", shared.ErrStaleResponse)
	}
	return nil
}
