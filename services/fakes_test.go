package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/stores"
	"gorm.io/gorm"
)

// In-memory store fakes mirroring the postgres stores' contracts, including
// the compare-and-swap on used_at and the unique payment_uid indexes.

type fakeIntentStore struct {
	// txMu serializes WithTransaction blocks, standing in for the row
	// locks a real database takes inside a transaction.
	txMu    sync.Mutex
	mu      sync.Mutex
	byID    map[string]*models.PendingIntent
	byToken map[string]string
}

func newFakeIntentStore() *fakeIntentStore {
	return &fakeIntentStore{
		byID:    make(map[string]*models.PendingIntent),
		byToken: make(map[string]string),
	}
}

func (f *fakeIntentStore) Create(ctx context.Context, intent *models.PendingIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byToken[intent.PaymentUID]; exists {
		return stores.ErrDuplicateToken
	}
	cp := *intent
	f.byID[cp.ID] = &cp
	f.byToken[cp.PaymentUID] = cp.ID
	return nil
}

func (f *fakeIntentStore) FindActiveByToken(ctx context.Context, creatorID, paymentUID string, now time.Time) (*models.PendingIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byToken[paymentUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	intent := f.byID[id]
	if intent.CreatorID != creatorID || !intent.ExpiresAt.After(now) || intent.UsedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *intent
	return &cp, nil
}

func (f *fakeIntentStore) ListActiveForCreator(ctx context.Context, creatorID string, now time.Time) ([]*models.PendingIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []*models.PendingIntent
	for _, intent := range f.byID {
		if intent.CreatorID == creatorID && intent.ExpiresAt.After(now) && intent.UsedAt == nil {
			cp := *intent
			active = append(active, &cp)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

func (f *fakeIntentStore) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	intent, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if intent.UsedAt != nil {
		return stores.ErrAlreadyUsed
	}
	t := usedAt
	intent.UsedAt = &t
	return nil
}

// WithTransaction snapshots intent state and restores it when fn fails,
// mirroring the rollback of the real store's transaction.
func (f *fakeIntentStore) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snapshot := make(map[string]*models.PendingIntent, len(f.byID))
	for id, intent := range f.byID {
		cp := *intent
		snapshot[id] = &cp
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.byID = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeIntentStore) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	var removed int64
	for id, intent := range f.byID {
		if intent.ExpiresAt.Before(cutoff) {
			delete(f.byToken, intent.PaymentUID)
			delete(f.byID, id)
			removed++
		}
	}
	return removed, nil
}

type fakeLedger struct {
	mu       sync.Mutex
	byToken  map[string]*models.Transaction
	failNext error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{byToken: make(map[string]*models.Transaction)}
}

// failOnce makes the next Create return err, simulating a transient write
// fault.
func (f *fakeLedger) failOnce(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = err
}

func (f *fakeLedger) Create(ctx context.Context, txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}

	if _, exists := f.byToken[txn.PaymentUID]; exists {
		return stores.ErrDuplicateToken
	}
	cp := *txn
	f.byToken[cp.PaymentUID] = &cp
	return nil
}

func (f *fakeLedger) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*models.Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var txns []*models.Transaction
	for _, txn := range f.byToken {
		if txn.CreatorID == creatorID {
			cp := *txn
			txns = append(txns, &cp)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].VerifiedAt.After(txns[j].VerifiedAt)
	})
	return txns, int64(len(txns)), nil
}

func (f *fakeLedger) TotalForCreator(ctx context.Context, creatorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total int64
	for _, txn := range f.byToken {
		if txn.CreatorID == creatorID {
			total += txn.AmountPaise
		}
	}
	return total, nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byToken)
}

type fakeGoalStore struct {
	mu    sync.Mutex
	goals map[string]*models.FundingGoal
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{goals: make(map[string]*models.FundingGoal)}
}

func (f *fakeGoalStore) Create(ctx context.Context, goal *models.FundingGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *goal
	f.goals[cp.ID] = &cp
	return nil
}

func (f *fakeGoalStore) ListActiveByCreator(ctx context.Context, creatorID string) ([]*models.FundingGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var goals []*models.FundingGoal
	for _, goal := range f.goals {
		if goal.CreatorID == creatorID && goal.IsActive {
			cp := *goal
			goals = append(goals, &cp)
		}
	}
	return goals, nil
}

func (f *fakeGoalStore) IncrementAmount(ctx context.Context, id string, amountPaise int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	goal, ok := f.goals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	goal.CurrentAmountPaise += amountPaise
	return nil
}

func (f *fakeGoalStore) current(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goals[id].CurrentAmountPaise
}

type fakeCreatorStore struct {
	creators map[string]*models.Creator
	members  map[string]*models.TeamMember
	tiers    map[string][]*models.ChaiTier
}

func newFakeCreatorStore() *fakeCreatorStore {
	return &fakeCreatorStore{
		creators: make(map[string]*models.Creator),
		members:  make(map[string]*models.TeamMember),
		tiers:    make(map[string][]*models.ChaiTier),
	}
}

func (f *fakeCreatorStore) GetByID(ctx context.Context, id string) (*models.Creator, error) {
	creator, ok := f.creators[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return creator, nil
}

func (f *fakeCreatorStore) GetByUsername(ctx context.Context, username string) (*models.Creator, error) {
	for _, creator := range f.creators {
		if creator.Username == username {
			cp := *creator
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCreatorStore) ListTiers(ctx context.Context, creatorID string) ([]*models.ChaiTier, error) {
	return f.tiers[creatorID], nil
}

func (f *fakeCreatorStore) GetTeamMember(ctx context.Context, creatorID, memberID string) (*models.TeamMember, error) {
	member, ok := f.members[memberID]
	if !ok || member.CreatorID != creatorID {
		return nil, gorm.ErrRecordNotFound
	}
	return member, nil
}

type fakePageCache struct {
	mu      sync.Mutex
	entries map[string]string
	deletes []string
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{entries: make(map[string]string)}
}

var errCacheMiss = errors.New("cache miss")

func (f *fakePageCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return "", errCacheMiss
	}
	return value, nil
}

func (f *fakePageCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value.(string)
	return nil
}

func (f *fakePageCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	f.deletes = append(f.deletes, key)
	return nil
}
