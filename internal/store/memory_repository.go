/**
 * @description
 * In-memory implementation of the `Repository` interface, used by tests and
 * local development. Maps are guarded by a mutex so handler tests can run
 * in parallel.
 */

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
)

// MemoryRepository keeps all records in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.FinancialProfile
	debts    map[uuid.UUID][]domain.Debt
	goals    map[uuid.UUID][]domain.Goal
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: make(map[uuid.UUID]domain.FinancialProfile),
		debts:    make(map[uuid.UUID][]domain.Debt),
		goals:    make(map[uuid.UUID][]domain.Goal),
	}
}

func (r *MemoryRepository) CreateFinancialProfile(ctx context.Context, profile *domain.FinancialProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *MemoryRepository) GetFinancialProfile(ctx context.Context, profileID uuid.UUID) (*domain.FinancialProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[profileID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

func (r *MemoryRepository) TouchFinancialProfile(ctx context.Context, profileID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[profileID]
	if !ok {
		return ErrProfileNotFound
	}
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profileID] = profile
	return nil
}

func (r *MemoryRepository) ListBiweeklyProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []uuid.UUID
	for id, profile := range r.profiles {
		if profile.BiweeklyPayments {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *MemoryRepository) CreateDebt(ctx context.Context, debt *domain.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if debt.ID == uuid.Nil {
		debt.ID = uuid.New()
	}
	now := time.Now().UTC()
	debt.CreatedAt = now
	debt.UpdatedAt = now
	r.debts[debt.ProfileID] = append(r.debts[debt.ProfileID], *debt)
	return nil
}

func (r *MemoryRepository) ListDebtsByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Debt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Debt(nil), r.debts[profileID]...), nil
}

func (r *MemoryRepository) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	r.goals[goal.ProfileID] = append(r.goals[goal.ProfileID], *goal)
	return nil
}

func (r *MemoryRepository) ListGoalsByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Goal(nil), r.goals[profileID]...), nil
}
