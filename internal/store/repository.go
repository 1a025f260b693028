/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the planner-service needs. The interface decouples the application
 * logic from the PostgreSQL implementation, so tests run against the
 * in-memory repository instead of a database.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For record identifiers.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
)

var (
	ErrProfileNotFound = errors.New("financial profile not found")
	ErrDebtNotFound    = errors.New("debt not found")
	ErrGoalNotFound    = errors.New("goal not found")
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Profile methods
	CreateFinancialProfile(ctx context.Context, profile *domain.FinancialProfile) error
	GetFinancialProfile(ctx context.Context, profileID uuid.UUID) (*domain.FinancialProfile, error)
	TouchFinancialProfile(ctx context.Context, profileID uuid.UUID) error
	ListBiweeklyProfileIDs(ctx context.Context) ([]uuid.UUID, error)

	// Debt and goal methods
	CreateDebt(ctx context.Context, debt *domain.Debt) error
	ListDebtsByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Debt, error)
	CreateGoal(ctx context.Context, goal *domain.Goal) error
	ListGoalsByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Goal, error)
}
