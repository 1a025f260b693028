/**
 * @description
 * PostgreSQL implementation of the `Repository` interface. Contains the SQL
 * for the `financial_profiles`, `debts`, and `goals` tables. Category maps
 * persist as jsonb.
 *
 * @dependencies
 * - context, encoding/json, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autopayplan/planner-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateFinancialProfile inserts a profile snapshot, assigning its id and timestamps.
func (r *PostgresRepository) CreateFinancialProfile(ctx context.Context, profile *domain.FinancialProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	needsJSON, err := json.Marshal(profile.NeedsByCategory)
	if err != nil {
		return fmt.Errorf("failed to encode needs categories: %w", err)
	}
	wantsJSON, err := json.Marshal(profile.WantsByCategory)
	if err != nil {
		return fmt.Errorf("failed to encode wants categories: %w", err)
	}

	query := `
		INSERT INTO financial_profiles (
			id, monthly_income, age, retirement_age, current_savings,
			retirement_savings, credit_score, primary_fear, biweekly_payments,
			payoff_pace, needs_by_category, wants_by_category,
			last_paycheck_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.Exec(ctx, query,
		profile.ID, profile.MonthlyIncome, profile.Age, profile.RetirementAge,
		profile.CurrentSavings, profile.RetirementSavings, profile.CreditScore,
		profile.PrimaryFear, profile.BiweeklyPayments, string(profile.PayoffPace),
		needsJSON, wantsJSON, profile.LastPaycheckDate,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert financial profile: %w", err)
	}
	return nil
}

// GetFinancialProfile retrieves a profile snapshot by id.
func (r *PostgresRepository) GetFinancialProfile(ctx context.Context, profileID uuid.UUID) (*domain.FinancialProfile, error) {
	var (
		profile   domain.FinancialProfile
		pace      string
		needsJSON []byte
		wantsJSON []byte
	)
	query := `
		SELECT id, monthly_income, age, retirement_age, current_savings,
		       retirement_savings, credit_score, primary_fear, biweekly_payments,
		       payoff_pace, needs_by_category, wants_by_category,
		       last_paycheck_date, created_at, updated_at
		FROM financial_profiles
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&profile.ID, &profile.MonthlyIncome, &profile.Age, &profile.RetirementAge,
		&profile.CurrentSavings, &profile.RetirementSavings, &profile.CreditScore,
		&profile.PrimaryFear, &profile.BiweeklyPayments, &pace,
		&needsJSON, &wantsJSON, &profile.LastPaycheckDate,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	profile.PayoffPace = domain.PayoffPace(pace)
	if err := json.Unmarshal(needsJSON, &profile.NeedsByCategory); err != nil {
		return nil, fmt.Errorf("failed to decode needs categories: %w", err)
	}
	if err := json.Unmarshal(wantsJSON, &profile.WantsByCategory); err != nil {
		return nil, fmt.Errorf("failed to decode wants categories: %w", err)
	}
	return &profile, nil
}

// TouchFinancialProfile bumps a profile's updated_at, invalidating any plan
// cache entries keyed on the previous timestamp.
func (r *PostgresRepository) TouchFinancialProfile(ctx context.Context, profileID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE financial_profiles SET updated_at = now() WHERE id = $1`, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListBiweeklyProfileIDs returns the ids of every profile paid on a biweekly
// cadence, for the scheduled calendar refresh job.
func (r *PostgresRepository) ListBiweeklyProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM financial_profiles WHERE biweekly_payments = true`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateDebt inserts one debt record for a profile.
func (r *PostgresRepository) CreateDebt(ctx context.Context, debt *domain.Debt) error {
	if debt.ID == uuid.Nil {
		debt.ID = uuid.New()
	}
	now := time.Now().UTC()
	debt.CreatedAt = now
	debt.UpdatedAt = now

	query := `
		INSERT INTO debts (
			id, profile_id, kind, name, balance, credit_limit, apr,
			minimum_payment, loan_type, due_day, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		debt.ID, debt.ProfileID, string(debt.Kind), debt.Name, debt.Balance,
		debt.CreditLimit, debt.APR, debt.MinimumPayment, debt.LoanType,
		debt.DueDay, debt.CreatedAt, debt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

// ListDebtsByProfileID returns a profile's debts, oldest first.
func (r *PostgresRepository) ListDebtsByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Debt, error) {
	query := `
		SELECT id, profile_id, kind, name, balance, credit_limit, apr,
		       minimum_payment, loan_type, due_day, created_at, updated_at
		FROM debts
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		var (
			d    domain.Debt
			kind string
		)
		if err := rows.Scan(
			&d.ID, &d.ProfileID, &kind, &d.Name, &d.Balance, &d.CreditLimit,
			&d.APR, &d.MinimumPayment, &d.LoanType, &d.DueDay,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		d.Kind = domain.DebtKind(kind)
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// CreateGoal inserts one savings goal for a profile.
func (r *PostgresRepository) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	query := `
		INSERT INTO goals (
			id, profile_id, name, target_amount, saved_amount,
			deadline_months, priority, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		goal.ID, goal.ProfileID, goal.Name, goal.TargetAmount, goal.SavedAmount,
		goal.DeadlineMonths, string(goal.Priority), goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// ListGoalsByProfileID returns a profile's goals, oldest first.
func (r *PostgresRepository) ListGoalsByProfileID(ctx context.Context, profileID uuid.UUID) ([]domain.Goal, error) {
	query := `
		SELECT id, profile_id, name, target_amount, saved_amount,
		       deadline_months, priority, created_at, updated_at
		FROM goals
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var (
			g        domain.Goal
			priority string
		)
		if err := rows.Scan(
			&g.ID, &g.ProfileID, &g.Name, &g.TargetAmount, &g.SavedAmount,
			&g.DeadlineMonths, &priority, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		g.Priority = domain.GoalPriority(priority)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
