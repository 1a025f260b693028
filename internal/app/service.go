/**
 * @description
 * This file contains the core application logic for the planner-service. The
 * `Service` struct loads persisted profile snapshots, feeds them by value into
 * the pure planning engine, and exposes the calculation surface the mobile
 * client consumes: budget classification, health indicators, the monthly
 * allocation plan, the milestone projection, and the payment calendar.
 *
 * The engine itself never touches the store, the cache, or the broker — all
 * side effects live here.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For record identifiers.
 * - internal/domain, internal/engine, internal/store: Models, formulas, data access.
 * - pkg/rabbitmq: For publishing planner events.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
	"github.com/autopayplan/planner-service/internal/engine"
	"github.com/autopayplan/planner-service/internal/store"
	"github.com/autopayplan/planner-service/pkg/rabbitmq"
)

// Service provides the calculation surface over persisted profiles.
type Service struct {
	repo          store.Repository
	cache         PlanCache
	eventProducer rabbitmq.Publisher

	minPolicy      engine.MinimumPaymentPolicy
	emergency      engine.MilestoneSchedule
	horizonMonths  int
	calendarMonths int
}

// NewService creates a new planner service instance. The cache and event
// producer may be nil; both degrade to no-ops.
func NewService(
	repo store.Repository,
	cache PlanCache,
	producer rabbitmq.Publisher,
	minPolicy engine.MinimumPaymentPolicy,
	emergency engine.MilestoneSchedule,
	horizonMonths int,
	calendarMonths int,
) *Service {
	if horizonMonths <= 0 {
		horizonMonths = engine.DefaultHorizonMonths
	}
	if calendarMonths <= 0 {
		calendarMonths = 12
	}
	return &Service{
		repo:           repo,
		cache:          cache,
		eventProducer:  producer,
		minPolicy:      minPolicy,
		emergency:      emergency,
		horizonMonths:  horizonMonths,
		calendarMonths: calendarMonths,
	}
}

// CreateProfile validates the onboarding answers and persists a new profile
// snapshot with its debts and goals.
func (s *Service) CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.FinancialProfile, error) {
	if err := validateCreateProfile(req); err != nil {
		return nil, err
	}

	pace := req.PayoffPace
	if pace == "" {
		pace = domain.PaceBalanced
	}

	profile := &domain.FinancialProfile{
		ID:                uuid.New(),
		MonthlyIncome:     req.MonthlyIncome,
		Age:               req.Age,
		RetirementAge:     req.RetirementAge,
		CurrentSavings:    req.CurrentSavings,
		RetirementSavings: req.RetirementSavings,
		CreditScore:       req.CreditScore,
		PrimaryFear:       req.PrimaryFear,
		BiweeklyPayments:  req.BiweeklyPayments,
		PayoffPace:        pace,
		NeedsByCategory:   req.NeedsByCategory,
		WantsByCategory:   req.WantsByCategory,
		LastPaycheckDate:  req.LastPaycheckDate,
	}
	if err := s.repo.CreateFinancialProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create financial profile: %w", err)
	}

	for _, item := range req.Debts {
		debt := &domain.Debt{
			ProfileID:      profile.ID,
			Kind:           item.Kind,
			Name:           item.Name,
			Balance:        item.Balance,
			CreditLimit:    item.CreditLimit,
			APR:            item.APR,
			MinimumPayment: item.MinimumPayment,
			LoanType:       item.LoanType,
			DueDay:         item.DueDay,
		}
		if err := s.repo.CreateDebt(ctx, debt); err != nil {
			return nil, fmt.Errorf("failed to create debt %q: %w", item.Name, err)
		}
	}
	for _, item := range req.Goals {
		priority := item.Priority
		if priority == "" {
			priority = domain.PriorityWant
		}
		goal := &domain.Goal{
			ProfileID:      profile.ID,
			Name:           item.Name,
			TargetAmount:   item.TargetAmount,
			SavedAmount:    item.SavedAmount,
			DeadlineMonths: item.DeadlineMonths,
			Priority:       priority,
		}
		if err := s.repo.CreateGoal(ctx, goal); err != nil {
			return nil, fmt.Errorf("failed to create goal %q: %w", item.Name, err)
		}
	}

	if s.eventProducer != nil {
		event := rabbitmq.ProfileEvent{ProfileID: profile.ID, Timestamp: time.Now().UTC()}
		if err := s.eventProducer.PublishProfileEvent(ctx, "planner.profile.created", event); err != nil {
			log.Printf("level=warn component=app msg=\"profile created event publish failed\" profile_id=%s err=%v", profile.ID, err)
		}
	}

	return profile, nil
}

// GetProfile returns one persisted profile snapshot.
func (s *Service) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.FinancialProfile, error) {
	return s.repo.GetFinancialProfile(ctx, profileID)
}

// MinimumPayment exposes the raw issuer-convention formula; no profile needed.
func (s *Service) MinimumPayment(balance, aprPercent float64) (float64, error) {
	return engine.CreditCardMinimum(balance, aprPercent, s.minPolicy)
}

// Budget classifies a profile's income against the 50/30/20 bands.
func (s *Service) Budget(ctx context.Context, profileID uuid.UUID) (domain.BudgetBreakdown, error) {
	profile, err := s.repo.GetFinancialProfile(ctx, profileID)
	if err != nil {
		return domain.BudgetBreakdown{}, err
	}
	return engine.ClassifyBudget(profile.MonthlyIncome, profile.NeedsByCategory, profile.WantsByCategory)
}

// Indicators computes the dashboard's health metrics. When monthlyAllocation
// is nil, the months-to-fund figure uses the emergency-fund leftover from the
// profile's current allocation plan.
func (s *Service) Indicators(ctx context.Context, profileID uuid.UUID, includeLoans bool, monthlyAllocation *float64) (domain.Indicators, error) {
	profile, debts, _, err := s.snapshot(ctx, profileID)
	if err != nil {
		return domain.Indicators{}, err
	}

	budget, err := engine.ClassifyBudget(profile.MonthlyIncome, profile.NeedsByCategory, profile.WantsByCategory)
	if err != nil {
		return domain.Indicators{}, err
	}

	dti, err := engine.DebtToIncome(profile.MonthlyIncome, debts, includeLoans, s.minPolicy)
	if err != nil {
		return domain.Indicators{}, err
	}

	target := engine.EmergencyFundTarget(budget.NeedsTotal, s.emergency)

	allocation := 0.0
	if monthlyAllocation != nil {
		allocation = *monthlyAllocation
	} else {
		plan, planErr := s.Plan(ctx, profileID)
		if planErr != nil {
			return domain.Indicators{}, planErr
		}
		allocation = plan.EmergencyFund
	}

	indicators := domain.Indicators{
		DebtToIncomePct:      dti.Percent,
		DebtToIncomeInfinite: dti.Infinite,
		CreditUtilizationPct: engine.CreditUtilization(debts),
		EmergencyFundTarget:  target,
	}
	if months, ok := engine.MonthsToFundEmergency(target, profile.CurrentSavings, allocation); ok {
		indicators.MonthsToFundEmergency = &months
	}
	return indicators, nil
}

// Plan runs the allocation waterfall for the current month.
func (s *Service) Plan(ctx context.Context, profileID uuid.UUID) (domain.AllocationPlan, error) {
	profile, debts, goals, err := s.snapshot(ctx, profileID)
	if err != nil {
		return domain.AllocationPlan{}, err
	}

	budget, err := engine.ClassifyBudget(profile.MonthlyIncome, profile.NeedsByCategory, profile.WantsByCategory)
	if err != nil {
		return domain.AllocationPlan{}, err
	}

	obligations, err := s.obligations(debts, goals)
	if err != nil {
		return domain.AllocationPlan{}, err
	}
	return engine.Allocate(1, budget.Remaining, obligations, profile.PayoffPace), nil
}

// Projection simulates the allocation forward to the configured horizon,
// consulting the plan cache first. Cache keys include updated_at so a profile
// edit naturally supersedes a stale entry.
func (s *Service) Projection(ctx context.Context, profileID uuid.UUID) (domain.ProjectionResult, error) {
	profile, debts, goals, err := s.snapshot(ctx, profileID)
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	cacheKey := fmt.Sprintf("%s:%d", profile.ID, profile.UpdatedAt.UnixNano())
	if s.cache != nil {
		if cached, ok := s.cache.GetProjection(ctx, cacheKey); ok {
			return *cached, nil
		}
	}

	budget, err := engine.ClassifyBudget(profile.MonthlyIncome, profile.NeedsByCategory, profile.WantsByCategory)
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	result, err := engine.Project(engine.ProjectionInput{
		MonthlyRemaining: budget.Remaining,
		Debts:            debts,
		Goals:            goals,
		CurrentSavings:   profile.CurrentSavings,
		NeedsTotal:       budget.NeedsTotal,
		Pace:             profile.PayoffPace,
		HorizonMonths:    s.horizonMonths,
		MinimumPolicy:    s.minPolicy,
		Emergency:        s.emergency,
	})
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	if s.cache != nil {
		s.cache.SetProjection(ctx, cacheKey, result)
	}
	if s.eventProducer != nil {
		event := rabbitmq.ProfileEvent{ProfileID: profile.ID, Timestamp: time.Now().UTC()}
		if err := s.eventProducer.PublishProfileEvent(ctx, "planner.plan.recomputed", event); err != nil {
			log.Printf("level=warn component=app msg=\"plan recomputed event publish failed\" profile_id=%s err=%v", profile.ID, err)
		}
	}
	return result, nil
}

// Calendar generates the debit/payment event calendar over the given horizon
// in months (the configured default when months <= 0).
func (s *Service) Calendar(ctx context.Context, profileID uuid.UUID, months int) ([]domain.PaymentEvent, error) {
	profile, debts, _, err := s.snapshot(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.calendarMonths
	}

	cadence := engine.CadenceWeekly
	if profile.BiweeklyPayments {
		cadence = engine.CadenceBiweekly
	}

	anchor := time.Now().UTC().Truncate(24 * time.Hour)
	if profile.LastPaycheckDate != nil {
		anchor = *profile.LastPaycheckDate
	}

	var scheduled []engine.ScheduledObligation
	for _, d := range debts {
		if d.DueDay <= 0 {
			continue
		}
		minimum, err := engine.EffectiveMinimum(d, s.minPolicy)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, engine.ScheduledObligation{
			ID:      d.ID,
			Name:    d.Name,
			DueDate: engine.NextDueDate(anchor, d.DueDay),
			DueDay:  d.DueDay,
			Amount:  minimum,
		})
	}

	return engine.GenerateCalendar(cadence, anchor, scheduled, anchor.AddDate(0, months, 0))
}

func (s *Service) snapshot(ctx context.Context, profileID uuid.UUID) (*domain.FinancialProfile, []domain.Debt, []domain.Goal, error) {
	profile, err := s.repo.GetFinancialProfile(ctx, profileID)
	if err != nil {
		return nil, nil, nil, err
	}
	debts, err := s.repo.ListDebtsByProfileID(ctx, profileID)
	if err != nil {
		return nil, nil, nil, err
	}
	goals, err := s.repo.ListGoalsByProfileID(ctx, profileID)
	if err != nil {
		return nil, nil, nil, err
	}
	return profile, debts, goals, nil
}

func (s *Service) obligations(debts []domain.Debt, goals []domain.Goal) ([]engine.Obligation, error) {
	obligations := make([]engine.Obligation, 0, len(debts)+len(goals))
	for _, d := range debts {
		minimum, err := engine.EffectiveMinimum(d, s.minPolicy)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, engine.DebtObligation(d, minimum))
	}
	for _, g := range goals {
		obligations = append(obligations, engine.GoalObligation(g))
	}
	return obligations, nil
}

func validateCreateProfile(req domain.CreateProfileRequest) error {
	if req.MonthlyIncome <= 0 {
		return fmt.Errorf("%w: monthly income is required and must be positive", engine.ErrInvalidInput)
	}
	if req.Age <= 0 {
		return fmt.Errorf("%w: age is required", engine.ErrInvalidInput)
	}
	if req.RetirementAge != 0 && req.RetirementAge <= req.Age {
		return fmt.Errorf("%w: retirement age must be after current age", engine.ErrInvalidInput)
	}
	if req.CurrentSavings < 0 || req.RetirementSavings < 0 {
		return fmt.Errorf("%w: savings must not be negative", engine.ErrInvalidInput)
	}
	switch req.PayoffPace {
	case "", domain.PaceAggressive, domain.PaceBalanced, domain.PaceRelaxed:
	default:
		return fmt.Errorf("%w: unknown payoff pace %q", engine.ErrInvalidInput, req.PayoffPace)
	}
	for category, amount := range req.NeedsByCategory {
		if amount < 0 {
			return fmt.Errorf("%w: needs category %q must not be negative", engine.ErrInvalidInput, category)
		}
	}
	for category, amount := range req.WantsByCategory {
		if amount < 0 {
			return fmt.Errorf("%w: wants category %q must not be negative", engine.ErrInvalidInput, category)
		}
	}
	for _, d := range req.Debts {
		if d.Name == "" {
			return fmt.Errorf("%w: debt name is required", engine.ErrInvalidInput)
		}
		if d.Balance < 0 || d.APR < 0 {
			return fmt.Errorf("%w: debt %q has a negative balance or apr", engine.ErrInvalidInput, d.Name)
		}
		if d.DueDay < 0 || d.DueDay > 31 {
			return fmt.Errorf("%w: debt %q has an invalid due day", engine.ErrInvalidInput, d.Name)
		}
		switch d.Kind {
		case domain.DebtKindCreditCard:
		case domain.DebtKindLoan:
			if d.MinimumPayment == nil || *d.MinimumPayment < 0 {
				return fmt.Errorf("%w: loan %q requires a minimum payment", engine.ErrInvalidInput, d.Name)
			}
		default:
			return fmt.Errorf("%w: unknown debt kind %q", engine.ErrInvalidInput, d.Kind)
		}
	}
	for _, g := range req.Goals {
		if g.Name == "" {
			return fmt.Errorf("%w: goal name is required", engine.ErrInvalidInput)
		}
		if g.TargetAmount <= 0 || g.SavedAmount < 0 {
			return fmt.Errorf("%w: goal %q has an invalid target or saved amount", engine.ErrInvalidInput, g.Name)
		}
		switch g.Priority {
		case "", domain.PriorityMustHave, domain.PriorityWant:
		default:
			return fmt.Errorf("%w: unknown goal priority %q", engine.ErrInvalidInput, g.Priority)
		}
	}
	return nil
}
