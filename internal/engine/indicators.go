/**
 * @description
 * Indicator calculator: the scalar financial-health formulas behind the
 * dashboard. Each formula is pure and independent, and fails with
 * ErrInvalidInput on out-of-domain arguments instead of silently coercing.
 * Every divide-by-zero path has an explicit named outcome: DTI at zero income
 * is the infinity sentinel, utilization with no credit is zero, and
 * months-to-fund with a non-positive allocation is "not computable".
 */

package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/autopayplan/planner-service/internal/domain"
)

// ErrInvalidInput is returned on domain violations: negative money amounts or
// negative rates where non-negative values are required.
var ErrInvalidInput = errors.New("invalid input")

// CreditCardMinimum computes the issuer-convention minimum payment for a card:
// the greater of the policy's flat balance percentage and one month of accrued
// interest plus the policy's fixed principal floor. A zero or fully paid
// balance owes nothing.
func CreditCardMinimum(balance, aprPercent float64, policy MinimumPaymentPolicy) (float64, error) {
	if balance < 0 {
		return 0, fmt.Errorf("%w: balance must not be negative", ErrInvalidInput)
	}
	if aprPercent < 0 {
		return 0, fmt.Errorf("%w: apr must not be negative", ErrInvalidInput)
	}
	if balance == 0 {
		return 0, nil
	}

	monthlyRate := aprPercent / 100 / 12
	floor := balance * policy.FloorPercent
	interestPlusPrincipal := balance*monthlyRate + policy.FixedFloor

	minimum := math.Max(floor, interestPlusPrincipal)
	// Never ask for more than would clear the post-interest balance.
	if payoff := balance * (1 + monthlyRate); minimum > payoff {
		minimum = payoff
	}
	return round2(minimum), nil
}

// DebtToIncomeResult carries the DTI percentage or the zero-income sentinel.
type DebtToIncomeResult struct {
	Percent  float64
	Infinite bool
}

// DebtToIncome computes minimum-payments-to-income as a percentage. With debt
// service and no income the ratio is conceptually infinite; the sentinel lets
// the caller render "∞" rather than fail the screen.
func DebtToIncome(monthlyIncome float64, debts []domain.Debt, includeLoans bool, policy MinimumPaymentPolicy) (DebtToIncomeResult, error) {
	if monthlyIncome < 0 {
		return DebtToIncomeResult{}, fmt.Errorf("%w: income must not be negative", ErrInvalidInput)
	}

	var minimums float64
	for _, d := range debts {
		if d.Kind == domain.DebtKindLoan && !includeLoans {
			continue
		}
		m, err := EffectiveMinimum(d, policy)
		if err != nil {
			return DebtToIncomeResult{}, err
		}
		minimums += m
	}

	if monthlyIncome == 0 {
		if minimums == 0 {
			return DebtToIncomeResult{Percent: 0}, nil
		}
		return DebtToIncomeResult{Infinite: true}, nil
	}
	return DebtToIncomeResult{Percent: round2(minimums / monthlyIncome * 100)}, nil
}

// EffectiveMinimum resolves one debt's monthly minimum: the stored minimum when
// the user provided one, otherwise the issuer-policy formula for cards. Loans
// without a stored minimum fail — a loan payment cannot be derived here.
func EffectiveMinimum(d domain.Debt, policy MinimumPaymentPolicy) (float64, error) {
	if d.MinimumPayment != nil {
		if *d.MinimumPayment < 0 {
			return 0, fmt.Errorf("%w: minimum payment must not be negative", ErrInvalidInput)
		}
		return *d.MinimumPayment, nil
	}
	if d.Kind == domain.DebtKindCreditCard {
		return CreditCardMinimum(d.Balance, d.APR, policy)
	}
	return 0, fmt.Errorf("%w: loan %q has no minimum payment", ErrInvalidInput, d.Name)
}

// CreditUtilization computes total revolving balance over total revolving
// limit as a percentage. No cards, or a zero total limit, yields zero —
// absence of credit is not "high utilization".
func CreditUtilization(debts []domain.Debt) float64 {
	var balance, limit float64
	for _, d := range debts {
		if d.Kind != domain.DebtKindCreditCard {
			continue
		}
		balance += d.Balance
		limit += d.CreditLimit
	}
	if limit == 0 {
		return 0
	}
	return round2(balance / limit * 100)
}

// EmergencyFundTarget returns the terminal emergency-fund objective: the
// schedule's target months of essential expenses.
func EmergencyFundTarget(needsTotal float64, schedule MilestoneSchedule) float64 {
	return round2(needsTotal * schedule.TargetMonths)
}

// EmergencyFundTargetAt returns the objective in force at a given planning
// month, honoring the schedule's interim steps.
func EmergencyFundTargetAt(needsTotal float64, month int, schedule MilestoneSchedule) float64 {
	return round2(needsTotal * schedule.MonthsOfExpensesAt(month))
}

// MonthsToFundEmergency returns how many whole months of the given allocation
// it takes to close the gap to the target. The second return is false when the
// allocation is not positive: completion cannot be projected, and the caller
// needs a tri-state (number, not applicable, unknown) rather than an infinity.
func MonthsToFundEmergency(target, currentSavings, monthlyAllocation float64) (int, bool) {
	if currentSavings >= target {
		return 0, true
	}
	if monthlyAllocation <= 0 {
		return 0, false
	}
	return int(math.Ceil((target - currentSavings) / monthlyAllocation)), true
}
