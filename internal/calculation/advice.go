package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/domain"
)

// PlanningAdvice turns a reverse plan into short recommendation lines. It reads typed
// fields only.
func PlanningAdvice(plan domain.ReversePlan) []string {
	advice := []string{
		fmt.Sprintf("Split total income %s into:", domain.FormatAmount(plan.TotalIncome)),
		fmt.Sprintf("  salary %s", domain.FormatAmount(plan.OptimalSalary)),
		fmt.Sprintf("  year-end bonus %s", domain.FormatAmount(plan.OptimalBonus)),
		fmt.Sprintf("  taxation: %s", plan.Mode.DisplayName()),
	}
	if plan.Cliff.IsAdjusted {
		advice = append(advice, "Warning: "+plan.Cliff.Message)
	}
	if plan.SavingsVsWorst.IsPositive() {
		advice = append(advice, fmt.Sprintf("Saves %s compared with taking everything as salary", domain.FormatAmount(plan.SavingsVsWorst)))
	}
	advice = append(advice, fmt.Sprintf("Effective tax rate: %s%%", plan.EffectiveTaxRate.Mul(hundred).StringFixed(2)))
	return advice
}
