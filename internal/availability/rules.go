package availability

import (
	"strings"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

// DayOffRules indexes extra days off by worker name.
type DayOffRules map[string]map[int]bool

func NewDayOffRules(rules []domain.DayOffRule) DayOffRules {
	r := make(DayOffRules)
	for _, rule := range rules {
		name := strings.TrimSpace(rule.WorkerName)
		if _, exists := r[name]; !exists {
			r[name] = make(map[int]bool)
		}
		r[name][rule.Day] = true
	}
	return r
}

func (r DayOffRules) IsOff(worker string, dayOfWeek int) bool {
	return r[strings.TrimSpace(worker)][dayOfWeek]
}

// Eligibility maps a restricted service category to the workers authorized for it.
// Categories without an entry are open to every worker.
type Eligibility map[string]map[string]bool

func NewEligibility(restrictions []domain.CategoryRestriction) Eligibility {
	e := make(Eligibility)
	for _, restriction := range restrictions {
		if len(restriction.WorkerNames) == 0 {
			continue
		}
		category := normalizeCategory(restriction.Category)
		if _, exists := e[category]; !exists {
			e[category] = make(map[string]bool)
		}
		for _, name := range restriction.WorkerNames {
			e[category][strings.TrimSpace(name)] = true
		}
	}
	return e
}

// Allows reports whether worker may perform service. A nil service means no selection yet.
func (e Eligibility) Allows(service *domain.Service, worker string) bool {
	if service == nil {
		return true
	}
	authorized, restricted := e[normalizeCategory(service.Category)]
	if !restricted {
		return true
	}
	return authorized[strings.TrimSpace(worker)]
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
