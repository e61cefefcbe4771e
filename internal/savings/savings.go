// Package savings computes the economy between the Initial and Final
// snapshots and the bonus it pays out.
package savings

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// Item key prefixes.
const (
	PrefixCost  = "cost"
	PrefixVerba = "verba"
)

var (
	minPercent = decimal.NewFromInt(domain.MinSavingPercent)
	maxPercent = decimal.NewFromInt(domain.MaxSavingPercent)
	hundred    = decimal.NewFromInt(100)
)

// CostKey is the item key of a department's rows.
func CostKey(dept domain.Department) string {
	return PrefixCost + ":" + string(dept)
}

// VerbaKey is the item key of a department's verba rows.
func VerbaKey(dept domain.Department) string {
	return PrefixVerba + ":" + string(dept)
}

// ParseKey splits an item key into its prefix and department.
func ParseKey(key string) (prefix string, dept domain.Department, err error) {
	prefix, rest, ok := strings.Cut(key, ":")
	if !ok || rest == "" {
		return "", "", fmt.Errorf("invalid item key %q (want cost:<department> or verba:<department>)", key)
	}
	if prefix != PrefixCost && prefix != PrefixVerba {
		return "", "", fmt.Errorf("invalid item key prefix %q (want cost or verba)", prefix)
	}
	return prefix, domain.Department(rest), nil
}

// Catalog lists the item keys that have rows in either snapshot, by
// department in catalog order, cost before verba.
func Catalog(initial, final *domain.StageBudget) []string {
	costs := make(map[domain.Department]bool)
	verbas := make(map[domain.Department]bool)
	var depts []domain.Department
	note := func(set map[domain.Department]bool, d domain.Department) {
		if !costs[d] && !verbas[d] {
			depts = append(depts, d)
		}
		set[d] = true
	}
	for _, s := range []*domain.StageBudget{initial, final} {
		if s == nil {
			continue
		}
		for _, ph := range domain.Phases {
			p := s.Phase(ph)
			for d, rows := range p.Rows {
				if len(rows) > 0 {
					note(costs, d)
				}
			}
			for d, rows := range p.Verba {
				if len(rows) > 0 {
					note(verbas, d)
				}
			}
		}
	}
	domain.SortDepartments(depts)

	var keys []string
	for _, d := range depts {
		if costs[d] {
			keys = append(keys, CostKey(d))
		}
		if verbas[d] {
			keys = append(keys, VerbaKey(d))
		}
	}
	return keys
}

// ItemTotal sums one item key across all three phases of a stage. An
// unknown key or a nil stage totals zero.
func ItemTotal(s *domain.StageBudget, key string) decimal.Decimal {
	total := decimal.Zero
	if s == nil {
		return total
	}
	prefix, dept, err := ParseKey(key)
	if err != nil {
		return total
	}
	for _, ph := range domain.Phases {
		p := s.Phase(ph)
		if prefix == PrefixCost {
			total = total.Add(p.DepartmentTotal(dept))
		} else {
			total = total.Add(p.DepartmentVerbaTotal(dept))
		}
	}
	return total
}

// ClampPercent bounds a savings percentage to the allowed range.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(minPercent) {
		return minPercent
	}
	if p.GreaterThan(maxPercent) {
		return maxPercent
	}
	return p
}

// Item is the economy of one selected key.
type Item struct {
	Key     string
	Initial decimal.Decimal
	Final   decimal.Decimal
	Economy decimal.Decimal
}

// Result is the savings split for one configuration.
type Result struct {
	Items             []Item
	TotalEconomy      decimal.Decimal
	Percent           decimal.Decimal
	Payout            decimal.Decimal
	ResponsibleLineID string
}

// Compute compares the Initial and Final snapshots over the selected keys.
// Overspent items contribute no economy.
func Compute(initial, final *domain.StageBudget, cfg domain.SavingConfig) Result {
	res := Result{
		TotalEconomy:      decimal.Zero,
		Percent:           ClampPercent(cfg.Percent),
		ResponsibleLineID: cfg.ResponsibleLineID,
	}
	seen := make(map[string]bool, len(cfg.SelectedItemKeys))
	for _, key := range cfg.SelectedItemKeys {
		if seen[key] {
			continue
		}
		seen[key] = true
		it := Item{
			Key:     key,
			Initial: ItemTotal(initial, key),
			Final:   ItemTotal(final, key),
		}
		it.Economy = domain.NonNegative(it.Initial.Sub(it.Final))
		res.Items = append(res.Items, it)
		res.TotalEconomy = res.TotalEconomy.Add(it.Economy)
	}
	res.Payout = res.TotalEconomy.Mul(res.Percent).Div(hundred)
	return res
}
