package types

import (
	"github.com/shopspring/decimal"
)

const (
	CostComponentComputeVM   = "compute_vm_month"
	CostComponentOSDisks     = "os_disks_month"
	CostComponentInterzoneGB = "interzone_data_month"
)

type CostComponent struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
	Amount    decimal.Decimal
	Record    *PriceRecord
}

// CostBreakdown keeps components in the order they were added.
type CostBreakdown struct {
	Components []CostComponent
	Total      decimal.Decimal
}

func NewCostBreakdown() *CostBreakdown {
	return &CostBreakdown{
		Components: []CostComponent{},
		Total:      decimal.Zero,
	}
}

func (breakdown *CostBreakdown) Add(component CostComponent) {
	breakdown.Components = append(breakdown.Components, component)
	breakdown.Total = breakdown.Total.Add(component.Amount)
}

func (breakdown *CostBreakdown) Amount(name string) (decimal.Decimal, bool) {
	for _, component := range breakdown.Components {
		if component.Name == name {
			return component.Amount, true
		}
	}
	return decimal.Zero, false
}

func (breakdown *CostBreakdown) Names() []string {
	names := make([]string, 0, len(breakdown.Components))
	for _, component := range breakdown.Components {
		names = append(names, component.Name)
	}
	return names
}

type Estimate struct {
	Inputs  EstimateInputs
	Primary *CostBreakdown
	DR      *CostBreakdown
	Notes   []string
}
