package selector

import (
	"strings"

	"github.com/azure/vm-dr-cost-estimator/types"
)

// Predicate reports whether a price record matches one rule.
type Predicate func(record types.PriceRecord) bool

func All(predicates ...Predicate) Predicate {
	return func(record types.PriceRecord) bool {
		for _, predicate := range predicates {
			if !predicate(record) {
				return false
			}
		}
		return true
	}
}

func Not(predicate Predicate) Predicate {
	return func(record types.PriceRecord) bool {
		return !predicate(record)
	}
}

func IsConsumption() Predicate {
	return func(record types.PriceRecord) bool {
		return record.Type == types.PriceTypeConsumption
	}
}

func UnitContainsFold(substring string) Predicate {
	return func(record types.PriceRecord) bool {
		return containsFold(record.UnitOfMeasure, substring)
	}
}

// ProductNameContains is case-sensitive.
func ProductNameContains(substring string) Predicate {
	return func(record types.PriceRecord) bool {
		return strings.Contains(record.ProductName, substring)
	}
}

func ProductNameContainsFold(substring string) Predicate {
	return func(record types.PriceRecord) bool {
		return containsFold(record.ProductName, substring)
	}
}

func SkuNameContainsFold(substring string) Predicate {
	return func(record types.PriceRecord) bool {
		return containsFold(record.SkuName, substring)
	}
}

func MeterNameContainsFold(substring string) Predicate {
	return func(record types.PriceRecord) bool {
		return containsFold(record.MeterName, substring)
	}
}

func MeterNameContainsAnyFold(substrings ...string) Predicate {
	return func(record types.PriceRecord) bool {
		for _, substring := range substrings {
			if containsFold(record.MeterName, substring) {
				return true
			}
		}
		return false
	}
}

// IsSpotOrLowPriority matches Spot meters (sku or meter name) and Low Priority meters (meter name).
func IsSpotOrLowPriority() Predicate {
	return func(record types.PriceRecord) bool {
		return containsFold(record.SkuName, "spot") ||
			containsFold(record.MeterName, "spot") ||
			containsFold(record.MeterName, "low priority")
	}
}

// MatchesVMSize matches records whose sku name or ARM sku name contains the normalized size.
func MatchesVMSize(vmSize string) Predicate {
	normalized := NormalizeVMSize(vmSize)
	return func(record types.PriceRecord) bool {
		return containsFold(record.SkuName, normalized) || containsFold(record.ArmSkuName, normalized)
	}
}

// NormalizeVMSize lower-cases a size and strips a leading "standard_", so "Standard_D8s_v5" becomes "d8s_v5".
func NormalizeVMSize(vmSize string) string {
	normalized := strings.ToLower(strings.TrimSpace(vmSize))
	return strings.TrimSpace(strings.TrimPrefix(normalized, "standard_"))
}

func Filter(records []types.PriceRecord, predicate Predicate) []types.PriceRecord {
	matches := []types.PriceRecord{}
	for _, record := range records {
		if predicate(record) {
			matches = append(matches, record)
		}
	}
	return matches
}

func containsFold(value string, substring string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(substring))
}
