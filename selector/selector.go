package selector

import (
	"github.com/azure/vm-dr-cost-estimator/types"
)

const premiumSSDManagedDisks = "Premium SSD Managed Disks"

func VMPricePredicate(isWindows bool) Predicate {
	predicates := []Predicate{
		IsConsumption(),
		UnitContainsFold("hour"),
	}
	// Linux requests do not exclude Windows products; callers narrow the record set first.
	if isWindows {
		predicates = append(predicates, ProductNameContains("Windows"))
	}
	predicates = append(predicates, Not(IsSpotOrLowPriority()))
	return All(predicates...)
}

// SelectVMPrice returns the highest priced hourly consumption record, excluding Spot and Low Priority meters.
func SelectVMPrice(records []types.PriceRecord, isWindows bool) (types.PriceRecord, bool) {
	return highestPriced(Filter(records, VMPricePredicate(isWindows)))
}

func DiskPricePredicate(redundancy types.Redundancy) Predicate {
	return All(
		IsConsumption(),
		UnitContainsFold("month"),
		ProductNameContains(premiumSSDManagedDisks),
		MeterNameContainsFold(string(redundancy)),
	)
}

// SelectDiskPrice returns the highest priced monthly Premium SSD record for the redundancy (lrs or zrs, any case).
// There is no fallback to the other redundancy tier.
func SelectDiskPrice(records []types.PriceRecord, redundancy string) (types.PriceRecord, bool) {
	parsed, err := types.ParseRedundancy(redundancy)
	if err != nil {
		return types.PriceRecord{}, false
	}
	return highestPriced(Filter(records, DiskPricePredicate(parsed)))
}

func InterzoneBandwidthPredicate() Predicate {
	return All(
		UnitContainsFold("gb"),
		ProductNameContainsFold("bandwidth"),
		MeterNameContainsAnyFold("zone", "inter-zone", "inter zone"),
	)
}

func InterzoneCandidates(records []types.PriceRecord) []types.PriceRecord {
	return Filter(records, InterzoneBandwidthPredicate())
}

// SelectInterzoneBandwidthRate returns the cheapest zone-labelled bandwidth meter.
// Broad bandwidth queries also return cross-region meters priced well above same-region transfer.
func SelectInterzoneBandwidthRate(records []types.PriceRecord) (types.PriceRecord, bool) {
	return lowestPriced(InterzoneCandidates(records))
}

func highestPriced(records []types.PriceRecord) (types.PriceRecord, bool) {
	if len(records) == 0 {
		return types.PriceRecord{}, false
	}
	best := records[0]
	for _, record := range records[1:] {
		cmp := record.RetailPrice.Cmp(best.RetailPrice)
		if cmp > 0 || (cmp == 0 && record.SortKey() < best.SortKey()) {
			best = record
		}
	}
	return best, true
}

func lowestPriced(records []types.PriceRecord) (types.PriceRecord, bool) {
	if len(records) == 0 {
		return types.PriceRecord{}, false
	}
	best := records[0]
	for _, record := range records[1:] {
		cmp := record.RetailPrice.Cmp(best.RetailPrice)
		if cmp < 0 || (cmp == 0 && record.SortKey() < best.SortKey()) {
			best = record
		}
	}
	return best, true
}
