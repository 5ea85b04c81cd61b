package estimator

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/azure/vm-dr-cost-estimator/azure"
	"github.com/azure/vm-dr-cost-estimator/selector"
	"github.com/azure/vm-dr-cost-estimator/types"
)

// HoursPerMonth is the average month at hourly billing granularity.
var HoursPerMonth = decimal.NewFromInt(730)

type ICostClient interface {
	ComputeCosts(ctx context.Context, plan types.DeploymentPlan) (*types.CostBreakdown, error)
}

type CostClient struct {
	PricesClient azure.IRetailPricesClient
	Logger       *logrus.Logger
}

func NewCostClient(pricesClient azure.IRetailPricesClient, logger *logrus.Logger) *CostClient {
	return &CostClient{
		PricesClient: pricesClient,
		Logger:       logger,
	}
}

func VirtualMachinesFilter(region string) azure.Filter {
	return azure.NewFilter().
		Eq(azure.FieldServiceName, "Virtual Machines").
		Eq(azure.FieldArmRegionName, region).
		Eq(azure.FieldPriceType, types.PriceTypeConsumption)
}

func ManagedDiskFilter(region string, diskSku string) azure.Filter {
	return azure.NewFilter().
		Eq(azure.FieldServiceFamily, "Storage").
		Eq(azure.FieldArmRegionName, region).
		Eq(azure.FieldPriceType, types.PriceTypeConsumption).
		Eq(azure.FieldSkuName, strings.ToUpper(diskSku))
}

// InterzoneBandwidthFilters are tried in order until one yields a candidate.
func InterzoneBandwidthFilters(region string) []azure.Filter {
	return []azure.Filter{
		azure.NewFilter().
			Eq(azure.FieldServiceFamily, "Networking").
			Eq(azure.FieldArmRegionName, region).
			Eq(azure.FieldPriceType, types.PriceTypeConsumption),
		azure.NewFilter().
			Eq(azure.FieldServiceName, "Bandwidth").
			Eq(azure.FieldArmRegionName, region).
			Eq(azure.FieldPriceType, types.PriceTypeConsumption),
	}
}

// VMHourlyPrice fetches every consumption VM meter in the region and narrows by size locally;
// sku names are too inconsistent in the catalog to filter on server side.
func (costClient *CostClient) VMHourlyPrice(ctx context.Context, region string, vmSize string, isWindows bool, currency string) (types.PriceRecord, bool, error) {
	records, err := costClient.PricesClient.Fetch(ctx, VirtualMachinesFilter(region).String(), currency)
	if err != nil {
		return types.PriceRecord{}, false, errors.Wrapf(err, "fetching VM prices for %s", region)
	}

	sized := selector.Filter(records, selector.MatchesVMSize(vmSize))
	costClient.Logger.Debugf("%d of %d VM price records match size %s in %s", len(sized), len(records), vmSize, region)

	record, ok := selector.SelectVMPrice(sized, isWindows)
	if ok {
		costClient.Logger.Debugf("Selected VM meter %q (%s, %s) at %s/%s", record.MeterName, record.ProductName, record.SkuName, record.RetailPrice, record.UnitOfMeasure)
	}
	return record, ok, nil
}

func (costClient *CostClient) DiskMonthlyPrice(ctx context.Context, region string, diskSku string, redundancy types.Redundancy, currency string) (types.PriceRecord, bool, error) {
	records, err := costClient.PricesClient.Fetch(ctx, ManagedDiskFilter(region, diskSku).String(), currency)
	if err != nil {
		return types.PriceRecord{}, false, errors.Wrapf(err, "fetching disk prices for %s", region)
	}

	record, ok := selector.SelectDiskPrice(records, string(redundancy))
	if ok {
		costClient.Logger.Debugf("Selected disk meter %q (%s) at %s/%s", record.MeterName, record.ProductName, record.RetailPrice, record.UnitOfMeasure)
	}
	return record, ok, nil
}

func (costClient *CostClient) FindInterzoneBandwidthRate(ctx context.Context, region string, currency string) (types.PriceRecord, bool, error) {
	for _, filter := range InterzoneBandwidthFilters(region) {
		records, err := costClient.PricesClient.Fetch(ctx, filter.String(), currency)
		if err != nil {
			return types.PriceRecord{}, false, errors.Wrapf(err, "fetching bandwidth prices for %s", region)
		}

		record, ok := selector.SelectInterzoneBandwidthRate(records)
		if ok {
			costClient.Logger.Debugf("Selected inter-zone meter %q (%s) at %s/%s", record.MeterName, record.ProductName, record.RetailPrice, record.UnitOfMeasure)
			return record, true, nil
		}
		costClient.Logger.Debugf("No inter-zone bandwidth candidates for filter: %s", filter)
	}
	return types.PriceRecord{}, false, nil
}

// ComputeCosts prices the plan. VM and disk prices are required; a missing inter-zone rate is recorded as zero.
func (costClient *CostClient) ComputeCosts(ctx context.Context, plan types.DeploymentPlan) (*types.CostBreakdown, error) {
	if plan.InstanceCount < 0 || plan.DiskCount < 0 {
		return nil, errors.Errorf("invalid %s plan: negative instance or disk count", plan.Phase)
	}

	breakdown := types.NewCostBreakdown()

	vm, ok, err := costClient.VMHourlyPrice(ctx, plan.Region, plan.VMSize, plan.OS.IsWindows(), plan.Currency)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.PricingNotFoundError{Kind: types.ResourceKindVirtualMachine, Sku: plan.VMSize, Region: plan.Region, OS: plan.OS}
	}
	instances := decimal.NewFromInt(int64(plan.InstanceCount))
	breakdown.Add(types.CostComponent{
		Name:      types.CostComponentComputeVM,
		UnitPrice: vm.RetailPrice,
		Quantity:  instances.Mul(HoursPerMonth),
		Amount:    instances.Mul(HoursPerMonth).Mul(vm.RetailPrice),
		Record:    &vm,
	})

	disk, ok, err := costClient.DiskMonthlyPrice(ctx, plan.Region, plan.DiskSku, plan.DiskRedundancy, plan.Currency)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.PricingNotFoundError{Kind: types.ResourceKindManagedDisk, Sku: strings.ToUpper(plan.DiskSku), Region: plan.Region, Redundancy: plan.DiskRedundancy}
	}
	disks := decimal.NewFromInt(int64(plan.DiskCount))
	breakdown.Add(types.CostComponent{
		Name:      types.CostComponentOSDisks,
		UnitPrice: disk.RetailPrice,
		Quantity:  disks,
		Amount:    disks.Mul(disk.RetailPrice),
		Record:    &disk,
	})

	if plan.InterzoneGBPerMonth.IsPositive() {
		bandwidth, ok, err := costClient.FindInterzoneBandwidthRate(ctx, plan.Region, plan.Currency)
		if err != nil {
			return nil, err
		}
		if ok {
			breakdown.Add(types.CostComponent{
				Name:      types.CostComponentInterzoneGB,
				UnitPrice: bandwidth.RetailPrice,
				Quantity:  plan.InterzoneGBPerMonth,
				Amount:    plan.InterzoneGBPerMonth.Mul(bandwidth.RetailPrice),
				Record:    &bandwidth,
			})
		} else {
			costClient.Logger.Warnf("No inter-zone bandwidth rate found in %s, recording inter-zone cost as 0", plan.Region)
			breakdown.Add(types.CostComponent{
				Name:      types.CostComponentInterzoneGB,
				UnitPrice: decimal.Zero,
				Quantity:  plan.InterzoneGBPerMonth,
				Amount:    decimal.Zero,
			})
		}
	}

	costClient.Logger.Infof("Priced %s plan in %s: %s %s/month", plan.Phase, plan.Region, breakdown.Total.StringFixed(2), plan.Currency)
	return breakdown, nil
}
