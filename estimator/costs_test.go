package estimator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure/vm-dr-cost-estimator/types"
)

type mockRetailPricesClient struct {
	Records  map[string][]types.PriceRecord
	Errs     map[string]error
	Filters  []string
	Currency []string
}

func (m *mockRetailPricesClient) Fetch(ctx context.Context, filter string, currency string) ([]types.PriceRecord, error) {
	m.Filters = append(m.Filters, filter)
	m.Currency = append(m.Currency, currency)
	if err, ok := m.Errs[filter]; ok {
		return nil, err
	}
	return m.Records[filter], nil
}

func decimalOf(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func windowsVM(meterID string, skuName string, armSkuName string, retailPrice string) types.PriceRecord {
	return types.PriceRecord{
		MeterID:       meterID,
		Type:          types.PriceTypeConsumption,
		UnitOfMeasure: "1 Hour",
		ProductName:   "Virtual Machines Dsv5 Series Windows",
		SkuName:       skuName,
		ArmSkuName:    armSkuName,
		MeterName:     skuName,
		RetailPrice:   decimalOf(retailPrice),
	}
}

func premiumDisk(meterName string, retailPrice string) types.PriceRecord {
	return types.PriceRecord{
		MeterID:       meterName,
		Type:          types.PriceTypeConsumption,
		UnitOfMeasure: "1/Month",
		ProductName:   "Premium SSD Managed Disks",
		SkuName:       "P10 LRS",
		MeterName:     meterName,
		RetailPrice:   decimalOf(retailPrice),
	}
}

func bandwidth(meterName string, retailPrice string) types.PriceRecord {
	return types.PriceRecord{
		MeterID:       meterName,
		Type:          types.PriceTypeConsumption,
		UnitOfMeasure: "1 GB",
		ProductName:   "Bandwidth Inter-Availability Zone",
		MeterName:     meterName,
		RetailPrice:   decimalOf(retailPrice),
	}
}

func newPricedCatalog(region string) *mockRetailPricesClient {
	return &mockRetailPricesClient{
		Records: map[string][]types.PriceRecord{
			VirtualMachinesFilter(region).String(): {
				windowsVM("d8", "D8s v5", "Standard_D8s_v5", "1.536"),
				windowsVM("d4", "D4s v5", "Standard_D4s_v5", "0.768"),
			},
			ManagedDiskFilter(region, "p10").String(): {
				premiumDisk("P10 LRS Disk", "19.71"),
				premiumDisk("P10 ZRS Disk", "29.57"),
			},
		},
		Errs: map[string]error{},
	}
}

func testPlan() types.DeploymentPlan {
	return types.DeploymentPlan{
		Phase:               types.PhasePrimary,
		Region:              "eastus2",
		VMSize:              "Standard_D8s_v5",
		OS:                  types.OSFamilyWindows,
		InstanceCount:       2,
		DiskCount:           2,
		DiskSku:             "p10",
		DiskRedundancy:      types.RedundancyLRS,
		InterzoneGBPerMonth: decimal.Zero,
		Currency:            "USD",
	}
}

func TestFilters(t *testing.T) {
	assert.Equal(t, "serviceName eq 'Virtual Machines' and armRegionName eq 'eastus2' and priceType eq 'Consumption'", VirtualMachinesFilter("eastus2").String())
	assert.Equal(t, "serviceFamily eq 'Storage' and armRegionName eq 'eastus2' and priceType eq 'Consumption' and skuName eq 'P10'", ManagedDiskFilter("eastus2", "p10").String())

	filters := InterzoneBandwidthFilters("eastus2")
	require.Len(t, filters, 2)
	assert.Equal(t, "serviceFamily eq 'Networking' and armRegionName eq 'eastus2' and priceType eq 'Consumption'", filters[0].String())
	assert.Equal(t, "serviceName eq 'Bandwidth' and armRegionName eq 'eastus2' and priceType eq 'Consumption'", filters[1].String())
}

func TestComputeCosts_MonthlyComputeFormula(t *testing.T) {
	pricesClient := newPricedCatalog("eastus2")
	costClient := NewCostClient(pricesClient, logrus.New())

	breakdown, err := costClient.ComputeCosts(context.Background(), testPlan())

	require.NoError(t, err)
	assert.Equal(t, []string{types.CostComponentComputeVM, types.CostComponentOSDisks}, breakdown.Names())

	compute, _ := breakdown.Amount(types.CostComponentComputeVM)
	assert.True(t, decimalOf("2242.56").Equal(compute), "got %s", compute)

	disks, _ := breakdown.Amount(types.CostComponentOSDisks)
	assert.True(t, decimalOf("39.42").Equal(disks), "got %s", disks)

	assert.True(t, decimalOf("2281.98").Equal(breakdown.Total), "got %s", breakdown.Total)
	assert.Equal(t, []string{"USD", "USD"}, pricesClient.Currency)
}

func TestComputeCosts_ZeroInstancesStillRecordsCompute(t *testing.T) {
	costClient := NewCostClient(newPricedCatalog("eastus2"), logrus.New())
	plan := testPlan()
	plan.InstanceCount = 0

	breakdown, err := costClient.ComputeCosts(context.Background(), plan)

	require.NoError(t, err)
	compute, ok := breakdown.Amount(types.CostComponentComputeVM)
	assert.True(t, ok)
	assert.True(t, compute.IsZero())
	disks, _ := breakdown.Amount(types.CostComponentOSDisks)
	assert.True(t, decimalOf("39.42").Equal(disks))
}

func TestComputeCosts_VMNotFound(t *testing.T) {
	costClient := NewCostClient(newPricedCatalog("eastus2"), logrus.New())
	plan := testPlan()
	plan.VMSize = "E64s v5"

	breakdown, err := costClient.ComputeCosts(context.Background(), plan)

	assert.Nil(t, breakdown)
	var notFound *types.PricingNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, types.ResourceKindVirtualMachine, notFound.Kind)
	assert.Contains(t, err.Error(), "E64s v5")
	assert.Contains(t, err.Error(), "eastus2")
}

func TestComputeCosts_DiskNotFound(t *testing.T) {
	pricesClient := newPricedCatalog("eastus2")
	filter := ManagedDiskFilter("eastus2", "p10").String()
	pricesClient.Records[filter] = pricesClient.Records[filter][:1]
	costClient := NewCostClient(pricesClient, logrus.New())
	plan := testPlan()
	plan.DiskRedundancy = types.RedundancyZRS

	breakdown, err := costClient.ComputeCosts(context.Background(), plan)

	assert.Nil(t, breakdown)
	var notFound *types.PricingNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "could not find disk price for P10 ZRS in eastus2", err.Error())
}

func TestComputeCosts_TransportErrorAborts(t *testing.T) {
	pricesClient := newPricedCatalog("eastus2")
	pricesClient.Errs[ManagedDiskFilter("eastus2", "p10").String()] = &types.TransportError{URL: "https://prices", StatusCode: 503, Err: errors.New("unavailable")}
	costClient := NewCostClient(pricesClient, logrus.New())

	breakdown, err := costClient.ComputeCosts(context.Background(), testPlan())

	assert.Nil(t, breakdown)
	var transportErr *types.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 503, transportErr.StatusCode)
}

func TestComputeCosts_InterzoneFromFirstQuery(t *testing.T) {
	pricesClient := newPricedCatalog("eastus2")
	filters := InterzoneBandwidthFilters("eastus2")
	pricesClient.Records[filters[0].String()] = []types.PriceRecord{
		bandwidth("Inter-Zone Data Transfer Out", "0.01"),
		bandwidth("Inter Zone Data Transfer In", "0.02"),
	}
	pricesClient.Records[filters[1].String()] = []types.PriceRecord{bandwidth("Inter-Zone Data Transfer", "0.001")}
	costClient := NewCostClient(pricesClient, logrus.New())
	plan := testPlan()
	plan.InterzoneGBPerMonth = decimal.NewFromInt(1000)

	breakdown, err := costClient.ComputeCosts(context.Background(), plan)

	require.NoError(t, err)
	assert.Equal(t, []string{types.CostComponentComputeVM, types.CostComponentOSDisks, types.CostComponentInterzoneGB}, breakdown.Names())
	interzone, _ := breakdown.Amount(types.CostComponentInterzoneGB)
	assert.True(t, decimalOf("10").Equal(interzone), "got %s", interzone)
	assert.NotContains(t, pricesClient.Filters, filters[1].String(), "second query only runs when the first has no candidates")
}

func TestComputeCosts_InterzoneFallsBackToSecondQuery(t *testing.T) {
	pricesClient := newPricedCatalog("eastus2")
	filters := InterzoneBandwidthFilters("eastus2")
	pricesClient.Records[filters[0].String()] = []types.PriceRecord{bandwidth("Data Transfer Out", "0.08")}
	pricesClient.Records[filters[1].String()] = []types.PriceRecord{
		bandwidth("Inter-Zone Data Transfer", "0.01"),
		bandwidth("Zone 2 Data Transfer", "0.005"),
	}
	costClient := NewCostClient(pricesClient, logrus.New())

	record, ok, err := costClient.FindInterzoneBandwidthRate(context.Background(), "eastus2", "USD")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimalOf("0.005").Equal(record.RetailPrice))
}

func TestComputeCosts_InterzoneAbsentRecordsZero(t *testing.T) {
	costClient := NewCostClient(newPricedCatalog("eastus2"), logrus.New())
	plan := testPlan()
	plan.InterzoneGBPerMonth = decimal.NewFromInt(250)

	breakdown, err := costClient.ComputeCosts(context.Background(), plan)

	require.NoError(t, err)
	interzone, ok := breakdown.Amount(types.CostComponentInterzoneGB)
	assert.True(t, ok)
	assert.True(t, interzone.IsZero())
	assert.True(t, decimalOf("2281.98").Equal(breakdown.Total))
}

func TestComputeCosts_NoInterzoneQueryWhenZeroGB(t *testing.T) {
	pricesClient := newPricedCatalog("eastus2")
	costClient := NewCostClient(pricesClient, logrus.New())

	breakdown, err := costClient.ComputeCosts(context.Background(), testPlan())

	require.NoError(t, err)
	_, ok := breakdown.Amount(types.CostComponentInterzoneGB)
	assert.False(t, ok)
	assert.Len(t, pricesClient.Filters, 2)
}

func TestComputeCosts_NegativeCounts(t *testing.T) {
	costClient := NewCostClient(newPricedCatalog("eastus2"), logrus.New())
	plan := testPlan()
	plan.DiskCount = -1

	_, err := costClient.ComputeCosts(context.Background(), plan)
	assert.Error(t, err)
}
