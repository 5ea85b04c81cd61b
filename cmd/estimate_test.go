package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure/vm-dr-cost-estimator/csv"
	"github.com/azure/vm-dr-cost-estimator/hcl"
	"github.com/azure/vm-dr-cost-estimator/json"
	"github.com/azure/vm-dr-cost-estimator/types"
)

type mockResourceGraphClient struct {
	Called          bool
	Region          string
	VirtualMachines []*types.GraphVirtualMachine
	Err             error
}

func (m *mockResourceGraphClient) GetVirtualMachines(ctx context.Context, region string) ([]*types.GraphVirtualMachine, error) {
	m.Called = true
	m.Region = region
	return m.VirtualMachines, m.Err
}

func defaultInputs() types.EstimateInputs {
	return types.EstimateInputs{
		PrimaryRegion:       "eastus2",
		DRRegion:            "centralus",
		VMSize:              "D8s v5",
		OS:                  types.OSFamilyWindows,
		Instances:           2,
		OSDiskSku:           "P10",
		DiskRedundancy:      types.RedundancyLRS,
		InterzoneGBPerMonth: decimal.Zero,
		Currency:            "USD",
		DRMode:              types.DRModeCold,
	}
}

func TestExitCode(t *testing.T) {
	primaryFailure := &types.PhaseError{Phase: types.PhasePrimary, Err: errors.New("boom")}
	drFailure := &types.PhaseError{Phase: types.PhaseDR, Err: errors.New("boom")}

	assert.Equal(t, 2, ExitCode(primaryFailure))
	assert.Equal(t, 3, ExitCode(drFailure))
	assert.Equal(t, 3, ExitCode(fmt.Errorf("wrapped: %w", drFailure)))
	assert.Equal(t, 1, ExitCode(errors.New("invalid currency code")))
}

func TestParseExportFormats(t *testing.T) {
	formats, err := parseExportFormats([]string{"JSON", " csv", "hcl,json", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"json", "csv", "hcl", "json"}, formats)

	formats, err = parseExportFormats(nil)
	require.NoError(t, err)
	assert.Empty(t, formats)

	_, err = parseExportFormats([]string{"xml"})
	assert.ErrorContains(t, err, "unknown export format")
}

func TestDiscoverInputs(t *testing.T) {
	graphClient := &mockResourceGraphClient{
		VirtualMachines: []*types.GraphVirtualMachine{
			{ID: "/vm1", VMSize: "Standard_E4s_v5", OSType: "Linux", OSDiskStorageAccount: "Premium_ZRS"},
			{ID: "/vm2", VMSize: "Standard_E4s_v5", OSType: "Linux", OSDiskStorageAccount: "Premium_ZRS"},
			{ID: "/vm3", VMSize: "Standard_B2s", OSType: "Windows", OSDiskStorageAccount: "Premium_LRS"},
		},
	}

	inputs, err := discoverInputs(context.Background(), graphClient, defaultInputs(), logrus.New())

	require.NoError(t, err)
	assert.True(t, graphClient.Called)
	assert.Equal(t, "eastus2", graphClient.Region)
	assert.Equal(t, "Standard_E4s_v5", inputs.VMSize)
	assert.Equal(t, types.OSFamilyLinux, inputs.OS)
	assert.Equal(t, 2, inputs.Instances)
	assert.Equal(t, types.RedundancyZRS, inputs.DiskRedundancy)
	assert.Equal(t, "centralus", inputs.DRRegion)
}

func TestDiscoverInputs_Errors(t *testing.T) {
	_, err := discoverInputs(context.Background(), &mockResourceGraphClient{Err: errors.New("forbidden")}, defaultInputs(), logrus.New())
	assert.ErrorContains(t, err, "discovering virtual machines")

	_, err = discoverInputs(context.Background(), &mockResourceGraphClient{}, defaultInputs(), logrus.New())
	assert.ErrorContains(t, err, "summarizing virtual machines in eastus2")
}

func TestExportEstimate(t *testing.T) {
	workingFolder := t.TempDir()
	primary := types.NewCostBreakdown()
	primary.Add(types.CostComponent{Name: types.CostComponentComputeVM, Amount: decimal.RequireFromString("10")})
	estimate := &types.Estimate{Inputs: defaultInputs(), Primary: primary, DR: types.NewCostBreakdown()}

	err := exportEstimate(estimate, []string{exportJson, exportCsv, exportHcl}, workingFolder, logrus.New())

	require.NoError(t, err)
	for _, fileName := range []string{json.EstimateFileName, csv.CostsFileName, hcl.LocalsFileName} {
		_, statErr := os.Stat(filepath.Join(workingFolder, fileName))
		assert.NoError(t, statErr, fileName)
	}
}

func TestExportEstimate_MissingFolder(t *testing.T) {
	estimate := &types.Estimate{Inputs: defaultInputs(), Primary: types.NewCostBreakdown(), DR: types.NewCostBreakdown()}

	err := exportEstimate(estimate, []string{exportCsv}, filepath.Join(t.TempDir(), "missing"), logrus.New())

	assert.ErrorContains(t, err, "exporting csv")
}
