package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure/vm-dr-cost-estimator/types"
)

func TestSummarize_DominantSize(t *testing.T) {
	virtualMachines := []*types.GraphVirtualMachine{
		{ID: "1", VMSize: "Standard_D8s_v5", OSType: "Windows", OSDiskStorageAccount: "Premium_ZRS"},
		{ID: "2", VMSize: "Standard_D8s_v5", OSType: "Windows", OSDiskStorageAccount: "Premium_ZRS"},
		{ID: "3", VMSize: "Standard_B2ms", OSType: "Linux", OSDiskStorageAccount: "Premium_LRS"},
		{ID: "4", VMSize: ""},
	}

	summary, err := Summarize(virtualMachines)

	require.NoError(t, err)
	assert.Equal(t, "Standard_D8s_v5", summary.VMSize)
	assert.Equal(t, types.OSFamilyWindows, summary.OS)
	assert.Equal(t, 2, summary.Instances)
	assert.Equal(t, types.RedundancyZRS, summary.DiskRedundancy)
	assert.Equal(t, 2, summary.Skipped)
}

func TestSummarize_TieBreaksBySizeName(t *testing.T) {
	virtualMachines := []*types.GraphVirtualMachine{
		{ID: "1", VMSize: "Standard_E4s_v5", OSType: "Linux", OSDiskStorageAccount: "Premium_LRS"},
		{ID: "2", VMSize: "Standard_D4s_v5", OSType: "Linux", OSDiskStorageAccount: "Premium_ZRS"},
	}

	summary, err := Summarize(virtualMachines)

	require.NoError(t, err)
	assert.Equal(t, "Standard_D4s_v5", summary.VMSize)
	assert.Equal(t, types.OSFamilyLinux, summary.OS)
	assert.Equal(t, types.RedundancyZRS, summary.DiskRedundancy)
}

func TestSummarize_MixedRedundancyFallsBackToLRS(t *testing.T) {
	virtualMachines := []*types.GraphVirtualMachine{
		{ID: "1", VMSize: "Standard_D4s_v5", OSDiskStorageAccount: "Premium_ZRS"},
		{ID: "2", VMSize: "Standard_D4s_v5", OSDiskStorageAccount: "Premium_LRS"},
	}

	summary, err := Summarize(virtualMachines)

	require.NoError(t, err)
	assert.Equal(t, types.RedundancyLRS, summary.DiskRedundancy)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize([]*types.GraphVirtualMachine{})
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	inputs := types.EstimateInputs{PrimaryRegion: "eastus2", VMSize: "D8s v5", OS: types.OSFamilyWindows, Instances: 2, DiskRedundancy: types.RedundancyLRS, OSDiskSku: "P10"}
	summary := &Summary{VMSize: "Standard_E4s_v5", OS: types.OSFamilyLinux, Instances: 5, DiskRedundancy: types.RedundancyZRS}

	applied := Apply(inputs, summary)

	assert.Equal(t, "Standard_E4s_v5", applied.VMSize)
	assert.Equal(t, types.OSFamilyLinux, applied.OS)
	assert.Equal(t, 5, applied.Instances)
	assert.Equal(t, types.RedundancyZRS, applied.DiskRedundancy)
	assert.Equal(t, "P10", applied.OSDiskSku)
	assert.Equal(t, "eastus2", applied.PrimaryRegion)
}
