package discovery

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/azure/vm-dr-cost-estimator/types"
)

// Summary describes the dominant VM shape of a discovered deployment.
type Summary struct {
	VMSize         string
	OS             types.OSFamily
	Instances      int
	DiskRedundancy types.Redundancy
	Skipped        int
}

// Summarize picks the most common VM size (ties go to the lexicographically smallest) and
// describes the machines of that size. Disk redundancy is ZRS only when every OS disk of that size is ZRS.
func Summarize(virtualMachines []*types.GraphVirtualMachine) (*Summary, error) {
	counts := map[string]int{}
	for _, virtualMachine := range virtualMachines {
		if virtualMachine.VMSize == "" {
			continue
		}
		counts[virtualMachine.VMSize]++
	}
	if len(counts) == 0 {
		return nil, errors.New("no virtual machines with a known size were discovered")
	}

	sizes := make([]string, 0, len(counts))
	for size := range counts {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool {
		if counts[sizes[i]] != counts[sizes[j]] {
			return counts[sizes[i]] > counts[sizes[j]]
		}
		return sizes[i] < sizes[j]
	})
	dominant := sizes[0]

	summary := &Summary{
		VMSize:         dominant,
		OS:             types.OSFamilyLinux,
		DiskRedundancy: types.RedundancyZRS,
	}
	for _, virtualMachine := range virtualMachines {
		if virtualMachine.VMSize != dominant {
			summary.Skipped++
			continue
		}
		summary.Instances++
		if strings.EqualFold(virtualMachine.OSType, "windows") {
			summary.OS = types.OSFamilyWindows
		}
		if !strings.HasSuffix(strings.ToUpper(virtualMachine.OSDiskStorageAccount), "_ZRS") {
			summary.DiskRedundancy = types.RedundancyLRS
		}
	}
	return summary, nil
}

// Apply overlays the discovered shape onto the configured inputs.
func Apply(inputs types.EstimateInputs, summary *Summary) types.EstimateInputs {
	inputs.VMSize = summary.VMSize
	inputs.OS = summary.OS
	inputs.Instances = summary.Instances
	inputs.DiskRedundancy = summary.DiskRedundancy
	return inputs
}
