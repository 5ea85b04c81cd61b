package topology

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/azure/vm-dr-cost-estimator/types"
)

// ResolveDR returns the compute instance and disk counts provisioned in the DR region.
// Cold DR keeps replicated disks for every primary instance but runs no compute.
func ResolveDR(mode types.DRMode, primaryInstances int) (computeInstances int, diskCount int, err error) {
	if primaryInstances < 0 {
		return 0, 0, fmt.Errorf("instance count must not be negative, got %d", primaryInstances)
	}

	switch mode {
	case types.DRModeCold:
		return 0, primaryInstances, nil
	case types.DRModeWarm:
		return 1, 1, nil
	case types.DRModeHot:
		return primaryInstances, primaryInstances, nil
	default:
		return 0, 0, fmt.Errorf("unknown DR mode %q", mode)
	}
}

func PrimaryPlan(inputs types.EstimateInputs) (types.DeploymentPlan, error) {
	if inputs.Instances < 0 {
		return types.DeploymentPlan{}, fmt.Errorf("instance count must not be negative, got %d", inputs.Instances)
	}

	return types.DeploymentPlan{
		Phase:               types.PhasePrimary,
		Region:              inputs.PrimaryRegion,
		VMSize:              inputs.VMSize,
		OS:                  inputs.OS,
		InstanceCount:       inputs.Instances,
		DiskCount:           inputs.Instances,
		DiskSku:             inputs.OSDiskSku,
		DiskRedundancy:      inputs.DiskRedundancy,
		InterzoneGBPerMonth: inputs.InterzoneGBPerMonth,
		Currency:            inputs.Currency,
	}, nil
}

// DRPlan never carries inter-zone traffic; that estimate only applies to the primary region.
func DRPlan(inputs types.EstimateInputs) (types.DeploymentPlan, error) {
	computeInstances, diskCount, err := ResolveDR(inputs.DRMode, inputs.Instances)
	if err != nil {
		return types.DeploymentPlan{}, err
	}

	return types.DeploymentPlan{
		Phase:               types.PhaseDR,
		Region:              inputs.DRRegion,
		VMSize:              inputs.VMSize,
		OS:                  inputs.OS,
		InstanceCount:       computeInstances,
		DiskCount:           diskCount,
		DiskSku:             inputs.OSDiskSku,
		DiskRedundancy:      inputs.DiskRedundancy,
		InterzoneGBPerMonth: decimal.Zero,
		Currency:            inputs.Currency,
	}, nil
}
