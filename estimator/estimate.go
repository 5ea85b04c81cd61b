package estimator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/azure/vm-dr-cost-estimator/topology"
	"github.com/azure/vm-dr-cost-estimator/types"
)

const coldDRNote = "Cold DR excludes Azure Site Recovery per-instance fees and replication egress; add those separately."

type IEstimateClient interface {
	Estimate(ctx context.Context, inputs types.EstimateInputs) (*types.Estimate, error)
}

type EstimateClient struct {
	CostClient ICostClient
	Logger     *logrus.Logger
}

func NewEstimateClient(costClient ICostClient, logger *logrus.Logger) *EstimateClient {
	return &EstimateClient{
		CostClient: costClient,
		Logger:     logger,
	}
}

// Estimate prices the primary region and then the DR region. A failure is returned as a
// *types.PhaseError naming the phase; DR is never started when primary fails.
func (estimateClient *EstimateClient) Estimate(ctx context.Context, inputs types.EstimateInputs) (*types.Estimate, error) {
	primaryPlan, err := topology.PrimaryPlan(inputs)
	if err != nil {
		return nil, &types.PhaseError{Phase: types.PhasePrimary, Err: err}
	}

	estimateClient.Logger.Infof("Computing primary costs for %d x %s in %s", primaryPlan.InstanceCount, primaryPlan.VMSize, primaryPlan.Region)
	primary, err := estimateClient.CostClient.ComputeCosts(ctx, primaryPlan)
	if err != nil {
		return nil, &types.PhaseError{Phase: types.PhasePrimary, Err: err}
	}

	drPlan, err := topology.DRPlan(inputs)
	if err != nil {
		return nil, &types.PhaseError{Phase: types.PhaseDR, Err: err}
	}

	estimateClient.Logger.Infof("Computing %s DR costs: %d instances, %d disks in %s", inputs.DRMode, drPlan.InstanceCount, drPlan.DiskCount, drPlan.Region)
	dr, err := estimateClient.CostClient.ComputeCosts(ctx, drPlan)
	if err != nil {
		return nil, &types.PhaseError{Phase: types.PhaseDR, Err: err}
	}

	estimate := &types.Estimate{
		Inputs:  inputs,
		Primary: primary,
		DR:      dr,
		Notes:   []string{},
	}
	if inputs.DRMode == types.DRModeCold {
		estimate.Notes = append(estimate.Notes, coldDRNote)
	}
	return estimate, nil
}
