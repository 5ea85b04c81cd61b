package hcl

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/azure/vm-dr-cost-estimator/filepathparser"
	"github.com/azure/vm-dr-cost-estimator/types"
)

const LocalsFileName = "estimate_costs.tf"

type IHclClient interface {
	WriteLocals(estimate *types.Estimate, fileName string) (string, error)
}

type HclClient struct {
	WorkingFolderPath string
	Logger            *logrus.Logger
}

func NewHclClient(workingFolderPath string, logger *logrus.Logger) *HclClient {
	return &HclClient{
		WorkingFolderPath: workingFolderPath,
		Logger:            logger,
	}
}

// WriteLocals writes the estimate as a Terraform locals block so it can be referenced from a module.
func (hclClient *HclClient) WriteLocals(estimate *types.Estimate, fileName string) (string, error) {
	hclFilePath := filepathparser.JoinWorkingFolder(hclClient.WorkingFolderPath, fileName)
	hclFile := hclwrite.NewEmptyFile()

	localsBlock := hclFile.Body().AppendNewBlock("locals", nil)
	body := localsBlock.Body()
	body.SetAttributeValue("vm_dr_cost_currency", cty.StringVal(estimate.Inputs.Currency))
	body.SetAttributeValue("vm_dr_cost_inputs", cty.ObjectVal(map[string]cty.Value{
		"primary_region":  cty.StringVal(estimate.Inputs.PrimaryRegion),
		"dr_region":       cty.StringVal(estimate.Inputs.DRRegion),
		"vm_size":         cty.StringVal(estimate.Inputs.VMSize),
		"os":              cty.StringVal(string(estimate.Inputs.OS)),
		"instances":       cty.NumberIntVal(int64(estimate.Inputs.Instances)),
		"os_disk":         cty.StringVal(estimate.Inputs.OSDiskSku),
		"disk_redundancy": cty.StringVal(string(estimate.Inputs.DiskRedundancy)),
		"dr_mode":         cty.StringVal(string(estimate.Inputs.DRMode)),
	}))
	body.AppendNewline()
	body.SetAttributeValue("vm_dr_cost_primary", breakdownValue(estimate.Primary))
	body.SetAttributeValue("vm_dr_cost_dr", breakdownValue(estimate.DR))

	if err := os.WriteFile(hclFilePath, hclFile.Bytes(), 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", hclFilePath)
	}

	hclClient.Logger.Infof("HCL locals file %s written to: %s", fileName, hclFilePath)
	return hclFilePath, nil
}

func breakdownValue(breakdown *types.CostBreakdown) cty.Value {
	values := map[string]cty.Value{
		"total": amountValue(breakdown.Total.StringFixed(2)),
	}
	for _, component := range breakdown.Components {
		values[component.Name] = amountValue(component.Amount.StringFixed(2))
	}
	return cty.ObjectVal(values)
}

func amountValue(amount string) cty.Value {
	return cty.MustParseNumberVal(amount)
}
