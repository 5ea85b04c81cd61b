package csv

import (
	csvwriter "encoding/csv"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/azure/vm-dr-cost-estimator/filepathparser"
	"github.com/azure/vm-dr-cost-estimator/types"
)

const CostsFileName = "costs.csv"

type ICostCsvClient interface {
	Export(estimate *types.Estimate) (string, error)
}

type CostCsvClient struct {
	WorkingFolderPath string
	FileName          string
	Logger            *logrus.Logger
}

type CostCsv struct {
	Header []string
	Rows   []*CostCsvRow
}

func NewCostCsvClient(workingFolderPath string, logger *logrus.Logger) *CostCsvClient {
	return &CostCsvClient{
		WorkingFolderPath: workingFolderPath,
		FileName:          CostsFileName,
		Logger:            logger,
	}
}

func NewCostCsv() *CostCsv {
	return &CostCsv{Header: []string{"Phase", "Component", "Quantity", "Unit Price", "Monthly Cost", "Currency", "Meter"}}
}

func (csv *CostCsv) AddRow(row *CostCsvRow) {
	csv.Rows = append(csv.Rows, row)
}

type CostCsvRow struct {
	Phase       types.Phase
	Component   string
	Quantity    string
	UnitPrice   string
	MonthlyCost string
	Currency    string
	Meter       string
}

// Rows keeps component order within each phase and ends each phase with a total row.
func (csv *CostCsv) addBreakdown(phase types.Phase, breakdown *types.CostBreakdown, currency string) {
	for _, component := range breakdown.Components {
		meter := ""
		if component.Record != nil {
			meter = strings.TrimSpace(component.Record.ProductName + " / " + component.Record.MeterName)
		}
		csv.AddRow(&CostCsvRow{
			Phase:       phase,
			Component:   component.Name,
			Quantity:    component.Quantity.String(),
			UnitPrice:   component.UnitPrice.String(),
			MonthlyCost: component.Amount.StringFixed(2),
			Currency:    currency,
			Meter:       meter,
		})
	}
	csv.AddRow(&CostCsvRow{
		Phase:       phase,
		Component:   "total",
		MonthlyCost: breakdown.Total.StringFixed(2),
		Currency:    currency,
	})
}

func (csvClient *CostCsvClient) Export(estimate *types.Estimate) (string, error) {
	costCsv := NewCostCsv()
	costCsv.addBreakdown(types.PhasePrimary, estimate.Primary, estimate.Inputs.Currency)
	costCsv.addBreakdown(types.PhaseDR, estimate.DR, estimate.Inputs.Currency)

	return csvClient.writeCsv(costCsv)
}

func (csvClient *CostCsvClient) writeCsv(costCsv *CostCsv) (string, error) {
	csvData := [][]string{costCsv.Header}
	for _, row := range costCsv.Rows {
		csvData = append(csvData, []string{
			string(row.Phase),
			row.Component,
			row.Quantity,
			row.UnitPrice,
			row.MonthlyCost,
			row.Currency,
			row.Meter,
		})
	}

	csvFilePath := filepathparser.JoinWorkingFolder(csvClient.WorkingFolderPath, csvClient.FileName)
	csvFile, err := os.Create(csvFilePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to create file")
	}
	defer csvFile.Close()

	csvWriter := csvwriter.NewWriter(csvFile)
	if err := csvWriter.WriteAll(csvData); err != nil {
		return "", errors.Wrap(err, "failed to write CSV file")
	}

	csvClient.Logger.Infof("Costs written to %s", csvFilePath)
	return csvFilePath, nil
}
