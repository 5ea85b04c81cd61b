package json

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/azure/vm-dr-cost-estimator/filepathparser"
	"github.com/azure/vm-dr-cost-estimator/types"
)

const EstimateFileName = "estimate.json"

type IJsonClient interface {
	Export(estimate *types.Estimate, fileName string) (string, error)
}

type JsonClient struct {
	WorkingFolderPath string
	Logger            *logrus.Logger
}

func NewJsonClient(workingFolderPath string, logger *logrus.Logger) *JsonClient {
	return &JsonClient{
		WorkingFolderPath: workingFolderPath,
		Logger:            logger,
	}
}

type estimateDocument struct {
	Inputs  inputsDocument    `json:"inputs"`
	Primary breakdownDocument `json:"primary"`
	DR      breakdownDocument `json:"dr"`
	Notes   []string          `json:"notes,omitempty"`
}

type inputsDocument struct {
	PrimaryRegion       string           `json:"primaryRegion"`
	DRRegion            string           `json:"drRegion"`
	VMSize              string           `json:"vmSize"`
	OS                  types.OSFamily   `json:"os"`
	Instances           int              `json:"instances"`
	OSDiskSku           string           `json:"osDisk"`
	DiskRedundancy      types.Redundancy `json:"diskRedundancy"`
	InterzoneGBPerMonth decimal.Decimal  `json:"interzoneGb"`
	Currency            string           `json:"currency"`
	DRMode              types.DRMode     `json:"drMode"`
}

type breakdownDocument struct {
	Components []componentDocument `json:"components"`
	Total      decimal.Decimal     `json:"total"`
}

type componentDocument struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
	MeterID   string          `json:"meterId,omitempty"`
	MeterName string          `json:"meterName,omitempty"`
	Product   string          `json:"productName,omitempty"`
	Unit      string          `json:"unitOfMeasure,omitempty"`
}

func newBreakdownDocument(breakdown *types.CostBreakdown) breakdownDocument {
	document := breakdownDocument{
		Components: []componentDocument{},
		Total:      breakdown.Total,
	}
	for _, component := range breakdown.Components {
		componentDocument := componentDocument{
			Name:      component.Name,
			Quantity:  component.Quantity,
			UnitPrice: component.UnitPrice,
			Amount:    component.Amount,
		}
		if component.Record != nil {
			componentDocument.MeterID = component.Record.MeterID
			componentDocument.MeterName = component.Record.MeterName
			componentDocument.Product = component.Record.ProductName
			componentDocument.Unit = component.Record.UnitOfMeasure
		}
		document.Components = append(document.Components, componentDocument)
	}
	return document
}

func (jsonClient *JsonClient) Export(estimate *types.Estimate, fileName string) (string, error) {
	inputs := estimate.Inputs
	document := estimateDocument{
		Inputs: inputsDocument{
			PrimaryRegion:       inputs.PrimaryRegion,
			DRRegion:            inputs.DRRegion,
			VMSize:              inputs.VMSize,
			OS:                  inputs.OS,
			Instances:           inputs.Instances,
			OSDiskSku:           inputs.OSDiskSku,
			DiskRedundancy:      inputs.DiskRedundancy,
			InterzoneGBPerMonth: inputs.InterzoneGBPerMonth,
			Currency:            inputs.Currency,
			DRMode:              inputs.DRMode,
		},
		Primary: newBreakdownDocument(estimate.Primary),
		DR:      newBreakdownDocument(estimate.DR),
		Notes:   estimate.Notes,
	}

	content, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshalling estimate")
	}

	jsonFilePath := filepathparser.JoinWorkingFolder(jsonClient.WorkingFolderPath, fileName)
	if err := os.WriteFile(jsonFilePath, content, 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", jsonFilePath)
	}

	jsonClient.Logger.Infof("Estimate written to %s", jsonFilePath)
	return jsonFilePath, nil
}
