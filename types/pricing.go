package types

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PriceTypeConsumption        = "Consumption"
	PriceTypeReservation        = "Reservation"
	PriceTypeDevTestConsumption = "DevTestConsumption"
)

// PriceRecord is a single item returned by the Azure Retail Prices API.
type PriceRecord struct {
	CurrencyCode         string          `json:"currencyCode"`
	TierMinimumUnits     decimal.Decimal `json:"tierMinimumUnits"`
	RetailPrice          decimal.Decimal `json:"retailPrice"`
	UnitPrice            decimal.Decimal `json:"unitPrice"`
	ArmRegionName        string          `json:"armRegionName"`
	Location             string          `json:"location"`
	EffectiveStartDate   time.Time       `json:"effectiveStartDate"`
	MeterID              string          `json:"meterId"`
	MeterName            string          `json:"meterName"`
	ProductID            string          `json:"productId"`
	SkuID                string          `json:"skuId"`
	ProductName          string          `json:"productName"`
	SkuName              string          `json:"skuName"`
	ServiceName          string          `json:"serviceName"`
	ServiceID            string          `json:"serviceId"`
	ServiceFamily        string          `json:"serviceFamily"`
	UnitOfMeasure        string          `json:"unitOfMeasure"`
	Type                 string          `json:"type"`
	IsPrimaryMeterRegion bool            `json:"isPrimaryMeterRegion"`
	ArmSkuName           string          `json:"armSkuName"`
}

// SortKey orders records that share a price so selection does not depend on response order.
func (record PriceRecord) SortKey() string {
	return record.MeterID + "|" + record.ProductName + "|" + record.SkuName + "|" + record.MeterName + "|" + record.ArmSkuName
}
