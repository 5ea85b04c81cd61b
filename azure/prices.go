package azure

import (
	"context"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/azure/vm-dr-cost-estimator/types"
)

const (
	DefaultRetailPricesEndpoint = "https://prices.azure.com/api/retail/prices"
	DefaultRequestTimeout       = 60 * time.Second

	moduleName    = "vm-dr-cost-estimator"
	moduleVersion = "v0.1.0"
)

type IRetailPricesClient interface {
	Fetch(ctx context.Context, filter string, currency string) ([]types.PriceRecord, error)
}

type RetailPricesClient struct {
	Endpoint string
	Pipeline runtime.Pipeline
	Logger   *logrus.Logger
}

type retailPricesPage struct {
	BillingCurrency    string              `json:"BillingCurrency"`
	CustomerEntityID   string              `json:"CustomerEntityId"`
	CustomerEntityType string              `json:"CustomerEntityType"`
	Items              []types.PriceRecord `json:"Items"`
	NextPageLink       *string             `json:"NextPageLink"`
	Count              int                 `json:"Count"`
}

// NewRetailPricesClient builds a client that makes exactly one attempt per page.
// A nil transport uses the azcore default.
func NewRetailPricesClient(endpoint string, requestTimeout time.Duration, transport policy.Transporter, logger *logrus.Logger) *RetailPricesClient {
	if endpoint == "" {
		endpoint = DefaultRetailPricesEndpoint
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	options := &policy.ClientOptions{
		Retry: policy.RetryOptions{
			MaxRetries: -1,
			TryTimeout: requestTimeout,
		},
		Telemetry: policy.TelemetryOptions{
			ApplicationID: moduleName,
		},
	}
	if transport != nil {
		options.Transport = transport
	}

	return &RetailPricesClient{
		Endpoint: endpoint,
		Pipeline: runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{}, options),
		Logger:   logger,
	}
}

func (pricesClient *RetailPricesClient) Fetch(ctx context.Context, filter string, currency string) ([]types.PriceRecord, error) {
	pricesClient.Logger.Debugf("Querying Retail Prices API (%s): %s", currency, filter)

	request, err := runtime.NewRequest(ctx, http.MethodGet, pricesClient.Endpoint)
	if err != nil {
		return nil, &types.TransportError{URL: pricesClient.Endpoint, Err: err}
	}
	query := request.Raw().URL.Query()
	query.Set("currencyCode", currency)
	query.Set("$filter", filter)
	request.Raw().URL.RawQuery = query.Encode()

	records := []types.PriceRecord{}
	pageNumber := 1
	for {
		page, err := pricesClient.fetchPage(request)
		if err != nil {
			return nil, err
		}
		pricesClient.Logger.Tracef("Page %d returned %d items", pageNumber, len(page.Items))
		records = append(records, page.Items...)

		if page.NextPageLink == nil || *page.NextPageLink == "" {
			break
		}

		request, err = runtime.NewRequest(ctx, http.MethodGet, *page.NextPageLink)
		if err != nil {
			return nil, &types.TransportError{URL: *page.NextPageLink, Err: err}
		}
		pageNumber++
	}

	pricesClient.Logger.Debugf("Retail Prices API returned %d items over %d pages", len(records), pageNumber)
	return records, nil
}

func (pricesClient *RetailPricesClient) fetchPage(request *policy.Request) (*retailPricesPage, error) {
	url := request.Raw().URL.String()

	response, err := pricesClient.Pipeline.Do(request)
	if err != nil {
		return nil, &types.TransportError{URL: url, Err: err}
	}
	if !runtime.HasStatusCode(response, http.StatusOK) {
		return nil, &types.TransportError{URL: url, StatusCode: response.StatusCode, Err: runtime.NewResponseError(response)}
	}

	var page retailPricesPage
	if err := runtime.UnmarshalAsJSON(response, &page); err != nil {
		return nil, &types.TransportError{URL: url, StatusCode: response.StatusCode, Err: errors.Wrap(err, "decoding page")}
	}
	return &page, nil
}
