package azure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"

	"github.com/azure/vm-dr-cost-estimator/types"
)

const virtualMachinesQuery = `Resources
| where type =~ 'microsoft.compute/virtualmachines'
| where location =~ '%s'
| project id, name, location,
    vmSize = tostring(properties.hardwareProfile.vmSize),
    osType = tostring(properties.storageProfile.osDisk.osType),
    osDiskStorageAccountType = tostring(properties.storageProfile.osDisk.managedDisk.storageAccountType)`

var guidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type IResourceGraphClient interface {
	GetVirtualMachines(ctx context.Context, region string) ([]*types.GraphVirtualMachine, error)
}

type ResourceGraphClient struct {
	Cloud                    string
	ManagementGroupIDs       []*string
	SubscriptionIDs          []*string
	IgnoreResourceIDPatterns []string
	Logger                   *logrus.Logger
}

func NewResourceGraphClient(cloudName string, managementGroupIDs []string, subscriptionIDs []string, ignoreResourceIDPatterns []string, logger *logrus.Logger) *ResourceGraphClient {
	return &ResourceGraphClient{
		Cloud:                    cloudName,
		ManagementGroupIDs:       to.SliceOfPtrs(managementGroupIDs...),
		SubscriptionIDs:          to.SliceOfPtrs(subscriptionIDs...),
		IgnoreResourceIDPatterns: ignoreResourceIDPatterns,
		Logger:                   logger,
	}
}

func CloudConfiguration(cloudName string) (cloud.Configuration, error) {
	switch strings.ToLower(cloudName) {
	case "", "azurepublic":
		return cloud.AzurePublic, nil
	case "azurechina":
		return cloud.AzureChina, nil
	case "azureusgovernment":
		return cloud.AzureGovernment, nil
	default:
		return cloud.Configuration{}, fmt.Errorf("unknown cloud %q", cloudName)
	}
}

func (graph *ResourceGraphClient) GetVirtualMachines(ctx context.Context, region string) ([]*types.GraphVirtualMachine, error) {
	if len(graph.SubscriptionIDs) == 0 && len(graph.ManagementGroupIDs) == 0 {
		return nil, errors.New("subscription IDs or management group IDs must be provided")
	}
	for _, subscriptionID := range graph.SubscriptionIDs {
		if !guidRegex.MatchString(*subscriptionID) {
			return nil, fmt.Errorf("invalid subscription ID: %s", *subscriptionID)
		}
	}

	cloudConfiguration, err := CloudConfiguration(graph.Cloud)
	if err != nil {
		return nil, err
	}

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		ClientOptions: azcore.ClientOptions{Cloud: cloudConfiguration},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Azure credential")
	}

	resourcesClient, err := armresourcegraph.NewClient(cred, &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{Cloud: cloudConfiguration},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Resource Graph client")
	}

	query := types.ResourceGraphQuery{
		Name:  "virtual-machines",
		Query: fmt.Sprintf(virtualMachinesQuery, strings.ReplaceAll(region, "'", "")),
	}

	virtualMachines := map[string]*types.GraphVirtualMachine{}
	order := []string{}

	if len(graph.SubscriptionIDs) > 0 {
		graph.Logger.Info("Running graph queries for Subscriptions")
		request := armresourcegraph.QueryRequest{
			Options: &armresourcegraph.QueryRequestOptions{
				AuthorizationScopeFilter: to.Ptr(armresourcegraph.AuthorizationScopeFilterAtScopeAndBelow),
				ResultFormat:             to.Ptr(armresourcegraph.ResultFormatObjectArray),
			},
			Subscriptions: graph.SubscriptionIDs,
		}
		if err := graph.runQuery(ctx, resourcesClient, query, request, virtualMachines, &order); err != nil {
			return nil, err
		}
	}

	if len(graph.ManagementGroupIDs) > 0 {
		graph.Logger.Info("Running graph queries for Management Groups")
		request := armresourcegraph.QueryRequest{
			Options: &armresourcegraph.QueryRequestOptions{
				AuthorizationScopeFilter: to.Ptr(armresourcegraph.AuthorizationScopeFilterAtScopeAndBelow),
				ResultFormat:             to.Ptr(armresourcegraph.ResultFormatObjectArray),
			},
			ManagementGroups: graph.ManagementGroupIDs,
		}
		if err := graph.runQuery(ctx, resourcesClient, query, request, virtualMachines, &order); err != nil {
			return nil, err
		}
	}

	results := make([]*types.GraphVirtualMachine, 0, len(order))
	for _, id := range order {
		results = append(results, virtualMachines[id])
	}
	graph.Logger.Infof("Found %d virtual machines in %s", len(results), region)
	return results, nil
}

func (graph *ResourceGraphClient) runQuery(ctx context.Context, resourcesClient *armresourcegraph.Client, query types.ResourceGraphQuery, request armresourcegraph.QueryRequest, virtualMachines map[string]*types.GraphVirtualMachine, order *[]string) error {
	graph.Logger.Infof("Running Resource Graph Query: %s", query.Name)
	graph.Logger.Tracef("Query: %s", query.Query)

	request.Query = to.Ptr(query.Query)
	for {
		res, err := resourcesClient.Resources(ctx, request, nil)
		if err != nil {
			return errors.Wrapf(err, "running Resource Graph query %s", query.Name)
		}

		rows, ok := res.QueryResponse.Data.([]any)
		if !ok {
			return fmt.Errorf("unexpected Resource Graph result format %T", res.QueryResponse.Data)
		}

		for _, virtualMachine := range virtualMachinesFromRows(rows, graph.IgnoreResourceIDPatterns, graph.Logger) {
			if _, exists := virtualMachines[virtualMachine.ID]; exists {
				graph.Logger.Tracef("Skipping duplicate Resource ID: %s", virtualMachine.ID)
				continue
			}
			virtualMachines[virtualMachine.ID] = virtualMachine
			*order = append(*order, virtualMachine.ID)
		}

		if res.QueryResponse.SkipToken == nil || *res.QueryResponse.SkipToken == "" {
			return nil
		}
		request.Options.SkipToken = res.QueryResponse.SkipToken
	}
}

func virtualMachinesFromRows(rows []any, ignoreResourceIDPatterns []string, logger *logrus.Logger) []*types.GraphVirtualMachine {
	virtualMachines := []*types.GraphVirtualMachine{}

	for _, row := range rows {
		resource, ok := row.(map[string]any)
		if !ok {
			continue
		}

		resourceID := stringField(resource, "id")
		if resourceID == "" {
			continue
		}

		shouldIgnore := false
		for _, pattern := range ignoreResourceIDPatterns {
			matched, err := regexp.MatchString(pattern, resourceID)
			if err != nil {
				logger.Debugf("Error matching pattern %s: %v", pattern, err)
				continue
			}
			if matched {
				shouldIgnore = true
				break
			}
		}
		if shouldIgnore {
			logger.Tracef("Ignoring Resource ID: %s", resourceID)
			continue
		}

		logger.Tracef("Adding Resource ID: %s", resourceID)
		virtualMachines = append(virtualMachines, &types.GraphVirtualMachine{
			ID:                   resourceID,
			Name:                 stringField(resource, "name"),
			Location:             stringField(resource, "location"),
			VMSize:               stringField(resource, "vmSize"),
			OSType:               stringField(resource, "osType"),
			OSDiskStorageAccount: stringField(resource, "osDiskStorageAccountType"),
		})
	}

	return virtualMachines
}

func stringField(resource map[string]any, key string) string {
	value, _ := resource[key].(string)
	return value
}
