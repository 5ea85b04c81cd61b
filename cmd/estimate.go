/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"strings"

	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azure/vm-dr-cost-estimator/azure"
	"github.com/azure/vm-dr-cost-estimator/config"
	"github.com/azure/vm-dr-cost-estimator/csv"
	"github.com/azure/vm-dr-cost-estimator/discovery"
	"github.com/azure/vm-dr-cost-estimator/estimator"
	"github.com/azure/vm-dr-cost-estimator/filepathparser"
	"github.com/azure/vm-dr-cost-estimator/hcl"
	"github.com/azure/vm-dr-cost-estimator/json"
	"github.com/azure/vm-dr-cost-estimator/report"
	"github.com/azure/vm-dr-cost-estimator/types"
)

const (
	exportJson = "json"
	exportCsv  = "csv"
	exportHcl  = "hcl"
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate monthly primary and DR costs",
	Long: `The estimate command performs the cost workflow:

1. Resolves the DR topology from the DR mode (cold, warm or hot)
2. Queries the Azure Retail Prices API for VM, managed disk and bandwidth meters
3. Sums the monthly compute, OS disk and inter-zone data costs per region
4. Prints the breakdown and optionally exports it as JSON, CSV or Terraform locals

Examples:
  # Defaults: 2 x D8s v5 Windows in eastus2 with cold DR in centralus
  vm-dr-cost-estimator estimate

  # Hot DR with ZRS disks and 500 GB of inter-zone traffic, priced in EUR
  vm-dr-cost-estimator estimate --primary westeurope --dr northeurope --drMode hot --diskRedundancy zrs --interzoneGb 500 --currency EUR

  # Take VM size, OS and count from the running deployment and export every format
  vm-dr-cost-estimator estimate --discover --subscriptionIDs 00000000-0000-0000-0000-000000000000 --export json,csv,hcl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configureLogger(); err != nil {
			return err
		}
		azlog.SetListener(func(event azlog.Event, message string) {
			log.Tracef("azcore %s: %s", event, message)
		})

		for key, value := range viper.GetViper().AllSettings() {
			log.Debugf("Command Flag: %s = %v", key, value)
		}

		workingFolderPath, err := filepathparser.ParsePath(viper.GetString(config.KeyWorkingFolderPath))
		if err != nil {
			return errors.Wrap(err, "getting working folder path")
		}
		exportFormats, err := parseExportFormats(viper.GetStringSlice(config.KeyExport))
		if err != nil {
			return err
		}

		inputs, err := config.LoadInputs(viper.GetViper())
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		if viper.GetBool(config.KeyDiscover) {
			resourceGraphClient := azure.NewResourceGraphClient(
				viper.GetString(config.KeyCloud),
				viper.GetStringSlice(config.KeyManagementGroupIDs),
				viper.GetStringSlice(config.KeySubscriptionIDs),
				viper.GetStringSlice(config.KeyIgnoreResourceIDPatterns),
				log,
			)
			inputs, err = discoverInputs(ctx, resourceGraphClient, inputs, log)
			if err != nil {
				return err
			}
		}

		pricesClient := azure.NewRetailPricesClient(
			viper.GetString(config.KeyPricesEndpoint),
			viper.GetDuration(config.KeyRequestTimeout),
			nil,
			log,
		)
		costClient := estimator.NewCostClient(pricesClient, log)
		estimateClient := estimator.NewEstimateClient(costClient, log)

		estimate, err := estimateClient.Estimate(ctx, inputs)
		if err != nil {
			return err
		}

		if err := report.WriteText(cmd.OutOrStdout(), estimate); err != nil {
			return errors.Wrap(err, "writing report")
		}

		return exportEstimate(estimate, exportFormats, workingFolderPath, log)
	},
}

func parseExportFormats(values []string) ([]string, error) {
	formats := []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			format := strings.ToLower(strings.TrimSpace(part))
			switch format {
			case "":
				continue
			case exportJson, exportCsv, exportHcl:
				formats = append(formats, format)
			default:
				return nil, errors.Errorf("unknown export format %q, expected json, csv or hcl", part)
			}
		}
	}
	return formats, nil
}

func discoverInputs(ctx context.Context, resourceGraphClient azure.IResourceGraphClient, inputs types.EstimateInputs, logger *logrus.Logger) (types.EstimateInputs, error) {
	virtualMachines, err := resourceGraphClient.GetVirtualMachines(ctx, inputs.PrimaryRegion)
	if err != nil {
		return types.EstimateInputs{}, errors.Wrap(err, "discovering virtual machines")
	}
	summary, err := discovery.Summarize(virtualMachines)
	if err != nil {
		return types.EstimateInputs{}, errors.Wrapf(err, "summarizing virtual machines in %s", inputs.PrimaryRegion)
	}
	logger.Infof("Discovered %d x %s (%s, %s OS disks) in %s, %d machines of other sizes ignored",
		summary.Instances, summary.VMSize, summary.OS, strings.ToUpper(string(summary.DiskRedundancy)), inputs.PrimaryRegion, summary.Skipped)

	inputs = discovery.Apply(inputs, summary)
	if err := config.Validate(inputs); err != nil {
		return types.EstimateInputs{}, err
	}
	return inputs, nil
}

func exportEstimate(estimate *types.Estimate, formats []string, workingFolderPath string, logger *logrus.Logger) error {
	for _, format := range formats {
		var err error
		switch format {
		case exportJson:
			_, err = json.NewJsonClient(workingFolderPath, logger).Export(estimate, json.EstimateFileName)
		case exportCsv:
			_, err = csv.NewCostCsvClient(workingFolderPath, logger).Export(estimate)
		case exportHcl:
			_, err = hcl.NewHclClient(workingFolderPath, logger).WriteLocals(estimate, hcl.LocalsFileName)
		}
		if err != nil {
			return errors.Wrapf(err, "exporting %s", format)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringP("primary", "p", "eastus2", "Primary Azure region")
	viper.BindPFlag(config.KeyPrimaryRegion, estimateCmd.Flags().Lookup("primary"))
	estimateCmd.Flags().StringP("dr", "d", "centralus", "DR Azure region")
	viper.BindPFlag(config.KeyDRRegion, estimateCmd.Flags().Lookup("dr"))
	estimateCmd.Flags().StringP("vmSize", "s", "D8s v5", "VM size, for example \"D8s v5\" or Standard_D8s_v5")
	viper.BindPFlag(config.KeyVMSize, estimateCmd.Flags().Lookup("vmSize"))
	estimateCmd.Flags().StringP("os", "o", "windows", "Operating system (windows or linux)")
	viper.BindPFlag(config.KeyOS, estimateCmd.Flags().Lookup("os"))
	estimateCmd.Flags().IntP("instances", "n", 2, "Number of primary VM instances")
	viper.BindPFlag(config.KeyInstances, estimateCmd.Flags().Lookup("instances"))
	estimateCmd.Flags().String("osDisk", "P10", "Premium SSD OS disk tier")
	viper.BindPFlag(config.KeyOSDisk, estimateCmd.Flags().Lookup("osDisk"))
	estimateCmd.Flags().String("diskRedundancy", "lrs", "OS disk redundancy (lrs or zrs)")
	viper.BindPFlag(config.KeyDiskRedundancy, estimateCmd.Flags().Lookup("diskRedundancy"))
	estimateCmd.Flags().String("interzoneGb", "0", "Inter-zone data transfer in GB per month for the primary region")
	viper.BindPFlag(config.KeyInterzoneGB, estimateCmd.Flags().Lookup("interzoneGb"))
	estimateCmd.Flags().StringP("currency", "c", "USD", "Currency code passed to the Retail Prices API")
	viper.BindPFlag(config.KeyCurrency, estimateCmd.Flags().Lookup("currency"))
	estimateCmd.Flags().StringP("drMode", "m", "cold", "DR mode (cold, warm or hot)")
	viper.BindPFlag(config.KeyDRMode, estimateCmd.Flags().Lookup("drMode"))

	estimateCmd.Flags().StringP("workingFolderPath", "w", ".", "Working folder path to write exports to")
	viper.BindPFlag(config.KeyWorkingFolderPath, estimateCmd.Flags().Lookup("workingFolderPath"))
	estimateCmd.Flags().StringSliceP("export", "e", []string{}, "Export formats to write (json, csv, hcl)")
	viper.BindPFlag(config.KeyExport, estimateCmd.Flags().Lookup("export"))
	estimateCmd.Flags().String("pricesEndpoint", azure.DefaultRetailPricesEndpoint, "Retail Prices API endpoint")
	viper.BindPFlag(config.KeyPricesEndpoint, estimateCmd.Flags().Lookup("pricesEndpoint"))
	estimateCmd.Flags().Duration("requestTimeout", azure.DefaultRequestTimeout, "Timeout for each Retail Prices API request")
	viper.BindPFlag(config.KeyRequestTimeout, estimateCmd.Flags().Lookup("requestTimeout"))

	estimateCmd.Flags().Bool("discover", false, "Read VM size, OS, count and disk redundancy from the VMs running in the primary region")
	viper.BindPFlag(config.KeyDiscover, estimateCmd.Flags().Lookup("discover"))
	estimateCmd.Flags().String("cloud", "AzurePublic", "Azure cloud used for discovery (AzurePublic, AzureChina, AzureUSGovernment)")
	viper.BindPFlag(config.KeyCloud, estimateCmd.Flags().Lookup("cloud"))
	estimateCmd.Flags().StringSlice("subscriptionIDs", []string{}, "Subscription IDs to search during discovery")
	viper.BindPFlag(config.KeySubscriptionIDs, estimateCmd.Flags().Lookup("subscriptionIDs"))
	estimateCmd.Flags().StringSlice("managementGroupIDs", []string{}, "Management group IDs to search during discovery")
	viper.BindPFlag(config.KeyManagementGroupIDs, estimateCmd.Flags().Lookup("managementGroupIDs"))
	estimateCmd.Flags().StringSlice("ignoreResourceIDPatterns", []string{}, "Regular expressions of VM resource IDs to ignore during discovery")
	viper.BindPFlag(config.KeyIgnoreResourceIDPatterns, estimateCmd.Flags().Lookup("ignoreResourceIDPatterns"))
}
