package config

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/azure/vm-dr-cost-estimator/types"
)

const (
	KeyPrimaryRegion            = "primary"
	KeyDRRegion                 = "dr"
	KeyVMSize                   = "vmSize"
	KeyOS                       = "os"
	KeyInstances                = "instances"
	KeyOSDisk                   = "osDisk"
	KeyDiskRedundancy           = "diskRedundancy"
	KeyInterzoneGB              = "interzoneGb"
	KeyCurrency                 = "currency"
	KeyDRMode                   = "drMode"
	KeyVerbosity                = "verbosity"
	KeyStructuredLogs           = "structuredLogs"
	KeyWorkingFolderPath        = "workingFolderPath"
	KeyExport                   = "export"
	KeyPricesEndpoint           = "pricesEndpoint"
	KeyRequestTimeout           = "requestTimeout"
	KeyDiscover                 = "discover"
	KeyCloud                    = "cloud"
	KeySubscriptionIDs          = "subscriptionIDs"
	KeyManagementGroupIDs       = "managementGroupIDs"
	KeyIgnoreResourceIDPatterns = "ignoreResourceIDPatterns"

	EnvPrefix = "VMDR"
)

var (
	regionRegex   = regexp.MustCompile(`^[a-z0-9]+$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	diskSkuRegex  = regexp.MustCompile(`^[A-Z][0-9]+$`)
)

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrimaryRegion, "eastus2")
	v.SetDefault(KeyDRRegion, "centralus")
	v.SetDefault(KeyVMSize, "D8s v5")
	v.SetDefault(KeyOS, string(types.OSFamilyWindows))
	v.SetDefault(KeyInstances, 2)
	v.SetDefault(KeyOSDisk, "P10")
	v.SetDefault(KeyDiskRedundancy, string(types.RedundancyLRS))
	v.SetDefault(KeyInterzoneGB, "0")
	v.SetDefault(KeyCurrency, "USD")
	v.SetDefault(KeyDRMode, string(types.DRModeCold))
}

// LoadInputs reads and validates the estimate inputs from viper.
func LoadInputs(v *viper.Viper) (types.EstimateInputs, error) {
	inputs := types.EstimateInputs{
		PrimaryRegion: strings.ToLower(strings.TrimSpace(v.GetString(KeyPrimaryRegion))),
		DRRegion:      strings.ToLower(strings.TrimSpace(v.GetString(KeyDRRegion))),
		VMSize:        strings.TrimSpace(v.GetString(KeyVMSize)),
		Instances:     v.GetInt(KeyInstances),
		OSDiskSku:     strings.ToUpper(strings.TrimSpace(v.GetString(KeyOSDisk))),
		Currency:      strings.ToUpper(strings.TrimSpace(v.GetString(KeyCurrency))),
	}

	var err error
	if inputs.OS, err = types.ParseOSFamily(v.GetString(KeyOS)); err != nil {
		return types.EstimateInputs{}, err
	}
	if inputs.DiskRedundancy, err = types.ParseRedundancy(v.GetString(KeyDiskRedundancy)); err != nil {
		return types.EstimateInputs{}, err
	}
	if inputs.DRMode, err = types.ParseDRMode(v.GetString(KeyDRMode)); err != nil {
		return types.EstimateInputs{}, err
	}

	interzoneGB := strings.TrimSpace(v.GetString(KeyInterzoneGB))
	if interzoneGB == "" {
		interzoneGB = "0"
	}
	if inputs.InterzoneGBPerMonth, err = decimal.NewFromString(interzoneGB); err != nil {
		return types.EstimateInputs{}, errors.Wrapf(err, "invalid %s value %q", KeyInterzoneGB, interzoneGB)
	}

	if err := Validate(inputs); err != nil {
		return types.EstimateInputs{}, err
	}
	return inputs, nil
}

func Validate(inputs types.EstimateInputs) error {
	if !regionRegex.MatchString(inputs.PrimaryRegion) {
		return errors.Errorf("invalid primary region %q", inputs.PrimaryRegion)
	}
	if !regionRegex.MatchString(inputs.DRRegion) {
		return errors.Errorf("invalid DR region %q", inputs.DRRegion)
	}
	if inputs.VMSize == "" {
		return errors.New("VM size must be provided")
	}
	if inputs.Instances < 0 {
		return errors.Errorf("instances must not be negative, got %d", inputs.Instances)
	}
	if !diskSkuRegex.MatchString(inputs.OSDiskSku) {
		return errors.Errorf("invalid OS disk SKU %q, expected a tier such as P10", inputs.OSDiskSku)
	}
	if inputs.InterzoneGBPerMonth.IsNegative() {
		return errors.Errorf("inter-zone GB per month must not be negative, got %s", inputs.InterzoneGBPerMonth)
	}
	if !currencyRegex.MatchString(inputs.Currency) {
		return errors.Errorf("invalid currency code %q", inputs.Currency)
	}
	return nil
}
