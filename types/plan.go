package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OSFamily string

const (
	OSFamilyWindows OSFamily = "windows"
	OSFamilyLinux   OSFamily = "linux"
)

func ParseOSFamily(value string) (OSFamily, error) {
	osFamily := OSFamily(strings.ToLower(strings.TrimSpace(value)))
	switch osFamily {
	case OSFamilyWindows, OSFamilyLinux:
		return osFamily, nil
	default:
		return "", fmt.Errorf("invalid OS family %q, expected windows or linux", value)
	}
}

func (osFamily OSFamily) IsWindows() bool {
	return osFamily == OSFamilyWindows
}

type Redundancy string

const (
	RedundancyLRS Redundancy = "lrs"
	RedundancyZRS Redundancy = "zrs"
)

func ParseRedundancy(value string) (Redundancy, error) {
	redundancy := Redundancy(strings.ToLower(strings.TrimSpace(value)))
	switch redundancy {
	case RedundancyLRS, RedundancyZRS:
		return redundancy, nil
	default:
		return "", fmt.Errorf("invalid disk redundancy %q, expected lrs or zrs", value)
	}
}

type DRMode string

const (
	DRModeCold DRMode = "cold"
	DRModeWarm DRMode = "warm"
	DRModeHot  DRMode = "hot"
)

func ParseDRMode(value string) (DRMode, error) {
	drMode := DRMode(strings.ToLower(strings.TrimSpace(value)))
	switch drMode {
	case DRModeCold, DRModeWarm, DRModeHot:
		return drMode, nil
	default:
		return "", fmt.Errorf("invalid DR mode %q, expected cold, warm or hot", value)
	}
}

type Phase string

const (
	PhasePrimary Phase = "primary"
	PhaseDR      Phase = "dr"
)

// EstimateInputs are the settings an estimate is run with.
type EstimateInputs struct {
	PrimaryRegion       string
	DRRegion            string
	VMSize              string
	OS                  OSFamily
	Instances           int
	OSDiskSku           string
	DiskRedundancy      Redundancy
	InterzoneGBPerMonth decimal.Decimal
	Currency            string
	DRMode              DRMode
}

// DeploymentPlan is what gets priced for one region. Counts are never negative.
type DeploymentPlan struct {
	Phase               Phase
	Region              string
	VMSize              string
	OS                  OSFamily
	InstanceCount       int
	DiskCount           int
	DiskSku             string
	DiskRedundancy      Redundancy
	InterzoneGBPerMonth decimal.Decimal
	Currency            string
}
