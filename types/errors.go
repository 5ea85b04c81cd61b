package types

import (
	"fmt"
	"strings"
)

// TransportError is returned when a page of the pricing catalog could not be fetched.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pricing request to %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("pricing request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type ResourceKind string

const (
	ResourceKindVirtualMachine ResourceKind = "VM"
	ResourceKindManagedDisk    ResourceKind = "disk"
)

// PricingNotFoundError is returned when a required component has no matching price record.
type PricingNotFoundError struct {
	Kind       ResourceKind
	Sku        string
	Region     string
	OS         OSFamily
	Redundancy Redundancy
}

func (e *PricingNotFoundError) Error() string {
	switch e.Kind {
	case ResourceKindManagedDisk:
		return fmt.Sprintf("could not find disk price for %s %s in %s", e.Sku, strings.ToUpper(string(e.Redundancy)), e.Region)
	default:
		return fmt.Sprintf("could not find VM price for %s in %s (windows=%t)", e.Sku, e.Region, e.OS.IsWindows())
	}
}

// PhaseError records which phase of an estimate failed.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	if e.Phase == PhasePrimary {
		return fmt.Sprintf("error computing primary costs (DR costs not computed): %v", e.Err)
	}
	return fmt.Sprintf("error computing DR costs: %v", e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
