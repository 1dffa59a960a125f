// Package registry defines the fixed set of monitored quantities.
//
// The registry is the single source of truth for what the bridge polls
// and how each raw reading is interpreted: the tree builder derives the
// published tree shape from it, and the mapper derives the poll order
// and per-quantity decoding from it. The set is fixed at build time;
// there is no runtime discovery.
package registry

import (
	"errors"
	"fmt"
)

// Kind is the semantic type of a quantity's value.
type Kind uint8

const (
	// KindString publishes the raw reading verbatim as text.
	KindString Kind = iota

	// KindBool interprets the raw reading as an integer and publishes
	// true exactly when it equals 1.
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Group identifies the semantic subtree a quantity is published under.
type Group uint8

const (
	// GroupDeviceInfo holds static device identity values.
	GroupDeviceInfo Group = iota

	// GroupMonitoring holds operational readings.
	GroupMonitoring

	// GroupStatus holds boolean condition flags.
	GroupStatus
)

// String returns the group label as used in the published tree.
func (g Group) String() string {
	switch g {
	case GroupDeviceInfo:
		return "device-info"
	case GroupMonitoring:
		return "monitoring"
	case GroupStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Quantity describes one monitored value: its identity in the published
// tree, the SNMP object polled for it, and how the raw reading is
// decoded. Quantities are immutable after startup.
type Quantity struct {
	// Key is the stable identifier of the owning tree leaf. Unique
	// across the registry.
	Key string

	// OID is the SNMP object identifier requested for this quantity.
	OID string

	// Kind selects the decode rule.
	Kind Kind

	// Group selects the subtree the leaf is published under.
	Group Group

	// DisplayName is the human-readable leaf label.
	DisplayName string

	// Description is a human-readable description.
	Description string
}

// Registry validation errors.
var (
	ErrDuplicateKey = errors.New("duplicate quantity key")
	ErrDuplicateOID = errors.New("duplicate quantity OID")
	ErrEmptyField   = errors.New("quantity key and OID must be non-empty")
)

// Default returns the fixed ordered list of quantities monitored on the
// target device. The order is the poll order and, within each group,
// the sibling order in the published tree.
func Default() []Quantity {
	return []Quantity{
		// Device identity
		{
			Key:         "productName",
			OID:         "1.3.6.1.4.1.53864.1.1.0",
			Kind:        KindString,
			Group:       GroupDeviceInfo,
			DisplayName: "Product Name",
			Description: "Device product name",
		},
		{
			Key:         "serialNumber",
			OID:         "1.3.6.1.4.1.53864.1.2.0",
			Kind:        KindString,
			Group:       GroupDeviceInfo,
			DisplayName: "Serial Number",
			Description: "Device serial number",
		},
		{
			Key:         "firmwareVersion",
			OID:         "1.3.6.1.4.1.53864.1.3.0",
			Kind:        KindString,
			Group:       GroupDeviceInfo,
			DisplayName: "Firmware Version",
			Description: "Installed firmware version",
		},
		{
			Key:         "hardwareRevision",
			OID:         "1.3.6.1.4.1.53864.1.4.0",
			Kind:        KindString,
			Group:       GroupDeviceInfo,
			DisplayName: "Hardware Revision",
			Description: "Hardware revision identifier",
		},

		// Operational readings (published as display strings by the device)
		{
			Key:         "supplyVoltage",
			OID:         "1.3.6.1.4.1.53864.2.1.0",
			Kind:        KindString,
			Group:       GroupMonitoring,
			DisplayName: "Supply Voltage",
			Description: "Mains supply voltage reading",
		},
		{
			Key:         "loadCurrent",
			OID:         "1.3.6.1.4.1.53864.2.2.0",
			Kind:        KindString,
			Group:       GroupMonitoring,
			DisplayName: "Load Current",
			Description: "Output load current reading",
		},
		{
			Key:         "temperature",
			OID:         "1.3.6.1.4.1.53864.2.3.0",
			Kind:        KindString,
			Group:       GroupMonitoring,
			DisplayName: "Temperature",
			Description: "Internal temperature reading",
		},

		// Condition flags (raw integer, 1 = true)
		{
			Key:         "mainsPresent",
			OID:         "1.3.6.1.4.1.53864.3.1.0",
			Kind:        KindBool,
			Group:       GroupStatus,
			DisplayName: "Mains Present",
			Description: "Mains supply is present",
		},
		{
			Key:         "batteryCharging",
			OID:         "1.3.6.1.4.1.53864.3.2.0",
			Kind:        KindBool,
			Group:       GroupStatus,
			DisplayName: "Battery Charging",
			Description: "Backup battery is charging",
		},
		{
			Key:         "alarmActive",
			OID:         "1.3.6.1.4.1.53864.3.3.0",
			Kind:        KindBool,
			Group:       GroupStatus,
			DisplayName: "Alarm Active",
			Description: "At least one alarm condition is active",
		},
		{
			Key:         "outputEnabled",
			OID:         "1.3.6.1.4.1.53864.3.4.0",
			Kind:        KindBool,
			Group:       GroupStatus,
			DisplayName: "Output Enabled",
			Description: "Output stage is enabled",
		},
	}
}

// OIDs returns the OIDs of the given quantities in poll order.
func OIDs(quantities []Quantity) []string {
	oids := make([]string, len(quantities))
	for i, q := range quantities {
		oids[i] = q.OID
	}
	return oids
}

// Validate checks that keys and OIDs are non-empty and unique.
// The bridge must refuse to start on a registry that fails validation.
func Validate(quantities []Quantity) error {
	keys := make(map[string]struct{}, len(quantities))
	oids := make(map[string]struct{}, len(quantities))

	for _, q := range quantities {
		if q.Key == "" || q.OID == "" {
			return fmt.Errorf("%w: %+v", ErrEmptyField, q)
		}
		if _, exists := keys[q.Key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, q.Key)
		}
		if _, exists := oids[q.OID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateOID, q.OID)
		}
		keys[q.Key] = struct{}{}
		oids[q.OID] = struct{}{}
	}
	return nil
}
