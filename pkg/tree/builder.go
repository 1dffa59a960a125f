package tree

import (
	"fmt"

	"github.com/snmptree/snmptree-go/pkg/registry"
)

// Reserved leaf keys for the bridge's availability signals. They live in
// the status subtree next to the polled condition flags and are updated
// through the same leaf-update path as any quantity.
const (
	// KeyConnected is the boolean leaf reporting overall reachability.
	KeyConnected = "connected"

	// KeyLastSuccessTime is the string leaf holding the RFC 3339
	// timestamp of the last successful poll cycle. It has no value
	// until the first success.
	KeyLastSuccessTime = "lastSuccessTime"
)

// Build constructs the parameter tree for the given quantity list.
//
// Construction is deterministic: the same quantity list always produces
// a structurally identical tree. The root owns one group per semantic
// subtree in fixed order (device-info, monitoring, status); within each
// group, leaves appear in registry order. The availability leaves are
// appended to the status group after the polled flags.
//
// Build fails on duplicate keys or a quantity key colliding with a
// reserved availability key; callers must treat this as fatal at
// startup.
func Build(quantities []registry.Quantity) (*Tree, error) {
	if err := registry.Validate(quantities); err != nil {
		return nil, err
	}
	for _, q := range quantities {
		if q.Key == KeyConnected || q.Key == KeyLastSuccessTime {
			return nil, fmt.Errorf("quantity key %q collides with a reserved availability key", q.Key)
		}
	}

	root := NewGroup(Path{}, "device", "Bridged device parameters")
	leaves := make(map[string]*Leaf)

	groups := []registry.Group{
		registry.GroupDeviceInfo,
		registry.GroupMonitoring,
		registry.GroupStatus,
	}

	for groupIdx, group := range groups {
		groupNode := NewGroup(Path{uint16(groupIdx)}, group.String(), groupDescription(group))
		root.addChild(groupNode)

		childIdx := uint16(0)
		for _, q := range quantities {
			if q.Group != group {
				continue
			}
			leaf := NewLeaf(
				Path{uint16(groupIdx), childIdx},
				q.Key,
				q.DisplayName,
				q.Description,
				kindToValueKind(q.Kind),
			)
			groupNode.addChild(leaf)
			leaves[q.Key] = leaf
			childIdx++
		}

		if group == registry.GroupStatus {
			connected := NewLeaf(
				Path{uint16(groupIdx), childIdx},
				KeyConnected,
				"Connected",
				"Device is reachable over the monitoring protocol",
				ValueBool,
			)
			groupNode.addChild(connected)
			leaves[KeyConnected] = connected
			childIdx++

			lastSuccess := NewLeaf(
				Path{uint16(groupIdx), childIdx},
				KeyLastSuccessTime,
				"Last Success Time",
				"Completion time of the last successful poll cycle",
				ValueString,
			)
			groupNode.addChild(lastSuccess)
			leaves[KeyLastSuccessTime] = lastSuccess
		}
	}

	return &Tree{root: root, leaves: leaves}, nil
}

func groupDescription(g registry.Group) string {
	switch g {
	case registry.GroupDeviceInfo:
		return "Static device identity"
	case registry.GroupMonitoring:
		return "Operational readings"
	case registry.GroupStatus:
		return "Condition flags and bridge availability"
	default:
		return ""
	}
}

func kindToValueKind(k registry.Kind) ValueKind {
	if k == registry.KindBool {
		return ValueBool
	}
	return ValueString
}
