package serve

import (
	"fmt"

	"github.com/enbility/zeroconf/v3"
)

// mDNS advertisement constants.
const (
	// ServiceType is the DNS-SD service type for the tree server.
	ServiceType = "_snmptree._tcp"

	// Domain is the DNS-SD domain.
	Domain = "local."

	// DefaultInstanceName is used when no instance name is configured.
	DefaultInstanceName = "snmptree-bridge"
)

// mdnsServer is the part of zeroconf.Server the publisher uses.
type mdnsServer interface {
	Shutdown()
}

// advertise registers the tree server with mDNS on all interfaces.
func advertise(instanceName string, port int) (mdnsServer, error) {
	if instanceName == "" {
		instanceName = DefaultInstanceName
	}

	txtRecords := []string{"txtvers=1"}

	server, err := zeroconf.Register(
		instanceName,
		ServiceType,
		Domain,
		port,
		txtRecords,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return server, nil
}
