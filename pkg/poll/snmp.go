package poll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// SNMP defaults.
const (
	// DefaultPort is the standard SNMP agent port.
	DefaultPort = 161

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultRetries is the number of retransmissions per request.
	DefaultRetries = 1
)

// SNMPConfig configures the SNMP reader.
type SNMPConfig struct {
	// Target is the device hostname or IP address.
	Target string

	// Port is the agent port (default 161).
	Port uint16

	// Community is the SNMPv2c community string.
	Community string

	// Timeout is the per-request timeout (default 5s).
	Timeout time.Duration

	// Retries is the retransmission count per request (default 1).
	Retries int
}

// SNMPReader is a BatchReader backed by an SNMPv2c session.
//
// The reader is not safe for concurrent BatchRead calls; the scheduler
// guarantees at most one poll cycle in flight, which is the only caller.
type SNMPReader struct {
	client *gosnmp.GoSNMP
}

// NewSNMPReader creates a reader and opens the underlying session.
func NewSNMPReader(config SNMPConfig) (*SNMPReader, error) {
	if config.Target == "" {
		return nil, fmt.Errorf("snmp target must not be empty")
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Retries < 0 {
		config.Retries = DefaultRetries
	}

	client := &gosnmp.GoSNMP{
		Target:    config.Target,
		Port:      config.Port,
		Community: config.Community,
		Version:   gosnmp.Version2c,
		Timeout:   config.Timeout,
		Retries:   config.Retries,
		MaxOids:   gosnmp.MaxOids,
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect to %s:%d failed: %w", config.Target, config.Port, err)
	}

	return &SNMPReader{client: client}, nil
}

// BatchRead implements BatchReader. Requests exceeding the protocol's
// per-PDU OID limit are split into consecutive GET requests; a failure
// of any chunk fails the whole batch.
func (r *SNMPReader) BatchRead(ctx context.Context, oids []string) ([]Result, error) {
	results := make([]Result, 0, len(oids))

	r.client.Context = ctx

	for start := 0; start < len(oids); start += r.client.MaxOids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + r.client.MaxOids
		if end > len(oids) {
			end = len(oids)
		}
		chunk := oids[start:end]

		packet, err := r.client.Get(chunk)
		if err != nil {
			return nil, fmt.Errorf("snmp get failed: %w", err)
		}
		if packet.Error != gosnmp.NoError {
			return nil, fmt.Errorf("snmp error status %v at index %d", packet.Error, packet.ErrorIndex)
		}

		byOID := make(map[string]gosnmp.SnmpPDU, len(packet.Variables))
		for _, pdu := range packet.Variables {
			byOID[strings.TrimPrefix(pdu.Name, ".")] = pdu
		}

		for _, oid := range chunk {
			pdu, found := byOID[strings.TrimPrefix(oid, ".")]
			if !found {
				return nil, fmt.Errorf("snmp response missing OID %s", oid)
			}
			results = append(results, pduResult(oid, pdu))
		}
	}

	return results, nil
}

// Close tears down the underlying session.
func (r *SNMPReader) Close() error {
	if r.client.Conn != nil {
		return r.client.Conn.Close()
	}
	return nil
}

// pduResult translates one response variable into a Result, mapping
// SNMPv2c exception markers to item-level errors.
func pduResult(oid string, pdu gosnmp.SnmpPDU) Result {
	switch pdu.Type {
	case gosnmp.NoSuchObject:
		return Result{OID: oid, Err: ErrNoSuchObject}
	case gosnmp.NoSuchInstance:
		return Result{OID: oid, Err: ErrNoSuchInstance}
	case gosnmp.EndOfMibView:
		return Result{OID: oid, Err: ErrEndOfMib}
	case gosnmp.Null:
		return Result{OID: oid, Err: ErrNullValue}
	default:
		return Result{OID: oid, Value: pdu.Value}
	}
}

// Compile-time interface satisfaction check.
var _ BatchReader = (*SNMPReader)(nil)
