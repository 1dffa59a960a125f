package snmptree_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/snmptree/snmptree-go/internal/testharness/mock"
	"github.com/snmptree/snmptree-go/pkg/bridge"
	"github.com/snmptree/snmptree-go/pkg/poll"
	"github.com/snmptree/snmptree-go/pkg/registry"
	"github.com/snmptree/snmptree-go/pkg/serve"
	"github.com/snmptree/snmptree-go/pkg/tree"
)

func healthyValues() map[string]any {
	return map[string]any{
		"1.3.6.1.4.1.53864.1.1.0": []byte("SmartUPS 3000"),
		"1.3.6.1.4.1.53864.1.2.0": []byte("SN-12345"),
		"1.3.6.1.4.1.53864.1.3.0": []byte("2.1.0"),
		"1.3.6.1.4.1.53864.1.4.0": []byte("rev-B"),
		"1.3.6.1.4.1.53864.2.1.0": []byte("231.5 V"),
		"1.3.6.1.4.1.53864.2.2.0": []byte("3.2 A"),
		"1.3.6.1.4.1.53864.2.3.0": []byte("23.5 C"),
		"1.3.6.1.4.1.53864.3.1.0": 1,
		"1.3.6.1.4.1.53864.3.2.0": 0,
		"1.3.6.1.4.1.53864.3.3.0": 2,
		"1.3.6.1.4.1.53864.3.4.0": 1,
	}
}

// startBridge wires the full stack against a scripted device and starts
// the scheduler.
func startBridge(t *testing.T, device *mock.Device, interval time.Duration, listen string) (*serve.Publisher, *tree.Tree, *bridge.Scheduler) {
	t.Helper()

	quantities := registry.Default()
	deviceTree, err := tree.Build(quantities)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	publisher := serve.NewPublisher(serve.Config{ListenAddress: listen})
	if err := publisher.Publish(deviceTree); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	t.Cleanup(func() { publisher.Close() })

	mapper := bridge.NewMapper(quantities, device, publisher, nil)
	availability := bridge.NewAvailability(publisher, nil)
	scheduler, err := bridge.NewScheduler(interval, mapper, availability)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { scheduler.Stop() })

	return publisher, deviceTree, scheduler
}

func waitForLeaf(t *testing.T, tr *tree.Tree, key string, want any) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		leaf, err := tr.Leaf(key)
		if err != nil {
			t.Fatal(err)
		}
		if v, ok := leaf.Value(); ok && v == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	leaf, _ := tr.Leaf(key)
	v, ok := leaf.Value()
	t.Fatalf("leaf %s = %v (ok=%v), want %v", key, v, ok, want)
}

// TestE2E_HealthyDevice polls a healthy device and checks the full
// published tree state.
func TestE2E_HealthyDevice(t *testing.T) {
	device := mock.NewDevice(mock.Response{Values: healthyValues()})
	_, deviceTree, _ := startBridge(t, device, time.Hour, "")

	waitForLeaf(t, deviceTree, "firmwareVersion", "2.1.0")
	waitForLeaf(t, deviceTree, "mainsPresent", true)
	waitForLeaf(t, deviceTree, "batteryCharging", false)
	waitForLeaf(t, deviceTree, "alarmActive", false)
	waitForLeaf(t, deviceTree, tree.KeyConnected, true)

	tsLeaf, err := deviceTree.Leaf(tree.KeyLastSuccessTime)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := tsLeaf.Value()
	if !ok {
		t.Fatal("lastSuccessTime has no value after a successful cycle")
	}
	if _, err := time.Parse(time.RFC3339, v.(string)); err != nil {
		t.Errorf("lastSuccessTime = %v is not RFC 3339: %v", v, err)
	}
}

// TestE2E_DeviceGoesDark covers a batch failure after a healthy start:
// all leaves retain their stale values, the bridge flips to
// disconnected and the success timestamp does not move.
func TestE2E_DeviceGoesDark(t *testing.T) {
	device := mock.NewDevice(
		mock.Response{Values: healthyValues()},
		mock.Response{Err: errors.New("i/o timeout")},
	)
	_, deviceTree, _ := startBridge(t, device, 20*time.Millisecond, "")

	waitForLeaf(t, deviceTree, tree.KeyConnected, true)

	tsLeaf, err := deviceTree.Leaf(tree.KeyLastSuccessTime)
	if err != nil {
		t.Fatal(err)
	}
	tsBefore, _ := tsLeaf.Value()

	waitForLeaf(t, deviceTree, tree.KeyConnected, false)

	// Stale values survive the outage.
	for key, want := range map[string]any{
		"productName":  "SmartUPS 3000",
		"mainsPresent": true,
	} {
		leaf, err := deviceTree.Leaf(key)
		if err != nil {
			t.Fatal(err)
		}
		if v, ok := leaf.Value(); !ok || v != want {
			t.Errorf("leaf %s = %v (ok=%v), want stale %v", key, v, ok, want)
		}
	}

	tsAfter, _ := tsLeaf.Value()
	if tsBefore != tsAfter {
		t.Errorf("lastSuccessTime moved during outage: %v -> %v", tsBefore, tsAfter)
	}
}

// TestE2E_DeviceRecovers checks the disconnected-to-connected round trip.
func TestE2E_DeviceRecovers(t *testing.T) {
	device := mock.NewDevice(
		mock.Response{Err: errors.New("i/o timeout")},
	)
	_, deviceTree, _ := startBridge(t, device, 20*time.Millisecond, "")

	waitForLeaf(t, deviceTree, tree.KeyConnected, false)

	device.Append(mock.Response{Values: healthyValues()})

	waitForLeaf(t, deviceTree, tree.KeyConnected, true)
	waitForLeaf(t, deviceTree, "productName", "SmartUPS 3000")
}

// TestE2E_PartialFailure covers a degraded device: one object missing,
// every other leaf still updates and the bridge stays connected.
func TestE2E_PartialFailure(t *testing.T) {
	healthy := mock.Response{Values: healthyValues()}
	degraded := mock.Response{
		Values: healthyValues(),
		Errs:   map[string]error{"1.3.6.1.4.1.53864.2.3.0": poll.ErrNoSuchObject},
	}
	degraded.Values["1.3.6.1.4.1.53864.2.1.0"] = []byte("229.8 V")

	device := mock.NewDevice(healthy, degraded)
	_, deviceTree, _ := startBridge(t, device, 20*time.Millisecond, "")

	waitForLeaf(t, deviceTree, "supplyVoltage", "231.5 V")
	waitForLeaf(t, deviceTree, "supplyVoltage", "229.8 V")

	// The failed quantity keeps its last good value, the bridge stays
	// connected.
	leaf, err := deviceTree.Leaf("temperature")
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := leaf.Value(); !ok || v != "23.5 C" {
		t.Errorf("temperature = %v (ok=%v), want stale 23.5 C", v, ok)
	}
	connLeaf, err := deviceTree.Leaf(tree.KeyConnected)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := connLeaf.Value(); v != true {
		t.Errorf("connected = %v, want true despite item failure", v)
	}
}

// TestE2E_ServedTree connects a TCP client and verifies the priming
// snapshot plus streamed updates while cycles run.
func TestE2E_ServedTree(t *testing.T) {
	device := mock.NewDevice(mock.Response{Values: healthyValues()})
	publisher, deviceTree, _ := startBridge(t, device, 50*time.Millisecond, "127.0.0.1:0")

	waitForLeaf(t, deviceTree, tree.KeyConnected, true)

	conn, err := net.Dial("tcp", publisher.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	framer := serve.NewFramer(conn)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	data, err := framer.ReadFrame()
	if err != nil {
		t.Fatalf("reading priming frame failed: %v", err)
	}
	msg, err := serve.DecodeMessage(data)
	if err != nil {
		t.Fatalf("decoding priming frame failed: %v", err)
	}
	if msg.Type != serve.MessageSnapshot || msg.Snapshot == nil {
		t.Fatalf("priming frame type = %v, want SNAPSHOT", msg.Type)
	}

	found := false
	for _, n := range msg.Snapshot.Nodes {
		if n.Key == "productName" {
			found = true
			if n.Value != "SmartUPS 3000" {
				t.Errorf("productName in snapshot = %v", n.Value)
			}
		}
	}
	if !found {
		t.Fatal("productName missing from snapshot")
	}

	device.Append(mock.Response{Values: func() map[string]any {
		v := healthyValues()
		v["1.3.6.1.4.1.53864.2.3.0"] = []byte("24.0 C")
		return v
	}()})

	// Subsequent cycles stream update frames; read until the new
	// temperature value arrives.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		data, err := framer.ReadFrame()
		if err != nil {
			t.Fatalf("reading update frame failed: %v", err)
		}
		msg, err := serve.DecodeMessage(data)
		if err != nil {
			t.Fatalf("decoding update frame failed: %v", err)
		}
		if msg.Type == serve.MessageUpdate && msg.Update != nil &&
			msg.Update.Key == "temperature" && msg.Update.Value == "24.0 C" {
			return
		}
	}
	t.Fatal("temperature update never arrived")
}
