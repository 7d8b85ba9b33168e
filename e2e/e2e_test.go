package e2e

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/engine"
	"github.com/josepaz/rumbo/core/notify"
	infralogger "github.com/josepaz/rumbo/infra/logger"
	"github.com/josepaz/rumbo/infra/metrics"
	"github.com/josepaz/rumbo/infra/mqtt"
	"github.com/josepaz/rumbo/infra/store"
)

// junitReport is a minimal representation of a JUnit XML report. The E2E
// suite writes such a report so CI systems can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

// writeJUnit writes the provided report to the given path.
func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

// startInflux starts an InfluxDB 2.7 container and returns it along with the
// base URL. The container is left running until the context is cancelled.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		WaitingFor:   wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	url := fmt.Sprintf("http://%s:%s", host, port.Port())
	return cont, url
}

// startMosquitto spins up a basic Mosquitto broker for tests.
func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "1883")
	return cont, fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

// Test_E2E_OptimizationFlow runs the full shipment-to-route flow against real
// infrastructure: optimization metrics land in InfluxDB and notifications go
// out over a live Mosquitto broker.
func Test_E2E_OptimizationFlow(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	influxCont, influxURL := startInflux(ctx, t)
	if influxCont != nil {
		defer influxCont.Terminate(ctx) //nolint:errcheck
	}
	mqttCont, mqttURL := startMosquitto(ctx, t)
	if mqttCont != nil {
		defer mqttCont.Terminate(ctx) //nolint:errcheck
	}
	t.Logf("InfluxDB started at %s", influxURL)
	t.Logf("Mosquitto started at %s", mqttURL)

	org := "e2e_org"
	bucket := "e2e_bucket"
	token := "e2e-token"
	cli := newInfluxHarness(influxURL, org, bucket, token)
	defer cli.Close()
	if err := cli.EnsureBucket(ctx); err != nil {
		t.Fatalf("setup bucket: %v", err)
	}

	client, err := mqtt.NewPahoClient(mqtt.Config{Broker: mqttURL, ClientID: "rumbo-e2e"})
	if err != nil {
		t.Fatalf("mqtt client: %v", err)
	}
	defer client.Disconnect()

	log := infralogger.NopLogger{}
	eng, err := engine.New(engine.Config{
		Store:    store.NewMemoryStore(),
		Pool:     assign.NewMemoryPool(assign.DefaultDrivers()),
		Logger:   log,
		Notifier: notify.New(log, mqtt.NewNotifySink(client)),
		Metrics:  metrics.NewInfluxSink(influxURL, token, org, bucket),
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := eng.CreateShipment(ctx, engine.CreateShipmentRequest{
			RecipientName:  fmt.Sprintf("Cliente %d", i),
			RecipientCity:  "San Salvador",
			Service:        "standard",
			WeightDeclared: "4",
		}); err != nil {
			t.Fatalf("create shipment: %v", err)
		}
	}
	sum, err := eng.Optimize(ctx)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if sum.RoutesCreated != 1 || sum.ShipmentsRouted != 5 {
		t.Fatalf("unexpected run summary: %+v", sum)
	}

	count, err := cli.OptimizationRunPoints(ctx, 5*time.Minute)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count == 0 {
		t.Fatalf("no optimization_run points returned from Influx")
	}
	routes, err := cli.RouteCreatedPoints(ctx, 5*time.Minute)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if routes == 0 {
		t.Fatalf("no route_created points returned from Influx")
	}
	t.Logf("Influx returned %d run points and %d route points", count, routes)

	dir := t.TempDir()
	rep := junitReport{Name: "e2e", Tests: 1, Cases: []junitTestCase{{Name: "Test_E2E_OptimizationFlow", Time: 0}}}
	if err := writeJUnit(filepath.Join(dir, "e2e.xml"), rep); err != nil {
		t.Logf("write junit: %v", err)
	}
}
