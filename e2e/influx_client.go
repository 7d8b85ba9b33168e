package e2e

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// influxHarness wraps the official InfluxDB v2 client for the end-to-end
// suite: it provisions the org and bucket on a throwaway container and
// reads back the measurements the optimization pipeline writes.
type influxHarness struct {
	org    string
	bucket string
	client influxdb2.Client
	write  api.WriteAPIBlocking
	query  api.QueryAPI
}

// newInfluxHarness connects to an already-running InfluxDB instance.
func newInfluxHarness(url, org, bucket, token string) *influxHarness {
	c := influxdb2.NewClient(url, token)
	return &influxHarness{
		org:    org,
		bucket: bucket,
		client: c,
		write:  c.WriteAPIBlocking(org, bucket),
		query:  c.QueryAPI(org),
	}
}

// OptimizationRunPoints counts the optimization_run points written inside
// the lookback window. Each completed engine run writes exactly one.
func (p *influxHarness) OptimizationRunPoints(ctx context.Context, lookback time.Duration) (int, error) {
	return p.countMeasurement(ctx, "optimization_run", lookback)
}

// RouteCreatedPoints counts the per-route points of the same window.
func (p *influxHarness) RouteCreatedPoints(ctx context.Context, lookback time.Duration) (int, error) {
	return p.countMeasurement(ctx, "route_created", lookback)
}

func (p *influxHarness) countMeasurement(ctx context.Context, measurement string, lookback time.Duration) (int, error) {
	flux := fmt.Sprintf(
		`from(bucket:"%s") |> range(start:-%s) |> filter(fn: (r) => r._measurement == "%s")`,
		p.bucket, lookback.String(), measurement)
	res, err := p.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	count := 0
	for res.Next() {
		count++
	}
	return count, res.Err()
}

// WritePoint writes one raw point, for seeding fixtures outside the engine.
func (p *influxHarness) WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time) error {
	return p.write.WritePoint(ctx, influxdb2.NewPoint(measurement, tags, fields, ts))
}

// EnsureBucket creates the org and bucket when the fresh container does not
// have them yet.
func (p *influxHarness) EnsureBucket(ctx context.Context) error {
	orgAPI := p.client.OrganizationsAPI()
	org, err := orgAPI.FindOrganizationByName(ctx, p.org)
	if err != nil || org == nil {
		org, err = orgAPI.CreateOrganizationWithName(ctx, p.org)
		if err != nil {
			return fmt.Errorf("create org: %w", err)
		}
	}

	bucketAPI := p.client.BucketsAPI()
	buckets, err := bucketAPI.FindBucketsByOrgName(ctx, p.org)
	if err != nil {
		return err
	}
	if buckets != nil {
		for _, b := range *buckets {
			if b.Name == p.bucket {
				return nil
			}
		}
	}
	if _, err := bucketAPI.CreateBucketWithName(ctx, org, p.bucket); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (p *influxHarness) Close() { p.client.Close() }
