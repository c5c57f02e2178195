// Package influx adapts the InfluxDB v2 client to the export.Executor
// interface, converting streamed Flux results into frame tables.
package influx

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/urbanairlab/ualexport/pkg/frame"
)

// Client executes Flux queries against one InfluxDB organization.
type Client struct {
	client influxdb2.Client
	query  api.QueryAPI
}

// NewClient connects to an InfluxDB v2 instance. The token and
// organization fix the credential context for all queries.
func NewClient(url, token, org string) *Client {
	c := influxdb2.NewClient(url, token)
	return &Client{
		client: c,
		query:  c.QueryAPI(org),
	}
}

// Query runs a Flux query and collects the streamed records into one
// table per Flux result table, in arrival order.
func (c *Client) Query(ctx context.Context, query string) (frame.RawResult, error) {
	result, err := c.query.Query(ctx, query)
	if err != nil {
		return frame.RawResult{}, err
	}

	var tables []frame.Table
	var current *frame.Table
	for result.Next() {
		if result.TableChanged() || current == nil {
			var cols []string
			for _, col := range result.TableMetadata().Columns() {
				cols = append(cols, col.Name())
			}
			tables = append(tables, frame.Table{Columns: cols})
			current = &tables[len(tables)-1]
		}
		values := result.Record().Values()
		row := make([]interface{}, len(current.Columns))
		for i, col := range current.Columns {
			row[i] = values[col]
		}
		current.Rows = append(current.Rows, row)
	}
	if err := result.Err(); err != nil {
		return frame.RawResult{}, err
	}

	switch len(tables) {
	case 0:
		return frame.Empty(), nil
	case 1:
		return frame.Single(tables[0]), nil
	default:
		return frame.Many(tables), nil
	}
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() {
	c.client.Close()
}
