// Package app wires configuration, the InfluxDB client, and the export
// service into one runnable export operation.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/urbanairlab/ualexport/pkg/config"
	"github.com/urbanairlab/ualexport/pkg/csvsink"
	"github.com/urbanairlab/ualexport/pkg/export"
	"github.com/urbanairlab/ualexport/pkg/export/influx"
	"github.com/urbanairlab/ualexport/pkg/frame"
	"github.com/urbanairlab/ualexport/pkg/stats"
)

// Options selects which export to run and with which parameters.
// Fields left empty fall back to the configuration defaults.
type Options struct {
	Mode  string // source, join, debug, co, co-debug
	Start string
	Stop  string

	// Single-source mode
	Bucket      string
	Measurement string
	Topic       string
	Fields      []string

	// Join modes
	UALSensor  string
	LUBWSensor string

	Output string
}

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the selected export and blocks until it completes.
func (a *App) Run(ctx context.Context, opts Options) error {
	client := influx.NewClient(a.cfg.InfluxDB.URL, a.cfg.InfluxDB.Token, a.cfg.InfluxDB.Org)
	defer client.Close()

	svc := export.New(client, csvsink.New(), a.logger)

	switch opts.Mode {
	case "source":
		if opts.Topic == "" {
			return fmt.Errorf("source mode requires -topic")
		}
		if len(opts.Fields) == 0 {
			return fmt.Errorf("source mode requires -fields")
		}
		bucket := opts.Bucket
		if bucket == "" {
			bucket = a.cfg.Export.UALBucket
		}
		_, err := svc.FetchHourlySource(ctx, export.SourceRequest{
			Start:          opts.Start,
			Stop:           opts.Stop,
			Bucket:         bucket,
			Measurement:    opts.Measurement,
			Topic:          opts.Topic,
			Fields:         opts.Fields,
			AggregateEvery: a.cfg.Export.AggregateEvery,
			OutputPath:     a.outPath(opts.Output, "hourly_source.csv"),
		})
		return err

	case "join", "debug":
		req := export.DefaultJoinRequest(opts.Start, opts.Stop,
			a.sensor(opts.UALSensor, a.cfg.Export.UALSensor),
			a.sensor(opts.LUBWSensor, a.cfg.Export.LUBWSensor))
		req.UAL.Bucket = a.cfg.Export.UALBucket
		req.LUBW.Bucket = a.cfg.Export.LUBWBucket
		req.AggregateEvery = a.cfg.Export.AggregateEvery
		req.JoinMode = frame.JoinMode(a.cfg.Export.JoinMode)
		req.OutputPath = a.outPath(opts.Output, "hourly_ual_lubw.csv")

		var joined frame.Frame
		var err error
		if opts.Mode == "debug" {
			joined, err = svc.FetchHourlyJoinDebug(ctx, export.DebugRequest{
				JoinRequest:    req,
				UALOutputPath:  a.outPath("", "hourly_ual_only.csv"),
				LUBWOutputPath: a.outPath("", "hourly_lubw_only.csv"),
			})
		} else {
			joined, err = svc.FetchHourlyJoin(ctx, req)
		}
		if err != nil {
			return err
		}
		a.logComparison(joined)
		return nil

	case "co":
		joined, err := svc.FetchCOHourly(ctx, export.COReportRequest{
			Start:      opts.Start,
			Stop:       opts.Stop,
			UALSensor:  opts.UALSensor,
			LUBWSensor: opts.LUBWSensor,
			OutputPath: a.outPath(opts.Output, "co_hourly_ual4_lubw015.csv"),
		})
		if err != nil {
			return err
		}
		a.logComparison(joined)
		return nil

	case "co-debug":
		joined, err := svc.FetchCOHourlyDebug(ctx, export.COReportRequest{
			Start:      opts.Start,
			Stop:       opts.Stop,
			UALSensor:  opts.UALSensor,
			LUBWSensor: opts.LUBWSensor,
			OutputPath: a.outPath(opts.Output, "co_hourly_ual4_lubw015.csv"),
		})
		if err != nil {
			return err
		}
		a.logComparison(joined)
		return nil

	default:
		return fmt.Errorf("unknown mode: %q (use source, join, debug, co, or co-debug)", opts.Mode)
	}
}

func (a *App) sensor(flagValue, cfgValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfgValue
}

// outPath resolves an output path against the configured output
// directory when the path is relative.
func (a *App) outPath(flagValue, def string) string {
	p := flagValue
	if p == "" {
		p = def
	}
	if a.cfg.Export.OutputDir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(a.cfg.Export.OutputDir, p)
	}
	return p
}

// logComparison reports sensor-vs-reference CO statistics when the
// joined frame carries both columns.
func (a *App) logComparison(joined frame.Frame) {
	cmp, err := stats.Compare(joined, "CO_ual", "CO_lubw")
	if err != nil {
		a.logger.Debugw("skipping CO comparison", "reason", err)
		return
	}
	a.logger.Infow("CO sensor vs reference",
		"n", cmp.N, "mean_bias", cmp.MeanBias, "rmse", cmp.RMSE, "pearson_r", cmp.PearsonR)
}
