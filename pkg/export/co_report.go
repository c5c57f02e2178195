package export

import (
	"context"

	"github.com/urbanairlab/ualexport/pkg/flux"
	"github.com/urbanairlab/ualexport/pkg/frame"
)

// COReportColumns is the fixed column order of the historical CO
// report. Columns missing from the joined data appear entirely nil.
var COReportColumns = []string{
	"CO_ual", "RAW_ADC_CO_A", "RAW_ADC_CO_W", "UAL_TEMP", "sht_humid",
	"CO_lubw", "LUBW_TEMP",
}

// COReportRequest carries the parameters of the historical CO report.
// Zero-valued fields fall back to the historical defaults.
type COReportRequest struct {
	Start          string
	Stop           string
	UALSensor      string
	LUBWSensor     string
	OutputPath     string
	UALOutputPath  string
	LUBWOutputPath string
}

func (r COReportRequest) join() JoinRequest {
	ualSensor := r.UALSensor
	if ualSensor == "" {
		ualSensor = flux.DefaultUALSensor
	}
	lubwSensor := r.LUBWSensor
	if lubwSensor == "" {
		lubwSensor = flux.DefaultLUBWSensor
	}
	req := DefaultJoinRequest(r.Start, r.Stop, ualSensor, lubwSensor)
	req.UAL.Rename = map[string]string{"CO": "CO_ual", "sht_temp": "UAL_TEMP"}
	req.LUBW.Rename = map[string]string{"CO": "CO_lubw", "TEMP": "LUBW_TEMP"}
	req.Columns = COReportColumns
	req.OutputPath = "co_hourly_ual4_lubw015.csv"
	if r.OutputPath != "" {
		req.OutputPath = r.OutputPath
	}
	return req
}

// FetchCOHourly reproduces the fixed-column CO report by delegating to
// the generic join fetch with the hardcoded historical parameters.
//
// Deprecated: use FetchHourlyJoin with an explicit JoinRequest.
func (s *Service) FetchCOHourly(ctx context.Context, req COReportRequest) (frame.Frame, error) {
	return s.FetchHourlyJoin(ctx, req.join())
}

// FetchCOHourlyDebug is FetchCOHourly plus per-side debug output files.
//
// Deprecated: use FetchHourlyJoinDebug with an explicit DebugRequest.
func (s *Service) FetchCOHourlyDebug(ctx context.Context, req COReportRequest) (frame.Frame, error) {
	debug := DebugRequest{
		JoinRequest:    req.join(),
		UALOutputPath:  "co_hourly_ual_only.csv",
		LUBWOutputPath: "co_hourly_lubw_only.csv",
	}
	if req.UALOutputPath != "" {
		debug.UALOutputPath = req.UALOutputPath
	}
	if req.LUBWOutputPath != "" {
		debug.LUBWOutputPath = req.LUBWOutputPath
	}
	return s.FetchHourlyJoinDebug(ctx, debug)
}
