// Package export orchestrates the hourly UAL/LUBW exports: it builds
// the Flux queries, runs them against an Executor, normalizes the
// results, joins the two sources on the hour, and hands the final frame
// to a Sink.
package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urbanairlab/ualexport/pkg/buckets"
	"github.com/urbanairlab/ualexport/pkg/flux"
	"github.com/urbanairlab/ualexport/pkg/frame"
)

// Executor runs a Flux query against a bucket/org/credential context
// established at construction time. Implementations must return the
// result tables in arrival order; zero tables is not an error.
type Executor interface {
	Query(ctx context.Context, query string) (frame.RawResult, error)
}

// Sink persists a frame to a destination path.
type Sink interface {
	Write(f frame.Frame, path string) error
}

// Service wires the executor and sink into the export operations. It
// holds no per-call state; every fetch builds and discards its own
// tables.
type Service struct {
	executor Executor
	sink     Sink
	logger   *zap.SugaredLogger
}

// New creates an export service. A nil logger disables logging.
func New(executor Executor, sink Sink, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{executor: executor, sink: sink, logger: logger}
}

// SourceRequest describes a single-source fetch. OutputPath is
// optional; when empty, the frame is returned without a sink write.
type SourceRequest struct {
	Start          string
	Stop           string
	Bucket         string
	Measurement    string
	Topic          string
	Fields         []string
	Rename         map[string]string
	AggregateEvery string
	OutputPath     string
}

// FetchHourlySource fetches and normalizes one source.
func (s *Service) FetchHourlySource(ctx context.Context, req SourceRequest) (frame.Frame, error) {
	runID := uuid.New().String()
	spec := flux.QuerySpec{
		Start:          req.Start,
		Stop:           req.Stop,
		Bucket:         req.Bucket,
		Measurement:    req.Measurement,
		Topic:          req.Topic,
		Fields:         req.Fields,
		Rename:         req.Rename,
		AggregateEvery: req.AggregateEvery,
	}
	f, err := s.fetchSource(ctx, runID, spec)
	if err != nil {
		return frame.Frame{}, err
	}
	if req.OutputPath != "" {
		if err := s.sink.Write(f, req.OutputPath); err != nil {
			return frame.Frame{}, err
		}
	}
	s.logger.Infow("source export complete", "run_id", runID, "topic", req.Topic, "rows", len(f.Rows))
	return f, nil
}

func (s *Service) fetchSource(ctx context.Context, runID string, spec flux.QuerySpec) (frame.Frame, error) {
	query, err := flux.BuildHourlyQuery(spec)
	if err != nil {
		return frame.Frame{}, err
	}
	s.logger.Debugw("running source query", "run_id", runID, "bucket", spec.Bucket, "topic", spec.Topic)
	raw, err := s.executor.Query(ctx, query)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("querying topic %q: %w", spec.Topic, err)
	}
	return frame.Normalize(raw, spec.Rename)
}

// SourceParams parameterizes one side of a join fetch. The topic is
// derived from TopicTemplate with the sensor name substituted.
type SourceParams struct {
	Bucket        string
	Measurement   string
	TopicTemplate string
	Sensor        string
	Fields        []string
	Rename        map[string]string
}

func (p SourceParams) spec(start, stop, aggregateEvery string) flux.QuerySpec {
	return flux.QuerySpec{
		Start:          start,
		Stop:           stop,
		Bucket:         p.Bucket,
		Measurement:    p.Measurement,
		Topic:          fmt.Sprintf(p.TopicTemplate, p.Sensor),
		Fields:         p.Fields,
		Rename:         p.Rename,
		AggregateEvery: aggregateEvery,
	}
}

// JoinRequest describes a dual-source join fetch. Columns optionally
// fixes the output column list; the joined frame is then reindexed to
// it before the sink write, with absent columns coming back all-nil.
type JoinRequest struct {
	Start          string
	Stop           string
	UAL            SourceParams
	LUBW           SourceParams
	AggregateEvery string
	JoinMode       frame.JoinMode
	Columns        []string
	OutputPath     string
}

// DefaultJoinRequest returns a JoinRequest with the standard UAL and
// LUBW source parameters: minute-resolution UAL readings and the hourly
// LUBW reference values, aggregated to 1h and joined inner.
func DefaultJoinRequest(start, stop, ualSensor, lubwSensor string) JoinRequest {
	return JoinRequest{
		Start: start,
		Stop:  stop,
		UAL: SourceParams{
			Bucket:        buckets.UALMinuteMeasurement.String(),
			Measurement:   flux.UALMeasurement,
			TopicTemplate: flux.UALTopicPrefix + "%s",
			Sensor:        ualSensor,
			Fields:        []string{"CO", "RAW_ADC_CO_A", "RAW_ADC_CO_W", "sht_temp", "sht_humid"},
		},
		LUBW: SourceParams{
			Bucket:        buckets.LUBWHour.String(),
			Measurement:   flux.LUBWMeasurement,
			TopicTemplate: flux.LUBWTopicPrefix + "%s",
			Sensor:        lubwSensor,
			Fields:        []string{"CO", "TEMP"},
		},
		AggregateEvery: "1h",
		JoinMode:       frame.JoinInner,
		OutputPath:     "hourly_ual_lubw.csv",
	}
}

// FetchHourlyJoin fetches both sources, joins them on the timestamp
// index, and writes the result. An empty side degenerates the join to a
// copy of the other side; two empty sides yield an empty frame that
// keeps the timestamp index name for schema consistency.
func (s *Service) FetchHourlyJoin(ctx context.Context, req JoinRequest) (frame.Frame, error) {
	runID := uuid.New().String()

	ual, err := s.fetchSource(ctx, runID, req.UAL.spec(req.Start, req.Stop, req.AggregateEvery))
	if err != nil {
		return frame.Frame{}, err
	}
	lubw, err := s.fetchSource(ctx, runID, req.LUBW.spec(req.Start, req.Stop, req.AggregateEvery))
	if err != nil {
		return frame.Frame{}, err
	}

	var joined frame.Frame
	switch {
	case ual.IsEmpty() && lubw.IsEmpty():
		joined = frame.Frame{IndexName: frame.TimeColumn}
	case ual.IsEmpty():
		joined = lubw
	case lubw.IsEmpty():
		joined = ual
	default:
		joined = ual.Join(lubw, req.JoinMode, "_ual", "_lubw")
	}
	if len(req.Columns) > 0 {
		joined = joined.Reindex(req.Columns)
	}

	if err := s.sink.Write(joined, req.OutputPath); err != nil {
		return frame.Frame{}, err
	}
	s.logger.Infow("join export complete", "run_id", runID,
		"ual_rows", len(ual.Rows), "lubw_rows", len(lubw.Rows),
		"joined_rows", len(joined.Rows), "output", req.OutputPath)
	return joined, nil
}

// DebugRequest is a join fetch that also persists each side's unjoined
// frame, for diagnosing which source is missing data.
type DebugRequest struct {
	JoinRequest
	UALOutputPath  string
	LUBWOutputPath string
}

// FetchHourlyJoinDebug writes both pre-join frames to their own paths
// and then delegates to FetchHourlyJoin, so the two code paths cannot
// diverge. The join step re-queries both sources.
func (s *Service) FetchHourlyJoinDebug(ctx context.Context, req DebugRequest) (frame.Frame, error) {
	ualSpec := req.UAL.spec(req.Start, req.Stop, req.AggregateEvery)
	if _, err := s.FetchHourlySource(ctx, SourceRequest{
		Start:          req.Start,
		Stop:           req.Stop,
		Bucket:         ualSpec.Bucket,
		Measurement:    ualSpec.Measurement,
		Topic:          ualSpec.Topic,
		Fields:         ualSpec.Fields,
		Rename:         ualSpec.Rename,
		AggregateEvery: req.AggregateEvery,
		OutputPath:     req.UALOutputPath,
	}); err != nil {
		return frame.Frame{}, err
	}

	lubwSpec := req.LUBW.spec(req.Start, req.Stop, req.AggregateEvery)
	if _, err := s.FetchHourlySource(ctx, SourceRequest{
		Start:          req.Start,
		Stop:           req.Stop,
		Bucket:         lubwSpec.Bucket,
		Measurement:    lubwSpec.Measurement,
		Topic:          lubwSpec.Topic,
		Fields:         lubwSpec.Fields,
		Rename:         lubwSpec.Rename,
		AggregateEvery: req.AggregateEvery,
		OutputPath:     req.LUBWOutputPath,
	}); err != nil {
		return frame.Frame{}, err
	}

	return s.FetchHourlyJoin(ctx, req.JoinRequest)
}
