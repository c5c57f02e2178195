// Package flux builds the Flux queries used to export hourly UAL and
// LUBW measurements. Queries are assembled from a small clause pipeline
// rather than ad-hoc string formatting, so every dynamic string literal
// passes through a single escaping function.
package flux

import (
	"fmt"
	"strings"
)

// InvalidSpecError indicates a QuerySpec that cannot produce a query.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return "invalid query spec: " + e.Reason
}

// JoinMode selects the Flux join method for two-source queries.
type JoinMode string

const (
	JoinInner JoinMode = "inner"
	JoinOuter JoinMode = "outer"
	JoinLeft  JoinMode = "left"
	JoinRight JoinMode = "right"
)

// DefaultAggregateEvery is the window applied when a spec leaves
// AggregateEvery empty.
const DefaultAggregateEvery = "1h"

// QuerySpec describes one source query: a bucket, a time range, the
// measurement/topic pair identifying the series, and the fields to
// aggregate. Start and Stop are Flux time literals (RFC3339 timestamps
// or relative durations like -30d) and are interpolated verbatim;
// everything else is rendered as an escaped Flux string literal.
type QuerySpec struct {
	Start          string
	Stop           string
	Bucket         string
	Measurement    string
	Topic          string
	Fields         []string
	Rename         map[string]string
	AggregateEvery string
}

func (s QuerySpec) window() string {
	if s.AggregateEvery == "" {
		return DefaultAggregateEvery
	}
	return s.AggregateEvery
}

// renamedFields returns the output column name per field, applying the
// rename map where it matches.
func (s QuerySpec) renamedFields() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		if alias, ok := s.Rename[f]; ok {
			out[i] = alias
		} else {
			out[i] = f
		}
	}
	return out
}

// escapeString renders a Flux string literal, escaping backslashes and
// double quotes. For well-formed inputs the output is identical to
// plain interpolation.
func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// pipeline is the clause-level intermediate representation of a query:
// a source expression followed by piped transformation clauses.
type pipeline struct {
	source  string
	clauses []string
}

func (p *pipeline) pipe(format string, args ...interface{}) *pipeline {
	p.clauses = append(p.clauses, fmt.Sprintf(format, args...))
	return p
}

func (p *pipeline) String() string {
	var b strings.Builder
	b.WriteString(p.source)
	for _, c := range p.clauses {
		b.WriteString("\n  |> ")
		b.WriteString(c)
	}
	return b.String()
}

func from(bucket string) *pipeline {
	return &pipeline{source: fmt.Sprintf("from(bucket: %s)", escapeString(bucket))}
}

// fieldFilter renders the OR-combined field predicate.
func fieldFilter(fields []string) string {
	terms := make([]string, len(fields))
	for i, f := range fields {
		terms[i] = fmt.Sprintf("r._field == %s", escapeString(f))
	}
	return strings.Join(terms, " or ")
}

// renameColumns renders the rename clause with keys in field-list order
// so the query text is deterministic. Rename keys that do not name a
// requested field are skipped.
func renameColumns(fields []string, rename map[string]string) string {
	parts := make([]string, 0, len(rename))
	for _, f := range fields {
		if alias, ok := rename[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, escapeString(alias)))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = escapeString(c)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// sourcePipeline builds the shared range/filter/aggregate/pivot chain.
func sourcePipeline(spec QuerySpec) (*pipeline, error) {
	if len(spec.Fields) == 0 {
		return nil, &InvalidSpecError{Reason: "at least one field is required for query generation"}
	}
	p := from(spec.Bucket)
	p.pipe("range(start: %s, stop: %s)", spec.Start, spec.Stop)
	p.pipe("filter(fn: (r) => r._measurement == %s and r.topic == %s)",
		escapeString(spec.Measurement), escapeString(spec.Topic))
	p.pipe("filter(fn: (r) => %s)", fieldFilter(spec.Fields))
	p.pipe("aggregateWindow(every: %s, fn: mean, createEmpty: false)", spec.window())
	p.pipe(`pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`)
	return p, nil
}

// BuildHourlyQuery renders the single-source query for a spec. The
// rename map is not embedded in the query text; renaming happens during
// result normalization.
func BuildHourlyQuery(spec QuerySpec) (string, error) {
	p, err := sourcePipeline(spec)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// projectedPipeline renders a source sub-query followed by embedded
// rename and keep clauses projecting to joinKey plus the renamed fields.
func projectedPipeline(spec QuerySpec, joinKey string) (*pipeline, error) {
	p, err := sourcePipeline(spec)
	if err != nil {
		return nil, err
	}
	if len(spec.Rename) > 0 {
		p.pipe("rename(columns: %s)", renameColumns(spec.Fields, spec.Rename))
	}
	p.pipe("keep(columns: %s)", columnList(append([]string{joinKey}, spec.renamedFields()...)))
	return p, nil
}

func renderJoin(labelA, labelB string, subA, subB *pipeline, joinKey string, mode JoinMode) *pipeline {
	if mode == "" {
		mode = JoinInner
	}
	p := &pipeline{source: fmt.Sprintf("%s = %s\n\n%s = %s\n\njoin(tables: {%s: %s, %s: %s}, on: %s, method: %s)",
		labelA, subA.String(),
		labelB, subB.String(),
		labelA, labelA, labelB, labelB,
		columnList([]string{joinKey}), escapeString(string(mode)))}
	return p
}

// BuildJoinQuery renders a two-source join query. Each sub-query carries
// its own rename and keep projection; the join result is projected to
// the superset of both sides' columns.
func BuildJoinQuery(specA, specB QuerySpec, joinKey string, mode JoinMode) (string, error) {
	subA, err := projectedPipeline(specA, joinKey)
	if err != nil {
		return "", err
	}
	subB, err := projectedPipeline(specB, joinKey)
	if err != nil {
		return "", err
	}
	superset := []string{joinKey}
	seen := map[string]bool{joinKey: true}
	for _, c := range append(specA.renamedFields(), specB.renamedFields()...) {
		if !seen[c] {
			seen[c] = true
			superset = append(superset, c)
		}
	}
	p := renderJoin("a", "b", subA, subB, joinKey, mode)
	p.pipe("keep(columns: %s)", columnList(superset))
	return p.String(), nil
}
