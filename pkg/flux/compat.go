package flux

import "github.com/urbanairlab/ualexport/pkg/buckets"

// Historical defaults of the fixed CO report. Kept for backwards
// compatibility with the original export scripts.
const (
	DefaultUALSensor  = "ual-4"
	DefaultLUBWSensor = "DEBW152"

	UALMeasurement  = "measurement_data"
	LUBWMeasurement = "lubw_hour_data"

	UALTopicPrefix  = "sensors/measurement/"
	LUBWTopicPrefix = "sensors/lubw-hour/"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func coUALSpec(start, stop, sensor string, bucket buckets.Bucket) QuerySpec {
	return QuerySpec{
		Start:          start,
		Stop:           stop,
		Bucket:         bucket.String(),
		Measurement:    UALMeasurement,
		Topic:          UALTopicPrefix + orDefault(sensor, DefaultUALSensor),
		Fields:         []string{"CO", "RAW_ADC_CO_A", "RAW_ADC_CO_W", "sht_temp", "sht_humid"},
		Rename:         map[string]string{"CO": "CO_ual", "sht_temp": "UAL_TEMP"},
		AggregateEvery: "1h",
	}
}

func coLUBWSpec(start, stop, sensor string, bucket buckets.Bucket) QuerySpec {
	return QuerySpec{
		Start:          start,
		Stop:           stop,
		Bucket:         bucket.String(),
		Measurement:    LUBWMeasurement,
		Topic:          LUBWTopicPrefix + orDefault(sensor, DefaultLUBWSensor),
		Fields:         []string{"CO", "TEMP"},
		Rename:         map[string]string{"CO": "CO_lubw", "TEMP": "LUBW_TEMP"},
		AggregateEvery: "1h",
	}
}

// BuildCOHourlyJoinQuery returns the CO-specific join query of the
// original report, with rename and keep steps embedded in each side.
// Empty sensor names fall back to the historical defaults.
//
// Deprecated: use BuildJoinQuery with explicit specs.
func BuildCOHourlyJoinQuery(start, stop, ualSensor, lubwSensor string) string {
	ualSub, _ := projectedPipeline(coUALSpec(start, stop, ualSensor, buckets.UALMinuteMeasurement), "_time")
	lubwSub, _ := projectedPipeline(coLUBWSpec(start, stop, lubwSensor, buckets.LUBWHour), "_time")
	return renderJoin("ual", "lubw", ualSub, lubwSub, "_time", JoinInner).String()
}

// BuildCOHourlyUALQuery returns the UAL side of the historical CO
// report, without rename steps.
//
// Deprecated: use BuildHourlyQuery with an explicit spec.
func BuildCOHourlyUALQuery(start, stop, ualSensor string) string {
	spec := coUALSpec(start, stop, ualSensor, buckets.UALMinuteMeasurement)
	spec.Fields = []string{"CO", "RAW_ADC_CO_A", "RAW_ADC_CO_W"}
	spec.Rename = nil
	q, _ := BuildHourlyQuery(spec)
	return q
}

// BuildCOHourlyLUBWQuery returns the LUBW side of the historical CO
// report, without rename steps.
//
// Deprecated: use BuildHourlyQuery with an explicit spec.
func BuildCOHourlyLUBWQuery(start, stop, lubwSensor string) string {
	spec := coLUBWSpec(start, stop, lubwSensor, buckets.LUBWHour)
	spec.Fields = []string{"CO"}
	spec.Rename = nil
	q, _ := BuildHourlyQuery(spec)
	return q
}
