package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urbanairlab/ualexport/internal/app"
	"github.com/urbanairlab/ualexport/internal/constants"
	"github.com/urbanairlab/ualexport/internal/log"
	"github.com/urbanairlab/ualexport/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")

	mode := flag.String("mode", "join", "Export mode: source, join, debug, co, co-debug")
	start := flag.String("start", "-30d", "Range start (Flux time literal, e.g. 2024-01-01T00:00:00Z or -30d)")
	stop := flag.String("stop", "now()", "Range stop (Flux time literal)")
	bucket := flag.String("bucket", "", "Bucket for source mode (defaults to the configured UAL bucket)")
	measurement := flag.String("measurement", "measurement_data", "Measurement for source mode")
	topic := flag.String("topic", "", "Topic for source mode, e.g. sensors/measurement/ual-4")
	fields := flag.String("fields", "", "Comma-separated field list for source mode")
	ualSensor := flag.String("ual-sensor", "", "UAL sensor name for join modes")
	lubwSensor := flag.String("lubw-sensor", "", "LUBW station name for join modes")
	output := flag.String("output", "", "Output CSV path (mode-specific default when empty)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ualexport %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	filename, _ := filepath.Abs(*cfgFile)
	cfgData, err := config.NewYAMLProvider(filename).LoadConfig()
	if err != nil {
		log.Errorf("Failed to load configuration. Did you pass the -config flag? Run with -h for help: %v", err)
		os.Exit(1)
	}

	var fieldList []string
	if *fields != "" {
		for _, f := range strings.Split(*fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fieldList = append(fieldList, f)
			}
		}
	}

	// Create and run the application
	application := app.New(cfgData, log.GetSugaredLogger())
	opts := app.Options{
		Mode:        *mode,
		Start:       *start,
		Stop:        *stop,
		Bucket:      *bucket,
		Measurement: *measurement,
		Topic:       *topic,
		Fields:      fieldList,
		UALSensor:   *ualSensor,
		LUBWSensor:  *lubwSensor,
		Output:      *output,
	}
	if err := application.Run(context.Background(), opts); err != nil {
		log.Errorf("Export error: %v", err)
		os.Exit(1)
	}
}
