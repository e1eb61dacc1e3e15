package main

import (
	"flag"
	"fmt"

	"github.com/iwvelando/field-forecast/internal/config"
	"github.com/iwvelando/field-forecast/internal/forecast"
	"github.com/iwvelando/field-forecast/internal/logging"
	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/iwvelando/field-forecast/pkg/output"
	"github.com/iwvelando/field-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get the project location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to project file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load project at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over the project file
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	conf.Prepare()

	summary, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(summary)
	case constants.OutputFormatCSV:
		output.CsvFormat(summary)
	}
}
