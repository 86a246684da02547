package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidwul/gofit/pkg/gofit"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gofit-analyze [hex]",
		Short: "Decode activity-device message occurrences",
		Long:  "gofit-analyze decodes hex-encoded message occurrences (definition section plus payload) using the gofit library.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gofit.Options{
				SchemaFile:       schemaFile,
				Trace:            len(traceFields) > 0 || traceAll,
				Fields:           traceFields,
				IncludeUndefined: includeUndefined,
				Logger:           logrus.StandardLogger(),
			}
			if len(args) == 0 {
				return runInteractive(opts)
			}
			return runAnalyze(opts, args[0])
		},
	}

	schemaFile       string
	traceFields      []string
	traceAll         bool
	includeUndefined bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "YAML schema overlay file")
	rootCmd.PersistentFlags().StringSliceVar(&traceFields, "fields", nil, "field names to trace (implies tracing)")
	rootCmd.PersistentFlags().BoolVar(&traceAll, "trace", false, "trace every decoded field")
	rootCmd.PersistentFlags().BoolVar(&includeUndefined, "undefined", false, "also trace sentinel-valued fields")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func runInteractive(opts gofit.Options) error {
	scanner := bufio.NewScanner(os.Stdin)
	logrus.Info("gofit analyze mode. Paste a hex occurrence and press Enter (Ctrl+D to exit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runAnalyze(opts, line); err != nil {
			logrus.WithError(err).Error("failed to decode occurrence")
		}
	}
	return scanner.Err()
}

func runAnalyze(opts gofit.Options, hex string) error {
	result, err := gofit.DecodeHexWithOptions(hex, opts)
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	for _, d := range result.Diagnostics {
		fmt.Printf("  msg=%d field=%d %s (type 0x%02X) = %s\n",
			d.MsgNum, d.FieldNum, d.Name, d.TypeTag, d.Value)
	}
	return nil
}
