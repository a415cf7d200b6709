// Command binspec decodes, encodes, and reports the static size of a
// byte buffer against a YAML-defined schema.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kungfusheep/binspec"
	"github.com/kungfusheep/binspec/internal/yamlschema"
)

// logFlags separates flag names from the resolved config so
// registerFlags and newHandler can be called independently.
type logFlags struct {
	level  string
	format string
}

func (f *logFlags) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.level, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&f.format, "log-format", "text", "log format: text, json")
}

func (f *logFlags) newHandler(w io.Writer) (slog.Handler, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.level)); err != nil {
		return nil, fmt.Errorf("log-level %q: %w", f.level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch f.format {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("log-format must be \"text\" or \"json\", got %q", f.format)
	}
}

func main() {
	logf := &logFlags{}
	var schemaPath, inputPath string

	root := &cobra.Command{
		Use:           "binspec",
		Short:         "Decode, encode, and size byte buffers against a YAML schema",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&schemaPath, "schema", "", "path to a YAML schema file (required)")
	logf.registerFlags(root.PersistentFlags())

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a binary file into JSON using the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(logf)
			if err != nil {
				return err
			}
			schema, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			data, err := readInput(inputPath)
			if err != nil {
				return err
			}
			log.Debug("decoding", "schema", schemaPath, "bytes", len(data))

			rec, err := schema.Parse(data)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	decodeCmd.Flags().StringVar(&inputPath, "in", "-", "input file, or - for stdin")

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a JSON record into bytes using the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(logf)
			if err != nil {
				return err
			}
			schema, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			data, err := readInput(inputPath)
			if err != nil {
				return err
			}

			var rec map[string]any
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("encode: parse JSON input: %w", err)
			}
			log.Debug("encoding", "schema", schemaPath, "fields", len(rec))

			out, err := schema.Encode(binspec.Record(rec))
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	encodeCmd.Flags().StringVar(&inputPath, "in", "-", "input file, or - for stdin")

	sizeofCmd := &cobra.Command{
		Use:   "sizeof",
		Short: "Report the schema's static byte width, if statically sized",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			size, ok := schema.SizeOf()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "unknown")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), size)
			return nil
		},
	}

	root.AddCommand(decodeCmd, encodeCmd, sizeofCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "binspec: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(logf *logFlags) (*slog.Logger, error) {
	h, err := logf.newHandler(os.Stderr)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

func loadSchema(path string) (*binspec.Schema, error) {
	if path == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	doc, err := yamlschema.Parse(raw)
	if err != nil {
		return nil, err
	}
	s, err := yamlschema.Compile(doc)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return s, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
