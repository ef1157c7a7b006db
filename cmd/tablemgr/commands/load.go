package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/Konsultn-Engineering/tablemgr/engine"
	"github.com/Konsultn-Engineering/tablemgr/schema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newLoadCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		file      string
		format    string
		batchSize int
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "load TABLE",
		Short: "Insert the records of a JSON or YAML file into a table.",
		Long: `Insert the records of a JSON or YAML file into a table.

The file holds a list of objects keyed by column name. Records are sent in
batches of bulk.batch_size rows; the first failing batch stops the load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []engine.Option
			if cmd.Flags().Changed("strict") {
				policy := batch.FirstRecord
				if strict {
					policy = batch.Strict
				}
				opts = append(opts, engine.WithPolicy(policy))
			}
			_, m, logger, err := setup(cmd.Context(), cmd, stderr, opts...)
			if err != nil {
				return err
			}
			defer m.Close()

			if cmd.Flags().Changed("batch-size") {
				if err := m.SetBatchSize(batchSize); err != nil {
					return err
				}
			}

			data, err := readInput(file, stdin)
			if err != nil {
				return err
			}
			if format == "" {
				format = formatOf(file)
			}
			records, err := decodeRecords(data, format)
			if err != nil {
				return err
			}

			b, err := m.Bind(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := b.InsertRows(cmd.Context(), records)
			stats := b.Stats()
			logger.Info().
				Str("table", b.Name()).
				Int("batches", res.Batches).
				Int("rows", res.Rows).
				Float64("rows_per_sec", stats.RowsPerSecond()).
				Msg("load finished")
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "inserted %d rows into %s in %d batches\n", res.Rows, b.Name(), res.Batches)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Records file, - for stdin.")
	cmd.Flags().StringVar(&format, "format", "", "Input format, json or yaml. Guessed from the file extension when empty.")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per batch, overrides bulk.batch_size. 0 sends one batch.")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject records whose keys differ from the first record.")
	return cmd
}

func readInput(file string, stdin io.Reader) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(file)
	return data, errors.Wrap(err, "reading records")
}

func formatOf(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func decodeRecords(data []byte, format string) ([]schema.Record, error) {
	var raw []map[string]any
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decoding yaml records")
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "decoding json records")
		}
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}

	records := make([]schema.Record, len(raw))
	for i, r := range raw {
		for k, v := range r {
			if n, ok := v.(json.Number); ok {
				r[k] = number(n)
			}
		}
		records[i] = schema.Record(r)
	}
	return records, nil
}

func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
