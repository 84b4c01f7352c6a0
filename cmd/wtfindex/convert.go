package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitlisted/tracing-framework/internal/ingest"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] IN OUT",
	Short: "Convert an NDJSON trace to the msgpack trace format",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	in, err := ingest.Open(args[0], ingest.FormatAuto)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()
	if in.Format == ingest.FormatMsgpack {
		return fmt.Errorf("%s is already in msgpack format", args[0])
	}

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	return s.timer.Measure("convert", func() (string, error) {
		n, err := ingest.Convert(in, ingest.NewMsgpackWriter(out))
		if err != nil {
			return "", err
		}
		s.logger.Info("trace converted", "input", args[0], "output", args[1], "records", n)
		return fmt.Sprintf("%d records", n), nil
	})
}
