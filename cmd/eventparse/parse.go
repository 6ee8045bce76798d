package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kostroma329/Calendar-bot/extract"
)

const (
	formatJSON = "json"
	formatText = "text"

	maxLineBytes = 1 << 20
)

type parseOptions struct {
	format string
	now    string
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Extract facts from a message or from stdin",
		Long: `Extract the event time, place and dances from a message.

With arguments, the arguments joined by spaces form one message. Without
arguments every non-blank stdin line is a separate message.

Examples:
  eventparse parse завтра в 19:00 в Троицком танцуем вальс
  eventparse parse --format text --now 2024-03-10T10:30:00+03:00 "в пятницу кадриль"
  cat messages.txt | eventparse parse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, a, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or text")
	cmd.Flags().StringVar(&opts.now, "now", "", "reference instant in RFC 3339 (default: current time)")
	return cmd
}

func runParse(cmd *cobra.Command, a *app, opts *parseOptions, args []string) error {
	if opts.format != formatJSON && opts.format != formatText {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatJSON, formatText)
	}
	ref := time.Now()
	if opts.now != "" {
		t, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		ref = t
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		return writeResult(out, opts.format, engine.ExtractAt(strings.Join(args, " "), ref))
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := writeResult(out, opts.format, engine.ExtractAt(line, ref)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}

// writeResult prints one JSON object per line, or the summary followed by
// a blank line.
func writeResult(w io.Writer, format string, r extract.Result) error {
	if format == formatText {
		_, err := fmt.Fprintf(w, "%s\n\n", r.Summary())
		return err
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
