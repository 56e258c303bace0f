// Package transporters contains log.Transporter implementations.
package transporters

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"xhs-resolver/pkg/log"
)

// Format selects how entries are rendered.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Stdout writes entries to stdout (or any io.Writer), one per line.
type Stdout struct {
	writer io.Writer
	format Format
}

// NewStdout writes JSON lines to os.Stdout.
func NewStdout() *Stdout {
	return &Stdout{writer: os.Stdout, format: FormatJSON}
}

// NewStdoutWithWriter writes to w in the given format.
// An empty format means JSON.
func NewStdoutWithWriter(w io.Writer, format Format) *Stdout {
	if format == "" {
		format = FormatJSON
	}
	return &Stdout{writer: w, format: format}
}

func (s *Stdout) Name() string {
	return "stdout"
}

func (s *Stdout) Write(entry log.Entry) error {
	return writeEntry(s.writer, s.format, entry)
}

// Close is a no-op; stdout stays open.
func (s *Stdout) Close() error {
	return nil
}

func writeEntry(w io.Writer, format Format, entry log.Entry) error {
	if format == FormatText {
		_, err := fmt.Fprintln(w, entry.Text())
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}
