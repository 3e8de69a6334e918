package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// filePerm is the mode of report files.
const filePerm os.FileMode = 0o644

// Destination is where a rendered report goes: the file at Path, or
// Stdout when Path is empty or "-".
type Destination struct {
	Path   string
	Stdout io.Writer
	Logger *slog.Logger
}

// To returns the destination for an --output value.
func To(path string, stdout io.Writer, logger *slog.Logger) Destination {
	if path == "-" {
		path = ""
	}

	return Destination{Path: path, Stdout: stdout, Logger: logger}
}

// IsFile reports whether the report is written to a file.
func (d Destination) IsFile() bool { return d.Path != "" }

// Render formats r with f and delivers the complete output to d, so a
// failed render never leaves a partial file behind.
func Render(f Formatter, r *Report, d Destination) error {
	return d.deliver("report", func(w io.Writer) error { return f.Format(w, r) })
}

// RenderOptions is Render for option listings.
func RenderOptions(f OptionsFormatter, o *Options, d Destination) error {
	return d.deliver("options", func(w io.Writer) error { return f.FormatOptions(w, o) })
}

func (d Destination) deliver(what string, format func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := format(&buf); err != nil {
		return fmt.Errorf("rendering %s: %w", what, err)
	}

	if !d.IsFile() {
		out := d.Stdout
		if out == nil {
			out = os.Stdout
		}

		if _, err := out.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing %s: %w", what, err)
		}

		return nil
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(filepath.Dir(d.Path), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", d.Path, err)
	}

	if _, err := os.Stat(d.Path); err == nil {
		logger.Warn("overwriting existing file", slog.String("path", d.Path))
	}

	if err := os.WriteFile(d.Path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("writing %s to %s: %w", what, d.Path, err)
	}

	logger.Info(what+" written", slog.String("path", d.Path), slog.Int("bytes", buf.Len()))

	return nil
}
