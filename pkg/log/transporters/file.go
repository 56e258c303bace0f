package transporters

import (
	"xhs-resolver/pkg/log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures rotation for File.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// File writes JSON lines to a size-rotated file.
type File struct {
	out *lumberjack.Logger
}

// NewFile opens (lazily, on first write) the file described by opts.
func NewFile(opts FileOptions) *File {
	return &File{out: &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}}
}

func (f *File) Name() string {
	return "file"
}

func (f *File) Write(entry log.Entry) error {
	return writeEntry(f.out, FormatJSON, entry)
}

func (f *File) Close() error {
	return f.out.Close()
}
