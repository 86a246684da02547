package gofit

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/davidwul/gofit/internal/profile"
)

// Options configures decoding.
type Options struct {
	// SchemaFile names a YAML overlay of extra message schemas.
	SchemaFile string

	// Trace enables diagnostic collection into Result.Diagnostics.
	// Fields restricts tracing to the named fields (empty means all);
	// IncludeUndefined also traces sentinel-valued fields.
	Trace            bool
	Fields           []string
	IncludeUndefined bool

	// Logger receives schema-gap warnings. Defaults to a silent logger.
	Logger logrus.FieldLogger
}

func (opts Options) registry() (*profile.Registry, error) {
	reg := profile.Builtin()
	if opts.SchemaFile != "" {
		if err := profile.LoadOverlay(reg, opts.SchemaFile, opts.logger()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (opts Options) logger() logrus.FieldLogger {
	if opts.Logger != nil {
		return opts.Logger
	}
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	return silent
}
