package registry

import "log/slog"

type options struct {
	errs   ErrorTable
	kind   string
	logger *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		errs:   DefaultErrorTable(),
		kind:   "Registerable",
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.errs = o.errs.withDefaults()
	return o
}

// Option configures registries and groups.
type Option func(*options)

// WithErrorTable replaces the generic error constructors. Nil entries fall
// back to the defaults.
func WithErrorTable(t ErrorTable) Option {
	return func(o *options) {
		o.errs = t
	}
}

// WithKind sets the readable item name used in log records.
func WithKind(kind string) Option {
	return func(o *options) {
		if kind != "" {
			o.kind = kind
		}
	}
}

// WithLogger sets the logger for add/remove records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
