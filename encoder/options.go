package encoder

import (
	"log/slog"

	"github.com/gogpu/vtxpass"
)

// Option configures a Session during creation.
//
// Example:
//
//	s, err := encoder.New(native,
//	    encoder.WithLabel("shadow pass"),
//	    encoder.WithLogger(logger),
//	)
type Option func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	logger     *slog.Logger
	label      string
	cacheState bool
}

// defaultOptions returns the default session options.
func defaultOptions() sessionOptions {
	return sessionOptions{
		logger:     vtxpass.Logger(),
		cacheState: true,
	}
}

// WithLogger sets the logger for the session and, if it accepts one, the
// native handle. By default the logger configured with vtxpass.SetLogger
// is used. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLabel labels the pass when the session opens.
func WithLabel(label string) Option {
	return func(o *sessionOptions) {
		o.label = label
	}
}

// WithoutStateCache makes the session forward every state change, even
// when the value is already current. Useful when another party also
// records into the same native handle.
func WithoutStateCache() Option {
	return func(o *sessionOptions) {
		o.cacheState = false
	}
}
