package lang

import (
	"io"
	"os"

	"github.com/ardnew/tinct/log"
)

// DefaultMaxDepth is the default limit on nested user-function calls.
const DefaultMaxDepth = 1000

// config holds the settings shared by compilation and evaluation.
type config struct {
	logger        log.Logger
	output        io.Writer
	maxDepth      int
	subtraction   bool
	isolated      bool
	newMemberKeys bool
}

// Option configures compilation and evaluation.
type Option func(*config)

func makeConfig(opts ...Option) *config {
	cfg := &config{
		output:        os.Stdout,
		maxDepth:      DefaultMaxDepth,
		newMemberKeys: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return cfg
}

// WithLogger sets the logger that receives trace events. The zero
// [log.Logger] (the default) discards them.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithOutput sets the writer used by the log built-in.
// A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithSubtraction controls whether '-' subtracts. When disabled (the
// default), '-' adds its operands.
func WithSubtraction(enable bool) Option {
	return func(c *config) { c.subtraction = enable }
}

// WithIsolatedScope controls whether each user-function call gets its own
// child scope. When disabled (the default), parameters and assignments in a
// function body are written to the caller's scope and remain visible after
// the call returns.
func WithIsolatedScope(enable bool) Option {
	return func(c *config) { c.isolated = enable }
}

// WithNewMemberKeys controls whether assigning to a missing final key of a
// member expression appends it (the default) or fails.
func WithNewMemberKeys(enable bool) Option {
	return func(c *config) { c.newMemberKeys = enable }
}

// WithMaxDepth limits the number of nested user-function calls.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}
