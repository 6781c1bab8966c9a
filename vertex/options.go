package vertex

// Option configures a Writer.
type Option func(*writerOptions)

type writerOptions struct {
	strict bool
}

func defaultOptions() writerOptions {
	return writerOptions{}
}

// Strict makes the writer panic on the first overrun or invalid field
// instead of recording a sticky error.
func Strict() Option {
	return func(o *writerOptions) {
		o.strict = true
	}
}
