package rendertree

// Option configures Build.
//
// Example:
//
//	tree, err := rendertree.Build(engine, src,
//	    rendertree.WithName("index.html"),
//	    rendertree.WithNodeLimit(10_000),
//	)
type Option func(*buildOptions)

// buildOptions holds optional configuration for Build.
type buildOptions struct {
	name      string
	nodeLimit int
}

func defaultOptions() buildOptions {
	return buildOptions{
		name:      "",
		nodeLimit: 0, // unlimited
	}
}

// WithName labels the tree in errors and log records.
func WithName(name string) Option {
	return func(o *buildOptions) {
		o.name = name
	}
}

// WithNodeLimit rejects engine output with more than n nodes.
// n <= 0 means no limit.
func WithNodeLimit(n int) Option {
	return func(o *buildOptions) {
		o.nodeLimit = n
	}
}
