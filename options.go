package figkit

import (
	"fmt"

	"github.com/arloliu/figkit/container"
	"github.com/arloliu/figkit/format"
	"github.com/arloliu/figkit/internal/options"
	"github.com/arloliu/figkit/message"
)

// fileConfig carries the shared configuration for Parse, StreamParse
// and Build.
type fileConfig struct {
	rootName      string
	nodeFieldName string
	version       byte
	compression   format.CompressionType
}

// Option configures Parse, StreamParse and Build. Options that do not
// apply to a given call (compression during a parse, for example) are
// simply unused.
type Option = options.Option[*fileConfig]

func newFileConfig(opts []Option) (*fileConfig, error) {
	cfg := &fileConfig{
		rootName:      message.DefaultRootMessage,
		nodeFieldName: message.DefaultNodeChangesField,
		version:       container.DefaultVersion,
		compression:   format.CompressionDeflate,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// streamOptions translates the file configuration into streaming codec
// options.
func (c *fileConfig) streamOptions() []message.StreamOption {
	return []message.StreamOption{
		message.WithRootMessage(c.rootName),
		message.WithNodeChangesField(c.nodeFieldName),
	}
}

// WithRootMessage overrides the root message definition name (default
// "Message").
func WithRootMessage(name string) Option {
	return options.NoError(func(c *fileConfig) {
		c.rootName = name
	})
}

// WithNodeChangesField overrides the name of the root message's
// repeated node-record field (default "nodeChanges").
func WithNodeChangesField(name string) Option {
	return options.NoError(func(c *fileConfig) {
		c.nodeFieldName = name
	})
}

// WithVersion sets the container version byte written by Build. The
// version is a single ASCII digit stored as a raw byte.
func WithVersion(version byte) Option {
	return options.New(func(c *fileConfig) error {
		if version < '0' || version > '9' {
			return fmt.Errorf("version %q is not an ASCII digit", version)
		}
		c.version = version

		return nil
	})
}

// WithChunkCompression sets the compression applied to both chunks by
// Build (default raw deflate, the format's historical default).
func WithChunkCompression(compressionType format.CompressionType) Option {
	return options.NoError(func(c *fileConfig) {
		c.compression = compressionType
	})
}
