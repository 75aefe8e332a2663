package message

import (
	"fmt"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/internal/options"
	"github.com/arloliu/figkit/schema"
)

const (
	// DefaultRootMessage is the conventional name of the document's root
	// message definition.
	DefaultRootMessage = "Message"

	// DefaultNodeChangesField is the conventional name of the root
	// message's repeated node-record field, the one the streaming codec
	// pivots on.
	DefaultNodeChangesField = "nodeChanges"

	// NodeChangeCountKey is the synthetic header key under which
	// DecodeHeader records the declared node-change count. The leading
	// underscores keep it out of any schema's field namespace.
	NodeChangeCountKey = "__nodeChangeCount"
)

type streamConfig struct {
	rootName  string
	fieldName string
}

// StreamOption configures the streaming codecs.
type StreamOption = options.Option[*streamConfig]

// WithRootMessage overrides the root message definition name.
func WithRootMessage(name string) StreamOption {
	return options.NoError(func(c *streamConfig) {
		c.rootName = name
	})
}

// WithNodeChangesField overrides the name of the repeated node-record
// field.
func WithNodeChangesField(name string) StreamOption {
	return options.NoError(func(c *streamConfig) {
		c.fieldName = name
	})
}

// resolveStream locates the root message and its node-change field and
// validates that the field is an array of a struct or message type.
func resolveStream(s *schema.Schema, opts ...StreamOption) (root *schema.Definition, field *schema.Field, nodeDef *schema.Definition, err error) {
	cfg := &streamConfig{
		rootName:  DefaultRootMessage,
		fieldName: DefaultNodeChangesField,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, nil, nil, err
	}

	root, ok := s.Lookup(cfg.rootName)
	if !ok || root.Kind != schema.KindMessage {
		return nil, nil, nil, fmt.Errorf("%q: %w", cfg.rootName, errs.ErrUnknownRootMessage)
	}

	field, ok = root.FieldByName(cfg.fieldName)
	if !ok {
		return nil, nil, nil, fmt.Errorf("message %q field %q: %w",
			cfg.rootName, cfg.fieldName, errs.ErrNoNodeChangesField)
	}
	if !field.IsArray || field.TypeID < 0 {
		return nil, nil, nil, fmt.Errorf("message %q field %q is not an array of a composite type: %w",
			cfg.rootName, cfg.fieldName, errs.ErrNoNodeChangesField)
	}

	nodeDef, err = s.Definition(field.TypeID)
	if err != nil {
		return nil, nil, nil, err
	}
	if nodeDef.Kind == schema.KindEnum {
		return nil, nil, nil, fmt.Errorf("message %q field %q elements are enums: %w",
			cfg.rootName, cfg.fieldName, errs.ErrNoNodeChangesField)
	}

	return root, field, nodeDef, nil
}
