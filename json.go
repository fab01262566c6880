package fieldmapper

import (
	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"
)

// Codec turns JSON text into values and back. ConvertJSON decodes into the
// source type with it before filling the target.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct {
	opts json.Options
}

// NewJSONCodec returns a Codec backed by github.com/go-json-experiment/json.
// Without options output is deterministic and member names match
// case-insensitively.
func NewJSONCodec(opts ...json.Options) Codec {
	if len(opts) == 0 {
		opts = []json.Options{
			json.Deterministic(true),
			json.MatchCaseInsensitiveNames(true),
		}
	}
	return &jsonCodec{opts: json.JoinOptions(opts...)}
}

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v, c.opts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal JSON")
	}
	return b, nil
}

func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v, c.opts); err != nil {
		return errors.Wrap(err, "unable to unmarshal JSON")
	}
	return nil
}
