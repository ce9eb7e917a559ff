package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultInterval separates consecutive operations when a script sets none.
const DefaultInterval = 100 * time.Millisecond

// ErrInvalidScript is wrapped by script validation failures.
var ErrInvalidScript = errors.New("invalid replay script")

// Kind is the operation type.
type Kind string

const (
	KindAdd    Kind = "add"
	KindRemove Kind = "rm"
	KindGet    Kind = "get"
)

// Op is one scripted operation. A zero Timestamp lets the target stamp it.
type Op struct {
	Kind      Kind   `yaml:"op"`
	Element   string `yaml:"item,omitempty"`
	Timestamp int64  `yaml:"ts,omitempty"`
}

func (o Op) String() string {
	if o.Kind == KindGet {
		return string(o.Kind)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.Element)
}

// Script is an ordered operation queue.
type Script struct {
	Interval time.Duration `yaml:"interval,omitempty"`
	Ops      []Op          `yaml:"ops"`
}

// DefaultScript is the demonstration queue: a, b and c are added, d is
// removed before it is ever added, a is removed, d is added, and the set is
// listed. The final listing is b, c, d.
func DefaultScript() Script {
	return Script{
		Interval: DefaultInterval,
		Ops: []Op{
			{Kind: KindAdd, Element: "a"},
			{Kind: KindAdd, Element: "b"},
			{Kind: KindAdd, Element: "c"},
			{Kind: KindRemove, Element: "d"},
			{Kind: KindRemove, Element: "a"},
			{Kind: KindAdd, Element: "d"},
			{Kind: KindGet},
		},
	}
}

// LoadScript reads a YAML script.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("failed to unmarshal script: %w", err)
	}
	if s.Interval == 0 {
		s.Interval = DefaultInterval
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks every operation.
func (s Script) Validate() error {
	if s.Interval < 0 {
		return fmt.Errorf("%w: negative interval %s", ErrInvalidScript, s.Interval)
	}
	for i, op := range s.Ops {
		switch op.Kind {
		case KindAdd, KindRemove:
			if op.Element == "" {
				return fmt.Errorf("%w: op %d (%s) has no item", ErrInvalidScript, i, op.Kind)
			}
		case KindGet:
		default:
			return fmt.Errorf("%w: op %d has unknown kind %q", ErrInvalidScript, i, op.Kind)
		}
	}
	return nil
}
