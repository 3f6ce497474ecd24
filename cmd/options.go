package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/option"
)

var ErrBadOption = errors.New("option must look like name=value")

// setting is one option assignment in the order it was given.
type setting struct {
	name  string
	value string
}

// parseSettings splits -O/-P arguments. Each argument holds one or more
// comma separated name=value pairs; a bare name means name=true.
func parseSettings(args []string) ([]setting, error) {
	var out []setting
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, value, found := strings.Cut(part, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrBadOption, part)
			}
			if !found {
				value = "true"
			}
			out = append(out, setting{name: name, value: value})
		}
	}
	return out, nil
}

// configSettings converts a config option map, sorted by name.
func configSettings(m map[string]any) ([]setting, error) {
	values, err := config.StringOptions(m)
	if err != nil {
		return nil, err
	}
	out := make([]setting, 0, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		out = append(out, setting{name: name, value: values[name]})
	}
	return out, nil
}

// applySettings assigns configured options, then explicit ones. Configured
// options the target does not declare are skipped since they may belong to
// another lexer or formatter; explicit ones must exist.
func applySettings(target string, set func(name, value string) error, configured, explicit []setting) error {
	for _, s := range configured {
		if err := set(s.name, s.value); err != nil {
			if errors.Is(err, option.ErrUnknownOption) {
				log.Debug(log.CatConfig, "skipping configured option", "target", target, "option", s.name)
				continue
			}
			return err
		}
	}
	for _, s := range explicit {
		if err := set(s.name, s.value); err != nil {
			return err
		}
	}
	return nil
}
