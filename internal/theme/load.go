package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/hilite/internal/token"
)

// File is the YAML layout of a theme file:
//
//	name: solarized-light
//	description: Solarized, light variant
//	inherit: github
//	styles:
//	  text: "#657b83 bg:#fdf6e3"
//	  keyword: "bold #859900"
//	  name.function: "#268bd2"
type File struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Inherit     string            `yaml:"inherit,omitempty"`
	Styles      map[string]string `yaml:"styles"`
}

// Load reads a theme file. It does not register the theme.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse builds a theme from the YAML document data.
func Parse(data []byte) (*Theme, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing theme: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("%w: theme has no name", ErrInvalidStyle)
	}

	t := &Theme{Name: f.Name, Description: f.Description}
	if f.Inherit != "" {
		base, err := ByName(f.Inherit)
		if err != nil {
			return nil, fmt.Errorf("inherit: %w", err)
		}
		t = base.Clone(f.Name)
		t.Description = f.Description
	}
	for key, text := range f.Styles {
		c, ok := token.ByName(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown token class %q", ErrInvalidStyle, key)
		}
		s, err := ParseStyle(text)
		if err != nil {
			return nil, err
		}
		t.Set(c, s)
	}
	return t, nil
}

// Marshal renders the styles t defines itself as a theme file.
func Marshal(t *Theme) ([]byte, error) {
	f := File{Name: t.Name, Description: t.Description, Styles: map[string]string{}}
	for _, c := range token.All() {
		if s, ok := t.Own(c); ok {
			f.Styles[c.Key()] = s.String()
		}
	}
	return yaml.Marshal(f)
}
