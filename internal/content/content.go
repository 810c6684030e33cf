// Package content provides the static portfolio data: page sections with
// their side-panel media, projects and testimonials.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/site.yaml
var defaultSiteYAML []byte

// ErrInvalid is returned when site data fails validation.
var ErrInvalid = errors.New("invalid site content")

// fileName is the site file looked up in each search location.
const fileName = "site.yaml"

// Site is the complete portfolio.
type Site struct {
	Title        string        `yaml:"title"`
	Tagline      string        `yaml:"tagline"`
	Sections     []Section     `yaml:"sections"`
	Projects     []Project     `yaml:"projects"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

// Section is one scrollable page region.
type Section struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Media Media  `yaml:"media"`
}

// Media is the image shown in the side panel while a section is active.
type Media struct {
	Image  string  `yaml:"image"`  // loader reference, e.g. builtin:aurora
	Group  string  `yaml:"group"`  // sections sharing a group crossfade
	Preset string  `yaml:"preset"` // optional effect preset
	Width  float64 `yaml:"width"`  // optional natural size override
	Height float64 `yaml:"height"`
}

// HasImage reports whether the section has side-panel media.
func (m Media) HasImage() bool {
	return m.Image != ""
}

// Project is a portfolio entry.
type Project struct {
	Name    string   `yaml:"name"`
	Year    int      `yaml:"year"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	URL     string   `yaml:"url"`
}

// Testimonial is a client quote.
type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
	Role   string `yaml:"role"`
}

// Load loads the site content.
// Search order: customPath -> ~/.folio/site.yaml -> ./configs/site.yaml -> embedded default
func Load(customPath string) (*Site, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read content %s: %w", customPath, err)
		}
		site, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse content %s: %w", customPath, err)
		}
		return site, nil
	}

	// Try user directory
	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".folio", fileName)); err == nil {
			if site, err := Parse(data); err == nil {
				return site, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if site, err := Parse(data); err == nil {
			return site, nil
		}
	}

	return Parse(defaultSiteYAML)
}

// Parse decodes and validates site YAML.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, err
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks that sections exist and have unique, non-empty ids.
func (s *Site) Validate() error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalid)
	}
	seen := make(map[string]bool, len(s.Sections))
	for i, sec := range s.Sections {
		id := strings.TrimSpace(sec.ID)
		if id == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalid, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalid, id)
		}
		seen[id] = true
	}
	return nil
}

// Section returns the section with the given id.
func (s *Site) Section(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Groups returns the distinct media groups in section order.
func (s *Site) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, sec := range s.Sections {
		g := sec.Media.Group
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}
