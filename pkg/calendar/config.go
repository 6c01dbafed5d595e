package calendar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timegrid/pkg/cache"
	"github.com/matzehuels/timegrid/pkg/errors"
)

// dateLayout is the layout of rule dates.
const dateLayout = "2006-01-02"

// Config is the file representation of a calendar.
//
//	fill_working = false
//
//	[templates.day]
//	start = "08:00"
//	end = "18:00"
//	working = true
//	magnet = true
//
//	[[rules]]
//	name = "weekdays"
//	weekdays = ["monday", "tuesday", "wednesday", "thursday", "friday"]
//	targets = ["day"]
//
// The same structure is accepted as YAML and JSON.
type Config struct {
	FillWorking bool                      `toml:"fill_working" yaml:"fill_working" json:"fill_working"`
	Templates   map[string]TemplateConfig `toml:"templates" yaml:"templates" json:"templates"`
	Rules       []RuleConfig              `toml:"rules" yaml:"rules" json:"rules"`
}

// TemplateConfig declares a template. Start and End are "HH:MM" or empty.
type TemplateConfig struct {
	Start    string `toml:"start" yaml:"start" json:"start,omitempty"`
	End      string `toml:"end" yaml:"end" json:"end,omitempty"`
	Working  bool   `toml:"working" yaml:"working" json:"working"`
	Magnet   bool   `toml:"magnet" yaml:"magnet" json:"magnet,omitempty"`
	Priority int    `toml:"priority" yaml:"priority" json:"priority,omitempty"`
}

// RuleConfig declares a rule. Dates are "YYYY-MM-DD"; weekdays are English day
// names.
type RuleConfig struct {
	Name     string   `toml:"name" yaml:"name" json:"name"`
	Date     string   `toml:"date" yaml:"date" json:"date,omitempty"`
	From     string   `toml:"from" yaml:"from" json:"from,omitempty"`
	To       string   `toml:"to" yaml:"to" json:"to,omitempty"`
	Weekdays []string `toml:"weekdays" yaml:"weekdays" json:"weekdays,omitempty"`
	Default  bool     `toml:"default" yaml:"default" json:"default,omitempty"`
	Targets  []string `toml:"targets" yaml:"targets" json:"targets"`
}

// LoadFile reads and builds a calendar from path. The format follows the
// extension: .toml, .yaml, .yml or .json.
func LoadFile(path string) (*Calendar, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

// ReadFile reads a calendar config from path without building it.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "calendar file %s", path)
		}
		return nil, err
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes a calendar config in the given format: toml, yaml, yml or json.
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	var err error
	switch strings.ToLower(format) {
	case "toml":
		err = toml.Unmarshal(data, &cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	case "json":
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported calendar format: %q (must be one of: toml, yaml, json)", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCalendar, err, "decode %s calendar", format)
	}
	return &cfg, nil
}

// Validate checks names, clocks, dates, weekdays and rule targets.
func (c *Config) Validate() error {
	for name, t := range c.Templates {
		if err := errors.ValidateName("template", name); err != nil {
			return err
		}
		if err := errors.ValidateClock(t.Start); err != nil {
			return err
		}
		if err := errors.ValidateClock(t.End); err != nil {
			return err
		}
		if t.Start != "" && t.End != "" && t.Start >= t.End {
			return errors.New(errors.ErrCodeInvalidCalendar, "template %s: start %s is not before end %s", name, t.Start, t.End)
		}
	}

	for i, r := range c.Rules {
		if _, err := r.build(c.Templates); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCalendar, err, "rule %d", i+1)
		}
	}
	return nil
}

// Build validates the config and converts it into a Calendar.
func (c *Config) Build() (*Calendar, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cal := &Calendar{
		Templates:   make(map[string]Template, len(c.Templates)),
		FillWorking: c.FillWorking,
	}
	for name, t := range c.Templates {
		start, _ := ParseClock(t.Start)
		end, _ := ParseClock(t.End)
		cal.Templates[name] = Template{
			Name:     name,
			Start:    start,
			End:      end,
			Working:  t.Working,
			Magnet:   t.Magnet,
			Priority: t.Priority,
		}
	}
	for _, r := range c.Rules {
		rule, _ := r.build(c.Templates)
		cal.Rules = append(cal.Rules, rule)
	}
	return cal, nil
}

func (r RuleConfig) build(templates map[string]TemplateConfig) (Rule, error) {
	rule := Rule{Name: r.Name, Default: r.Default, Targets: r.Targets}
	if r.Name != "" {
		if err := errors.ValidateName("rule", r.Name); err != nil {
			return Rule{}, err
		}
	}

	var err error
	if rule.Date, err = parseDate(r.Date); err != nil {
		return Rule{}, err
	}
	if rule.From, err = parseDate(r.From); err != nil {
		return Rule{}, err
	}
	if rule.To, err = parseDate(r.To); err != nil {
		return Rule{}, err
	}
	if !rule.From.IsZero() && !rule.To.IsZero() && rule.To.Before(rule.From) {
		return Rule{}, errors.New(errors.ErrCodeInvalidCalendar, "range ends %s before it starts %s", r.To, r.From)
	}

	for _, name := range r.Weekdays {
		wd, err := parseWeekday(name)
		if err != nil {
			return Rule{}, err
		}
		rule.Weekdays = append(rule.Weekdays, wd)
	}

	if len(r.Targets) == 0 {
		return Rule{}, errors.New(errors.ErrCodeInvalidCalendar, "no targets")
	}
	for _, target := range r.Targets {
		if _, ok := templates[target]; !ok {
			return Rule{}, errors.New(errors.ErrCodeInvalidCalendar, "unknown template %q", target)
		}
	}
	return rule, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidCalendar, err, "invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidCalendar, "invalid weekday %q", s)
}

// Hash returns a digest of the config's content, used to key cached grids.
// Equal configs hash equally regardless of the format they were loaded from.
func (c *Config) Hash() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash calendar")
	}
	return cache.Hash(data), nil
}

// DefaultConfig is a Monday to Friday, 08:00 to 18:00 working calendar.
func DefaultConfig() Config {
	return Config{
		Templates: map[string]TemplateConfig{
			"day": {Start: "08:00", End: "18:00", Working: true, Magnet: true},
		},
		Rules: []RuleConfig{{
			Name:     "weekdays",
			Weekdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			Targets:  []string{"day"},
		}},
	}
}

// Default returns the calendar built from DefaultConfig.
func Default() *Calendar {
	cfg := DefaultConfig()
	cal, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return cal
}
