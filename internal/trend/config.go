package trend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Defaults mirror the archive's coverage and the dashboard's initial controls.
const (
	DefaultStartYear   = 1842
	DefaultEndYear     = 2025
	DefaultGranularity = 5
	DefaultTopN        = 10
)

// Domain limits. Years outside [MinYear, MaxYear] are rejected, and so is a
// domain that would produce more than MaxBuckets frames.
const (
	MinYear    = 1
	MaxYear    = 9999
	MaxBuckets = 1000
)

// GranularityChoices are the bucket widths offered by the dashboard.
var GranularityChoices = []int{1, 5, 10, 25}

// TopNChoices are the ranking sizes offered by the dashboard.
var TopNChoices = []int{5, 10, 15, 20}

// Sentinel configuration errors.
var (
	ErrUnknownFamily      = errors.New("unknown trend family")
	ErrUnknownCurve       = errors.New("unknown curve kind")
	ErrInvalidGranularity = errors.New("granularity must be positive")
	ErrInvalidTopN        = errors.New("top N must be positive")
	ErrInvalidDomain      = errors.New("start year must not be after end year")
	ErrYearOutOfRange     = errors.New("year out of range")
	ErrTooManyBuckets     = errors.New("domain too wide for granularity")
	ErrUniqueFamily       = errors.New("unique per concert applies to the composer family only")
)

// Config selects what Build computes.
type Config struct {
	Family      Family    `json:"family"                yaml:"family"`
	Curve       CurveKind `json:"curve"                 yaml:"curve"`
	Granularity int       `json:"granularity"           yaml:"granularity"`
	TopN        int       `json:"top_n"                 yaml:"top_n"`
	Entities    []string  `json:"entities,omitempty"    yaml:"entities,omitempty"`
	Unique      bool      `json:"unique"                yaml:"unique"`
	Markers     bool      `json:"markers"               yaml:"markers"`
	StartYear   int       `json:"start_year"            yaml:"start_year"`
	EndYear     int       `json:"end_year"              yaml:"end_year"`
}

// DefaultConfig returns the dashboard's initial configuration for a chart.
func DefaultConfig(family Family, curve CurveKind) Config {
	return Config{
		Family:      family,
		Curve:       curve,
		Granularity: DefaultGranularity,
		TopN:        DefaultTopN,
		StartYear:   DefaultStartYear,
		EndYear:     DefaultEndYear,
	}
}

// Normalize drops duplicate and blank filter entries and, when a filter is
// present, sets TopN to the filter's length.
func (c Config) Normalize() Config {
	if len(c.Entities) == 0 {
		c.Entities = nil

		return c
	}

	seen := make(map[string]struct{}, len(c.Entities))
	entities := make([]string, 0, len(c.Entities))

	for _, entity := range c.Entities {
		if strings.TrimSpace(entity) == "" {
			continue
		}

		if _, dup := seen[entity]; dup {
			continue
		}

		seen[entity] = struct{}{}
		entities = append(entities, entity)
	}

	if len(entities) == 0 {
		c.Entities = nil

		return c
	}

	c.Entities = entities
	c.TopN = len(entities)

	return c
}

// Validate rejects configurations the core cannot run.
func (c Config) Validate() error {
	if !c.Family.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFamily, c.Family)
	}

	if !c.Curve.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCurve, c.Curve)
	}

	if c.Granularity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGranularity, c.Granularity)
	}

	if c.TopN <= 0 && len(c.Entities) == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTopN, c.TopN)
	}

	if c.StartYear < MinYear || c.StartYear > MaxYear {
		return fmt.Errorf("%w: start %d not in %d..%d", ErrYearOutOfRange, c.StartYear, MinYear, MaxYear)
	}

	if c.EndYear < MinYear || c.EndYear > MaxYear {
		return fmt.Errorf("%w: end %d not in %d..%d", ErrYearOutOfRange, c.EndYear, MinYear, MaxYear)
	}

	if c.StartYear > c.EndYear {
		return fmt.Errorf("%w: %d > %d", ErrInvalidDomain, c.StartYear, c.EndYear)
	}

	span := c.EndYear - c.StartYear

	buckets := span / c.Granularity
	if span%c.Granularity != 0 {
		buckets++
	}

	if buckets > MaxBuckets {
		return fmt.Errorf("%w: %d buckets of %d years (max %d)", ErrTooManyBuckets, buckets, c.Granularity, MaxBuckets)
	}

	if c.Unique && c.Family != FamilyComposer {
		return fmt.Errorf("%w: %s", ErrUniqueFamily, c.Family)
	}

	return nil
}

// Key returns a deterministic identifier of everything that affects the
// computed values. Markers are display-only and excluded.
func (c Config) Key() string {
	c = c.Normalize()

	var sb strings.Builder

	sb.WriteString(string(c.Family))
	sb.WriteByte('|')
	sb.WriteString(string(c.Curve))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(c.Granularity))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(c.TopN))
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatBool(c.Unique))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(c.StartYear))
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(c.EndYear))

	for _, entity := range c.Entities {
		sb.WriteByte('|')
		sb.WriteString(strconv.Quote(entity))
	}

	return sb.String()
}
