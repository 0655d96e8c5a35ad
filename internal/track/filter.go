package track

import "strconv"

// Filter holds the optional numeric constraints accepted by the dashboard and
// favourites pages. A nil field leaves that dimension unconstrained.
type Filter struct {
	MinPlays *int
	MinYear  *int
	MaxYear  *int
}

// ParseFilter builds a Filter from raw query values. Values that do not parse
// as integers are ignored rather than rejected.
func ParseFilter(minPlays, minYear, maxYear string) Filter {
	return Filter{
		MinPlays: parseIntParam(minPlays),
		MinYear:  parseIntParam(minYear),
		MaxYear:  parseIntParam(maxYear),
	}
}

func (f Filter) IsZero() bool {
	return f.MinPlays == nil && f.MinYear == nil && f.MaxYear == nil
}

func (f Filter) Matches(t Track) bool {
	if f.MinPlays != nil && t.PlayCount < *f.MinPlays {
		return false
	}
	if f.MinYear != nil && t.Year < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && t.Year > *f.MaxYear {
		return false
	}
	return true
}

// Apply returns the tracks that satisfy every set constraint.
func (f Filter) Apply(tracks []Track) []Track {
	if f.IsZero() {
		return tracks
	}
	filtered := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if f.Matches(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func parseIntParam(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
