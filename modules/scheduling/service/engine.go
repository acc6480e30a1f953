package service

import (
	"math"
	"sort"
	"time"

	"meetsync/core/config"
)

// BusyInterval is one calendar conflict window for a participant. The engine
// never mutates these.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Suggestion is one ranked candidate slot. End - Start always equals the
// requested duration exactly.
type Suggestion struct {
	Start       time.Time
	End         time.Time
	Score       float64
	Provisional bool
}

// SuggestParams is the full input to the engine. Timezones and busy data are
// resolved by the caller beforehand; the engine never performs I/O.
type SuggestParams struct {
	OrganizerID   string
	ParticipantID string

	// Pre-resolved IANA zone names. Lookup failures fall back to UTC.
	OrganizerTimezone   string
	ParticipantTimezone string

	WindowStart time.Time
	WindowEnd   time.Time

	DurationMinutes int
	StepMinutes     int

	// Daily working-hours sub-window in the organizer's local time
	FallbackStartHour int
	FallbackEndHour   int

	ExcludeWeekends bool
	MinNoticeHours  int

	// Busy intervals per participant identifier. Consulted only when
	// LiveData is true; otherwise candidates are treated as conflict-free
	// and every suggestion is marked provisional.
	Busy     map[string][]BusyInterval
	LiveData bool
}

// SuggestEngine ranks candidate meeting slots. It is a pure computation over
// in-memory inputs and is safe for concurrent use.
type SuggestEngine struct {
	scoring config.ScoringConfig
	now     func() time.Time
}

func NewSuggestEngine(scoring config.ScoringConfig) *SuggestEngine {
	return &SuggestEngine{
		scoring: scoring,
		now:     time.Now,
	}
}

// Suggest enumerates candidate slots over the search window, filters
// infeasible ones, scores the rest and returns them sorted by descending
// score (ties broken by earlier start), truncated to the configured top-N.
// An empty result is valid and not an error.
func (e *SuggestEngine) Suggest(p SuggestParams) []Suggestion {
	// Malformed parameters are caller-validated; guard against them anyway
	// so the loop below cannot run away.
	if p.DurationMinutes <= 0 || p.StepMinutes <= 0 || !p.WindowEnd.After(p.WindowStart) {
		return nil
	}

	loc := loadLocationOrUTC(p.OrganizerTimezone)

	// "now" is evaluated once per call so every candidate sees the same
	// notice cutoff.
	now := e.now()
	earliest := now.Add(time.Duration(p.MinNoticeHours) * time.Hour)

	duration := time.Duration(p.DurationMinutes) * time.Minute
	step := time.Duration(p.StepMinutes) * time.Minute
	provisional := !p.LiveData

	var busy []BusyInterval
	if p.LiveData {
		busy = append(busy, p.Busy[p.OrganizerID]...)
		busy = append(busy, p.Busy[p.ParticipantID]...)
	}

	var suggestions []Suggestion

	// Walk calendar days in the organizer's zone, including partial
	// boundary days at either end of the window.
	windowStartLocal := p.WindowStart.In(loc)
	day := time.Date(windowStartLocal.Year(), windowStartLocal.Month(), windowStartLocal.Day(), 0, 0, 0, 0, loc)

	for day.Before(p.WindowEnd) {
		if p.ExcludeWeekends {
			wd := day.Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				day = day.AddDate(0, 0, 1)
				continue
			}
		}

		subStart := time.Date(day.Year(), day.Month(), day.Day(), p.FallbackStartHour, 0, 0, 0, loc)
		subEnd := time.Date(day.Year(), day.Month(), day.Day(), p.FallbackEndHour, 0, 0, 0, loc)

		for t := subStart; !t.Add(duration).After(subEnd); t = t.Add(step) {
			end := t.Add(duration)

			if t.Before(p.WindowStart) || end.After(p.WindowEnd) {
				continue
			}
			if t.Before(earliest) {
				continue
			}

			conflict := overlapsAny(t, end, busy)
			score := e.scoreSlot(t, now, loc, conflict, p)

			suggestions = append(suggestions, Suggestion{
				Start:       t,
				End:         end,
				Score:       score,
				Provisional: provisional,
			})
		}

		day = day.AddDate(0, 0, 1)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Start.Before(suggestions[j].Start)
	})

	if top := e.scoring.DefaultTopSuggestions; top > 0 && len(suggestions) > top {
		suggestions = suggestions[:top]
	}

	return suggestions
}

// scoreSlot starts from the maximum score and applies the configured
// (negative) weights. The overlap penalty is a flat deduction proportional to
// the requested duration, not to the actual overlapping minutes.
func (e *SuggestEngine) scoreSlot(start time.Time, now time.Time, loc *time.Location, conflict bool, p SuggestParams) float64 {
	score := e.scoring.MaxScore

	if conflict {
		score += e.scoring.OverlapPenaltyPerMinute * float64(p.DurationMinutes)
	}

	daysFromNow := start.Sub(now).Hours() / 24
	score += e.scoring.EarlierIsBetterPenaltyPerDay * daysFromNow

	local := start.In(loc)
	localHour := float64(local.Hour()) + float64(local.Minute())/60
	midpoint := float64(p.FallbackStartHour+p.FallbackEndHour) / 2
	score += e.scoring.DistanceFromMidpointPenaltyPerHour * math.Abs(localHour-midpoint)

	if local.Hour() < 12 {
		score += e.scoring.MorningBonus
	}

	if score < e.scoring.MinScoreToSuggest {
		score = e.scoring.MinScoreToSuggest
	}

	return score
}

// overlapsAny reports whether [start, end) intersects any busy interval
func overlapsAny(start, end time.Time, busy []BusyInterval) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}

func loadLocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
