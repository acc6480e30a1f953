package service

import (
	"testing"
	"time"

	"meetsync/core/config"
)

func testScoring() config.ScoringConfig {
	return config.ScoringConfig{
		MaxScore:                           100,
		MinScoreToSuggest:                  20,
		OverlapPenaltyPerMinute:            -1.5,
		EarlierIsBetterPenaltyPerDay:       -5,
		DistanceFromMidpointPenaltyPerHour: -2,
		MorningBonus:                       10,
		DefaultTopSuggestions:              5,
	}
}

// mondayUTC is a Monday at midnight, far enough in any zone to avoid DST edges
var mondayUTC = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func newTestEngine(scoring config.ScoringConfig, now time.Time) *SuggestEngine {
	e := NewSuggestEngine(scoring)
	e.now = func() time.Time { return now }
	return e
}

func baseParams() SuggestParams {
	return SuggestParams{
		OrganizerID:         "org@example.com",
		ParticipantID:       "part@example.com",
		OrganizerTimezone:   "UTC",
		ParticipantTimezone: "UTC",
		WindowStart:         mondayUTC,
		WindowEnd:           mondayUTC.AddDate(0, 0, 7),
		DurationMinutes:     30,
		StepMinutes:         30,
		FallbackStartHour:   8,
		FallbackEndHour:     17,
		ExcludeWeekends:     true,
		MinNoticeHours:      2,
	}
}

func TestSuggestReturnsExactDuration(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	for _, duration := range []int{15, 30, 45, 60, 90} {
		p := baseParams()
		p.DurationMinutes = duration

		for _, s := range engine.Suggest(p) {
			if got := s.End.Sub(s.Start); got != time.Duration(duration)*time.Minute {
				t.Errorf("duration %d: got slot length %v", duration, got)
			}
		}
	}
}

func TestSuggestHonorsMinNotice(t *testing.T) {
	now := mondayUTC.Add(7 * time.Hour) // 07:00, so the notice cutoff lands mid-morning
	engine := newTestEngine(testScoring(), now)

	p := baseParams()
	p.MinNoticeHours = 3

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}

	earliest := now.Add(3 * time.Hour)
	for _, s := range suggestions {
		if s.Start.Before(earliest) {
			t.Errorf("suggestion %v starts before notice cutoff %v", s.Start, earliest)
		}
	}
}

func TestSuggestExcludesWeekends(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0 // keep every candidate
	engine := newTestEngine(scoring, mondayUTC)

	p := baseParams()
	p.WindowEnd = mondayUTC.AddDate(0, 0, 14)

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range suggestions {
		wd := s.Start.UTC().Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("suggestion on weekend: %v", s.Start)
		}
	}
}

func TestSuggestIncludesWeekendsWhenAllowed(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0
	engine := newTestEngine(scoring, mondayUTC)

	p := baseParams()
	p.ExcludeWeekends = false

	sawWeekend := false
	for _, s := range engine.Suggest(p) {
		wd := s.Start.UTC().Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			sawWeekend = true
			break
		}
	}
	if !sawWeekend {
		t.Error("expected weekend suggestions when weekends are not excluded")
	}
}

func TestSuggestOrderedAndTruncated(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	suggestions := engine.Suggest(baseParams())
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	if len(suggestions) > 5 {
		t.Fatalf("got %d suggestions, want at most 5", len(suggestions))
	}

	for i := 1; i < len(suggestions); i++ {
		prev, cur := suggestions[i-1], suggestions[i]
		if cur.Score > prev.Score {
			t.Errorf("suggestions out of order at %d: %v then %v", i, prev.Score, cur.Score)
		}
		if cur.Score == prev.Score && cur.Start.Before(prev.Start) {
			t.Errorf("tie at %d not broken by earlier start", i)
		}
	}
}

func TestSuggestProvisionalWithoutLiveData(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	p := baseParams()
	p.LiveData = false

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range suggestions {
		if !s.Provisional {
			t.Errorf("suggestion %v not provisional without busy data", s.Start)
		}
	}
}

func TestSuggestNotProvisionalWithLiveData(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	p := baseParams()
	p.LiveData = true
	p.Busy = map[string][]BusyInterval{}

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range suggestions {
		if s.Provisional {
			t.Errorf("suggestion %v marked provisional despite live data", s.Start)
		}
	}
}

func TestSuggestOverlapScoresLower(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0
	engine := newTestEngine(scoring, mondayUTC)

	busyStart := mondayUTC.Add(9 * time.Hour)
	p := baseParams()
	p.LiveData = true
	p.Busy = map[string][]BusyInterval{
		p.OrganizerID: {{Start: busyStart, End: busyStart.Add(30 * time.Minute)}},
	}

	suggestions := engine.Suggest(p)

	var nineOClock, tenOClock *Suggestion
	for i := range suggestions {
		switch {
		case suggestions[i].Start.Equal(busyStart):
			nineOClock = &suggestions[i]
		case suggestions[i].Start.Equal(mondayUTC.Add(10 * time.Hour)):
			tenOClock = &suggestions[i]
		}
	}
	if nineOClock == nil || tenOClock == nil {
		t.Fatal("expected both the 09:00 and 10:00 candidates on day 1")
	}
	if nineOClock.Score >= tenOClock.Score {
		t.Errorf("overlapping 09:00 slot (%.1f) should score below free 10:00 slot (%.1f)",
			nineOClock.Score, tenOClock.Score)
	}
}

func TestSuggestPartialOverlapStillConflicts(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0
	engine := newTestEngine(scoring, mondayUTC)

	// Busy 09:15-09:20 clips both the 09:00 and 09:30 candidates
	p := baseParams()
	p.LiveData = true
	p.Busy = map[string][]BusyInterval{
		p.ParticipantID: {{
			Start: mondayUTC.Add(9*time.Hour + 15*time.Minute),
			End:   mondayUTC.Add(9*time.Hour + 20*time.Minute),
		}},
	}

	suggestions := engine.Suggest(p)

	scoreAt := func(start time.Time) float64 {
		for _, s := range suggestions {
			if s.Start.Equal(start) {
				return s.Score
			}
		}
		t.Fatalf("no suggestion at %v", start)
		return 0
	}

	free := scoreAt(mondayUTC.Add(10 * time.Hour))
	for _, clipped := range []time.Time{
		mondayUTC.Add(9 * time.Hour),
		mondayUTC.Add(9*time.Hour + 30*time.Minute),
	} {
		if scoreAt(clipped) >= free {
			t.Errorf("candidate %v overlapping busy interval should score below the free 10:00 slot", clipped)
		}
	}
}

func TestSuggestWeekWindowScenario(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	suggestions := engine.Suggest(baseParams())
	if len(suggestions) == 0 {
		t.Fatal("expected a non-empty result")
	}
	if len(suggestions) > 5 {
		t.Fatalf("got %d suggestions, want at most 5", len(suggestions))
	}

	for _, s := range suggestions {
		if !s.Provisional {
			t.Errorf("suggestion %v should be provisional", s.Start)
		}

		local := s.Start.UTC()
		if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("suggestion on weekend: %v", local)
		}
		if local.Hour() < 8 {
			t.Errorf("suggestion before working hours: %v", local)
		}
		if end := s.End.UTC(); end.Hour() > 17 || (end.Hour() == 17 && end.Minute() > 0) {
			t.Errorf("suggestion ends after working hours: %v", end)
		}
	}
}

func TestSuggestDurationExceedingWorkingDayIsEmpty(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	p := baseParams()
	p.DurationMinutes = 600 // 10h into a 9h working-hours span

	if got := engine.Suggest(p); len(got) != 0 {
		t.Fatalf("expected empty result, got %d suggestions", len(got))
	}
}

func TestSuggestGuardsMalformedParams(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	tests := []struct {
		name   string
		mutate func(*SuggestParams)
	}{
		{"zero duration", func(p *SuggestParams) { p.DurationMinutes = 0 }},
		{"zero step", func(p *SuggestParams) { p.StepMinutes = 0 }},
		{"inverted window", func(p *SuggestParams) { p.WindowEnd = p.WindowStart.AddDate(0, 0, -1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			if got := engine.Suggest(p); got != nil {
				t.Fatalf("expected nil, got %d suggestions", len(got))
			}
		})
	}
}

func TestSuggestClipsToWindowBounds(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0
	engine := newTestEngine(scoring, mondayUTC)

	// Window opens mid-morning; candidates on the partial first day must not
	// start before it.
	p := baseParams()
	p.WindowStart = mondayUTC.Add(10 * time.Hour)
	p.WindowEnd = mondayUTC.AddDate(0, 0, 2)
	p.MinNoticeHours = 0

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range suggestions {
		if s.Start.Before(p.WindowStart) {
			t.Errorf("suggestion %v starts before window start %v", s.Start, p.WindowStart)
		}
		if s.End.After(p.WindowEnd) {
			t.Errorf("suggestion %v ends after window end %v", s.End, p.WindowEnd)
		}
	}
}

func TestSuggestWalksDaysInOrganizerZone(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0
	engine := newTestEngine(scoring, mondayUTC)

	p := baseParams()
	p.OrganizerTimezone = "America/New_York"
	p.MinNoticeHours = 0

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range suggestions {
		local := s.Start.In(loc)
		if local.Hour() < 8 || local.Hour() >= 17 {
			t.Errorf("suggestion %v is outside 08-17 organizer-local hours (local %v)", s.Start, local)
		}
	}
}

func TestSuggestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	engine := newTestEngine(testScoring(), mondayUTC)

	p := baseParams()
	p.OrganizerTimezone = "Not/AZone"

	suggestions := engine.Suggest(p)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions with UTC fallback")
	}
	for _, s := range suggestions {
		if h := s.Start.UTC().Hour(); h < 8 || h >= 17 {
			t.Errorf("suggestion %v outside UTC working hours", s.Start)
		}
	}
}

func TestSuggestScoreNeverBelowFloor(t *testing.T) {
	scoring := testScoring()
	scoring.DefaultTopSuggestions = 0
	engine := newTestEngine(scoring, mondayUTC)

	// A 60 minute conflict penalty (-90) pushes raw day-1 scores under the
	// floor, so clamping must engage.
	p := baseParams()
	p.DurationMinutes = 60
	p.LiveData = true
	p.Busy = map[string][]BusyInterval{
		p.OrganizerID: {{Start: mondayUTC, End: mondayUTC.AddDate(0, 0, 1)}},
	}

	clamped := false
	for _, s := range engine.Suggest(p) {
		if s.Score < scoring.MinScoreToSuggest {
			t.Errorf("score %.1f below floor %.1f", s.Score, scoring.MinScoreToSuggest)
		}
		if s.Score == scoring.MinScoreToSuggest {
			clamped = true
		}
	}
	if !clamped {
		t.Error("expected at least one score clamped to the floor")
	}
}
