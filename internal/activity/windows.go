package activity

import (
	"math"
	"sort"
	"time"
)

const (
	// Hours within this distance of sunrise/sunset get the low-light boost.
	lowLightRadius = 1.5 * float64(time.Hour)
	lowLightBoost  = 15

	windowAdmitScore   = 60 // boosted mean required to qualify
	windowRetryRelief  = 10 // threshold drop if fewer than 2 windows qualify
	windowMinQualified = 2
	windowMax          = 3
)

// HourScore is one hour's composite activity score.
type HourScore struct {
	Time  time.Time `json:"time"`
	Score int       `json:"score"`
}

// TimeWindow is one recommended fishing window within a day.
type TimeWindow struct {
	Label   string      `json:"label"`
	Icon    string      `json:"icon"`
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Quality QualityTier `json:"quality"` // TierGood or TierExcellent
	Score   int         `json:"score"`
}

type candidate struct {
	label string
	icon  string
	start time.Time
	end   time.Time
}

// BestTimeWindows picks up to 3 non-overlapping high-quality windows from a
// day's hourly scores. Candidates are fixed-width blocks anchored at dawn,
// dusk, and midday rather than a sliding search: the low-light feeding
// windows around sunrise and sunset are where the action is, with midday
// only admitted when the scores genuinely hold up.
func BestTimeWindows(hours []HourScore, sunrise, sunset time.Time) []TimeWindow {
	if len(hours) == 0 {
		return nil
	}

	boosted := boostLowLight(hours, sunrise, sunset)

	noon := time.Date(sunrise.Year(), sunrise.Month(), sunrise.Day(), 12, 0, 0, 0, sunrise.Location())
	candidates := []candidate{
		{label: "Dawn Bite", icon: "🌅", start: sunrise.Add(-time.Hour), end: sunrise.Add(2 * time.Hour)},
		{label: "Dusk Bite", icon: "🌇", start: sunset.Add(-2 * time.Hour), end: sunset.Add(time.Hour)},
		{label: "Midday", icon: "☀️", start: noon, end: noon.Add(2 * time.Hour)},
	}

	windows := selectWindows(candidates, boosted, windowAdmitScore)
	if len(windows) < windowMinQualified {
		windows = selectWindows(candidates, boosted, windowAdmitScore-windowRetryRelief)
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].Start.Before(windows[j].Start) })
	return windows
}

func selectWindows(candidates []candidate, hours []HourScore, threshold int) []TimeWindow {
	var selected []TimeWindow
	for _, c := range candidates {
		if len(selected) >= windowMax {
			break
		}
		score, ok := meanScore(hours, c.start, c.end)
		if !ok || score < threshold {
			continue
		}
		if overlapsAny(selected, c.start, c.end) {
			continue
		}
		quality := TierGood
		if score >= 80 {
			quality = TierExcellent
		}
		selected = append(selected, TimeWindow{
			Label:   c.label,
			Icon:    c.icon,
			Start:   c.start,
			End:     c.end,
			Quality: quality,
			Score:   score,
		})
	}
	return selected
}

func boostLowLight(hours []HourScore, sunrise, sunset time.Time) []HourScore {
	out := make([]HourScore, len(hours))
	for i, h := range hours {
		score := h.Score
		dawn := math.Abs(float64(h.Time.Sub(sunrise)))
		dusk := math.Abs(float64(h.Time.Sub(sunset)))
		if dawn <= lowLightRadius || dusk <= lowLightRadius {
			score += lowLightBoost
			if score > 100 {
				score = 100
			}
		}
		out[i] = HourScore{Time: h.Time, Score: score}
	}
	return out
}

// meanScore averages the hours falling inside [start, end).
func meanScore(hours []HourScore, start, end time.Time) (int, bool) {
	sum, n := 0, 0
	for _, h := range hours {
		if !h.Time.Before(start) && h.Time.Before(end) {
			sum += h.Score
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(float64(sum) / float64(n))), true
}

func overlapsAny(windows []TimeWindow, start, end time.Time) bool {
	for _, w := range windows {
		if start.Before(w.End) && w.Start.Before(end) {
			return true
		}
	}
	return false
}
