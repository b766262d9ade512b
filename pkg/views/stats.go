// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/luxfi/admarket/pkg/api"
)

const (
	MsgStatsMissing = "Stats not loaded"
	placeholder     = "—"
	topLanguages    = 6
)

var numbers = message.NewPrinter(language.English)

// FormatCount groups digits, or returns a dash for a missing value.
func FormatCount(v *int64) string {
	if v == nil {
		return placeholder
	}
	return numbers.Sprint(number.Decimal(*v))
}

// FormatAverage formats a per-post average with at most three decimals.
func FormatAverage(v *float64) string {
	if v == nil {
		return placeholder
	}
	return numbers.Sprint(number.Decimal(*v, number.MaxFractionDigits(3)))
}

// Trend is the change of a metric against its previous value.
type Trend struct {
	Up      bool
	Percent int64
}

func (t Trend) String() string {
	arrow := "▼"
	if t.Up {
		arrow = "▲"
	}
	return fmt.Sprintf("%s %d%%", arrow, t.Percent)
}

// TrendOf compares current with previous. There is no trend when either is
// missing, previous is zero, or nothing changed.
func TrendOf(current, previous *float64) (Trend, bool) {
	if current == nil || previous == nil || *previous == 0 {
		return Trend{}, false
	}
	diff := *current - *previous
	if diff == 0 {
		return Trend{}, false
	}
	pct := int64(math.Abs(jsRound(diff / *previous * 100)))
	return Trend{Up: diff > 0, Percent: pct}, true
}

// jsRound rounds half up, toward positive infinity.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}

// CountTrend is TrendOf for integer counters.
func CountTrend(current, previous *int64) (Trend, bool) {
	return TrendOf(toFloat(current), toFloat(previous))
}

func toFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// LanguageShare is one entry of a channel's audience languages.
type LanguageShare struct {
	Code  string
	Share float64
	// Text is set when the backend sent a non-numeric share.
	Text string
}

func (l LanguageShare) String() string {
	code := strings.ToUpper(l.Code)
	if l.Text != "" {
		return code + " " + l.Text
	}
	return fmt.Sprintf("%s %d%%", code, int64(jsRound(l.Share*100)))
}

// TopLanguages returns the six largest language shares, largest first.
// Values that are neither numbers nor strings are skipped.
func TopLanguages(languages map[string]any) []LanguageShare {
	out := make([]LanguageShare, 0, len(languages))
	for code, raw := range languages {
		switch v := raw.(type) {
		case float64:
			out = append(out, LanguageShare{Code: code, Share: v})
		case string:
			share, _ := strconv.ParseFloat(v, 64)
			out = append(out, LanguageShare{Code: code, Share: share, Text: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Share != out[j].Share {
			return out[i].Share > out[j].Share
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > topLanguages {
		out = out[:topLanguages]
	}
	return out
}

// StatLine is one labelled metric of a channel.
type StatLine struct {
	Label string
	Value string
	Trend *Trend
}

// StatsSummary lays out a channel's stats the way every screen shows them.
func StatsSummary(stats *api.ChannelStats) []StatLine {
	if stats == nil {
		return nil
	}
	lines := []StatLine{
		statLine("Subscribers", FormatCount(stats.Subscribers), toFloat(stats.Subscribers), toFloat(stats.SubscribersPrev)),
		statLine("Views per post", FormatAverage(stats.ViewsPerPost), stats.ViewsPerPost, stats.ViewsPerPostPrev),
		statLine("Shares per post", FormatAverage(stats.SharesPerPost), stats.SharesPerPost, stats.SharesPerPostPrev),
		statLine("Reactions per post", FormatAverage(stats.ReactionsPerPost), stats.ReactionsPerPost, stats.ReactionsPerPostPrev),
	}
	if stats.EnabledNotifications != nil {
		lines = append(lines, StatLine{
			Label: "Notifications enabled",
			Value: fmt.Sprintf("%d%%", int64(jsRound(*stats.EnabledNotifications*100))),
		})
	}
	if langs := TopLanguages(stats.Languages); len(langs) > 0 {
		parts := make([]string, len(langs))
		for i, l := range langs {
			parts[i] = l.String()
		}
		lines = append(lines, StatLine{Label: "Languages", Value: strings.Join(parts, " ")})
	}
	source := placeholder
	if stats.Source != nil {
		source = *stats.Source
	}
	return append(lines, StatLine{Label: "Source", Value: source})
}

func statLine(label, value string, current, previous *float64) StatLine {
	line := StatLine{Label: label, Value: value}
	if trend, ok := TrendOf(current, previous); ok {
		line.Trend = &trend
	}
	return line
}

// StatsBrief is the one-line summary shown in lists.
func StatsBrief(stats *api.ChannelStats) string {
	if stats == nil {
		return MsgStatsMissing
	}
	return FormatCount(stats.Subscribers) + " subscribers · " + FormatAverage(stats.ViewsPerPost) + " views"
}
