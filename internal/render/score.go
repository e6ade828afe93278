// Package render turns an analysis result into what the score card shows.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gramscore/internal/domain"
)

// MaxScore is the top of the scale the bar is drawn against.
const MaxScore = 5

// ScoreView is the presentation of one result. Percent is deliberately not
// clamped: a score above MaxScore draws a bar wider than its track.
type ScoreView struct {
	Visible  bool    `json:"visible"`
	Badge    string  `json:"badge"`
	Percent  float64 `json:"percent"`
	BarWidth string  `json:"barWidth"`
}

func Score(result *domain.AnalysisResult) ScoreView {
	if result == nil {
		return ScoreView{}
	}
	percent := BarPercent(result.GrammarScore)
	return ScoreView{
		Visible:  true,
		Badge:    formatNumber(result.GrammarScore),
		Percent:  percent,
		BarWidth: formatNumber(percent) + "%",
	}
}

// BarPercent is score/MaxScore*100, rounded to two decimals for display.
func BarPercent(score float64) float64 {
	return math.Round(score*100/MaxScore*100) / 100
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Terminal writes the score card as text with a bar track of the given width.
func Terminal(w io.Writer, view domain.View, cells int) error {
	if cells <= 0 {
		cells = 20
	}

	if view.Analyzing {
		if _, err := fmt.Fprintln(w, "Analyzing your audio..."); err != nil {
			return err
		}
	}

	score := Score(view.Result)
	if !score.Visible {
		return nil
	}

	filled := int(math.Round(score.Percent / 100 * float64(cells)))
	if filled < 0 {
		filled = 0
	}
	var bar strings.Builder
	bar.WriteString(strings.Repeat("█", filled))
	if filled < cells {
		bar.WriteString(strings.Repeat("░", cells-filled))
	}

	_, err := fmt.Fprintf(w, "Grammar Score\n( %s )  %s  %s\n", score.Badge, bar.String(), score.BarWidth)
	return err
}
