package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/revelaction/relfeat/score"
	"github.com/revelaction/relfeat/stat"
	"github.com/revelaction/relfeat/storage"
)

var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#0550AE", Dark: "#79C0FF"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Align(lipgloss.Center)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle.Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				return style.Align(lipgloss.Right)
			}
			return style.Align(lipgloss.Left)
		})
}

func ratio(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// ScoreTable renders the per type and overall scores of a report.
func ScoreTable(r score.Report) string {
	rows := [][]string{}
	for _, ts := range r.ByType {
		rows = append(rows, []string{ts.Type, ratio(ts.Precision), ratio(ts.Recall), ratio(ts.F1)})
	}
	rows = append(rows, []string{"Overall", ratio(r.Overall.Precision), ratio(r.Overall.Recall), ratio(r.Overall.F1)})

	return newTable("Reltype", "P", "R", "F1").Rows(rows...).String()
}

// ConfusionTable renders the mislabeled gold and test pairs.
func ConfusionTable(r score.Report) string {
	rows := [][]string{}
	for _, c := range r.Confusions {
		rows = append(rows, []string{c.Gold, c.Predicted, strconv.Itoa(c.Count)})
	}
	return newTable("Gold", "Test", "Count").Rows(rows...).String()
}

// StatTable renders corpus and instance counts.
func StatTable(s stat.Stats) string {
	rows := [][]string{
		{"documents", strconv.Itoa(s.NumDocs)},
		{"sentences", strconv.Itoa(s.NumSentences)},
		{"tokens per sentence", strconv.Itoa(s.TokensPerSentenceMean)},
		{"mentions", strconv.Itoa(s.NumMentions)},
		{"dependencies disabled", strconv.Itoa(len(s.DisabledDeps))},
		{"instances", strconv.Itoa(s.NumInstances)},
		{"features", strconv.Itoa(s.NumFeatures)},
		{"distinct features", strconv.Itoa(s.Vocabulary)},
		{"gold relation pairs", strconv.Itoa(s.GoldPairs)},
	}
	for _, l := range s.SortedLabels() {
		rows = append(rows, []string{fmt.Sprintf("label %s", l), strconv.Itoa(s.Labels[l])})
	}

	return newTable("Stat", "Value").Rows(rows...).String()
}

// FeatureTable renders feature frequencies.
func FeatureTable(counts []storage.FeatureCount) string {
	rows := [][]string{}
	for _, c := range counts {
		rows = append(rows, []string{c.Feature, strconv.Itoa(c.Count)})
	}
	return newTable("Feature", "Count").Rows(rows...).String()
}
