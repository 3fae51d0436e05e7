// Package report renders the results screen as a markdown document and
// converts it to HTML for the report endpoint.
package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nagame-dev/aiready/internal/scoring"
)

// Input is everything the report shows for one completed session.
type Input struct {
	Result         scoring.Result
	Recommendation string
	Categories     []scoring.CategoryScore
	Region         string
	Industry       string
	GeneratedAt    string
}

// BuildMarkdown assembles the results report.
func BuildMarkdown(in Input) string {
	var b strings.Builder
	b.WriteString("# AI Ready 結果\n\n")
	if in.GeneratedAt != "" {
		b.WriteString(fmt.Sprintf("作成日時: %s\n\n", in.GeneratedAt))
	}
	if in.Region != "" || in.Industry != "" {
		b.WriteString(fmt.Sprintf("地域: %s ／ 業種: %s\n\n", in.Region, in.Industry))
	}

	b.WriteString(fmt.Sprintf("## AI Ready 指数: %d %s %s\n\n",
		in.Result.Readiness, in.Result.ReadinessBand.Emoji(), in.Result.ReadinessBand.Label()))
	b.WriteString(fmt.Sprintf("- 導入度: %d %%（%s）\n", in.Result.Adoption, in.Result.AdoptionBand.Label()))
	b.WriteString(fmt.Sprintf("- 想定作業時間削減率: %.1f %%\n\n", in.Result.ReductionPct))

	b.WriteString("## 次の一歩\n\n")
	b.WriteString(in.Recommendation + "\n\n")

	if len(in.Categories) > 0 {
		b.WriteString("## カテゴリ別スコア\n\n")
		b.WriteString("| カテゴリ | スコア |\n")
		b.WriteString("| --- | --- |\n")
		for _, c := range in.Categories {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", c.Category, c.Average))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHTML converts the markdown report to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var out strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}
