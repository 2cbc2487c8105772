package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

var (
	regionHeadingRE = regexp.MustCompile(`^Region.*:$`)
	// 去掉 "Region" 前缀与结尾冒号，剩下的就是区域代码。
	regionCodeRE = regexp.MustCompile(`^Region\s+(.*?)\s*:$`)
)

const statusSuffix = "Status:"

func compatibility(doc *goquery.Document) (domain.CompatibilityReport, []error) {
	report := domain.CompatibilityReport{}
	var problems []error

	doc.Find("th").Each(func(_ int, th *goquery.Selection) {
		text := normSpace(th.Text())
		if !regionHeadingRE.MatchString(text) {
			return
		}
		region, ok := regionCode(text)
		if !ok {
			problems = append(problems, &MalformedMarkupError{Part: "compatibility", Reason: "区域标题缺少区域代码：" + text})
			return
		}
		report = append(report, domain.RegionCompatibility{
			Region:  region,
			Entries: osEntries(tableBlock(th)),
		})
	})
	return report, problems
}

func regionCode(heading string) (string, bool) {
	m := regionCodeRE.FindStringSubmatch(heading)
	if len(m) < 2 {
		return "", false
	}
	code := strings.TrimSpace(m[1])
	return code, code != ""
}

// tableBlock 返回区域标题所在的表格块（最近的 tbody，缺失时退回 table）。
func tableBlock(th *goquery.Selection) *goquery.Selection {
	if b := th.Closest("tbody"); b.Length() > 0 {
		return b
	}
	return th.Closest("table")
}

func osEntries(block *goquery.Selection) []domain.CompatibilityEntry {
	entries := make([]domain.CompatibilityEntry, 0, 4)
	block.Find("td").Each(func(_ int, td *goquery.Selection) {
		text := normSpace(td.Text())
		if !strings.HasSuffix(text, statusSuffix) {
			return
		}
		osName := strings.TrimSpace(strings.TrimSuffix(text, statusSuffix))
		if osName == "" {
			return
		}
		entries = append(entries, domain.CompatibilityEntry{OS: osName, State: playableState(td)})
	})
	return entries
}

// playableState 读取状态单元格之后那个单元格里的加粗文本；没有则为 N/A。
func playableState(statusCell *goquery.Selection) string {
	next := statusCell.NextAllFiltered("td").First()
	if next.Length() == 0 {
		return domain.StateUnknown
	}
	s := normSpace(next.Find("b, strong").First().Text())
	if s == "" {
		return domain.StateUnknown
	}
	return s
}
