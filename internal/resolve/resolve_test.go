package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

type stubSearcher struct {
	doc   domain.Document
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, query string) (domain.Document, error) {
	s.calls++
	return s.doc, s.err
}

func searchPage(names ...string) domain.Document {
	var b strings.Builder
	b.WriteString(`<html><body><h1 id="firstHeading">Search results</h1><ul class="mw-search-results">`)
	for _, n := range names {
		fmt.Fprintf(&b, `<li><a href="/%s">%s</a></li>`, strings.ReplaceAll(n, " ", "_"), n)
	}
	b.WriteString(`</ul></body></html>`)
	return domain.Document{URL: "https://wiki.pcsx2.net/index.php?search=x", HTML: []byte(b.String())}
}

func fixedScores(m map[string]int) Scorer {
	return func(query, name string) int { return m[name] }
}

func TestResolver_EmptyQuerySkipsStrategy(t *testing.T) {
	s := &stubSearcher{}
	r := Resolver{Strategy: SearchStrategy{Searcher: s}}

	for _, q := range []string{"", "   ", "\n"} {
		d, err := r.Resolve(context.Background(), q)
		if err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
		if d.Kind != domain.NoMatch {
			t.Fatalf("空查询应返回 NoMatch，实际 %v", d.Kind)
		}
	}
	if s.calls != 0 {
		t.Fatalf("空查询不应触发搜索，实际调用 %d 次", s.calls)
	}
}

func TestResolver_NilStrategy(t *testing.T) {
	if _, err := (Resolver{}).Resolve(context.Background(), "x"); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}

func TestSearchStrategy_GamePageIsDirectHit(t *testing.T) {
	page := domain.Document{URL: "https://wiki.pcsx2.net/Stepping_Selection", HTML: []byte(`<html><body><h1 id="firstHeading">Stepping Selection</h1></body></html>`)}
	d, err := SearchStrategy{Searcher: &stubSearcher{doc: page}}.Resolve(context.Background(), "Stepping Selection")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if d.Kind != domain.DirectHit || d.Hit.Title != "Stepping Selection" || d.Hit.Locator != page.URL {
		t.Fatalf("期望 DirectHit，实际 %+v", d)
	}
	if d.Hit.Document == nil || string(d.Hit.Document.HTML) != string(page.HTML) {
		t.Fatalf("DirectHit 应携带已抓取的页面")
	}
	if len(d.Candidates) != 0 {
		t.Fatalf("DirectHit 不应带候选项：%+v", d.Candidates)
	}
}

func TestSearchStrategy_HitThresholdBoundary(t *testing.T) {
	cases := []struct {
		score int
		want  domain.MatchKind
	}{
		{95, domain.DirectHit},
		{94, domain.Disambiguate},
	}
	for _, c := range cases {
		s := SearchStrategy{
			Searcher: &stubSearcher{doc: searchPage("Alpha", "Beta")},
			Score:    fixedScores(map[string]int{"alpha": 60, "beta": c.score}),
		}
		d, err := s.Resolve(context.Background(), "beta")
		if err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
		if d.Kind != c.want {
			t.Fatalf("score=%d 期望 %v，实际 %v", c.score, c.want, d.Kind)
		}
		if c.want == domain.DirectHit && (d.Hit.Title != "Beta" || d.Hit.Locator != "https://wiki.pcsx2.net/Beta") {
			t.Fatalf("命中项不符合预期：%+v", d.Hit)
		}
		if c.want == domain.DirectHit && d.Hit.Document != nil {
			t.Fatalf("候选命中不应携带页面（需要重新抓取）")
		}
	}
}

func TestSearchStrategy_DisambiguateKeepsPageOrderAndLimit(t *testing.T) {
	names := []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7"}
	scores := map[string]int{"g1": 49, "g2": 70, "g3": 90, "g4": 50, "g5": 60, "g6": 80, "g7": 55}
	s := SearchStrategy{Searcher: &stubSearcher{doc: searchPage(names...)}, Score: fixedScores(scores)}

	d, err := s.Resolve(context.Background(), "g")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if d.Kind != domain.Disambiguate {
		t.Fatalf("期望 Disambiguate，实际 %v", d.Kind)
	}
	var got []string
	for _, c := range d.Candidates {
		got = append(got, c.Name)
	}
	// G1 低于 50 被丢弃；其余按页面顺序截断为 5 个。
	want := []string{"G2", "G3", "G4", "G5", "G6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("候选项不符合预期 (-want +got):\n%s", diff)
	}
}

func TestSearchStrategy_TieKeepsFirst(t *testing.T) {
	s := SearchStrategy{
		Searcher: &stubSearcher{doc: searchPage("First", "Second")},
		Score:    fixedScores(map[string]int{"first": 97, "second": 97}),
	}
	d, err := s.Resolve(context.Background(), "x")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if d.Kind != domain.DirectHit || d.Hit.Title != "First" {
		t.Fatalf("同分应取先出现者：%+v", d)
	}
}

func TestSearchStrategy_NoCandidateAboveFloorIsNoMatch(t *testing.T) {
	s := SearchStrategy{
		Searcher: &stubSearcher{doc: searchPage("Alpha", "Beta")},
		Score:    fixedScores(map[string]int{"alpha": 49, "beta": 10}),
	}
	d, err := s.Resolve(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if d.Kind != domain.NoMatch || len(d.Candidates) != 0 {
		t.Fatalf("全部低于 50 时应返回 NoMatch，实际 %+v", d)
	}
}

func TestSearchStrategy_DefaultScorer(t *testing.T) {
	s := SearchStrategy{Searcher: &stubSearcher{doc: searchPage("Final Fantasy X", "Final Fantasy X-2", "Gran Turismo 4")}}
	d, err := s.Resolve(context.Background(), "fantasy final x")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if d.Kind != domain.DirectHit || d.Hit.Title != "Final Fantasy X" {
		t.Fatalf("词序无关的完全匹配应直接命中：%+v", d)
	}
}

func TestSearchStrategy_MalformedPages(t *testing.T) {
	cases := map[string]string{
		"no title":   `<html><body><p>oops</p></body></html>`,
		"no results": `<html><body><h1 id="firstHeading">Search results</h1><p>There were no results.</p></body></html>`,
	}
	for name, html := range cases {
		s := SearchStrategy{Searcher: &stubSearcher{doc: domain.Document{URL: "https://wiki.pcsx2.net/x", HTML: []byte(html)}}}
		d, err := s.Resolve(context.Background(), "anything")
		if err != nil {
			t.Fatalf("%s: 不期望错误：%v", name, err)
		}
		if d.Kind != domain.NoMatch {
			t.Fatalf("%s: 期望 NoMatch，实际 %v", name, d.Kind)
		}
	}
}

func TestSearchStrategy_SearchErrorPropagates(t *testing.T) {
	cause := errors.New("connection reset")
	_, err := SearchStrategy{Searcher: &stubSearcher{err: cause}}.Resolve(context.Background(), "x")
	if !errors.Is(err, cause) {
		t.Fatalf("期望透传搜索错误，实际：%v", err)
	}
	if _, err := (SearchStrategy{}).Resolve(context.Background(), "x"); err == nil {
		t.Fatalf("缺少 searcher 时应返回错误")
	}
}
