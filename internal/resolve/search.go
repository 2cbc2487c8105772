package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/fuzzy"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/wiki"
)

const (
	searchKeepScore     = 50
	searchHitScore      = 95
	searchMaxCandidates = 5
)

// Searcher 提交站内搜索（wiki.Client 满足该接口）。
type Searcher interface {
	Search(ctx context.Context, query string) (domain.Document, error)
}

// SearchStrategy 基于站内搜索解析查询。
//
// 规则：
// - 搜索直接落在游戏页：DirectHit（携带已抓取的页面）
// - 落在搜索结果页：保留分数 >= 50 的候选项（页面顺序）；最高分 >= 95 视为 DirectHit，
//   否则返回前 5 个保留项（仍按页面顺序，不按分数）
type SearchStrategy struct {
	Searcher Searcher
	// Score 为空时使用 fuzzy.TokenSetRatio。
	Score Scorer
}

func (SearchStrategy) Name() string { return StrategySearch }

func (s SearchStrategy) Resolve(ctx context.Context, query string) (domain.MatchDecision, error) {
	if s.Searcher == nil {
		return domain.MatchDecision{}, errors.New("searcher 不能为空")
	}
	page, err := s.Searcher.Search(ctx, query)
	if err != nil {
		return domain.MatchDecision{}, err
	}
	doc, err := wiki.Parse(page)
	if err != nil {
		return domain.MatchDecision{}, err
	}

	title, ok := wiki.Title(doc)
	if !ok {
		return domain.NoMatchDecision(), nil
	}
	if !wiki.IsSearchResults(title) {
		return domain.DirectHitDecision(domain.Hit{Title: title, Locator: page.URL, Document: &page}), nil
	}

	results, ok := wiki.SearchResults(doc, page.URL)
	if !ok {
		return domain.NoMatchDecision(), nil
	}
	return s.pick(query, results), nil
}

func (s SearchStrategy) pick(query string, results []domain.SearchCandidate) domain.MatchDecision {
	score := s.Score
	if score == nil {
		score = fuzzy.TokenSetRatio
	}

	q := strings.ToLower(query)
	kept := make([]domain.SearchCandidate, 0, len(results))
	best, bestScore := -1, -1
	for _, r := range results {
		sc := score(q, strings.ToLower(r.Name))
		if sc < searchKeepScore {
			continue
		}
		kept = append(kept, r)
		// 同分取先出现者。
		if sc > bestScore {
			best, bestScore = len(kept)-1, sc
		}
	}

	if len(kept) == 0 {
		return domain.NoMatchDecision()
	}
	if bestScore >= searchHitScore {
		c := kept[best]
		return domain.DirectHitDecision(domain.Hit{Title: c.Name, Locator: c.Locator})
	}
	if len(kept) > searchMaxCandidates {
		kept = kept[:searchMaxCandidates]
	}
	return domain.DisambiguateDecision(kept)
}
