package resolve

import (
	"context"
	"errors"
	"sort"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/catalog"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/fuzzy"
)

const (
	catalogKeepScore     = 48
	catalogHitScore      = 85
	catalogMaxCandidates = 6
)

// CatalogStrategy 基于完整目录索引解析查询。
//
// 规则：
// - 查询与目录名都去掉非单词字符并转小写后打分，>= 48 的名称进入候选池
// - 候选池用原始查询（FullProcess 归一化）重新打分；最高分 >= 85 视为 DirectHit
// - 否则返回重新打分后最好的 6 个（按分数从高到低，同分保持目录顺序）
type CatalogStrategy struct {
	Index *catalog.Index
	// Score 为空时使用 fuzzy.Ratio。
	Score Scorer
}

func (CatalogStrategy) Name() string { return StrategyCatalog }

type scoredName struct {
	name  string
	score int
}

func (s CatalogStrategy) Resolve(ctx context.Context, query string) (domain.MatchDecision, error) {
	if s.Index == nil {
		return domain.MatchDecision{}, errors.New("catalog 未加载")
	}
	if err := ctx.Err(); err != nil {
		return domain.MatchDecision{}, err
	}
	score := s.Score
	if score == nil {
		score = fuzzy.Ratio
	}

	nq := fuzzy.StripNonWord(query)
	pool := make([]scoredName, 0, 16)
	for _, name := range s.Index.Names() {
		if score(nq, fuzzy.StripNonWord(name)) >= catalogKeepScore {
			pool = append(pool, scoredName{name: name})
		}
	}
	if len(pool) == 0 {
		return domain.NoMatchDecision(), nil
	}

	pq := fuzzy.FullProcess(query)
	for i := range pool {
		pool[i].score = score(pq, fuzzy.FullProcess(pool[i].name))
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	if pool[0].score >= catalogHitScore {
		loc, _ := s.Index.Lookup(pool[0].name)
		return domain.DirectHitDecision(domain.Hit{Title: pool[0].name, Locator: loc}), nil
	}

	if len(pool) > catalogMaxCandidates {
		pool = pool[:catalogMaxCandidates]
	}
	cands := make([]domain.SearchCandidate, 0, len(pool))
	for _, p := range pool {
		loc, _ := s.Index.Lookup(p.name)
		cands = append(cands, domain.SearchCandidate{Name: p.name, Locator: loc})
	}
	return domain.DisambiguateDecision(cands), nil
}
