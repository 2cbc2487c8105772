package domain

// MatchKind 标记 MatchDecision 的变体。
type MatchKind int

const (
	NoMatch MatchKind = iota
	DirectHit
	Disambiguate
)

func (k MatchKind) String() string {
	switch k {
	case NoMatch:
		return "no_match"
	case DirectHit:
		return "direct_hit"
	case Disambiguate:
		return "disambiguate"
	default:
		return "unknown"
	}
}

// Hit 是直接命中的目标页面。
// Document 非空时表示页面已经抓取过（例如搜索直接落在游戏页），调用方无需再次请求。
type Hit struct {
	Title    string
	Locator  string
	Document *Document
}

// MatchDecision 是解析结果的三选一变体。
//
// 不变量：只能通过下面三个构造函数创建，命中与候选列表互斥。
type MatchDecision struct {
	Kind       MatchKind
	Hit        Hit
	Candidates []SearchCandidate
}

func NoMatchDecision() MatchDecision { return MatchDecision{Kind: NoMatch} }

func DirectHitDecision(h Hit) MatchDecision { return MatchDecision{Kind: DirectHit, Hit: h} }

// DisambiguateDecision 复制一份候选列表，避免与调用方共享底层数组。
func DisambiguateDecision(cands []SearchCandidate) MatchDecision {
	return MatchDecision{Kind: Disambiguate, Candidates: append([]SearchCandidate{}, cands...)}
}
