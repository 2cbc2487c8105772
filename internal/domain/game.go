package domain

// StateUnknown 是无法从页面读出运行状态时的固定占位值。
// 约束：解析失败不向上传播，一律归一化为该值。
const StateUnknown = "N/A"

// Document 是一次抓取得到的原始页面。
// URL 为跟随重定向之后的最终地址（用于标题链接与相对链接解析）。
type Document struct {
	URL  string
	HTML []byte
}

// CatalogEntry 是目录中的一条游戏记录（名称按站点发布的大小写原样保存）。
type CatalogEntry struct {
	Name    string
	Locator string
}

// SearchCandidate 是搜索/模糊匹配阶段产生的临时候选项。
type SearchCandidate struct {
	Name    string
	Locator string
}

// CompatibilityEntry 描述某个区域下单个操作系统的运行状态。
type CompatibilityEntry struct {
	OS    string
	State string
}

// RegionCompatibility 是一个区域（如 NTSC-J）下按文档顺序排列的各系统状态。
type RegionCompatibility struct {
	Region  string
	Entries []CompatibilityEntry
}

// CompatibilityReport 按文档顺序保存所有区域；允许为空。
type CompatibilityReport []RegionCompatibility

// Header 返回表头使用的系统列。
//
// 只取第一个区域的条目：后续区域默认共享同一组系统与顺序，
// 若实际不一致，渲染仍以第一个区域为准。
func (r CompatibilityReport) Header() []string {
	if len(r) == 0 {
		return nil
	}
	out := make([]string, 0, len(r[0].Entries))
	for _, e := range r[0].Entries {
		out = append(out, e.OS)
	}
	return out
}

// IssueList 是已知问题列表；同一类别内不重复。
type IssueList struct {
	Active []string
	Fixed  []string
}

// Empty 表示两类问题都没有。
func (l IssueList) Empty() bool { return len(l.Active) == 0 && len(l.Fixed) == 0 }

// GameRecord 是渲染器消费的完整单元：每次查询新建，渲染后丢弃。
type GameRecord struct {
	Title         string
	CanonicalURL  string
	Compatibility CompatibilityReport
	Issues        IssueList
}
