package domain

import "testing"

func TestCompatibilityReport_HeaderUsesFirstRegion(t *testing.T) {
	r := CompatibilityReport{
		{Region: "NTSC-U", Entries: []CompatibilityEntry{{OS: "Windows", State: "Playable"}, {OS: "Linux", State: "Ingame"}}},
		{Region: "PAL", Entries: []CompatibilityEntry{{OS: "Mac", State: "?"}}},
	}
	h := r.Header()
	if len(h) != 2 || h[0] != "Windows" || h[1] != "Linux" {
		t.Fatalf("表头应来自第一个区域，实际=%v", h)
	}
	if got := (CompatibilityReport{}).Header(); got != nil {
		t.Fatalf("空报告的表头应为 nil，实际=%v", got)
	}
}

func TestDisambiguateDecision_CopiesCandidates(t *testing.T) {
	in := []SearchCandidate{{Name: "A", Locator: "a"}}
	d := DisambiguateDecision(in)
	in[0].Name = "mutated"
	if d.Kind != Disambiguate {
		t.Fatalf("期望 Disambiguate，实际=%v", d.Kind)
	}
	if d.Candidates[0].Name != "A" {
		t.Fatalf("候选列表不应与调用方共享：%+v", d.Candidates)
	}
	if d.Hit != (Hit{}) {
		t.Fatalf("Disambiguate 不应带命中：%+v", d.Hit)
	}
}

func TestMatchKind_String(t *testing.T) {
	cases := map[MatchKind]string{NoMatch: "no_match", DirectHit: "direct_hit", Disambiguate: "disambiguate", MatchKind(9): "unknown"}
	for k, want := range cases {
		if k.String() != want {
			t.Fatalf("kind=%d 期望 %q，实际 %q", int(k), want, k.String())
		}
	}
}
