package fuzzy

import "testing"

func TestRatio(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"abc", "abc", 100},
		{"kitten", "sitting", 62},
		{"ab", "ba", 50},
		{"abcd", "xyz", 0},
		{"", "abc", 0},
		{"abc", "", 0},
	}
	for _, c := range cases {
		if got := Ratio(c.a, c.b); got != c.want {
			t.Fatalf("Ratio(%q,%q) 期望 %d，实际 %d", c.a, c.b, c.want, got)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"final fantasy x", "final fantasy xii"},
		{"kingdomhearts", "kingdomheartsii"},
		{"gran turismo 4", "gran turismo 3 a spec"},
	}
	for _, p := range pairs {
		if Ratio(p[0], p[1]) != Ratio(p[1], p[0]) {
			t.Fatalf("Ratio 应对称：%q / %q", p[0], p[1])
		}
	}
}

func TestTokenSetRatio_IgnoresOrderAndDuplicates(t *testing.T) {
	if got := TokenSetRatio("Final Fantasy X", "x final FANTASY final"); got != 100 {
		t.Fatalf("词序/重复词不应影响分数，实际 %d", got)
	}
	if got := TokenSetRatio("Kingdom Hearts", "Kingdom Hearts II"); got != 100 {
		t.Fatalf("子集应得 100，实际 %d", got)
	}
	if got := TokenSetRatio("zzz", "abc"); got != 0 {
		t.Fatalf("无公共字符应得 0，实际 %d", got)
	}
	if got := TokenSetRatio("!!!", "abc"); got != 0 {
		t.Fatalf("没有词时应得 0，实际 %d", got)
	}
}

func TestTokenSetRatio_PartialOverlap(t *testing.T) {
	got := TokenSetRatio("Gran Turismo 4", "Gran Turismo 3: A-Spec")
	if got <= 50 || got >= 100 {
		t.Fatalf("部分重叠的分数应介于 50 与 100 之间，实际 %d", got)
	}
}

func TestFullProcess(t *testing.T) {
	if got := FullProcess("  Ratchet & Clank: Up Your Arsenal "); got != "ratchet clank up your arsenal" {
		t.Fatalf("FullProcess 结果不符合预期：%q", got)
	}
}

func TestFullProcess_KeepsUnderscore(t *testing.T) {
	if got := FullProcess("Going_Commando-2"); got != "going_commando 2" {
		t.Fatalf("下划线属于单词字符，应保留：%q", got)
	}
	if got := TokenSetRatio("going_commando", "Going_Commando"); got != 100 {
		t.Fatalf("期望 100，实际 %d", got)
	}
	if got := TokenSetRatio("going commando", "Going_Commando"); got == 100 {
		t.Fatalf("下划线连接的词不应被拆成两个词")
	}
}

func TestStripNonWord(t *testing.T) {
	if got := StripNonWord("Ratchet & Clank: Going_Commando 2"); got != "ratchetclankgoing_commando2" {
		t.Fatalf("StripNonWord 结果不符合预期：%q", got)
	}
}
