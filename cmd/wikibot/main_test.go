package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd_Help(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &out)
	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	for _, want := range []string{"lookup", "run", "--strategy", "--config"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("帮助信息缺少 %q：\n%s", want, out.String())
		}
	}
}

func TestLookupCmd_RequiresTitle(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &out)
	cmd.SetArgs([]string{"lookup"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("缺少游戏名时应返回错误")
	}
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfg, []byte("strategy: nope\n"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"run", "--config", cfg})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("无效配置应返回错误")
	}
	if !strings.Contains(errOut.String(), "config_invalid") {
		t.Fatalf("错误输出应包含 error_code：%q", errOut.String())
	}
}

func TestRunCmd_EmptyInput(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "wikibot.yaml")
	body := "answered_path: " + filepath.Join(dir, "answered.json") + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(`{"id":"c1","body":"nothing to see"}`+"\n"), &out, &errOut)
	cmd.SetArgs([]string{"run", "--config", cfg})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("不期望错误：%v（stderr=%q）", err, errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("不含召唤词的消息不应产生输出：%q", out.String())
	}
}
