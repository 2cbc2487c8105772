package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "answered.json", []byte("[]")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "answered.json", []byte(`["c1"]`)); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "answered.json"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != `["c1"]` {
		t.Fatalf("内容不一致：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".answered.json.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteFileAtomicReplace_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "bot")
	if err := WriteFileAtomicReplace(dir, "a.txt", []byte("x")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("期望文件存在，但 Stat 失败：%v", err)
	}
}

func TestWriteFileAtomicReplace_RenameFail_KeepsOld(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFileAtomicReplace(dir, "a.txt", []byte("old")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFileAtomicReplace(dir, "a.txt", []byte("new")); err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".a.txt.tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
	b, _ := os.ReadFile(filepath.Join(dir, "a.txt"))
	if string(b) != "old" {
		t.Fatalf("rename 失败时不应破坏旧文件：%q", string(b))
	}
}

func TestWriteFileAtomicReplace_TargetConflictDir(t *testing.T) {
	dir := t.TempDir()

	if err := os.Mkdir(filepath.Join(dir, "a.txt"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	err := WriteFileAtomicReplace(dir, "a.txt", []byte("hello"))
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}
