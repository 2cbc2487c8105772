package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ErrCodeNotFound 表示 --config 指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// FileName 是工作目录下默认查找的配置文件名。
const FileName = "wikibot.yaml"

const (
	DefaultWikiURL      = "https://wiki.pcsx2.net"
	DefaultStrategy     = "search"
	DefaultCatalogPath  = "/Complete_List_of_Games"
	DefaultSummonPhrase = "WikiBot! "
	DefaultAnsweredPath = "answered.json"
	DefaultMaxQueries   = 3
	DefaultRetryStep    = 5 * time.Second
	DefaultCooldown     = 20 * time.Second
	DefaultContactURL   = "https://www.reddit.com/message/compose/?to=theoriginal123123&subject=/u/PCSX2-Wiki-Bot"
	DefaultRepoURL      = "https://github.com/Pixxel123/PCSX2-Wiki-Bot"

	maxQueriesLimit = 10
)

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息。
type CLIArgs struct {
	// ConfigPath 非空时必须存在；为空时读取 <cwd>/wikibot.yaml（可选）。
	ConfigPath string

	Strategy    string
	StrategySet bool
}

// FileConfig 对应 wikibot.yaml 的解析结构；未知字段忽略。
type FileConfig struct {
	WikiURL                string `yaml:"wiki_url"`
	Strategy               string `yaml:"strategy"`
	CatalogPath            string `yaml:"catalog_path"`
	SummonPhrase           string `yaml:"summon_phrase"`
	UserAgent              string `yaml:"user_agent"`
	ProxyURL               string `yaml:"proxy_url"`
	AnsweredPath           string `yaml:"answered_path"`
	MaxQueries             int    `yaml:"max_queries"`
	RetryStepSeconds       int    `yaml:"retry_step_seconds"`
	RestartCooldownSeconds int    `yaml:"restart_cooldown_seconds"`
	ContactURL             string `yaml:"contact_url"`
	RepoURL                string `yaml:"repo_url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置。
type EffectiveConfig struct {
	// ConfigPath 是实际读取的配置文件；没有读取任何文件时为空。
	ConfigPath string

	WikiURL    string
	Strategy   string
	CatalogURL string

	SummonPhrase string
	UserAgent    string
	ProxyURL     string

	// AnsweredPath 是已回复标记文件的绝对路径（相对路径以 cwd 为基准）。
	AnsweredPath string
	MaxQueries   int

	RetryStep       time.Duration
	RestartCooldown time.Duration

	ContactURL string
	RepoURL    string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则：
// 1) CLI 提供 --config：必须存在
// 2) 否则尝试 <cwd>/wikibot.yaml（可选，不存在时全部使用默认值）
//
// 覆盖优先级：
// - strategy：CLI > config > 默认 search
// - 其他字段：仅由 config 控制
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	required := false
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		required = true
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		if required {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
		cfgPath = ""
	}
	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	invalid := func(err error) (EffectiveConfig, error) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	strategy := DefaultStrategy
	if cli.StrategySet {
		strategy = cli.Strategy
	} else if strings.TrimSpace(fc.Strategy) != "" {
		strategy = fc.Strategy
	}
	strategy = strings.ToLower(strings.TrimSpace(strategy))
	if err := validateStrategy(strategy); err != nil {
		return invalid(err)
	}

	wikiURL := orDefault(fc.WikiURL, DefaultWikiURL)
	base, err := parseHTTPURL("wiki_url", wikiURL)
	if err != nil {
		return invalid(err)
	}
	wikiURL = strings.TrimRight(base.String(), "/")

	catalogPath := orDefault(fc.CatalogPath, DefaultCatalogPath)
	ref, err := url.Parse(catalogPath)
	if err != nil {
		return invalid(fmt.Errorf("catalog_path 无效：%w", err))
	}
	catalogURL := base.ResolveReference(ref).String()

	proxyURL := strings.TrimSpace(fc.ProxyURL)
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return invalid(fmt.Errorf("proxy_url 无效：%w", err))
		}
	}

	// 召唤词只去掉前导空白；末尾空格是匹配规则的一部分。
	summon := strings.TrimLeft(fc.SummonPhrase, " \t")
	if strings.TrimSpace(summon) == "" {
		summon = DefaultSummonPhrase
	}

	maxQueries := fc.MaxQueries
	switch {
	case maxQueries < 0:
		return invalid(fmt.Errorf("max_queries 不能为负数：%d", maxQueries))
	case maxQueries == 0:
		maxQueries = DefaultMaxQueries
	case maxQueries > maxQueriesLimit:
		maxQueries = maxQueriesLimit
	}

	step, err := seconds("retry_step_seconds", fc.RetryStepSeconds, DefaultRetryStep)
	if err != nil {
		return invalid(err)
	}
	cooldown, err := seconds("restart_cooldown_seconds", fc.RestartCooldownSeconds, DefaultCooldown)
	if err != nil {
		return invalid(err)
	}

	return EffectiveConfig{
		ConfigPath:      cfgPath,
		WikiURL:         wikiURL,
		Strategy:        strategy,
		CatalogURL:      catalogURL,
		SummonPhrase:    summon,
		UserAgent:       strings.TrimSpace(fc.UserAgent),
		ProxyURL:        proxyURL,
		AnsweredPath:    absCleanFrom(cwdAbs, orDefault(fc.AnsweredPath, DefaultAnsweredPath)),
		MaxQueries:      maxQueries,
		RetryStep:       step,
		RestartCooldown: cooldown,
		ContactURL:      orDefault(fc.ContactURL, DefaultContactURL),
		RepoURL:         orDefault(fc.RepoURL, DefaultRepoURL),
	}, nil
}

func validateStrategy(s string) error {
	switch s {
	case "search", "catalog":
		return nil
	case "":
		return fmt.Errorf("strategy 不能为空")
	default:
		return fmt.Errorf("strategy 只能是 search 或 catalog，实际是 %q", s)
	}
}

func parseHTTPURL(field, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s 无效：%q", field, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s 必须是 http/https：%q", field, raw)
	}
	return u, nil
}

func seconds(field string, v int, def time.Duration) (time.Duration, error) {
	if v < 0 {
		return 0, fmt.Errorf("%s 不能为负数：%d", field, v)
	}
	if v == 0 {
		return def, nil
	}
	return time.Duration(v) * time.Second, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 YAML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
