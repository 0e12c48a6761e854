package services

import (
	"regexp"
	"strings"

	"prompt-stash/database"
)

type classifierRule struct {
	category    string
	keywords    []string
	tagKeywords map[string][]string
}

var classifierRules = []classifierRule{
	{
		category: "编程",
		keywords: []string{"code", "debug", "function", "error", "bug", "api", "implement", "program", "script", "algorithm", "class", "method", "variable", "compile", "runtime", "代码", "调试", "编程", "函数", "报错"},
		tagKeywords: map[string][]string{
			"python":     {"python", "pip", "django", "flask", "pandas"},
			"javascript": {"javascript", "js", "node", "react", "vue", "angular", "typescript", "ts"},
			"debug":      {"debug", "error", "fix", "bug", "issue", "调试", "报错"},
			"api":        {"api", "rest", "graphql", "endpoint"},
			"sql":        {"sql", "database", "query", "mysql", "postgres", "sqlite"},
		},
	},
	{
		category: "写作",
		keywords: []string{"write", "essay", "article", "blog", "email", "letter", "story", "draft", "copywriting", "写", "文章", "邮件", "文案"},
		tagKeywords: map[string][]string{
			"email":       {"email", "mail", "邮件"},
			"blog":        {"blog", "博客"},
			"copywriting": {"copy", "ad", "marketing", "文案", "广告"},
		},
	},
	{
		category: "翻译",
		keywords: []string{"translate", "translation", "interpret", "翻译", "英译中", "中译英"},
		tagKeywords: map[string][]string{
			"en-zh": {"english to chinese", "英译中", "english.*chinese"},
			"zh-en": {"chinese to english", "中译英", "chinese.*english"},
		},
	},
	{
		category: "分析",
		keywords: []string{"analyze", "analysis", "data", "report", "statistics", "compare", "分析", "数据", "报告"},
		tagKeywords: map[string][]string{
			"data":   {"data", "数据"},
			"report": {"report", "报告"},
		},
	},
	{
		category: "创意",
		keywords: []string{"creative", "brainstorm", "idea", "design", "imagine", "创意", "设计", "头脑风暴"},
		tagKeywords: map[string][]string{
			"design":     {"design", "设计"},
			"brainstorm": {"brainstorm", "头脑风暴"},
		},
	},
}

// Classifier scores prompt content against keyword rules. It is the
// offline fallback when no LLM is reachable.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify picks the best-scoring category and collects the matching
// tags. Content that matches no rule lands in the fallback category.
func (c *Classifier) Classify(content string) (string, []string) {
	lower := strings.ToLower(content)
	bestCategory := database.FallbackCategoryName
	bestScore := 0
	tagSet := make(map[string]bool)
	tags := make([]string, 0)

	for _, rule := range classifierRules {
		score := 0
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestCategory = rule.category
		}
		if score == 0 {
			continue
		}
		for tag, tagKws := range rule.tagKeywords {
			if tagSet[tag] {
				continue
			}
			for _, tkw := range tagKws {
				matched := strings.Contains(lower, tkw)
				if !matched {
					if re, err := regexp.Compile("(?i)" + tkw); err == nil {
						matched = re.MatchString(content)
					}
				}
				if matched {
					tagSet[tag] = true
					tags = append(tags, tag)
					break
				}
			}
		}
	}

	return bestCategory, tags
}

// SuggestTitle derives a short title from the first 20 runes of the
// cleaned content.
func (c *Classifier) SuggestTitle(content string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(content, "\n", " "))
	runes := []rune(cleaned)
	if len(runes) <= 20 {
		return cleaned
	}
	return string(runes[:20]) + "..."
}
