package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prompt-stash/database"
)

func TestClassifierProgrammingContent(t *testing.T) {
	c := NewClassifier()

	category, tags := c.Classify("Help me debug this python function, the error happens at runtime")

	assert.Equal(t, "编程", category)
	assert.Contains(t, tags, "python")
	assert.Contains(t, tags, "debug")
}

func TestClassifierChineseKeywords(t *testing.T) {
	c := NewClassifier()

	category, _ := c.Classify("帮我写一篇关于产品发布的文章和邮件")

	assert.Equal(t, "写作", category)
}

func TestClassifierTranslation(t *testing.T) {
	c := NewClassifier()

	category, tags := c.Classify("请把下面这段英译中，保持专业语气。翻译要准确。")

	assert.Equal(t, "翻译", category)
	assert.Contains(t, tags, "en-zh")
}

func TestClassifierFallbackCategory(t *testing.T) {
	c := NewClassifier()

	category, tags := c.Classify("随便聊聊天气怎么样")

	assert.Equal(t, database.FallbackCategoryName, category)
	assert.Empty(t, tags)
}

func TestClassifierPicksHighestScore(t *testing.T) {
	c := NewClassifier()

	// Three programming keywords vs one writing keyword.
	category, _ := c.Classify("write code to debug the api")

	assert.Equal(t, "编程", category)
}

func TestSuggestTitleShortContent(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, "Fix my SQL query", c.SuggestTitle("Fix my SQL query"))
}

func TestSuggestTitleTruncatesAndCleans(t *testing.T) {
	c := NewClassifier()

	title := c.SuggestTitle("  这是一段非常非常长的提示词内容\n用来测试标题截断行为是否正确  ")

	runes := []rune(title)
	assert.Len(t, runes, 23) // 20 runes + "..."
	assert.Equal(t, "...", string(runes[20:]))
	assert.NotContains(t, title, "\n")
}
