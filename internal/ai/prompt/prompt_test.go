package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/prompts"

	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()

	msgs, err := b.Build("  明天要买菜，还要打扫房间  ")
	require.NoError(t, err)

	assert.Equal(t, SystemPrompt, msgs.System)
	assert.True(t, strings.HasPrefix(msgs.User, `用户输入: "明天要买菜，还要打扫房间"`))
	assert.Contains(t, msgs.User, `"category": "工作|生活|学习|健康|其他"`)
	assert.Contains(t, msgs.User, "4. 将复杂任务拆分为2-5个子任务")
	assert.Contains(t, msgs.User, "8. 时间估算要合理（15-120分钟）")
}

func TestBuilder_Build_NormalizesNFC(t *testing.T) {
	b := NewBuilder()

	msgs, err := b.Build("cafe\u0301")
	require.NoError(t, err)

	assert.Contains(t, msgs.User, "caf\u00e9")
	assert.NotContains(t, msgs.User, "\u0301")
}

func TestBuilder_Build_Empty(t *testing.T) {
	b := NewBuilder()

	_, err := b.Build(" \n\t ")
	assert.ErrorIs(t, err, domainErrors.ErrEmptyInput)
}

func TestBuilder_Build_RenderFailure(t *testing.T) {
	b := &Builder{template: prompts.NewPromptTemplate("{{.text", []string{"text"})}

	_, err := b.Build("买菜")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainErrors.ErrEmptyInput)
	assert.Contains(t, err.Error(), "failed to render structuring prompt")
}
