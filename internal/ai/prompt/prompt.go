// Package prompt renders the instructions sent to text providers.
package prompt

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
	"golang.org/x/text/unicode/norm"

	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
)

// SystemPrompt is the system instruction shared by every text provider.
const SystemPrompt = "你是一个专业的任务管理助手，擅长将用户的想法转换为结构化的任务列表。"

const structureTemplate = `用户输入: "{{.text}}"

请将用户的输入文本转换为结构化的任务列表。按照以下JSON格式返回结构化数据，只返回JSON，不要其他内容：

{
  "tasks": [
    {
      "title": "任务标题",
      "category": "工作|生活|学习|健康|其他",
      "estimatedTime": 30,
      "subtasks": [
        {
          "title": "子任务标题",
          "completed": false
        }
      ]
    }
  ]
}

规则：
1. 从文本中识别出所有可能的任务
2. 为每个任务分配合适的分类
3. 估算每个任务的时间（分钟）
4. 将复杂任务拆分为2-5个子任务
5. 简单任务可以只有1个子任务
6. 任务标题要简洁明确
7. 子任务要具体可执行
8. 时间估算要合理（15-120分钟）`

// Messages is a rendered prompt pair.
type Messages struct {
	System string
	User   string
}

// Builder renders structuring prompts.
type Builder struct {
	template prompts.PromptTemplate
}

// NewBuilder creates a Builder for the task structuring prompt.
func NewBuilder() *Builder {
	return &Builder{
		template: prompts.NewPromptTemplate(structureTemplate, []string{"text"}),
	}
}

// Build renders the prompt for one brain-dump. The input is NFC-normalized
// and trimmed; blank input is ErrEmptyInput.
func (b *Builder) Build(text string) (Messages, error) {
	input := strings.TrimSpace(norm.NFC.String(text))
	if input == "" {
		return Messages{}, domainErrors.ErrEmptyInput
	}

	user, err := b.template.Format(map[string]any{"text": input})
	if err != nil {
		return Messages{}, fmt.Errorf("failed to render structuring prompt: %w", err)
	}

	return Messages{System: SystemPrompt, User: user}, nil
}
