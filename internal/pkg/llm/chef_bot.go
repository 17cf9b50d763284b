package llm

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
)

var ErrEmptyReply = errors.New("empty reply from model")

// Turn 一轮历史对话
type Turn struct {
	FromUser bool
	Content  string
}

// ChefBot 烹饪助手，只负责调用外部文本模型
type ChefBot struct {
	model       llms.Model
	prompt      string
	temperature float64
	timeout     time.Duration
}

func NewChefBot(model llms.Model, prompt string, temperature float64, timeoutSec int) *ChefBot {
	return &ChefBot{
		model:       model,
		prompt:      prompt,
		temperature: temperature,
		timeout:     time.Duration(timeoutSec) * time.Second,
	}
}

// Reply 以系统提示词 + 历史 + 本轮问题请求模型
func (s *ChefBot) Reply(ctx context.Context, history []Turn, question string) (string, error) {
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer TextSem.Release(1)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, s.prompt))
	for _, t := range history {
		role := llms.ChatMessageTypeAI
		if t.FromUser {
			role = llms.ChatMessageTypeHuman
		}
		messages = append(messages, llms.TextParts(role, t.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, question))

	log.InfoContext(ctx, "正在请求AI大模型", "history", len(history))
	resp, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(s.temperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Content, nil
}
