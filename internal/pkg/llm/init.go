package llm

import (
	"CookingSecret/internal/api/config"
	log "log/slog"
	"os"

	"github.com/tmc/langchaingo/llms/openai"
)

// InitLLM 初始化文本模型并读取系统提示词
func InitLLM() (*ChefBot, error) {
	cfg := config.Cfg.LLM

	model, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return nil, err
	}

	return NewChefBot(model, readPrompt(cfg.ChatPrompt), cfg.Temperature, cfg.Timeout), nil
}

func readPrompt(file string) string {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Error("读取prompt文件失败", "file", file, "err", err)
		return ""
	}
	return string(data)
}
