package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/llm"
	mongorepo "CookingSecret/internal/pkg/mongo"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	chatHistoryLimit  = 50
	chatSessionsLimit = 20
)

type ChatService interface {
	Chat(ctx context.Context, userID uint64, req *dto.ChatRequestDTO) (*dto.ChatResponseDTO, error)
	GetHistory(ctx context.Context, userID uint64, sessionID string) ([]*dto.ChatMessageDTO, error)
	ListSessions(ctx context.Context, userID uint64) ([]*dto.ChatSessionDTO, error)
	DeleteSession(ctx context.Context, userID uint64, sessionID string) error
}

type ChatServiceImpl struct {
	chatRepo    mongorepo.ChatMessageRepo
	model       ChatModel
	historySize int
}

// NewChatService model 为 nil 表示未配置文本模型，对话接口返回不可用
func NewChatService(chatRepo mongorepo.ChatMessageRepo, model ChatModel, historySize int) ChatService {
	return &ChatServiceImpl{
		chatRepo:    chatRepo,
		model:       model,
		historySize: historySize,
	}
}

// Chat 模型调用成功后才落库本轮问答
func (s *ChatServiceImpl) Chat(ctx context.Context, userID uint64, req *dto.ChatRequestDTO) (*dto.ChatResponseDTO, error) {
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return nil, ErrParamInvalid
	}
	if s.model == nil {
		return nil, ErrChatUnavailable
	}

	sessionID := req.SessionID
	var turns []llm.Turn
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if s.historySize > 0 {
		history, err := s.chatRepo.GetHistory(ctx, userID, sessionID, s.historySize)
		if err != nil {
			return nil, err
		}
		turns = make([]llm.Turn, 0, len(history))
		for _, m := range history {
			turns = append(turns, llm.Turn{FromUser: m.Role == mongorepo.ChatRoleUser, Content: m.Content})
		}
	}

	answer, err := s.model.Reply(ctx, turns, question)
	if err != nil {
		log.ErrorContext(ctx, "chat model reply failed", "user_id", userID, "err", err)
		return nil, ErrChatUnavailable
	}

	now := time.Now()
	messages := []*mongorepo.ChatMessage{
		{UserID: userID, SessionID: sessionID, Role: mongorepo.ChatRoleUser, Content: question, CreatedAt: now},
		{UserID: userID, SessionID: sessionID, Role: mongorepo.ChatRoleAssistant, Content: answer, CreatedAt: now.Add(time.Millisecond)},
	}
	for _, m := range messages {
		if err = s.chatRepo.SaveMessage(ctx, m); err != nil {
			return nil, err
		}
	}

	return &dto.ChatResponseDTO{Response: answer, SessionID: sessionID}, nil
}

// GetHistory sessionID 为空时返回该用户全部会话的最近消息
func (s *ChatServiceImpl) GetHistory(ctx context.Context, userID uint64, sessionID string) ([]*dto.ChatMessageDTO, error) {
	messages, err := s.chatRepo.GetHistory(ctx, userID, sessionID, chatHistoryLimit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ChatMessageDTO, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.ChatMessageDTO{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return res, nil
}

func (s *ChatServiceImpl) ListSessions(ctx context.Context, userID uint64) ([]*dto.ChatSessionDTO, error) {
	sessions, err := s.chatRepo.ListSessions(ctx, userID, chatSessionsLimit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ChatSessionDTO, 0, len(sessions))
	for _, ss := range sessions {
		res = append(res, &dto.ChatSessionDTO{
			SessionID:   ss.SessionID,
			LastMessage: ss.LastMessage,
			UpdatedAt:   ss.UpdatedAt,
		})
	}
	return res, nil
}

func (s *ChatServiceImpl) DeleteSession(ctx context.Context, userID uint64, sessionID string) error {
	deleted, err := s.chatRepo.DeleteSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrChatSessionNotFound
	}
	return nil
}
