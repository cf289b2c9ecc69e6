package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"gorm.io/gorm"
)

type GormChatRepo struct {
	db *gorm.DB
}

// GetOrCreateSession implements chat.ConversationStore
func (g *GormChatRepo) GetOrCreateSession(ctx context.Context, token string, meta chat.SessionMeta) (string, error) {
	db := g.db.WithContext(ctx)

	var entity ChatSessionEntity
	err := db.Where(ChatSessionEntity{SessionToken: token}).
		Attrs(*NewChatSessionEntity(token, meta)).
		FirstOrCreate(&entity).Error
	if err == nil {
		return entity.ID, nil
	}

	// Two first requests for the same token race on the unique index.
	if lookupErr := db.Where("session_token = ?", token).First(&entity).Error; lookupErr == nil {
		return entity.ID, nil
	}
	return "", fmt.Errorf("failed to get or create chat session: %w", err)
}

// AppendMessage implements chat.ConversationStore
func (g *GormChatRepo) AppendMessage(ctx context.Context, sessionID string, role chat.Role, content string) error {
	entity := &ChatMessageEntity{SessionID: sessionID, Role: string(role), Content: content}
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// CountUserMessages implements chat.ConversationStore
func (g *GormChatRepo) CountUserMessages(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&ChatMessageEntity{}).
		Where("session_id = ? AND role = ?", sessionID, string(chat.RoleUser)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count user messages: %w", err)
	}
	return count, nil
}

func (g *GormChatRepo) filtered(db *gorm.DB, search string) *gorm.DB {
	query := db.Model(&ChatSessionEntity{})
	if search == "" {
		return query
	}
	like := likePattern(search)
	matchingMessages := db.Model(&ChatMessageEntity{}).Select("session_id").Where(lowerLike("content"), like)
	clauses := make([]string, 0, len(sessionSearchColumns)+1)
	args := make([]any, 0, len(sessionSearchColumns)+1)
	for _, col := range sessionSearchColumns {
		clauses = append(clauses, lowerLike(col))
		args = append(args, like)
	}
	clauses = append(clauses, "id IN (?)")
	args = append(args, matchingMessages)
	return query.Where(strings.Join(clauses, " OR "), args...)
}

var sessionSearchColumns = []string{"session_token", "country", "city", "browser", "device"}

// Postgres LIKE is case-sensitive; lowering both sides matches on every driver.
func lowerLike(col string) string {
	return "LOWER(" + col + ") LIKE ?"
}

func likePattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

type sessionCount struct {
	SessionID string
	Count     int64
}

// ListSessions implements chat.ChatRepository
func (g *GormChatRepo) ListSessions(ctx context.Context, filter chat.ListSessionsRequest) ([]chat.Session, int64, error) {
	db := g.db.WithContext(ctx)

	var total int64
	if err := g.filtered(db, filter.Search).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count chat sessions: %w", err)
	}

	var entities []ChatSessionEntity
	if err := g.filtered(db, filter.Search).
		Order("started_at desc").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	if len(entities) == 0 {
		return []chat.Session{}, total, nil
	}

	ids := make([]string, len(entities))
	for i := range entities {
		ids[i] = entities[i].ID
	}

	var counts []sessionCount
	if err := db.Model(&ChatMessageEntity{}).
		Select("session_id, COUNT(*) AS count").
		Where("session_id IN ?", ids).
		Group("session_id").
		Scan(&counts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count chat messages: %w", err)
	}

	var latest []ChatMessageEntity
	newest := db.Model(&ChatMessageEntity{}).
		Select("session_id, MAX(created_at)").
		Where("session_id IN ?", ids).
		Group("session_id")
	if err := db.Where("(session_id, created_at) IN (?)", newest).Find(&latest).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load last chat messages: %w", err)
	}

	countBy := make(map[string]int64, len(counts))
	for _, c := range counts {
		countBy[c.SessionID] = c.Count
	}
	lastBy := make(map[string]*ChatMessageEntity, len(latest))
	for i := range latest {
		lastBy[latest[i].SessionID] = &latest[i]
	}

	sessions := make([]chat.Session, len(entities))
	for i := range entities {
		s := entities[i].ToDomain()
		s.MessageCount = countBy[s.ID]
		if last, ok := lastBy[s.ID]; ok {
			s.LastMessage = last.ToDomain()
		}
		sessions[i] = *s
	}
	return sessions, total, nil
}

// GetSession implements chat.ChatRepository
func (g *GormChatRepo) GetSession(ctx context.Context, id string) (*chat.Session, error) {
	var entity ChatSessionEntity
	err := g.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	session := entity.ToDomain()
	if session.Messages == nil {
		session.Messages = []chat.Message{}
	}
	return session, nil
}

// DeleteSession implements chat.ChatRepository
func (g *GormChatRepo) DeleteSession(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&ChatMessageEntity{}).Error; err != nil {
			return fmt.Errorf("failed to delete chat messages: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&ChatSessionEntity{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete chat session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return chat.ErrSessionNotFound
		}
		return nil
	})
}

func NewGormChatRepo(db *gorm.DB) chat.ChatRepository {
	return &GormChatRepo{db: db}
}
