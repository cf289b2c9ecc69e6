package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"gorm.io/gorm"
)

// ChatSessionEntity is one visitor conversation, keyed by the browser token.
type ChatSessionEntity struct {
	ID           string              `gorm:"primaryKey;type:char(36);not null"`
	SessionToken string              `gorm:"column:session_token;type:varchar(100);uniqueIndex;not null"`
	IPAddress    string              `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent    string              `gorm:"column:user_agent;type:text"`
	Device       string              `gorm:"type:varchar(32)"`
	Browser      string              `gorm:"type:varchar(64)"`
	OS           string              `gorm:"column:os;type:varchar(64)"`
	Country      string              `gorm:"type:varchar(64)"`
	City         string              `gorm:"type:varchar(128)"`
	StartedAt    time.Time           `gorm:"column:started_at;autoCreateTime(3);index"`
	Messages     []ChatMessageEntity `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (ChatSessionEntity) TableName() string {
	return "chat_sessions"
}

func (s *ChatSessionEntity) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (s *ChatSessionEntity) ToDomain() *chat.Session {
	session := &chat.Session{
		ID:           s.ID,
		SessionToken: s.SessionToken,
		SessionMeta: chat.SessionMeta{
			IPAddress: s.IPAddress,
			UserAgent: s.UserAgent,
			Device:    s.Device,
			Browser:   s.Browser,
			OS:        s.OS,
			Country:   s.Country,
			City:      s.City,
		},
		StartedAt: s.StartedAt,
	}
	if len(s.Messages) > 0 {
		session.Messages = make([]chat.Message, len(s.Messages))
		for i := range s.Messages {
			session.Messages[i] = *s.Messages[i].ToDomain()
		}
		session.MessageCount = int64(len(s.Messages))
	}
	return session
}

func NewChatSessionEntity(token string, meta chat.SessionMeta) *ChatSessionEntity {
	return &ChatSessionEntity{
		SessionToken: token,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Device:       meta.Device,
		Browser:      meta.Browser,
		OS:           meta.OS,
		Country:      meta.Country,
		City:         meta.City,
	}
}

type ChatMessageEntity struct {
	ID        string    `gorm:"primaryKey;type:char(36);not null"`
	SessionID string    `gorm:"column:session_id;type:char(36);not null;index"`
	Role      string    `gorm:"type:varchar(16);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime(3);index"`
}

func (ChatMessageEntity) TableName() string {
	return "chat_messages"
}

func (m *ChatMessageEntity) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (m *ChatMessageEntity) ToDomain() *chat.Message {
	return &chat.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      chat.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
