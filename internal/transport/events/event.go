package events

import (
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
)

// SubjectPrefix префикс темы, в которую публикуются уведомления. Полная тема: notifications.<Template>.
const SubjectPrefix = "notifications"

// NotificationEvent сообщение об уведомлении пользователя в шине событий.
type NotificationEvent struct {
	ID          int64                       `json:"id"`
	UserID      int64                       `json:"userId"`
	Type        domain.NotificationTemplate `json:"type"`
	ReferenceID *int64                      `json:"referenceId,omitempty"`
	Message     string                      `json:"message"`
	Link        string                      `json:"link"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

func NewNotificationEvent(n domain.Notification) NotificationEvent {
	return NotificationEvent{
		ID:          n.ID,
		UserID:      n.UserID,
		Type:        n.Type,
		ReferenceID: n.ReferenceID,
		Message:     n.Message,
		Link:        n.Link,
		CreatedAt:   n.CreatedAt,
	}
}

// Subject тема для события.
func (e NotificationEvent) Subject() string {
	return SubjectPrefix + "." + string(e.Type)
}
