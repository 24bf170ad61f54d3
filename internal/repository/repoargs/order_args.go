package repoargs

import "github.com/fsdevblog/docswap/internal/domain"

// OrderFilter фильтр списка заказов пользователя. Party определяет, в какой роли ищутся заказы
// (пустое значение означает любую роль).
type OrderFilter struct {
	UserID int64
	Party  domain.OrderParty
	Status domain.OrderStatus
	Page   Page
}
