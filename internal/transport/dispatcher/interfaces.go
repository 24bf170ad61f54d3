package dispatcher

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, message any) error
}

type Servicer interface {
	GetUndispatched(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkDispatched(ctx context.Context, ids []int64) error
}

type Observer interface {
	ObserveDispatched(published, failed int)
}
