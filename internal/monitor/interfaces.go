package monitor

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"
)

type OrderServicer interface {
	ParkStale(ctx context.Context, olderThan time.Duration, limit uint) (int, error)
}

type ClaimServicer interface {
	PurgeExpiredClaims(ctx context.Context) (int64, error)
}
