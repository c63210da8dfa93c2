package auth

import (
	"context"
	"time"

	"auth-backend/internal/logger"

	"go.uber.org/zap"
)

// StartResetTokenSweeper clears expired reset tokens every interval until ctx
// is cancelled. Expired tokens are already unusable; this only keeps the
// column tidy.
func (s *Service) StartResetTokenSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Info("Reset token sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reset token sweeper started",
		zap.Duration("interval", interval),
	)

	s.sweepExpiredResetTokens(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset token sweeper stopped")
			return
		case <-ticker.C:
			s.sweepExpiredResetTokens(ctx)
		}
	}
}

func (s *Service) sweepExpiredResetTokens(ctx context.Context) {
	cleared, err := s.userRepo.ClearExpiredResetTokens(ctx, s.now())
	if err != nil {
		logger.Error("Failed to clear expired reset tokens", zap.Error(err))
		return
	}

	logger.Debug("Expired reset tokens cleared",
		zap.Int64("cleared", cleared),
	)
}
