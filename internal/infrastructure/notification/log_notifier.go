package notification

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

// LogNotifier stands in for a real delivery channel: the winner
// notification is emitted as a structured log line.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{
		logger: log,
	}
}

func (n *LogNotifier) NotifyWinner(ctx context.Context, bidderName, itemID string, amount decimal.Decimal) error {
	n.logger.Info("Winner notification sent",
		"bidder_name", bidderName,
		"item_id", itemID,
		"amount", amount.String(),
	)
	monitoring.RecordWinnerNotification()
	return nil
}
