package game

import "github.com/mcoot/wordchain-go/internal/model"

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_notifier.go -package=mocks github.com/mcoot/wordchain-go/internal/services/game Notifier

// Notifier delivers the messages produced by game events to connections.
// It is called with the registry lock held and must not block.
type Notifier interface {
	Deliver(msgs []model.Message)
}
