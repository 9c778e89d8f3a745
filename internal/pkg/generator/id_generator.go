package generator

import (
	"github.com/google/uuid"
)

type IDGenerator struct{}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) NewItemID() string {
	return "item-" + uuid.NewString()
}

func (g *IDGenerator) NewBidID() string {
	return "bid-" + uuid.NewString()
}

func (g *IDGenerator) NewEventID() string {
	return "evt-" + uuid.NewString()
}
