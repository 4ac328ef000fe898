package ids

import (
	"github.com/google/uuid"

	"github.com/mcoot/playmoney/internal/model"
)

// Generator mints identifiers that can be mocked for testing
type Generator interface {
	// PlayerID returns a new player identifier
	PlayerID() model.PlayerID
	// Credential returns a new unguessable credential
	Credential() model.Credential
	// SummaryID returns a new archive identifier
	SummaryID() model.SummaryID
}

// UUIDGenerator implements Generator with UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// PlayerID returns a time-based (version 1) UUID
func (g *UUIDGenerator) PlayerID() model.PlayerID {
	id, err := uuid.NewUUID()
	if err != nil {
		// No usable hardware address or clock; a random UUID is still unique
		id = uuid.New()
	}
	return model.PlayerID(id.String())
}

// Credential returns a random (version 4) UUID
func (g *UUIDGenerator) Credential() model.Credential {
	return model.Credential(uuid.NewString())
}

// SummaryID returns a random (version 4) UUID
func (g *UUIDGenerator) SummaryID() model.SummaryID {
	return model.SummaryID(uuid.NewString())
}
