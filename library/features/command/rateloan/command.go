package rateloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/core"
)

const (
	commandType = "RateLoan"
)

// Command represents the intent of ActorID to rate the book of a returned loan.
type Command struct {
	LoanID     uuid.UUID
	ActorID    uuid.UUID
	Rating     int
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, actorID uuid.UUID, rating int, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		ActorID:    actorID,
		Rating:     rating,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
