package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent of ActorID to return the book of a loan.
type Command struct {
	LoanID     uuid.UUID
	ActorID    uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, actorID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		ActorID:    actorID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
