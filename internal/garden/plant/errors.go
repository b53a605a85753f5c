package plant

import apperrors "github.com/louisbranch/greenhouse/internal/platform/errors"

var (
	// ErrAlreadySeeded indicates a seed command against an existing plant.
	ErrAlreadySeeded = apperrors.New(apperrors.CodePlantAlreadySeeded, "plant is already seeded")
	// ErrNotSeeded indicates a command against a plant with no history.
	ErrNotSeeded = apperrors.New(apperrors.CodePlantNotSeeded, "plant has not been seeded")
	// ErrNotAlive indicates a command that requires a living plant.
	ErrNotAlive = apperrors.New(apperrors.CodePlantNotAlive, "plant is not alive")
	// ErrAlreadyHarvested indicates a second harvest attempt.
	ErrAlreadyHarvested = apperrors.New(apperrors.CodePlantAlreadyHarvested, "plant is already harvested")
	// ErrNoYield indicates a harvest with no observed buds to collect.
	ErrNoYield = apperrors.New(apperrors.CodePlantNoYield, "plant has no yield to harvest")
	// ErrInvalidCondition indicates an observation with an unknown condition.
	ErrInvalidCondition = apperrors.New(apperrors.CodePlantInvalidCondition, "observed condition is invalid")
	// ErrOwnerEmpty indicates a seed command with no owner.
	ErrOwnerEmpty = apperrors.New(apperrors.CodePlantOwnerEmpty, "plant owner is required")
)
