// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Plant command errors
	CodePlantAlreadySeeded    Code = "PLANT_ALREADY_SEEDED"
	CodePlantNotSeeded        Code = "PLANT_NOT_SEEDED"
	CodePlantNotAlive         Code = "PLANT_NOT_ALIVE"
	CodePlantAlreadyHarvested Code = "PLANT_ALREADY_HARVESTED"
	CodePlantNoYield          Code = "PLANT_NO_YIELD"
	CodePlantInvalidCondition Code = "PLANT_INVALID_CONDITION"
	CodePlantOwnerEmpty       Code = "PLANT_OWNER_EMPTY"

	// Journal errors
	CodeSeqConflict Code = "JOURNAL_SEQ_CONFLICT"
	CodeNotFound    Code = "NOT_FOUND"
)
