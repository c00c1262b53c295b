package app

import "efswitch/internal/database"

// Operation tracks the CLI command being run. Operations are created in
// memory with ID=0. Only mutating commands persist them to the journal,
// which gives them an ID.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // database.StatusSuccess or database.StatusError
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     database.StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Record marks the operation failed if err is non-nil and returns err.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = database.StatusError
	}
	return err
}
