// Package encounters stores encounter snapshots
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountermock github.com/KirkDiggler/combat-tracker/internal/repositories/encounters Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
)

const (
	errEncounterNil     = "encounter cannot be nil"
	errEncounterIDEmpty = "encounter ID cannot be empty"
	errSnapshotNil      = "snapshot cannot be nil"
)

// Repository defines the storage interface for encounters
type Repository interface {
	// Save creates or replaces an encounter
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves an encounter by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns every stored encounter, oldest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Delete removes an encounter
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// EncounterData is the persistent form of an encounter
type EncounterData struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Snapshot  *roster.Snapshot `json:"snapshot"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SaveInput defines the request for saving an encounter
type SaveInput struct {
	Encounter *EncounterData
}

// SaveOutput defines the response for saving an encounter
type SaveOutput struct{}

// GetInput defines the request for retrieving an encounter
type GetInput struct {
	ID string
}

// GetOutput defines the response for retrieving an encounter
type GetOutput struct {
	Encounter *EncounterData
}

// ListInput defines the request for listing encounters
type ListInput struct{}

// ListOutput defines the response for listing encounters
type ListOutput struct {
	Encounters []*EncounterData
}

// DeleteInput defines the request for deleting an encounter
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the response for deleting an encounter
type DeleteOutput struct{}

func validateSave(input *SaveInput) error {
	if input == nil || input.Encounter == nil {
		return errors.InvalidArgument(errEncounterNil)
	}
	if input.Encounter.ID == "" {
		return errors.InvalidArgument(errEncounterIDEmpty)
	}
	if input.Encounter.Snapshot == nil {
		return errors.InvalidArgument(errSnapshotNil)
	}
	return nil
}

func validateID(id string) error {
	if id == "" {
		return errors.InvalidArgument(errEncounterIDEmpty)
	}
	return nil
}

func notFound(id string) error {
	return errors.NotFoundf("encounter %s not found", id).WithMeta("encounter_id", id)
}
