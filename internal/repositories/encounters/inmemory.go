package encounters

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage. Records
// are kept encoded so callers never share state with the store.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string][]byte),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Save stores an encounter
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Encounter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal encounter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Encounter.ID] = data
	return &SaveOutput{}, nil
}

// Get retrieves an encounter by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	data, exists := r.store[input.ID]
	r.mu.RUnlock()
	if !exists {
		return nil, notFound(input.ID)
	}

	encounter, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: encounter}, nil
}

// List returns every encounter, oldest first
func (r *InMemoryRepository) List(_ context.Context, _ *ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encounters := make([]*EncounterData, 0, len(r.store))
	for _, data := range r.store {
		encounter, err := decode(data)
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, encounter)
	}
	sortEncounters(encounters)
	return &ListOutput{Encounters: encounters}, nil
}

// Delete removes an encounter
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return nil, notFound(input.ID)
	}
	delete(r.store, input.ID)
	return &DeleteOutput{}, nil
}

func decode(data []byte) (*EncounterData, error) {
	var encounter EncounterData
	if err := json.Unmarshal(data, &encounter); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal encounter")
	}
	return &encounter, nil
}

func sortEncounters(encounters []*EncounterData) {
	slices.SortFunc(encounters, func(a, b *EncounterData) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
