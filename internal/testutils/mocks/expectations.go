// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/repositories/encounters"
	encountermock "github.com/KirkDiggler/combat-tracker/internal/repositories/encounters/mock"
)

// SavedEncounter holds whatever the repository was last asked to save
type SavedEncounter struct {
	Encounter *encounters.EncounterData
	Calls     int
}

// ExpectLoad sets up the repository to return data for its ID once
func ExpectLoad(repo *encountermock.MockRepository, data *encounters.EncounterData) {
	repo.EXPECT().
		Get(gomock.Any(), &encounters.GetInput{ID: data.ID}).
		Return(&encounters.GetOutput{Encounter: data}, nil)
}

// ExpectMissing sets up the repository to report id as not found
func ExpectMissing(repo *encountermock.MockRepository, id string) {
	repo.EXPECT().
		Get(gomock.Any(), &encounters.GetInput{ID: id}).
		Return(nil, errors.NotFoundf("encounter %s not found", id))
}

// ExpectSave records the next save into the returned holder
func ExpectSave(repo *encountermock.MockRepository) *SavedEncounter {
	saved := &SavedEncounter{}
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, input *encounters.SaveInput) (*encounters.SaveOutput, error) {
			saved.Encounter = input.Encounter
			saved.Calls++
			return &encounters.SaveOutput{}, nil
		})
	return saved
}
