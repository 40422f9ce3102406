package usecases

import (
	"chat-api/apperrors"
	"chat-api/entities"
	"chat-api/repositories"
)

type ValidatorUseCase struct {
	validators repositories.ValidatorRepository
}

func NewValidatorUseCase(validators repositories.ValidatorRepository) *ValidatorUseCase {
	return &ValidatorUseCase{validators: validators}
}

func (uc *ValidatorUseCase) GetAll() ([]entities.Validator, error) {
	validators, err := uc.validators.GetAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list validators", err)
	}
	return validators, nil
}

func (uc *ValidatorUseCase) GetByID(id string) (*entities.Validator, error) {
	validator, err := uc.validators.GetByID(id)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrValidatorNotFound)
	}
	return validator, nil
}

func (uc *ValidatorUseCase) GetByUID(uid int) (*entities.Validator, error) {
	validator, err := uc.validators.GetByUID(uid)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrValidatorNotFound)
	}
	return validator, nil
}
