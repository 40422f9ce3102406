package repositories

import (
	"time"

	"chat-api/db"
	"chat-api/entities"

	"gorm.io/gorm/clause"
)

type validatorPgRepository struct {
	db db.Database
}

func NewValidatorPgRepository(database db.Database) ValidatorRepository {
	return &validatorPgRepository{db: database}
}

func (r *validatorPgRepository) GetAll() ([]entities.Validator, error) {
	var validators []entities.Validator
	err := r.db.GetDB().Order("uid ASC").Find(&validators).Error
	return validators, err
}

func (r *validatorPgRepository) GetByID(id string) (*entities.Validator, error) {
	var validator entities.Validator
	err := r.db.GetDB().Where("id = ?", id).First(&validator).Error
	if err != nil {
		return nil, err
	}
	return &validator, nil
}

func (r *validatorPgRepository) GetByUID(uid int) (*entities.Validator, error) {
	var validator entities.Validator
	err := r.db.GetDB().Where("uid = ?", uid).First(&validator).Error
	if err != nil {
		return nil, err
	}
	return &validator, nil
}

func (r *validatorPgRepository) PickLeastRecentlyUsed() (*entities.Validator, error) {
	var validator entities.Validator
	err := r.db.GetDB().
		Where("is_active = ?", true).
		Order("last_picked ASC NULLS FIRST").
		First(&validator).Error
	if err != nil {
		return nil, err
	}
	return &validator, nil
}

func (r *validatorPgRepository) MarkPicked(id string, at time.Time) error {
	return r.db.GetDB().Model(&entities.Validator{}).
		Where("id = ?", id).
		Update("last_picked", at).Error
}

func (r *validatorPgRepository) DeactivateMissing(uids []int) error {
	q := r.db.GetDB().Model(&entities.Validator{})
	if len(uids) > 0 {
		q = q.Where("uid NOT IN ?", uids)
	}
	return q.Where("is_active = ?", true).Update("is_active", false).Error
}

func (r *validatorPgRepository) Upsert(validator *entities.Validator) error {
	validator.IsActive = true
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "hotkey", "ip", "port", "is_active",
		}),
	}).Create(validator).Error
}
