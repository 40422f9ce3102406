package repositories

import (
	"time"

	"chat-api/entities"
)

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByName(name string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetByNameOrEmail(name, email string) (*entities.User, error)
	GetByResetToken(token string) (*entities.User, error)
	Update(user *entities.User) error
}

type ValidatorRepository interface {
	GetAll() ([]entities.Validator, error)
	GetByID(id string) (*entities.Validator, error)
	GetByUID(uid int) (*entities.Validator, error)
	// PickLeastRecentlyUsed returns the active validator with the oldest
	// (nulls first) last_picked timestamp.
	PickLeastRecentlyUsed() (*entities.Validator, error)
	MarkPicked(id string, at time.Time) error
	// DeactivateMissing flips is_active off for every validator whose uid
	// is not in uids.
	DeactivateMissing(uids []int) error
	// Upsert inserts by uid or overwrites all mutable fields, forcing
	// is_active true.
	Upsert(validator *entities.Validator) error
}

type ChatRepository interface {
	Create(chat *entities.Chat) error
	GetByID(id string) (*entities.Chat, error)
	GetByIDWithMessages(id string) (*entities.Chat, error)
	ListByUserID(userID string, skip, limit int) ([]entities.Chat, int64, error)
	Update(chat *entities.Chat) error
	// SoftDelete marks the chat deleted and cascades to its messages. The
	// messages' variations are left untouched.
	SoftDelete(id string) error
}

type MessageRepository interface {
	Create(message *entities.Message) error
	GetByID(chatID, id string) (*entities.Message, error)
	ListByChatID(chatID string, skip, limit int) ([]entities.Message, error)
	SoftDelete(id string) error
	Touch(id string, at time.Time) error
}

type MessageVariationRepository interface {
	Create(variation *entities.MessageVariation) error
	GetByID(id string) (*entities.MessageVariation, error)
	GetLatestByMessageID(messageID string) (*entities.MessageVariation, error)
}
