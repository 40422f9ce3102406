package usecases

import (
	"context"
	"fmt"
	"time"

	"chat-api/apperrors"
	"chat-api/db"
	"chat-api/entities"
	"chat-api/repositories"
	"chat-api/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConversationUseCase owns the chat/message/variation graph. Every logical
// operation persists in a single transaction, so a crash cannot leave a chat
// without its first message.
type ConversationUseCase struct {
	database db.Database
	relay    services.Relayer
	logger   *zap.Logger
}

func NewConversationUseCase(database db.Database, relay services.Relayer, logger *zap.Logger) *ConversationUseCase {
	return &ConversationUseCase{
		database: database,
		relay:    relay,
		logger:   logger,
	}
}

type ChatCreated struct {
	Chat      *entities.Chat
	Message   *entities.Message
	Variation *entities.MessageVariation
}

type MessageCreated struct {
	Message   *entities.Message
	Variation *entities.MessageVariation
}

// StartChat picks the least-recently-used active validator, relays the first
// prompt to it, and persists chat, message and variation together. The
// validator stays assigned to the chat for its whole lifetime.
func (uc *ConversationUseCase) StartChat(ctx context.Context, user *entities.User, content string) (*ChatCreated, error) {
	if content == "" {
		return nil, apperrors.InvalidArg("message_content is required")
	}

	validators := repositories.NewValidatorPgRepository(uc.database)
	validator, err := validators.PickLeastRecentlyUsed()
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrNoActiveValidators)
	}

	reply := uc.relay.Relay(ctx, user.ID, content, validator.IP, validator.Port, false, "")

	// Stamp last_picked right after dispatch so concurrent selections tend
	// to spread across the pool. Best effort, not mutual exclusion.
	if err := validators.MarkPicked(validator.ID, time.Now().UTC()); err != nil {
		uc.logger.Warn("failed to stamp last_picked", zap.String("validator_id", validator.ID), zap.Error(err))
	}

	var created ChatCreated
	err = uc.database.GetDB().Transaction(func(tx *gorm.DB) error {
		chats := repositories.NewChatPgRepository(db.Tx(tx))
		messages := repositories.NewMessagePgRepository(db.Tx(tx))
		variations := repositories.NewMessageVariationPgRepository(db.Tx(tx))

		chat := &entities.Chat{
			Name:        fmt.Sprintf("Room: %s", content),
			UserID:      user.ID,
			ValidatorID: validator.ID,
		}
		if err := chats.Create(chat); err != nil {
			return err
		}

		message := &entities.Message{ChatID: chat.ID, Prompt: content}
		if err := messages.Create(message); err != nil {
			return err
		}

		variation := &entities.MessageVariation{
			MessageID:   message.ID,
			ValidatorID: validator.ID,
			Miner:       reply.MinerID,
			Reply:       reply.Text,
		}
		if err := variations.Create(variation); err != nil {
			return err
		}

		created = ChatCreated{Chat: chat, Message: message, Variation: variation}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create chat", err)
	}
	return &created, nil
}

// GetChat returns the chat with its messages and their variations eagerly
// loaded. Soft-deleted chats and messages are invisible.
func (uc *ConversationUseCase) GetChat(user *entities.User, chatID string) (*entities.Chat, error) {
	chats := repositories.NewChatPgRepository(uc.database)
	if _, err := uc.ownedChat(chats, user, chatID); err != nil {
		return nil, err
	}
	chat, err := chats.GetByIDWithMessages(chatID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrChatNotFound)
	}
	return chat, nil
}

// RenameChat updates the chat name and returns the reloaded chat.
func (uc *ConversationUseCase) RenameChat(user *entities.User, chatID, name string) (*entities.Chat, error) {
	if name == "" {
		return nil, apperrors.InvalidArg("name is required")
	}

	chats := repositories.NewChatPgRepository(uc.database)
	chat, err := uc.ownedChat(chats, user, chatID)
	if err != nil {
		return nil, err
	}

	chat.Name = name
	if err := chats.Update(chat); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to rename chat", err)
	}
	return chats.GetByIDWithMessages(chatID)
}

// ListChats pages through the caller's non-deleted chats, newest activity
// first, without messages.
func (uc *ConversationUseCase) ListChats(user *entities.User, skip, limit int) ([]entities.Chat, int64, error) {
	chats := repositories.NewChatPgRepository(uc.database)
	list, total, err := chats.ListByUserID(user.ID, skip, limit)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, "failed to list chats", err)
	}
	return list, total, nil
}

// DeleteChat soft-deletes the chat and cascades to its messages. Variations
// stay retrievable by id.
func (uc *ConversationUseCase) DeleteChat(user *entities.User, chatID string) error {
	return uc.database.GetDB().Transaction(func(tx *gorm.DB) error {
		chats := repositories.NewChatPgRepository(db.Tx(tx))
		if _, err := uc.ownedChat(chats, user, chatID); err != nil {
			return err
		}
		if err := chats.SoftDelete(chatID); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to delete chat", err)
		}
		return nil
	})
}

// PostMessage relays a new prompt to the chat's assigned validator and
// persists the message together with the reply variation.
func (uc *ConversationUseCase) PostMessage(ctx context.Context, user *entities.User, chatID, content string) (*MessageCreated, error) {
	if content == "" {
		return nil, apperrors.InvalidArg("content is required")
	}

	chats := repositories.NewChatPgRepository(uc.database)
	chat, err := uc.ownedChat(chats, user, chatID)
	if err != nil {
		return nil, err
	}

	validators := repositories.NewValidatorPgRepository(uc.database)
	validator, err := validators.GetByID(chat.ValidatorID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrValidatorNotFound)
	}

	reply := uc.relay.Relay(ctx, user.ID, content, validator.IP, validator.Port, false, "")
	if err := validators.MarkPicked(validator.ID, time.Now().UTC()); err != nil {
		uc.logger.Warn("failed to stamp last_picked", zap.String("validator_id", validator.ID), zap.Error(err))
	}

	var created MessageCreated
	err = uc.database.GetDB().Transaction(func(tx *gorm.DB) error {
		txChats := repositories.NewChatPgRepository(db.Tx(tx))
		messages := repositories.NewMessagePgRepository(db.Tx(tx))
		variations := repositories.NewMessageVariationPgRepository(db.Tx(tx))

		message := &entities.Message{ChatID: chat.ID, Prompt: content}
		if err := messages.Create(message); err != nil {
			return err
		}

		variation := &entities.MessageVariation{
			MessageID:   message.ID,
			ValidatorID: validator.ID,
			Miner:       reply.MinerID,
			Reply:       reply.Text,
		}
		if err := variations.Create(variation); err != nil {
			return err
		}

		chat.UpdatedAt = time.Now().UTC()
		if err := txChats.Update(chat); err != nil {
			return err
		}

		created = MessageCreated{Message: message, Variation: variation}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create message", err)
	}
	return &created, nil
}

// ListMessages pages through the chat's non-deleted messages, newest first.
func (uc *ConversationUseCase) ListMessages(user *entities.User, chatID string, skip, limit int) ([]entities.Message, error) {
	chats := repositories.NewChatPgRepository(uc.database)
	if _, err := uc.ownedChat(chats, user, chatID); err != nil {
		return nil, err
	}

	messages := repositories.NewMessagePgRepository(uc.database)
	list, err := messages.ListByChatID(chatID, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list messages", err)
	}
	return list, nil
}

// DeleteMessage soft-deletes a single message.
func (uc *ConversationUseCase) DeleteMessage(user *entities.User, chatID, messageID string) error {
	chats := repositories.NewChatPgRepository(uc.database)
	if _, err := uc.ownedChat(chats, user, chatID); err != nil {
		return err
	}

	messages := repositories.NewMessagePgRepository(uc.database)
	message, err := messages.GetByID(chatID, messageID)
	if err != nil {
		return orNotFound(err, apperrors.ErrMessageNotFound)
	}
	if err := messages.SoftDelete(message.ID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to delete message", err)
	}
	return nil
}

// PostVariation continues the message's most recent miner with a follow-up
// prompt and records the reply as a new variation. A message with no prior
// variation cannot be continued.
func (uc *ConversationUseCase) PostVariation(ctx context.Context, user *entities.User, chatID, messageID, content string) (*entities.MessageVariation, error) {
	if content == "" {
		return nil, apperrors.InvalidArg("content is required")
	}

	chats := repositories.NewChatPgRepository(uc.database)
	chat, err := uc.ownedChat(chats, user, chatID)
	if err != nil {
		return nil, err
	}

	messages := repositories.NewMessagePgRepository(uc.database)
	message, err := messages.GetByID(chatID, messageID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrMessageNotFound)
	}

	variations := repositories.NewMessageVariationPgRepository(uc.database)
	last, err := variations.GetLatestByMessageID(message.ID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrVariationNotFound)
	}

	validators := repositories.NewValidatorPgRepository(uc.database)
	validator, err := validators.GetByID(chat.ValidatorID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrValidatorNotFound)
	}

	reply := uc.relay.Relay(ctx, user.ID, content, validator.IP, validator.Port, true, last.Miner)
	if err := validators.MarkPicked(validator.ID, time.Now().UTC()); err != nil {
		uc.logger.Warn("failed to stamp last_picked", zap.String("validator_id", validator.ID), zap.Error(err))
	}

	var created *entities.MessageVariation
	err = uc.database.GetDB().Transaction(func(tx *gorm.DB) error {
		txChats := repositories.NewChatPgRepository(db.Tx(tx))
		txMessages := repositories.NewMessagePgRepository(db.Tx(tx))
		txVariations := repositories.NewMessageVariationPgRepository(db.Tx(tx))

		variation := &entities.MessageVariation{
			MessageID:   message.ID,
			ValidatorID: chat.ValidatorID,
			Miner:       reply.MinerID,
			Reply:       reply.Text,
		}
		if err := txVariations.Create(variation); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := txMessages.Touch(message.ID, now); err != nil {
			return err
		}
		chat.UpdatedAt = now
		if err := txChats.Update(chat); err != nil {
			return err
		}

		created = variation
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create variation", err)
	}
	return created, nil
}

// ownedChat loads a live chat and enforces ownership.
func (uc *ConversationUseCase) ownedChat(chats repositories.ChatRepository, user *entities.User, chatID string) (*entities.Chat, error) {
	chat, err := chats.GetByID(chatID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrChatNotFound)
	}
	if chat.UserID != user.ID {
		return nil, apperrors.ErrNotChatOwner
	}
	return chat, nil
}
