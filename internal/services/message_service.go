package services

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/gorm"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// orderPair puts the two participant ids in canonical order so (A, B)
// and (B, A) always resolve to the same thread row.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// OpenThread finds or creates the thread for a user pair, optionally
// scoped to a request. A nil request maps to uuid.Nil so the unique
// index on (user_one, user_two, request_id) holds for request-less
// threads too.
func (s *MessageService) OpenThread(callerID, otherID uuid.UUID, requestID *uuid.UUID) (*models.MessageThread, error) {
	if otherID == uuid.Nil {
		return nil, apperr.New(apperr.InvalidInput, "Missing other participant")
	}
	if otherID == callerID {
		return nil, apperr.New(apperr.InvalidInput, "Cannot message yourself")
	}

	one, two := orderPair(callerID, otherID)
	reqID := uuid.Nil
	if requestID != nil {
		reqID = *requestID
	}

	var thread models.MessageThread
	err := s.db.Where("user_one = ? AND user_two = ? AND request_id = ?", one, two, reqID).
		First(&thread).Error
	if err == nil {
		return &thread, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load thread", err)
	}

	thread = models.MessageThread{
		ID:            uuid.New(),
		UserOne:       one,
		UserTwo:       two,
		RequestID:     reqID,
		LastMessageAt: time.Now(),
	}
	if err := s.db.Create(&thread).Error; err != nil {
		// Lost a create race: the unique index rejected the duplicate,
		// so the winner's row must exist now.
		var existing models.MessageThread
		if ferr := s.db.Where("user_one = ? AND user_two = ? AND request_id = ?", one, two, reqID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, apperr.Wrap(apperr.Persistence, "Could not create thread", err)
	}
	return &thread, nil
}

// Send appends a message to the pair's thread, creating the thread on
// first contact. Either a body or a file attachment is required.
func (s *MessageService) Send(callerID uuid.UUID, otherID uuid.UUID, requestID *uuid.UUID, body, fileURL string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" && fileURL == "" {
		return nil, apperr.New(apperr.InvalidInput, "Message needs a body or an attachment")
	}

	thread, err := s.OpenThread(callerID, otherID, requestID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:       uuid.New(),
		ThreadID: thread.ID,
		SenderID: callerID,
		Body:     body,
		FileURL:  fileURL,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not send message", err)
	}

	// Best effort; an out-of-date bump only affects thread ordering.
	s.db.Model(&models.MessageThread{}).
		Where("id = ?", thread.ID).
		Update("last_message_at", time.Now())

	return &msg, nil
}

// ListThreads returns the caller's threads, most recently active first.
func (s *MessageService) ListThreads(callerID uuid.UUID) ([]models.MessageThread, error) {
	var threads []models.MessageThread
	err := s.db.Where("user_one = ? OR user_two = ?", callerID, callerID).
		Order("last_message_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load threads", err)
	}
	return threads, nil
}

// ListConversation returns the messages between the caller and another
// user, oldest first, resolving the thread by the canonical pair key
// (optionally scoped to a request). A pair with no thread yet reads as an
// empty conversation; nothing is created.
func (s *MessageService) ListConversation(callerID, otherID uuid.UUID, requestID *uuid.UUID) ([]models.Message, error) {
	if otherID == uuid.Nil {
		return nil, apperr.New(apperr.InvalidInput, "Missing other participant")
	}

	one, two := orderPair(callerID, otherID)
	reqID := uuid.Nil
	if requestID != nil {
		reqID = *requestID
	}

	var thread models.MessageThread
	err := s.db.Where("user_one = ? AND user_two = ? AND request_id = ?", one, two, reqID).
		First(&thread).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load thread", err)
	}

	var msgs []models.Message
	err = s.db.Where("thread_id = ?", thread.ID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load messages", err)
	}
	return msgs, nil
}

// ListMessages returns a thread's messages oldest first. Only the two
// participants may read.
func (s *MessageService) ListMessages(callerID, threadID uuid.UUID) ([]models.Message, error) {
	var thread models.MessageThread
	if err := s.db.First(&thread, "id = ?", threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Thread not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, "Could not load thread", err)
	}
	if callerID != thread.UserOne && callerID != thread.UserTwo {
		return nil, apperr.New(apperr.Forbidden, "Not a participant")
	}

	var msgs []models.Message
	err := s.db.Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load messages", err)
	}
	return msgs, nil
}
