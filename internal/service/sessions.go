package service

import (
	"context"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/storage"
)

func (s *Service) GetSession(ctx context.Context, telegramID int64) (*models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, telegramID)
	if err != nil {
		return nil, translate(err, "session", telegramID)
	}
	return session, nil
}

// UpsertSession replaces the state and/or data of a chat session, creating it if needed.
func (s *Service) UpsertSession(ctx context.Context, telegramID int64, state *string, data map[string]any) (*models.ChatSession, error) {
	if state == nil && data == nil {
		return nil, apperr.Validation("state or data is required")
	}
	session, err := s.store.UpsertSession(ctx, telegramID, storage.SessionUpdate{State: state, Data: data})
	if err != nil {
		return nil, translate(err, "session", telegramID)
	}
	return session, nil
}

// DeleteSession reports whether a session existed.
func (s *Service) DeleteSession(ctx context.Context, telegramID int64) (bool, error) {
	deleted, err := s.store.DeleteSession(ctx, telegramID)
	if err != nil {
		return false, translate(err, "session", telegramID)
	}
	return deleted, nil
}
