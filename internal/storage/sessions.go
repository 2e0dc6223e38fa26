package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

func (s *SQLStorage) GetSession(ctx context.Context, telegramID int64) (*models.ChatSession, error) {
	query := `SELECT telegram_id, state, data, updated_at FROM chat_sessions WHERE telegram_id = ?`

	session := &models.ChatSession{}
	err := s.queryRow(ctx, query, telegramID).Scan(
		&session.TelegramID,
		&session.State,
		jsonColumn{&session.Data},
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if session.Data == nil {
		session.Data = map[string]any{}
	}
	return session, nil
}

// UpsertSession creates the session or replaces only the fields set in upd.
func (s *SQLStorage) UpsertSession(ctx context.Context, telegramID int64, upd SessionUpdate) (*models.ChatSession, error) {
	var result *models.ChatSession
	err := s.WithTx(ctx, func(tx Storage) error {
		current, err := tx.GetSession(ctx, telegramID)
		exists := err == nil
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if !exists {
			current = &models.ChatSession{TelegramID: telegramID, Data: map[string]any{}}
		}

		if upd.State != nil {
			current.State = *upd.State
		}
		if upd.Data != nil {
			current.Data = upd.Data
		}

		data, err := marshalJSON(current.Data)
		if err != nil {
			return fmt.Errorf("error encoding session data: %w", err)
		}

		ts := tx.(*SQLStorage)
		current.UpdatedAt = ts.now()
		if exists {
			_, err = ts.exec(ctx,
				`UPDATE chat_sessions SET state = ?, data = ?, updated_at = ? WHERE telegram_id = ?`,
				current.State, data, current.UpdatedAt, telegramID)
		} else {
			_, err = ts.exec(ctx,
				`INSERT INTO chat_sessions (telegram_id, state, data, updated_at) VALUES (?, ?, ?, ?)`,
				telegramID, current.State, data, current.UpdatedAt)
		}
		if err != nil {
			return fmt.Errorf("error saving session: %w", err)
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLStorage) DeleteSession(ctx context.Context, telegramID int64) (bool, error) {
	result, err := s.exec(ctx, `DELETE FROM chat_sessions WHERE telegram_id = ?`, telegramID)
	if err != nil {
		return false, fmt.Errorf("error deleting session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
