package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-sync-go/internal/models"
	"wallet-sync-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, queryGetActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Id, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, queryGetUserById, userId).
		Scan(&u.Id, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, userId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userId, err)
	}
	return &u, nil
}

// CreateUser inserts a user if the id is not already present.
func (s *Service) CreateUser(ctx context.Context, userId, name, email string) (*models.User, error) {
	if userId == "" {
		userId = uuid.New().String()
	}
	if _, err := s.db.ExecContext(ctx, queryInsertUser, userId, name, email); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.GetUserById(ctx, userId)
}
