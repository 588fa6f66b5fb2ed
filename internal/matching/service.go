package matching

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, orgID uuid.UUID, rawDescription string) (string, error)
	CreateRule(ctx context.Context, orgID uuid.UUID, rawPattern string, category string) (*Rule, error)
	ListRules(ctx context.Context, orgID uuid.UUID) ([]*Rule, error)
	DeleteRule(ctx context.Context, orgID uuid.UUID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest matching rule, or "" when none matches.
func (s *Service) Suggest(ctx context.Context, orgID uuid.UUID, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, orgID, rawDescription)
}

// Learn remembers that descriptions containing rawPattern belong to category.
// Learning an existing pattern again replaces its category.
func (s *Service) Learn(ctx context.Context, orgID uuid.UUID, rawPattern, category string) (*Rule, error) {
	rawPattern = strings.TrimSpace(rawPattern)
	category = strings.ToLower(strings.TrimSpace(category))

	if rawPattern == "" || category == "" {
		return nil, ErrInvalidRule
	}

	return s.repo.CreateRule(ctx, orgID, rawPattern, category)
}

func (s *Service) Rules(ctx context.Context, orgID uuid.UUID) ([]*Rule, error) {
	return s.repo.ListRules(ctx, orgID)
}

func (s *Service) Forget(ctx context.Context, orgID, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, orgID, id)
}
