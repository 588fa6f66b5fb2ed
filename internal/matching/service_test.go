package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/careledger/internal/matching"
)

var orgID = uuid.MustParse("5c0a7e1d-0000-4000-8000-0000000000a1")

func TestService_Suggest(t *testing.T) {
	type testCase struct {
		name      string
		raw       string
		setupMock func(m *matching.MockRepository)
		want      string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Match",
			raw:  "TESCO STORES 3321",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), orgID, "TESCO STORES 3321").Return("groceries", nil)
			},
			want: "groceries",
		},
		{
			name: "Blank",
			raw:  "  ",
		},
		{
			name: "RepoError",
			raw:  "UBER",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), orgID, "UBER").Return("", errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := matching.NewService(repo).Suggest(context.Background(), orgID, tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	repo.EXPECT().
		CreateRule(gomock.Any(), orgID, "UBER", "travel").
		Return(&matching.Rule{ID: uuid.New(), RawPattern: "UBER", Category: "travel"}, nil)

	r, err := svc.Learn(context.Background(), orgID, " UBER ", "Travel")
	require.NoError(t, err)
	assert.Equal(t, "travel", r.Category)

	_, err = svc.Learn(context.Background(), orgID, "UBER", "")
	assert.ErrorIs(t, err, matching.ErrInvalidRule)
}

func TestService_RulesAndForget_ScopedToOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)
	ruleID := uuid.New()

	repo.EXPECT().ListRules(gomock.Any(), orgID).
		Return([]*matching.Rule{{ID: ruleID, OrganizationID: orgID, RawPattern: "UBER", Category: "travel"}}, nil)
	repo.EXPECT().DeleteRule(gomock.Any(), orgID, ruleID).Return(nil)

	rules, err := svc.Rules(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, orgID, rules[0].OrganizationID)

	require.NoError(t, svc.Forget(context.Background(), orgID, ruleID))
}
