package matching_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	matchinghttp "github.com/MrJamesThe3rd/careledger/internal/http/matching"
	"github.com/MrJamesThe3rd/careledger/internal/matching"
)

var orgID = uuid.New()

func newServer(repo matching.Repository, role auth.Role) http.Handler {
	caller := auth.Identity{UserID: uuid.New(), OrganizationID: orgID, Role: role}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
		})
	})
	r.Route("/categories", matchinghttp.NewHandler(matching.NewService(repo)).Routes)

	return r
}

func TestHandler(t *testing.T) {
	ruleID := uuid.New()

	type testCase struct {
		name       string
		role       auth.Role
		method     string
		path       string
		body       string
		setup      func(repo *matching.MockRepository)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:   "Suggest",
			role:   auth.RoleStaff,
			method: http.MethodGet,
			path:   "/categories/suggest?raw_description=TESCO+STORES",
			setup: func(repo *matching.MockRepository) {
				repo.EXPECT().FindMatch(gomock.Any(), orgID, "TESCO STORES").Return("groceries", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"raw_description":"TESCO STORES","category":"groceries"}`,
		},
		{
			name:       "SuggestRequiresDescription",
			role:       auth.RoleStaff,
			method:     http.MethodGet,
			path:       "/categories/suggest",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "LearnInvalid",
			role:       auth.RoleAdmin,
			method:     http.MethodPost,
			path:       "/categories/rules",
			body:       `{"raw_pattern":"  ","category":"travel"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "StaffCannotLearn",
			role:       auth.RoleStaff,
			method:     http.MethodPost,
			path:       "/categories/rules",
			body:       `{"raw_pattern":"UBER","category":"travel"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "Learn",
			role:   auth.RoleManager,
			method: http.MethodPost,
			path:   "/categories/rules",
			body:   `{"raw_pattern":"UBER","category":" Travel "}`,
			setup: func(repo *matching.MockRepository) {
				repo.EXPECT().CreateRule(gomock.Any(), orgID, "UBER", "travel").
					Return(&matching.Rule{ID: ruleID, RawPattern: "UBER", Category: "travel"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "ForgetMissing",
			role:   auth.RoleAdmin,
			method: http.MethodDelete,
			path:   "/categories/rules/" + ruleID.String(),
			setup: func(repo *matching.MockRepository) {
				repo.EXPECT().DeleteRule(gomock.Any(), orgID, ruleID).Return(matching.ErrRuleNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo)
			}

			rec := httptest.NewRecorder()
			newServer(repo, tt.role).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
