package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager("test-secret", "careledger")
	require.NoError(t, err)

	return m
}

func TestManager_IssueVerify(t *testing.T) {
	m := newManager(t)
	id := Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: RoleManager}

	token, err := m.Issue(id, time.Hour)
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestManager_Verify_Failures(t *testing.T) {
	m := newManager(t)
	id := Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: RoleStaff}

	expired, err := m.Issue(id, -time.Minute)
	require.NoError(t, err)

	other, err := NewManager("other-secret", "careledger")
	require.NoError(t, err)

	foreign, err := other.Issue(id, time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewManager("test-secret", "someone-else")
	require.NoError(t, err)

	wrongIssuer, err := otherIssuer.Issue(id, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		OrganizationID: id.OrganizationID.String(),
		Role:           RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    "careledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"Expired", expired, ErrExpiredToken},
		{"WrongSecret", foreign, ErrInvalidToken},
		{"WrongIssuer", wrongIssuer, ErrInvalidToken},
		{"NoneAlgorithm", none, ErrInvalidToken},
		{"Garbage", "not.a.token", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManager_ClientIdentity(t *testing.T) {
	m := newManager(t)
	clientID := uuid.New()
	id := Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: RoleClient, ClientID: &clientID}

	token, err := m.Issue(id, time.Hour)
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	require.NotNil(t, got.ClientID)
	assert.Equal(t, clientID, *got.ClientID)

	_, err = m.Issue(Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: RoleClient}, time.Hour)
	assert.Error(t, err)

	_, err = m.Issue(Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: RoleStaff, ClientID: &clientID}, time.Hour)
	assert.Error(t, err)

	bare, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		OrganizationID: id.OrganizationID.String(),
		Role:           RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    "careledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(bare)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Issue_UnknownRole(t *testing.T) {
	_, err := newManager(t).Issue(Identity{Role: "owner"}, time.Hour)
	assert.Error(t, err)
}

func TestNewManager_NoSecret(t *testing.T) {
	_, err := NewManager("", "careledger")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestMiddleware(t *testing.T) {
	m := newManager(t)
	id := Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: RoleAdmin}

	token, err := m.Issue(id, time.Hour)
	require.NoError(t, err)

	var seen Identity

	h := m.Middleware(RequireRole(RoleAdmin, RoleManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Valid", "Bearer " + token, http.StatusNoContent},
		{"Missing", "", http.StatusUnauthorized},
		{"NotBearer", "Basic abc", http.StatusUnauthorized},
		{"Invalid", "Bearer abc", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, id, seen)
}

func TestRequireRole_Forbidden(t *testing.T) {
	h := RequireRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{Role: RoleStaff}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
