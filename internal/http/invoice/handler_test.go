package invoice_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/cache"
	invoicehttp "github.com/MrJamesThe3rd/careledger/internal/http/invoice"
	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

var caller = auth.Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: auth.RoleAdmin}

func newServer(repo invoice.Repository) http.Handler {
	h := invoicehttp.NewHandler(invoice.NewService(repo, cache.NewNop()))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
		})
	})
	r.Route("/invoices", h.Routes)
	r.Route("/extra-time", h.ExtraTimeRoutes)

	return r
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	clientID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setup      func(repo *invoice.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"client_id":"` + clientID.String() + `","start_date":"2025-05-01","end_date":"2025-05-31"}`,
			setup: func(repo *invoice.MockRepository) {
				repo.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, inv *invoice.Invoice) error {
						assert.Equal(t, caller.OrganizationID, inv.OrganizationID)
						assert.Equal(t, clientID, inv.ClientID)
						inv.ID = uuid.New()
						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "BadDate",
			body:       `{"client_id":"` + clientID.String() + `","start_date":"01/05/2025","end_date":"2025-05-31"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "EndBeforeStart",
			body:       `{"client_id":"` + clientID.String() + `","start_date":"2025-05-31","end_date":"2025-05-01"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedBody",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo)
			}

			rec := do(t, newServer(repo), http.MethodPost, "/invoices", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	srv := newServer(repo)

	id := uuid.New()
	inv := &invoice.Invoice{
		ID:             id,
		OrganizationID: caller.OrganizationID,
		StartDate:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	repo.EXPECT().GetInvoice(gomock.Any(), caller.OrganizationID, id).Return(inv, nil)
	repo.EXPECT().GetInvoice(gomock.Any(), caller.OrganizationID, gomock.Not(id)).Return(nil, invoice.ErrNotFound)

	rec := do(t, srv, http.MethodGet, "/invoices/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-05-01", body["start_date"])
	assert.Equal(t, "0", body["current_total"])

	rec = do(t, srv, http.MethodGet, "/invoices/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/invoices/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AttachExpenses_Locked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	ltx := invoice.NewMockLedgerTx(ctrl)

	inv := &invoice.Invoice{ID: uuid.New(), OrganizationID: caller.OrganizationID, Locked: true}

	repo.EXPECT().BeginLedger(gomock.Any()).Return(ltx, nil)
	ltx.EXPECT().LockInvoice(gomock.Any(), caller.OrganizationID, inv.ID).Return(inv, nil)
	ltx.EXPECT().Rollback().Return(nil).AnyTimes()

	rec := do(t, newServer(repo), http.MethodPost, "/invoices/"+inv.ID.String()+"/expenses",
		`{"entries":[{"category":"travel","amount":"12.30"}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_Lock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	ltx := invoice.NewMockLedgerTx(ctrl)

	inv := &invoice.Invoice{ID: uuid.New(), OrganizationID: caller.OrganizationID}

	repo.EXPECT().BeginLedger(gomock.Any()).Return(ltx, nil)
	ltx.EXPECT().LockInvoice(gomock.Any(), caller.OrganizationID, inv.ID).Return(inv, nil)
	ltx.EXPECT().SetLocked(gomock.Any(), inv.ID, caller.UserID, gomock.Any()).Return(nil)
	ltx.EXPECT().Commit().Return(nil)
	ltx.EXPECT().Rollback().Return(nil).AnyTimes()

	rec := do(t, newServer(repo), http.MethodPost, "/invoices/"+inv.ID.String()+"/lock", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_ListUninvoiced_RequiresClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rec := do(t, newServer(invoice.NewMockRepository(ctrl)), http.MethodGet, "/extra-time/uninvoiced", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RecordExtraTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().CreateExtraTime(gomock.Any(), gomock.Any()).Return(nil)

	body := `{
		"staff_id":"` + uuid.NewString() + `",
		"client_id":"` + uuid.NewString() + `",
		"scheduled_start":"2025-05-02T09:00:00Z",
		"scheduled_end":"2025-05-02T10:00:00Z",
		"actual_start":"2025-05-02T09:00:00Z",
		"actual_end":"2025-05-02T10:45:00Z",
		"hourly_rate":"20",
		"overtime_rate":"1.5"
	}`

	rec := do(t, newServer(repo), http.MethodPost, "/extra-time", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 45, got["extra_minutes"])
	assert.Equal(t, "0h 45m", got["duration"])
	assert.Equal(t, "22.5", got["total_cost"])
}
