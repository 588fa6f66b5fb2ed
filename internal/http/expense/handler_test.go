package expense_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/expense"
	"github.com/MrJamesThe3rd/careledger/internal/expense/csvimport"
	expensehttp "github.com/MrJamesThe3rd/careledger/internal/http/expense"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

var caller = auth.Identity{UserID: uuid.New(), OrganizationID: uuid.New(), Role: auth.RoleManager}

type recordingNotifier struct {
	events []notification.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev notification.Event) int {
	n.events = append(n.events, ev)
	return 1
}

func newServer(t *testing.T) (http.Handler, *expense.MockRepository, *expense.MockImportTx, *recordingNotifier) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)
	itx := expense.NewMockImportTx(ctrl)
	cat := expense.NewMockCategorizer(ctrl)
	notifier := &recordingNotifier{}

	h := expensehttp.NewHandler(expense.NewService(repo, cat), csvimport.NewParser(), notifier)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
		})
	})
	r.Route("/expenses", h.Routes)

	return r, repo, itx, notifier
}

const claims = "Date,Category,Description,Amount\n14/05/2025,Travel,Taxi to Mrs Patel,9.00\n"

func upload(t *testing.T, fields map[string]string, file string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "claims.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/expenses/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHandler_Import(t *testing.T) {
	branchID := uuid.New()
	day := time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC)

	t.Run("Imported", func(t *testing.T) {
		srv, repo, itx, notifier := newServer(t)

		repo.EXPECT().BeginImport(gomock.Any(), caller.OrganizationID, day, day).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(1)).Return(nil, nil)
		itx.EXPECT().
			CreateExpenses(gomock.Any(), gomock.Len(1)).
			DoAndReturn(func(_ context.Context, es []*expense.Expense) error {
				assert.Equal(t, branchID, es[0].BranchID)
				assert.Equal(t, "travel", es[0].Category)
				es[0].ID = uuid.New()
				return nil
			})
		itx.EXPECT().Commit().Return(nil)
		itx.EXPECT().Rollback().Return(nil)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, upload(t, map[string]string{"branch_id": branchID.String()}, claims))

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, notifier.events, 1)
		assert.Equal(t, notification.ToBranchAdmins(branchID), notifier.events[0].Audience)
	})

	t.Run("Conflict", func(t *testing.T) {
		srv, repo, itx, notifier := newServer(t)

		existing := &expense.Expense{
			ID:             uuid.New(),
			RawDescription: "Taxi to Mrs Patel",
			Amount:         decimal.RequireFromString("9"),
			IncurredOn:     day,
		}

		repo.EXPECT().BeginImport(gomock.Any(), caller.OrganizationID, day, day).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(1)).Return([]*expense.Expense{existing}, nil)
		itx.EXPECT().Rollback().Return(nil)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, upload(t, map[string]string{"branch_id": branchID.String()}, claims))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), existing.ID.String())
		assert.Empty(t, notifier.events)
	})

	t.Run("MissingBranch", func(t *testing.T) {
		srv, _, _, _ := newServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, upload(t, nil, claims))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownProfile", func(t *testing.T) {
		srv, _, _, _ := newServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, upload(t, map[string]string{"branch_id": branchID.String(), "profile": "bank"}, claims))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown import profile")
	})
}

func TestHandler_Get_NotFound(t *testing.T) {
	srv, repo, _, _ := newServer(t)

	id := uuid.New()
	repo.EXPECT().GetExpense(gomock.Any(), caller.OrganizationID, id).Return(nil, expense.ErrNotFound)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Create_UsesCallerOrganization(t *testing.T) {
	srv, repo, _, _ := newServer(t)

	repo.EXPECT().
		CreateExpense(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense) error {
			assert.Equal(t, caller.OrganizationID, e.OrganizationID)
			return nil
		})

	body := `{"organization_id":"` + uuid.NewString() + `","branch_id":"` + uuid.NewString() +
		`","category":"ppe","description":"Gloves","amount":"3.99","incurred_on":"2025-05-14T00:00:00Z"}`

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}
