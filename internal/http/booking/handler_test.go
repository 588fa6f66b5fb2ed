package booking_test

import (
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
	"github.com/MrJamesThe3rd/careledger/internal/booking"
	bookinghttp "github.com/MrJamesThe3rd/careledger/internal/http/booking"
)

var (
	orgID    = uuid.New()
	clientID = uuid.New()
)

func newServer(repo booking.Repository, caller auth.Identity) http.Handler {
	h := bookinghttp.NewHandler(booking.NewService(repo, time.UTC, 15*time.Minute))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), caller)))
		})
	})
	r.Route("/bookings", h.Routes)
	r.Route("/change-requests", h.ChangeRequestRoutes)
	r.Route("/unavailability", h.UnavailabilityRoutes)

	return r
}

func as(role auth.Role) auth.Identity {
	id := auth.Identity{UserID: uuid.New(), OrganizationID: orgID, Role: role}
	if role == auth.RoleClient {
		id.ClientID = &clientID
	}

	return id
}

func do(srv http.Handler, method, path, body string) int {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec.Code
}

func TestHandler_RoleGuards(t *testing.T) {
	bookingID := uuid.NewString()

	type testCase struct {
		name   string
		role   auth.Role
		method string
		path   string
	}

	tests := []testCase{
		{"StaffCannotRequestChange", auth.RoleStaff, http.MethodPost, "/bookings/" + bookingID + "/change-requests"},
		{"ClientCannotReportUnavailability", auth.RoleClient, http.MethodPost, "/bookings/" + bookingID + "/unavailability"},
		{"ClientCannotReview", auth.RoleClient, http.MethodPost, "/change-requests/" + uuid.NewString() + "/review"},
		{"StaffCannotReassign", auth.RoleStaff, http.MethodPost, "/unavailability/" + uuid.NewString() + "/reassign"},
		{"ManagerCannotRunAlerts", auth.RoleManager, http.MethodPost, "/bookings/alerts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			srv := newServer(booking.NewMockRepository(ctrl), as(tt.role))
			assert.Equal(t, http.StatusForbidden, do(srv, tt.method, tt.path, `{}`))
		})
	}
}

func TestHandler_List_StaffSeesOwnRota(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := booking.NewMockRepository(ctrl)
	caller := as(auth.RoleStaff)

	repo.EXPECT().
		ListBookings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, filter booking.BookingFilter) ([]*booking.Booking, error) {
			assert.Equal(t, orgID, filter.OrganizationID)
			assert.Equal(t, caller.UserID, *filter.StaffID)
			assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), *filter.From)
			return nil, nil
		})

	srv := newServer(repo, caller)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/bookings?staff_id="+uuid.NewString()+"&from=2025-05-01", ""))
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/bookings?from=May", ""))
}

func TestHandler_ClientSeesOwnVisits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := booking.NewMockRepository(ctrl)
	own := &booking.Booking{ID: uuid.New(), OrganizationID: orgID, ClientID: clientID}
	other := &booking.Booking{ID: uuid.New(), OrganizationID: orgID, ClientID: uuid.New()}

	repo.EXPECT().
		ListBookings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, filter booking.BookingFilter) ([]*booking.Booking, error) {
			require.NotNil(t, filter.ClientID)
			assert.Equal(t, clientID, *filter.ClientID)
			return nil, nil
		})
	repo.EXPECT().GetBooking(gomock.Any(), orgID, own.ID).Return(own, nil)
	repo.EXPECT().GetBooking(gomock.Any(), orgID, other.ID).Return(other, nil)

	srv := newServer(repo, as(auth.RoleClient))
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/bookings?client_id="+uuid.NewString(), ""))
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/bookings/"+own.ID.String(), ""))
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/bookings/"+other.ID.String(), ""))

	noClient := auth.Identity{UserID: uuid.New(), OrganizationID: orgID, Role: auth.RoleClient}
	assert.Equal(t, http.StatusForbidden, do(newServer(repo, noClient), http.MethodGet, "/bookings", ""))
}

func TestHandler_SubmitChange(t *testing.T) {
	bookingID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setup      func(repo *booking.MockRepository, rtx *booking.MockReviewTx)
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "RescheduleWithoutDate",
			body:       `{"type":"reschedule","reason":"hospital appointment"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownType",
			body:       `{"type":"pause"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "BookingNotFound",
			body: `{"type":"cancellation","reason":"away"}`,
			setup: func(repo *booking.MockRepository, rtx *booking.MockReviewTx) {
				repo.EXPECT().BeginReview(gomock.Any()).Return(rtx, nil)
				rtx.EXPECT().LockBooking(gomock.Any(), orgID, bookingID).Return(nil, booking.ErrNotFound)
				rtx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "AnotherClientsBooking",
			body: `{"type":"cancellation","reason":"away"}`,
			setup: func(repo *booking.MockRepository, rtx *booking.MockReviewTx) {
				repo.EXPECT().BeginReview(gomock.Any()).Return(rtx, nil)
				rtx.EXPECT().LockBooking(gomock.Any(), orgID, bookingID).
					Return(&booking.Booking{ID: bookingID, ClientID: uuid.New(), Status: booking.StatusScheduled}, nil)
				rtx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "NotScheduled",
			body: `{"type":"cancellation","reason":"away"}`,
			setup: func(repo *booking.MockRepository, rtx *booking.MockReviewTx) {
				repo.EXPECT().BeginReview(gomock.Any()).Return(rtx, nil)
				rtx.EXPECT().LockBooking(gomock.Any(), orgID, bookingID).
					Return(&booking.Booking{ID: bookingID, ClientID: clientID, Status: booking.StatusCompleted}, nil)
				rtx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := booking.NewMockRepository(ctrl)
			rtx := booking.NewMockReviewTx(ctrl)

			if tt.setup != nil {
				tt.setup(repo, rtx)
			}

			srv := newServer(repo, as(auth.RoleClient))
			assert.Equal(t, tt.wantStatus, do(srv, http.MethodPost, "/bookings/"+bookingID.String()+"/change-requests", tt.body))
		})
	}
}

func TestHandler_ReviewChange_AlreadyResolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := booking.NewMockRepository(ctrl)
	rtx := booking.NewMockReviewTx(ctrl)
	reqID := uuid.New()

	repo.EXPECT().BeginReview(gomock.Any()).Return(rtx, nil)
	rtx.EXPECT().LockChangeRequest(gomock.Any(), orgID, reqID).
		Return(&booking.ChangeRequest{ID: reqID, Status: booking.RequestApproved}, nil)
	rtx.EXPECT().Rollback().Return(nil)

	srv := newServer(repo, as(auth.RoleAdmin))
	code := do(srv, http.MethodPost, "/change-requests/"+reqID.String()+"/review", `{"decision":"rejected"}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestHandler_Reassign_MissingStaff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := newServer(booking.NewMockRepository(ctrl), as(auth.RoleManager))
	code := do(srv, http.MethodPost, "/unavailability/"+uuid.NewString()+"/reassign", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
