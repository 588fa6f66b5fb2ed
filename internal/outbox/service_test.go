package outbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/careledger/internal/notification"
	"github.com/MrJamesThe3rd/careledger/internal/outbox"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 30 * time.Second},
		{1, 30 * time.Second},
		{2, time.Minute},
		{3, 2 * time.Minute},
		{7, 32 * time.Minute},
		{8, time.Hour},
		{20, time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, outbox.Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDispatcher_RunOnce(t *testing.T) {
	ok := &outbox.Event{ID: uuid.New(), Kind: outbox.KindNotification}
	flaky := &outbox.Event{ID: uuid.New(), Kind: outbox.KindNotification, Attempts: 2}
	dead := &outbox.Event{ID: uuid.New(), Kind: outbox.KindNotification, Attempts: 4}

	type testCase struct {
		name    string
		setup   func(repo *outbox.MockRepository, dtx *outbox.MockDispatchTx, del *outbox.MockDeliverer)
		want    outbox.Result
		wantErr bool
	}

	tests := []testCase{
		{
			name: "DeliversRetriesAndParks",
			setup: func(repo *outbox.MockRepository, dtx *outbox.MockDispatchTx, del *outbox.MockDeliverer) {
				repo.EXPECT().BeginDispatch(gomock.Any()).Return(dtx, nil)
				dtx.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 10).Return([]*outbox.Event{ok, flaky, dead}, nil)

				del.EXPECT().Deliver(gomock.Any(), ok).Return(nil)
				dtx.EXPECT().MarkDispatched(gomock.Any(), ok.ID, gomock.Any()).Return(nil)

				del.EXPECT().Deliver(gomock.Any(), flaky).Return(errors.New("db down"))
				dtx.EXPECT().MarkFailed(gomock.Any(), flaky.ID, 3, gomock.Not(gomock.Nil()), "db down").Return(nil)

				del.EXPECT().Deliver(gomock.Any(), dead).Return(errors.New("still down"))
				dtx.EXPECT().MarkFailed(gomock.Any(), dead.ID, 5, gomock.Nil(), "still down").Return(nil)

				dtx.EXPECT().Commit().Return(nil)
				dtx.EXPECT().Rollback().Return(nil)
			},
			want: outbox.Result{Dispatched: 1, Retried: 1, Parked: 1},
		},
		{
			name: "NothingDue",
			setup: func(repo *outbox.MockRepository, dtx *outbox.MockDispatchTx, _ *outbox.MockDeliverer) {
				repo.EXPECT().BeginDispatch(gomock.Any()).Return(dtx, nil)
				dtx.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
				dtx.EXPECT().Commit().Return(nil)
				dtx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "ClaimErrorRollsBack",
			setup: func(repo *outbox.MockRepository, dtx *outbox.MockDispatchTx, _ *outbox.MockDeliverer) {
				repo.EXPECT().BeginDispatch(gomock.Any()).Return(dtx, nil)
				dtx.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 10).Return(nil, errors.New("boom"))
				dtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := outbox.NewMockRepository(ctrl)
			dtx := outbox.NewMockDispatchTx(ctrl)
			del := outbox.NewMockDeliverer(ctrl)
			tt.setup(repo, dtx, del)

			d := outbox.NewDispatcher(repo, del, 10, 5)

			got, err := d.RunOnce(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeSender struct {
	got notification.Event
	err error
}

func (f *fakeSender) Deliver(_ context.Context, ev notification.Event) (int, error) {
	f.got = ev
	return 1, f.err
}

func TestNotifications_Deliver(t *testing.T) {
	orgID, clientID := uuid.New(), uuid.New()

	ev, err := outbox.NewNotification(notification.Event{
		OrganizationID: orgID,
		Type:           "booking_change_approved",
		Category:       "booking",
		Priority:       notification.PriorityHigh,
		Title:          "Visit cancelled",
		Message:        "Your cancellation request was approved",
		Data:           map[string]any{"booking_id": "b1"},
		Audience:       notification.ToClient(clientID),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, orgID, ev.OrganizationID)

	sender := &fakeSender{}
	require.NoError(t, outbox.NewNotifications(sender).Deliver(context.Background(), ev))

	assert.Equal(t, ev.ID, sender.got.ID)
	assert.Equal(t, notification.ToClient(clientID), sender.got.Audience)
	assert.Equal(t, "b1", sender.got.Data["booking_id"])

	sender.err = errors.New("insert failed")
	assert.Error(t, outbox.NewNotifications(sender).Deliver(context.Background(), ev))
}

func TestNotifications_RejectsUnknownKind(t *testing.T) {
	err := outbox.NewNotifications(&fakeSender{}).Deliver(context.Background(), &outbox.Event{
		Kind:    "webhook",
		Payload: json.RawMessage(`{}`),
	})
	assert.Error(t, err)
}
