package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/engine/mock"
	"go.uber.org/mock/gomock"
)

func TestDispatchPending_MarksSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outbox := mock.NewMockOutboxRepository(ctrl)
	notifier := mock.NewMockNotifier(ctrl)

	msgs := []*models.OutboxMessage{
		{ID: 1, ActorID: "alice", Kind: models.EventOutbid, Payload: []byte(`{"auction_code":"AB12"}`)},
		{ID: 2, ActorID: "bob", Kind: models.EventAuctionWon, Payload: []byte(`{"auction_code":"AB12"}`)},
	}

	outbox.EXPECT().GetPending(gomock.Any(), outboxBatchSize).Return(msgs, nil)
	notifier.EXPECT().Notify(gomock.Any(), "alice", models.EventOutbid, msgs[0].Payload).Return(nil)
	notifier.EXPECT().Notify(gomock.Any(), "bob", models.EventAuctionWon, msgs[1].Payload).Return(nil)
	outbox.EXPECT().MarkSent(gomock.Any(), int64(1)).Return(nil)
	outbox.EXPECT().MarkSent(gomock.Any(), int64(2)).Return(nil)

	d := NewOutboxDispatcher(outbox, notifier)
	d.DispatchPending(context.Background())
}

func TestDispatchPending_FailureMarksFailedAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outbox := mock.NewMockOutboxRepository(ctrl)
	notifier := mock.NewMockNotifier(ctrl)

	msgs := []*models.OutboxMessage{
		{ID: 7, ActorID: "carol", Kind: models.EventOutbid, Payload: []byte(`{}`)},
		{ID: 8, ActorID: "dave", Kind: models.EventAuctionSold, Payload: []byte(`{}`)},
	}

	outbox.EXPECT().GetPending(gomock.Any(), outboxBatchSize).Return(msgs, nil)
	notifier.EXPECT().Notify(gomock.Any(), "carol", models.EventOutbid, gomock.Any()).
		Return(errors.New("webhook down"))
	outbox.EXPECT().MarkFailed(gomock.Any(), int64(7)).Return(nil)
	notifier.EXPECT().Notify(gomock.Any(), "dave", models.EventAuctionSold, gomock.Any()).Return(nil)
	outbox.EXPECT().MarkSent(gomock.Any(), int64(8)).Return(nil)

	d := NewOutboxDispatcher(outbox, notifier)
	d.DispatchPending(context.Background())
}

func TestDispatchPending_FetchErrorIsQuiet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outbox := mock.NewMockOutboxRepository(ctrl)
	notifier := mock.NewMockNotifier(ctrl)

	outbox.EXPECT().GetPending(gomock.Any(), outboxBatchSize).
		Return(nil, errors.New("connection refused"))

	d := NewOutboxDispatcher(outbox, notifier)
	d.DispatchPending(context.Background())
}
