package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jacentio/liftlog/notify"
)

type fakePusher struct {
	err   error
	calls int
	last  struct {
		endpointArn string
		event       notify.EventType
		payload     any
	}
}

func (f *fakePusher) SendPush(ctx context.Context, endpointArn string, event notify.EventType, payload any) error {
	f.calls++
	f.last.endpointArn = endpointArn
	f.last.event = event
	f.last.payload = payload
	return f.err
}

func TestPush(t *testing.T) {
	p := &fakePusher{}
	payload := notify.FriendUpdatePush{Username: "bob"}

	err := notify.Push(context.Background(), p, "arn:endpoint", notify.EventRemovedAsFriend, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("expected 1 delivery, got %d", p.calls)
	}
	if p.last.endpointArn != "arn:endpoint" || p.last.event != notify.EventRemovedAsFriend {
		t.Errorf("delivery mislabeled: %+v", p.last)
	}
	if got, ok := p.last.payload.(notify.FriendUpdatePush); !ok || got.Username != "bob" {
		t.Errorf("payload not passed through: %v", p.last.payload)
	}
}

func TestPush_EmptyEndpointIsNoop(t *testing.T) {
	p := &fakePusher{}

	if err := notify.Push(context.Background(), p, "", notify.EventFriendRequest, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 0 {
		t.Errorf("an unregistered user must not be pushed to, got %d calls", p.calls)
	}
}

func TestPush_DisabledEndpointSwallowed(t *testing.T) {
	p := &fakePusher{err: notify.ErrEndpointDisabled}

	if err := notify.Push(context.Background(), p, "arn:endpoint", notify.EventFriendRequest, nil); err != nil {
		t.Fatalf("a disabled endpoint must read as success, got %v", err)
	}
}

func TestPush_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("sns throttled")
	p := &fakePusher{err: boom}

	err := notify.Push(context.Background(), p, "arn:endpoint", notify.EventFriendRequest, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the delivery error back, got %v", err)
	}
}
