// Package notify defines the notification collaborators the backend pushes
// through. Delivery itself (SNS endpoints, SMTP) lives outside this module;
// the engine and stream handler only depend on the interfaces here.
package notify

import (
	"context"
	"errors"

	"github.com/jacentio/liftlog/model"
)

// EventType tags a push payload so the client can route it.
type EventType string

const (
	EventReceivedWorkout         EventType = "receivedWorkoutPush"
	EventFriendRequest           EventType = "friendRequestPush"
	EventAcceptedFriendRequest   EventType = "acceptedFriendRequestPush"
	EventDeclinedFriendRequest   EventType = "declinedFriendRequestPush"
	EventCanceledFriendRequest   EventType = "canceledFriendRequestPush"
	EventRemovedAsFriend         EventType = "removedAsFriendPush"
)

// ErrEndpointDisabled is returned by Pusher implementations when the push
// endpoint exists but has been disabled (e.g. the app was uninstalled).
// Push dispatches treat it as success; see Push.
var ErrEndpointDisabled = errors.New("notify: push endpoint disabled")

// Pusher delivers a push notification to a device endpoint.
type Pusher interface {
	SendPush(ctx context.Context, endpointArn string, event EventType, payload any) error
}

// Emailer delivers transactional email.
type Emailer interface {
	SendEmail(ctx context.Context, address, subject, body string) error
}

// Notifier bundles both delivery channels.
type Notifier interface {
	Pusher
	Emailer
}

// ReceivedWorkoutPush announces a new or resent inbox entry.
type ReceivedWorkoutPush struct {
	SharedWorkoutID string                    `json:"sharedWorkoutId"`
	Meta            model.ReceivedWorkoutMeta `json:"meta"`
}

// FriendRequestPush announces a new pending friend request.
type FriendRequestPush struct {
	Request model.FriendRequest `json:"request"`
}

// FriendUpdatePush announces a change on an existing relationship
// (accepted, declined, canceled, removed).
type FriendUpdatePush struct {
	Username string `json:"username"`
}

// Push sends a notification, swallowing a disabled endpoint as success:
// a user who uninstalled the app must not fail the flow that notified them.
// Every other failure propagates. An empty endpoint means the user never
// registered for push; nothing is sent.
func Push(ctx context.Context, p Pusher, endpointArn string, event EventType, payload any) error {
	if endpointArn == "" {
		return nil
	}
	err := p.SendPush(ctx, endpointArn, event, payload)
	if errors.Is(err, ErrEndpointDisabled) {
		return nil
	}
	return err
}
