// Package stream turns DynamoDB stream events on the users table into push
// notifications. It is designed to run as an AWS Lambda handler: writes land
// atomically through the engine's transactions, the stream replays them
// here, and the user whose aggregate gained an inbox entry or friend
// request gets notified out-of-band.
package stream

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/liftlog/model"
	"github.com/jacentio/liftlog/notify"
)

// Handler processes users-table stream events and dispatches pushes.
type Handler struct {
	notifier notify.Pusher
	logger   *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(notifier notify.Pusher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		notifier: notifier,
		logger:   logger,
	}
}

// HandleUserChange processes a batch of users-table stream records. This
// function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleUserChange(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord dispatches pushes for one stream record. Only MODIFY events
// matter: inserts are account creation and removes are account deletion,
// neither of which notifies anyone.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "MODIFY" {
		return nil
	}

	oldImage := record.Change.OldImage
	newImage := record.Change.NewImage

	endpoint := getStringAttr(newImage, "pushEndpointArn")
	if endpoint == "" {
		return nil
	}
	username := getStringAttr(newImage, "username")

	for _, id := range addedMapKeys(oldImage, newImage, "receivedWorkouts") {
		meta := receivedWorkoutMeta(getMapAttr(newImage, "receivedWorkouts")[id])
		h.logger.Info("dispatching received workout push",
			"username", username,
			"sharedWorkoutId", id,
			"sender", meta.Sender,
		)
		err := notify.Push(ctx, h.notifier, endpoint, notify.EventReceivedWorkout, notify.ReceivedWorkoutPush{
			SharedWorkoutID: id,
			Meta:            meta,
		})
		if err != nil {
			return err
		}
	}

	for _, requester := range addedMapKeys(oldImage, newImage, "friendRequests") {
		request := friendRequest(getMapAttr(newImage, "friendRequests")[requester])
		h.logger.Info("dispatching friend request push",
			"username", username,
			"requester", requester,
		)
		err := notify.Push(ctx, h.notifier, endpoint, notify.EventFriendRequest, notify.FriendRequestPush{
			Request: request,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// addedMapKeys returns the keys of a map attribute present in the new image
// but absent from the old one.
func addedMapKeys(oldImage, newImage map[string]events.DynamoDBAttributeValue, field string) []string {
	oldMap := getMapAttr(oldImage, field)
	newMap := getMapAttr(newImage, field)

	var added []string
	for key := range newMap {
		if _, ok := oldMap[key]; !ok {
			added = append(added, key)
		}
	}
	return added
}

// receivedWorkoutMeta rebuilds an inbox entry from its stream image.
func receivedWorkoutMeta(image events.DynamoDBAttributeValue) model.ReceivedWorkoutMeta {
	if image.DataType() != events.DataTypeMap {
		return model.ReceivedWorkoutMeta{}
	}
	m := image.Map()
	return model.ReceivedWorkoutMeta{
		Name:              getStringAttr(m, "workoutName"),
		Sender:            getStringAttr(m, "sender"),
		DateSent:          getStringAttr(m, "dateSent"),
		Seen:              getBoolAttr(m, "seen"),
		MostFrequentFocus: getStringAttr(m, "mostFrequentFocus"),
		TotalDays:         int(getNumberAttr(m, "totalDays")),
		Icon:              getStringAttr(m, "icon"),
	}
}

// friendRequest rebuilds a pending request from its stream image.
func friendRequest(image events.DynamoDBAttributeValue) model.FriendRequest {
	if image.DataType() != events.DataTypeMap {
		return model.FriendRequest{}
	}
	m := image.Map()
	return model.FriendRequest{
		Username: getStringAttr(m, "username"),
		Icon:     getStringAttr(m, "icon"),
		SentAt:   getStringAttr(m, "sentAt"),
		Seen:     getBoolAttr(m, "seen"),
	}
}
