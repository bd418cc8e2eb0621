package engine

import (
	"context"
	"fmt"

	"github.com/jacentio/liftlog/model"
	"github.com/jacentio/liftlog/store"
)

// SendFriendRequest writes a pending (unconfirmed) friend entry on the
// sender and a request entry on the recipient, in one transaction.
func (e *Engine) SendFriendRequest(ctx context.Context, senderUsername, recipientUsername string) (*model.Friend, error) {
	if senderUsername == recipientUsername {
		return nil, invalid([]string{"cannot send a friend request to yourself"})
	}

	sender, err := e.loadUser(ctx, senderUsername)
	if err != nil {
		return nil, err
	}
	recipient, err := e.loadUser(ctx, recipientUsername)
	if err != nil {
		return nil, err
	}

	var violations []string
	if recipient.Preferences.PrivateAccount {
		violations = append(violations, fmt.Sprintf("%s has a private account", recipientUsername))
	}
	if recipient.IsBlocking(senderUsername) {
		violations = append(violations, fmt.Sprintf("%s has blocked you", recipientUsername))
	}
	if sender.IsBlocking(recipientUsername) {
		violations = append(violations, fmt.Sprintf("you have blocked %s", recipientUsername))
	}
	if existing, ok := sender.Friends[recipientUsername]; ok {
		if existing.Confirmed {
			violations = append(violations, fmt.Sprintf("you are already friends with %s", recipientUsername))
		} else {
			violations = append(violations, fmt.Sprintf("a friend request to %s is already pending", recipientUsername))
		}
	}
	if _, ok := sender.FriendRequests[recipientUsername]; ok {
		violations = append(violations, fmt.Sprintf("%s already sent you a friend request", recipientUsername))
	}
	if err := invalid(violations); err != nil {
		return nil, err
	}

	entry := model.Friend{
		Username:  recipientUsername,
		Icon:      recipient.Icon,
		Confirmed: false,
	}
	request := model.FriendRequest{
		Username: senderUsername,
		Icon:     sender.Icon,
		SentAt:   e.timestamp(),
		Seen:     false,
	}

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(senderUsername), store.NewUpdate().
		Set("friends."+recipientUsername, entry))
	tx.Update(e.tables.UsersTable, userKey(recipientUsername), store.NewUpdate().
		Set("friendRequests."+senderUsername, request))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// AcceptFriendRequest confirms a pending request: the accepter gains a
// confirmed friend entry, the requester's pending entry flips to confirmed,
// and the request disappears, all in one transaction.
func (e *Engine) AcceptFriendRequest(ctx context.Context, username, requesterUsername string) (*model.User, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	request, ok := u.FriendRequests[requesterUsername]
	if !ok {
		return nil, ErrFriendRequestNotFound
	}
	requester, err := e.loadUser(ctx, requesterUsername)
	if err != nil {
		return nil, err
	}

	mine := model.Friend{
		Username:  requesterUsername,
		Icon:      request.Icon,
		Confirmed: true,
	}
	theirs := requester.Friends[username]
	theirs.Username = username
	theirs.Icon = u.Icon
	theirs.Confirmed = true

	u.Friends[requesterUsername] = mine
	delete(u.FriendRequests, requesterUsername)

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Set("friends."+requesterUsername, mine).
		Remove("friendRequests."+requesterUsername))
	tx.Update(e.tables.UsersTable, userKey(requesterUsername), store.NewUpdate().
		Set("friends."+username, theirs))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return u, nil
}

// DeclineFriendRequest removes the request and the requester's pending
// friend entry in one transaction.
func (e *Engine) DeclineFriendRequest(ctx context.Context, username, requesterUsername string) (*model.User, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := u.FriendRequests[requesterUsername]; !ok {
		return nil, ErrFriendRequestNotFound
	}
	delete(u.FriendRequests, requesterUsername)

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Remove("friendRequests."+requesterUsername))
	tx.Update(e.tables.UsersTable, userKey(requesterUsername), store.NewUpdate().
		Remove("friends."+username))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return u, nil
}

// CancelFriendRequest withdraws a request the user sent: their pending
// entry and the recipient's request entry go away together.
func (e *Engine) CancelFriendRequest(ctx context.Context, username, recipientUsername string) (*model.User, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	entry, ok := u.Friends[recipientUsername]
	if !ok || entry.Confirmed {
		return nil, ErrFriendRequestNotFound
	}
	delete(u.Friends, recipientUsername)

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Remove("friends."+recipientUsername))
	tx.Update(e.tables.UsersTable, userKey(recipientUsername), store.NewUpdate().
		Remove("friendRequests."+username))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return u, nil
}

// RemoveFriend deletes a confirmed friendship from both sides in one
// transaction.
func (e *Engine) RemoveFriend(ctx context.Context, username, friendUsername string) (*model.User, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := u.Friends[friendUsername]; !ok {
		return nil, invalid([]string{fmt.Sprintf("you are not friends with %s", friendUsername)})
	}
	delete(u.Friends, friendUsername)

	tx := store.NewTx()
	tx.Update(e.tables.UsersTable, userKey(username), store.NewUpdate().
		Remove("friends."+friendUsername))
	tx.Update(e.tables.UsersTable, userKey(friendUsername), store.NewUpdate().
		Remove("friends."+username))

	if err := e.db.RunTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return u, nil
}

// SetAllFriendRequestsSeen marks every pending request seen. Writes nothing
// when there is nothing unseen.
func (e *Engine) SetAllFriendRequestsSeen(ctx context.Context, username string) error {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return err
	}

	update := store.NewUpdate()
	unseen := 0
	for requester, request := range u.FriendRequests {
		if !request.Seen {
			update.Set("friendRequests."+requester+".seen", true)
			unseen++
		}
	}
	if unseen == 0 {
		return nil
	}

	return e.db.Update(ctx, e.tables.UsersTable, userKey(username), update)
}

// BlockUser blocks the target, first tearing down whatever relationship
// exists: a pending inbound request is declined, a pending outbound one is
// canceled, a confirmed friendship removed. The teardown and the block
// write are separate store calls, NOT one transaction; a failure partway
// can leave the relationship removed but the block not yet recorded.
func (e *Engine) BlockUser(ctx context.Context, username, targetUsername string) (*model.User, error) {
	if username == targetUsername {
		return nil, invalid([]string{"cannot block yourself"})
	}

	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	target, err := e.loadUser(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if u.IsBlocking(targetUsername) {
		return u, nil
	}

	switch {
	case u.FriendRequests[targetUsername] != (model.FriendRequest{}):
		u, err = e.DeclineFriendRequest(ctx, username, targetUsername)
	case u.Friends[targetUsername].Confirmed:
		u, err = e.RemoveFriend(ctx, username, targetUsername)
	case u.Friends[targetUsername].Username != "":
		u, err = e.CancelFriendRequest(ctx, username, targetUsername)
	}
	if err != nil {
		return nil, err
	}

	u.Blocked[targetUsername] = target.Icon
	err = e.db.Update(ctx, e.tables.UsersTable, userKey(username), store.NewUpdate().
		Set("blocked."+targetUsername, target.Icon))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UnblockUser removes the block entry. Unblocking someone who isn't blocked
// is a no-op.
func (e *Engine) UnblockUser(ctx context.Context, username, targetUsername string) (*model.User, error) {
	u, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.IsBlocking(targetUsername) {
		return u, nil
	}
	delete(u.Blocked, targetUsername)

	err = e.db.Update(ctx, e.tables.UsersTable, userKey(username), store.NewUpdate().
		Remove("blocked."+targetUsername))
	if err != nil {
		return nil, err
	}
	return u, nil
}
