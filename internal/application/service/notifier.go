package service

import "context"

// Sender is the minimal delivery interface the notifier needs to push a text
// message to a recipient. The LINE client implements it.
type Sender interface {
	PushText(to string, text string) error
}

// NotifierService drives the recurring notification sweep over all users.
type NotifierService interface {
	// Start runs the sweep loop until ctx is cancelled. It never returns
	// normally.
	Start(ctx context.Context)
}
