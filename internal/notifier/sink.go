package notifier

import "context"

// Sink is the outbound messaging capability supplied by the chat host. The
// core never constructs destinations; it only writes text to group ids.
type Sink interface {
	SendGroupMessage(ctx context.Context, groupID int64, text string) error
	Name() string
}
