package constant

// UserStatus defines the possible states of a user interaction.
type UserStatus int

const (
	// StatusInitial represents the state where the bot is waiting for a command.
	StatusInitial UserStatus = iota
	// StatusAwaitingTitle represents the state where the bot is waiting for the memory title.
	StatusAwaitingTitle
	// StatusAwaitingContent represents the state where the bot is waiting for the memory content.
	StatusAwaitingContent
	// StatusAwaitingMedia represents the state where the bot is waiting for an optional photo or video.
	StatusAwaitingMedia
)

func (s UserStatus) Int() int {
	return int(s)
}
