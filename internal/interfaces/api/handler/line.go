package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/game-hipe/remembering/internal/application/dto"
	"github.com/game-hipe/remembering/internal/application/service"
	"github.com/game-hipe/remembering/internal/domain/constant"
	"github.com/game-hipe/remembering/internal/infrastructure/line"
	appErrors "github.com/game-hipe/remembering/internal/pkg/errors"
	"github.com/game-hipe/remembering/internal/pkg/logger"
	"github.com/game-hipe/remembering/internal/pkg/ttlcache"
)

const helpText = "I keep your memories and nag you about them.\n\n" +
	"add - save a new memory (title, content, optional photo/video)\n" +
	"list - show your memories with their IDs\n" +
	"snooze <id> <minutes> - push a reminder forward\n" +
	"delete <id> - forget a memory\n" +
	"cancel - abort the current input\n" +
	"help - show this message"

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient    *line.Client
	userService   service.UserService
	memoryService service.MemoryService
	seen          *ttlcache.Cache
	mediaDir      string
	log           logger.Logger
}

// NewLineHandler creates a new LineHandler. Downloaded attachments are stored
// under mediaDir.
func NewLineHandler(
	lineClient *line.Client,
	userService service.UserService,
	memoryService service.MemoryService,
	seen *ttlcache.Cache,
	mediaDir string,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:    lineClient,
		userService:   userService,
		memoryService: memoryService,
		seen:          seen,
		mediaDir:      mediaDir,
		log:           log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		switch event.Type {
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypeFollow:
			h.handleFollowEvent(ctx, event)
		case linebot.EventTypeUnfollow:
			h.handleUnfollowEvent(ctx, event)
		default:
			h.log.Debug(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// handleFollowEvent registers the new user and sends a welcome message.
func (h *LineHandler) handleFollowEvent(ctx context.Context, event *linebot.Event) {
	chatID := event.Source.UserID
	h.log.Info(fmt.Sprintf("User %s followed the bot.", chatID))

	if _, err := h.userService.GetOrCreateUser(ctx, chatID, h.displayName(chatID)); err != nil {
		h.replyWithError(event.ReplyToken, "Could not set up your account, please try again later.")
		return
	}
	h.seen.Add(chatID)

	welcome := linebot.NewTextMessage("Hi! I will keep your memories and remind you about them.")
	hint := linebot.NewTextMessage(helpText)
	if err := h.lineClient.SendMessages(event.ReplyToken, welcome, hint); err != nil {
		h.log.Error(fmt.Sprintf("Failed to send follow reply to user %s", chatID), err)
	}
}

// handleUnfollowEvent removes the user's data.
func (h *LineHandler) handleUnfollowEvent(ctx context.Context, event *linebot.Event) {
	chatID := event.Source.UserID
	h.log.Info(fmt.Sprintf("User %s unfollowed or blocked the bot.", chatID))
	if err := h.userService.DeleteUser(ctx, chatID); err != nil {
		h.log.Error(fmt.Sprintf("Failed to clean up data of user %s", chatID), err)
	}
}

// handleMessageEvent processes message events.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	chatID := event.Source.UserID
	replyToken := event.ReplyToken

	// Registration is fronted by a bounded TTL cache so the common case
	// skips the lookup.
	if !h.seen.Contains(chatID) {
		if _, err := h.userService.GetOrCreateUser(ctx, chatID, h.displayName(chatID)); err != nil {
			h.replyWithError(replyToken, "Could not set up your account, please try again later.")
			return
		}
		h.seen.Add(chatID)
	}

	switch message := event.Message.(type) {
	case *linebot.TextMessage:
		h.handleTextMessage(ctx, replyToken, chatID, message.Text)
	case *linebot.ImageMessage:
		h.handleMediaMessage(ctx, replyToken, chatID, constant.KindPhoto, message.ID, ".jpg")
	case *linebot.VideoMessage:
		h.handleMediaMessage(ctx, replyToken, chatID, constant.KindVideo, message.ID, ".mp4")
	default:
		h.replyWithError(replyToken, "I can only handle text, photos and videos.")
	}
}

func (h *LineHandler) handleTextMessage(ctx context.Context, replyToken, chatID, text string) {
	status, err := h.userService.GetUserStatus(ctx, chatID)
	if err != nil {
		h.replyWithError(replyToken, "Could not look up your account, please try again later.")
		return
	}

	trimmed := strings.TrimSpace(text)
	command := strings.ToLower(trimmed)

	// cancel works from any state
	if command == "cancel" {
		if err := h.memoryService.CancelDraft(ctx, chatID); err != nil {
			h.replyWithError(replyToken, "Nothing to cancel.")
			return
		}
		h.reply(replyToken, "Okay, input discarded.")
		return
	}

	switch status {
	case constant.StatusAwaitingTitle:
		h.handleTitleInput(ctx, replyToken, chatID, trimmed)
		return
	case constant.StatusAwaitingContent:
		h.handleContentInput(ctx, replyToken, chatID, trimmed)
		return
	case constant.StatusAwaitingMedia:
		if command == "skip" {
			if err := h.memoryService.FinishDraft(ctx, chatID); err != nil {
				h.replyWithError(replyToken, "Could not save the memory, please try again.")
				return
			}
			h.reply(replyToken, "Memory saved! I will remind you about it until you snooze or delete it.")
			return
		}
		h.reply(replyToken, `Send a photo or video, or reply "skip".`)
		return
	}

	switch {
	case command == "help":
		h.reply(replyToken, helpText)
	case command == "add":
		req := dto.UpdateUserStatusRequest{ChatID: chatID, Status: constant.StatusAwaitingTitle}
		if err := h.userService.UpdateStatus(ctx, req); err != nil {
			h.replyWithError(replyToken, "Could not start a new memory, please try again.")
			return
		}
		h.reply(replyToken, "Enter a title for the memory:")
	case command == "list":
		h.sendMemoryList(ctx, replyToken, chatID)
	case strings.HasPrefix(command, "snooze"):
		h.handleSnooze(ctx, replyToken, chatID, trimmed)
	case strings.HasPrefix(command, "delete"):
		h.handleDelete(ctx, replyToken, chatID, trimmed)
	default:
		h.reply(replyToken, "I didn't get that. Reply \"help\" to see what I can do.")
	}
}

func (h *LineHandler) handleTitleInput(ctx context.Context, replyToken, chatID, title string) {
	if err := h.memoryService.BeginMemory(ctx, chatID, title); err != nil {
		if errors.Is(err, appErrors.ErrInvalidTitle) {
			h.reply(replyToken, "The title must be 1 to 255 characters. Try again:")
			return
		}
		h.replyWithError(replyToken, "Could not save the title, please try again.")
		return
	}
	h.reply(replyToken, "Now enter the content of the memory:")
}

func (h *LineHandler) handleContentInput(ctx context.Context, replyToken, chatID, content string) {
	if err := h.memoryService.SetContent(ctx, chatID, content); err != nil {
		if errors.Is(err, appErrors.ErrInvalidContent) {
			h.reply(replyToken, "The content must be 1 to 2048 characters. Try again:")
			return
		}
		h.replyWithError(replyToken, "Could not save the content, please try again.")
		return
	}
	h.reply(replyToken, `Attach a photo or video, or reply "skip".`)
}

func (h *LineHandler) handleMediaMessage(ctx context.Context, replyToken, chatID string, kind constant.MemoryKind, messageID, ext string) {
	status, err := h.userService.GetUserStatus(ctx, chatID)
	if err != nil || status != constant.StatusAwaitingMedia {
		h.reply(replyToken, "Send \"add\" first if you want to save a memory with media.")
		return
	}

	path, err := h.lineClient.DownloadContent(messageID, h.mediaDir, ext)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to download %s content %s from user %s", kind, messageID, chatID), err)
		h.replyWithError(replyToken, "Could not download the attachment, please try again.")
		return
	}

	if err := h.memoryService.AttachMedia(ctx, chatID, kind, path); err != nil {
		h.replyWithError(replyToken, "Could not attach the file, please try again.")
		return
	}
	h.reply(replyToken, fmt.Sprintf("Memory saved with your %s!", kind))
}

func (h *LineHandler) sendMemoryList(ctx context.Context, replyToken, chatID string) {
	memories, err := h.memoryService.ListMemories(ctx, chatID)
	if err != nil {
		h.replyWithError(replyToken, "Could not load your memories, please try again.")
		return
	}
	if len(memories) == 0 {
		h.reply(replyToken, "You have no memories saved. Reply \"add\" to create one.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d memories:\n", len(memories))
	for _, m := range memories {
		fmt.Fprintf(&b, "\n#%d %s (%s)\n  due %s", m.ID, m.Title, m.Kind, m.RemindAt.Format("02-01-2006, 15:04"))
	}
	h.reply(replyToken, b.String())
}

// handleSnooze parses "snooze <id> <minutes>" and advances the remind time.
func (h *LineHandler) handleSnooze(ctx context.Context, replyToken, chatID, text string) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		h.reply(replyToken, "Usage: snooze <id> <minutes>")
		return
	}
	memoryID, err1 := strconv.ParseUint(fields[1], 10, 64)
	minutes, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || minutes <= 0 {
		h.reply(replyToken, "Usage: snooze <id> <minutes>")
		return
	}

	delta := time.Duration(minutes) * time.Minute
	if err := h.memoryService.Snooze(ctx, chatID, uint(memoryID), delta); err != nil {
		switch {
		case errors.Is(err, appErrors.ErrMemoryNotFound), errors.Is(err, appErrors.ErrNotOwner):
			h.reply(replyToken, fmt.Sprintf("You have no memory #%d.", memoryID))
		default:
			h.replyWithError(replyToken, "Could not snooze the memory, please try again.")
		}
		return
	}
	h.reply(replyToken, fmt.Sprintf("Snoozed memory #%d for %d minutes.", memoryID, minutes))
}

// handleDelete parses "delete <id>" and removes the memory.
func (h *LineHandler) handleDelete(ctx context.Context, replyToken, chatID, text string) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		h.reply(replyToken, "Usage: delete <id>")
		return
	}
	memoryID, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		h.reply(replyToken, "Usage: delete <id>")
		return
	}

	if err := h.memoryService.DeleteMemory(ctx, chatID, uint(memoryID)); err != nil {
		switch {
		case errors.Is(err, appErrors.ErrMemoryNotFound), errors.Is(err, appErrors.ErrNotOwner):
			h.reply(replyToken, fmt.Sprintf("You have no memory #%d.", memoryID))
		default:
			h.replyWithError(replyToken, "Could not delete the memory, please try again.")
		}
		return
	}
	h.reply(replyToken, fmt.Sprintf("Deleted memory #%d.", memoryID))
}

// displayName fetches the user's profile name, falling back to empty.
func (h *LineHandler) displayName(chatID string) string {
	profile, err := h.lineClient.GetProfile(chatID).Do()
	if err != nil {
		h.log.Warn(fmt.Sprintf("Failed to get profile of user %s: %v", chatID, err))
		return ""
	}
	return profile.DisplayName
}

func (h *LineHandler) reply(replyToken, text string) {
	if err := h.lineClient.SendMessages(replyToken, linebot.NewTextMessage(text)); err != nil {
		h.log.Error("Failed to send reply", err)
	}
}

func (h *LineHandler) replyWithError(replyToken, text string) {
	h.reply(replyToken, text)
}
