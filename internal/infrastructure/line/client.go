package line

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/game-hipe/remembering/internal/pkg/logger"
)

// Client wraps the linebot.Client.
type Client struct {
	*linebot.Client
	log logger.Logger
}

var (
	lineClientInstance *Client
	once               sync.Once
)

// NewClient creates a new singleton instance of the LINE Bot client.
// It reads credentials from environment variables.
func NewClient(log logger.Logger) *Client {
	once.Do(func() {
		channelSecret := os.Getenv("CHANNEL_SECRET")
		channelToken := os.Getenv("CHANNEL_ACCESS_TOKEN")

		if channelSecret == "" || channelToken == "" {
			log.Error("CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN environment variables must be set", nil)
			os.Exit(1)
		}

		bot, err := linebot.New(channelSecret, channelToken)
		if err != nil {
			log.Error("Failed to create LINE Bot client", err)
			os.Exit(1)
		}
		lineClientInstance = &Client{
			Client: bot,
			log:    log,
		}
	})
	return lineClientInstance
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	_, err := c.ReplyMessage(replyToken, messages...).Do()
	if err != nil {
		return err
	}
	return nil
}

// PushMessages sends one or more messages using the PushMessage API.
func (c *Client) PushMessages(to string, messages ...linebot.SendingMessage) error {
	_, err := c.PushMessage(to, messages...).Do()
	if err != nil {
		return err
	}
	return nil
}

// PushText sends a plain text push message to a single recipient. It
// satisfies the notifier's Sender interface.
func (c *Client) PushText(to string, text string) error {
	return c.PushMessages(to, linebot.NewTextMessage(text))
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

// DownloadContent fetches a message attachment from the LINE content API and
// stores it under dir, returning the stored file path.
func (c *Client) DownloadContent(messageID string, dir string, ext string) (string, error) {
	res, err := c.GetMessageContent(messageID).Do()
	if err != nil {
		return "", err
	}
	defer res.Content.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, messageID+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, res.Content); err != nil {
		return "", err
	}
	return path, nil
}
