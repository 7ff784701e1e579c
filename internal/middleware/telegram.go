package middleware

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	InitDataHeader = "X-Telegram-Init-Data"

	AnonymousUserName = "Anonim"

	ctxTelegramUserID   = "tg_user_id"
	ctxTelegramUserName = "tg_user_name"
)

// TelegramUser resolves the Mini App user from the signed initData header.
// With a bot token configured the signature must verify; otherwise the
// request is treated as anonymous. Without a token (local development) the
// data is trusted as sent.
func TelegramUser(botToken string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxTelegramUserID, int64(0))
		c.Set(ctxTelegramUserName, AnonymousUserName)

		initData := strings.TrimSpace(c.GetHeader(InitDataHeader))
		if initData == "" {
			c.Next()
			return
		}

		if botToken != "" {
			ok, err := tgbotapi.ValidateWebAppData(botToken, initData)
			if err != nil || !ok {
				logger.Warn("telegram init data rejected", "path", c.Request.URL.Path, "error", err)
				c.Next()
				return
			}
		}

		if user, ok := parseInitDataUser(initData); ok {
			c.Set(ctxTelegramUserID, user.ID)
			if name := strings.TrimSpace(user.FirstName); name != "" {
				c.Set(ctxTelegramUserName, name)
			}
		}
		c.Next()
	}
}

func parseInitDataUser(initData string) (tgbotapi.User, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return tgbotapi.User{}, false
	}
	raw := values.Get("user")
	if raw == "" {
		return tgbotapi.User{}, false
	}
	var user tgbotapi.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return tgbotapi.User{}, false
	}
	return user, true
}

// TelegramUserID is 0 for anonymous requests.
func TelegramUserID(c *gin.Context) int64 {
	return c.GetInt64(ctxTelegramUserID)
}

func TelegramUserName(c *gin.Context) string {
	if name := c.GetString(ctxTelegramUserName); name != "" {
		return name
	}
	return AnonymousUserName
}
