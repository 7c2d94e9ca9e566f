package auth

import (
	"gestion-assurance/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	CtxSessionKey = "session"
	CtxUserKey    = "current_user"

	sessionUserIDKey   = "user_id"
	sessionFlashLevel  = "flash_level"
	sessionFlashTextes = "flash_message"
)

var Store *session.Store

func Init(cfg *config.Config) {
	Store = session.New(session.Config{
		KeyLookup:      "cookie:" + cfg.SessionCookie,
		CookieHTTPOnly: true,
	})
}

// Session renvoie la session ouverte par le middleware pour cette requête.
// Chaque handler doit appeler Save au plus une fois, en fin de traitement.
func Session(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(CtxSessionKey).(*session.Session)
	return sess
}

type Flash struct {
	Level   string // "success", "error", "info"
	Message string
}

func AddFlash(sess *session.Session, level, message string) {
	sess.Set(sessionFlashLevel, level)
	sess.Set(sessionFlashTextes, message)
}

// PopFlash retire le message flash de la session. L'appelant doit
// sauvegarder la session pour que la suppression soit persistée.
func PopFlash(sess *session.Session) *Flash {
	msg, _ := sess.Get(sessionFlashTextes).(string)
	if msg == "" {
		return nil
	}
	level, _ := sess.Get(sessionFlashLevel).(string)
	sess.Delete(sessionFlashTextes)
	sess.Delete(sessionFlashLevel)
	return &Flash{Level: level, Message: msg}
}
