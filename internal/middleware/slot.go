package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
)

const sessionSlot = "workspace_slot"

// Slot returns the browser's workspace id. It is kept in the session rather
// than derived from the session id so it survives login.
//
// A slot is only minted once the client has sent its session cookie back, so
// clients that never replay cookies (API callers, scripts) all share the
// empty slot instead of getting a new one per request.
func Slot(c fiber.Ctx) string {
	sess := session.FromContext(c)
	if sess == nil {
		return ""
	}
	if slot, ok := sess.Get(sessionSlot).(string); ok && slot != "" {
		return slot
	}
	if sess.Fresh() {
		return ""
	}
	slot := uuid.NewString()
	sess.Set(sessionSlot, slot)
	return slot
}

// FirstVisit reports whether the request started a new browser session, i.e.
// it has no slot yet and would otherwise see the shared empty slot.
func FirstVisit(c fiber.Ctx) bool {
	sess := session.FromContext(c)
	return sess != nil && sess.Fresh()
}
