package server

import (
	"log/slog"
	"strings"

	"forum/internal/middleware"
	"forum/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookie = "auth_token"
	localIdentity = "identity"
)

// sessionToken reads the session cookie, falling back to a Bearer header.
func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(sessionCookie); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func setIdentity(c *fiber.Ctx, id *models.Identity) {
	c.Locals(localIdentity, id)
	if id != nil {
		c.Locals(middleware.LocalUserID, id.SubjectID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), id.SubjectID))
	}
}

// identityFrom returns the caller identity, or nil for anonymous requests.
func identityFrom(c *fiber.Ctx) *models.Identity {
	id, _ := c.Locals(localIdentity).(*models.Identity)
	return id
}

// OptionalAuth resolves the session if present. A bad token is treated as no
// token at all.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.sessions.Resolve(sessionToken(c))
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "ignoring invalid session token",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			id = nil
		}
		setIdentity(c, id)
		return c.Next()
	}
}

// AuthRequired rejects requests without a valid session with 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.sessions.Resolve(sessionToken(c))
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if id == nil {
			return models.RespondWithError(c, models.NewUnauthenticatedError(models.MsgAuthRequired))
		}
		setIdentity(c, id)
		return c.Next()
	}
}
