package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/utils"
)

const userLocalKey = "auth_user"

// Auth resolves bearer tokens to user records.
type Auth struct {
	users  repository.UserRepository
	secret string
}

func NewAuth(users repository.UserRepository, secret string) *Auth {
	return &Auth{users: users, secret: secret}
}

func (a *Auth) resolve(c *fiber.Ctx) (*models.User, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, utils.ErrInvalidToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, utils.ErrInvalidToken
	}

	userID, err := utils.ParseToken(parts[1], a.secret)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	return a.users.FindByID(c.Context(), oid)
}

// Required rejects requests without a valid token.
func (a *Auth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := a.resolve(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "request is not authorized"})
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// Optional attaches the user when a valid token is present and proceeds
// anonymously otherwise. Used on public proposal and vote endpoints so
// unauthenticated participation works.
func (a *Auth) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := a.resolve(c); err == nil {
			c.Locals(userLocalKey, user)
		}
		return c.Next()
	}
}

// RequireSubscription gates team management behind an active subscription.
// Must run after Required.
func RequireSubscription() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil || !user.SubscriptionStatus {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "subscription required"})
		}
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user, or nil for anonymous requests.
func UserFromCtx(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
