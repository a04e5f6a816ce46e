package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jordan-levelle/CC-Server/internal/handlers"
	"github.com/jordan-levelle/CC-Server/internal/middleware"
	"github.com/jordan-levelle/CC-Server/internal/ws"
)

// Handlers groups everything Register needs to wire the API surface.
type Handlers struct {
	Users     *handlers.UserHandler
	Proposals *handlers.ProposalHandler
	Teams     *handlers.TeamHandler
	Documents *handlers.DocumentHandler
	Admin     *handlers.AdminHandler
	Emails    *handlers.EmailHandler
	Webhooks  *handlers.WebhookHandler
	Auth      *middleware.Auth
	Expired   fiber.Handler
	WS        *ws.Server
}

func Register(app *fiber.App, h Handlers) {
	api := app.Group("/api")

	users := api.Group("/user")
	users.Post("/signup", h.Users.Signup)
	users.Post("/login", h.Users.Login)
	users.Post("/verify/:token", h.Users.Verify)
	users.Put("/updateEmail", h.Auth.Required(), h.Users.UpdateEmail)
	users.Delete("/delete", h.Auth.Required(), h.Users.Delete)
	users.Post("/forgotPassword", h.Users.ForgotPassword)
	users.Post("/resetPassword/:token", h.Users.ResetPassword)
	users.Post("/participated", h.Auth.Required(), h.Users.SetParticipated)
	users.Get("/participated", h.Auth.Required(), h.Users.GetParticipated)
	users.Put("/archive/:id", h.Auth.Required(), h.Users.ArchiveProposal)
	users.Put("/archiveParticipated/:id", h.Auth.Required(), h.Users.ArchiveParticipated)
	users.Post("/subscribe", h.Auth.Required(), h.Users.Subscribe)
	users.Post("/cancelSubscription", h.Auth.Required(), h.Users.CancelSubscription)

	proposals := api.Group("/proposals")
	proposals.Get("/all", h.Auth.Required(), h.Proposals.ListAll)
	proposals.Get("/active", h.Auth.Required(), h.Proposals.ListActive)
	proposals.Get("/expired", h.Auth.Required(), h.Proposals.ListExpired)
	proposals.Get("/example", h.Proposals.Example)
	proposals.Post("/", h.Auth.Optional(), h.Proposals.Create)
	proposals.Get("/:uniqueUrl", h.Auth.Optional(), h.Proposals.GetBySlug)
	proposals.Put("/:uniqueUrl", h.Proposals.Update)
	proposals.Get("/:id/firstRender", h.Proposals.FirstRender)
	proposals.Get("/:id/votes", h.Proposals.Votes)
	proposals.Post("/:id/vote", h.Auth.Optional(), h.Expired, h.Proposals.SubmitVote)
	proposals.Put("/:id/votes/:voteId", h.Expired, h.Proposals.UpdateVote)
	proposals.Delete("/votes/:id", h.Proposals.DeleteVote)
	proposals.Delete("/:id", h.Auth.Required(), h.Proposals.Delete)

	teams := api.Group("/teams", h.Auth.Required(), middleware.RequireSubscription())
	teams.Post("/createUserTeam", h.Teams.Create)
	teams.Put("/editUserTeam/:id", h.Teams.Edit)
	teams.Delete("/deleteUserTeam/:id", h.Teams.Delete)
	teams.Get("/viewUserTeamList", h.Teams.List)

	documents := api.Group("/documents")
	documents.Post("/upload/:proposalId", h.Auth.Optional(), h.Documents.Upload)
	documents.Get("/:id", h.Documents.Download)
	documents.Delete("/:id", h.Auth.Required(), h.Documents.Delete)

	admin := api.Group("/admin", h.Auth.Required())
	admin.Get("/allProposals", h.Admin.AllProposals)
	admin.Get("/allUsers", h.Admin.AllUsers)

	api.Post("/emails/send-email", h.Emails.Send)

	api.Post("/webhooks", h.Webhooks.HandleStripe)

	app.Use("/ws/proposals/:room", h.WS.Upgrade)
	app.Get("/ws/proposals/:room", h.WS.Handle())
}
