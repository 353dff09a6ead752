// Package group implements the group lifecycle, membership and matching
// endpoints. All routes require an authenticated session. Permission checks
// beyond membership live in the exchange core, the handlers only resolve the
// acting user and translate errors.
package group

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/auth"
	"github.com/giftring/giftring/internal/config"
	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	"github.com/giftring/giftring/internal/exchange"
	"github.com/giftring/giftring/internal/web/handler"
)

const (
	// Path is the base path of the group routes.
	Path = "/groups"
)

// Service is the group handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	exchange *exchange.Service
}

// Handler is the group handler.
var Handler = Service{}

// Init initializes the group handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, svc *exchange.Service) error {
	if app == nil || cfg == nil || db == nil || svc == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.exchange = svc

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireAuthenticated())

		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
		router.Post("/:id/archive", s.Archive)
		router.Patch("/:id/settings", s.UpdateSettings)
		router.Post("/:id/members", s.Join)
		router.Delete("/:id/members/:userId", s.RemoveMember)
		router.Post("/:id/admins/:userId", s.PromoteAdmin)
		router.Delete("/:id/admins/:userId", s.DemoteAdmin)
		router.Post("/:id/matches", s.ComputeMatches)
		router.Get("/:id/participants", s.Participants)
		router.Post("/:id/invites", s.CreateInvite)
	})

	return nil
}

type createGroupRequest struct {
	Name        string           `json:"name"        validate:"required,max=100"`
	Description string           `json:"description" validate:"required,max=255"`
	CoverImage  string           `json:"coverImage"  validate:"omitempty,url"`
	Settings    *settingsRequest `json:"settings"`
}

type updateGroupRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	CoverImage  *string `json:"coverImage"  validate:"omitempty,url"`
}

type settingsRequest struct {
	IsPrivate            *bool `json:"isPrivate"`
	AllowInvites         *bool `json:"allowInvites"`
	ShowWishlists        *bool `json:"showWishlists"`
	EnableMatching       *bool `json:"enableMatching"`
	NotifyNewMembers     *bool `json:"notifyNewMembers"`
	JoinRequiresApproval *bool `json:"joinRequiresApproval"`
	MaxMembers           *int  `json:"maxMembers"`
	ClearMaxMembers      bool  `json:"clearMaxMembers"`
}

func (r *settingsRequest) patch() *exchange.SettingsPatch {
	if r == nil {
		return nil
	}

	return &exchange.SettingsPatch{
		IsPrivate:            r.IsPrivate,
		AllowInvites:         r.AllowInvites,
		ShowWishlists:        r.ShowWishlists,
		EnableMatching:       r.EnableMatching,
		NotifyNewMembers:     r.NotifyNewMembers,
		JoinRequiresApproval: r.JoinRequiresApproval,
		MaxMembers:           r.MaxMembers,
		ClearMaxMembers:      r.ClearMaxMembers,
	}
}

type joinRequest struct {
	InviteCode string `json:"inviteCode"`
}

type createInviteRequest struct {
	// TTLHours is the invite lifetime in hours. Zero uses the default of a week.
	TTLHours int `json:"ttlHours" validate:"omitempty,min=1,max=8760"`
}

// List returns the groups the current user belongs to.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	groups, err := groupctl.ListForUser(s.db, user.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(groups)
}

// Create creates a new group with the current user as member and admin.
func (s *Service) Create(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(createGroupRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	g, err := s.exchange.CreateGroup(user.ID, exchange.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Settings:    req.Settings.patch(),
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

// Get returns a single group. Private groups are only visible to members.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	g, err := groupctl.GetByID(s.db, c.Params("id"))
	if err != nil {
		return handler.Error(c, err)
	}

	if g.Settings.IsPrivate && g.Member(user.ID) == nil {
		return handler.Error(c, exchange.ErrForbidden)
	}

	return c.JSON(g)
}

// Update changes the group head data. Admin only.
func (s *Service) Update(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(updateGroupRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	if details := handler.Validate(req); len(details) > 0 {
		return handler.ValidationFailed(c, details)
	}

	g, err := s.exchange.UpdateGroup(c.Params("id"), user.ID, exchange.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(g)
}

// Delete soft deletes the group. Admin only.
func (s *Service) Delete(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	if err := s.exchange.DeleteGroup(c.Params("id"), user.ID); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "group deleted",
	})
}

// Archive closes the group after the exchange ended. Admin only.
func (s *Service) Archive(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	if err := s.exchange.ArchiveGroup(c.Params("id"), user.ID); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "group archived",
	})
}

// UpdateSettings applies a partial settings update. Admin only.
func (s *Service) UpdateSettings(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(settingsRequest)

	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c)
	}

	g, err := s.exchange.UpdateSettings(c.Params("id"), user.ID, *req.patch())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(g)
}

// Join adds the current user to the group. Private groups with approval
// enabled require a valid invite code in the body.
func (s *Service) Join(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(joinRequest)

	// body is optional for public groups
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return handler.BadRequest(c)
		}
	}

	g, err := s.exchange.Join(c.Params("id"), user.ID, req.InviteCode)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

// RemoveMember removes a member from the group. Members remove themselves,
// admins may remove anybody.
func (s *Service) RemoveMember(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)
	targetID := c.Params("userId")

	if targetID != user.ID {
		g, err := groupctl.GetByID(s.db, c.Params("id"))
		if err != nil {
			return handler.Error(c, err)
		}

		if !g.IsAdmin(user.ID) {
			return handler.Error(c, exchange.ErrForbidden)
		}
	}

	result, err := s.exchange.Leave(c.Params("id"), targetID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "member removed",
		"groupEmpty": result.GroupEmpty,
	})
}

// PromoteAdmin elevates a member to group admin. Admin only.
func (s *Service) PromoteAdmin(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	g, err := s.exchange.PromoteAdmin(c.Params("id"), c.Params("userId"), user.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(g)
}

// DemoteAdmin reduces a group admin back to a regular member. Admin only.
func (s *Service) DemoteAdmin(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	g, err := s.exchange.DemoteAdmin(c.Params("id"), c.Params("userId"), user.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(g)
}

// ComputeMatches draws a fresh giver/receiver assignment. Admin only. The
// response carries only the acting admin's own edge, the full assignment
// stays secret.
func (s *Service) ComputeMatches(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	views, err := s.exchange.ComputeMatches(c.Params("id"), user.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	response := fiber.Map{
		"message": "matches computed",
	}

	if view, ok := views[user.ID]; ok {
		response["match"] = view
	}

	return c.JSON(response)
}

// Participants lists the members of the group with their match state.
func (s *Service) Participants(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	g, err := groupctl.GetByID(s.db, c.Params("id"))
	if err != nil {
		return handler.Error(c, err)
	}

	if g.Settings.IsPrivate && g.Member(user.ID) == nil {
		return handler.Error(c, exchange.ErrForbidden)
	}

	participants, err := s.exchange.Participants(c.Params("id"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(participants)
}

// CreateInvite creates a single-use invite code for the group. Admin only.
func (s *Service) CreateInvite(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(createInviteRequest)

	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return handler.BadRequest(c)
		}

		if details := handler.Validate(req); len(details) > 0 {
			return handler.ValidationFailed(c, details)
		}
	}

	invite, err := s.exchange.CreateInvite(c.Params("id"), user.ID, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(invite)
}
