package service

import (
	"errors"

	"github.com/gonzalezcreative/directoryv7/internal/config"
	"github.com/gonzalezcreative/directoryv7/internal/db"
	"github.com/gonzalezcreative/directoryv7/internal/diag"
	"github.com/gonzalezcreative/directoryv7/internal/email"
	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSignInRequired     = errors.New("sign in required")
	ErrLeadUnavailable    = errors.New("lead no longer available")
	ErrSessionClosed      = errors.New("payment session already closed")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth        AuthService
	User        UserService
	Lead        LeadService
	Payment     PaymentService
	Broadcaster *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Cache       *db.RedisDB // nil when redis is not configured
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
	Sink        diag.Sink
}

func NewServices(deps *ServiceDeps) *Services {
	sink := deps.Sink
	if sink == nil {
		sink = diag.NewLogSink("Service")
	}

	leadService := NewLeadService(
		deps.Repos.LeadRepo,
		deps.Cache,
		deps.Broadcaster,
		sink,
	)

	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.UserRepo, deps.EmailSvc),
		User: NewUserService(deps.Repos.UserRepo),
		Lead: leadService,
		Payment: NewPaymentService(
			deps.Config,
			deps.Repos.PaymentRepo,
			deps.Repos.LeadRepo,
			deps.Repos.UserRepo,
			deps.Cache,
			deps.EmailSvc,
			deps.Broadcaster,
			sink,
		),
		Broadcaster: deps.Broadcaster,
	}
}
