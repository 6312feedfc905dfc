package router

import (
	"github.com/oksasatya/go-user-api/internal/application"
	"github.com/oksasatya/go-user-api/internal/container"
	repouser "github.com/oksasatya/go-user-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-user-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-user-api/internal/interface/http"
	"github.com/oksasatya/go-user-api/internal/router/modules"
	"github.com/oksasatya/go-user-api/pkg/mailer"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *application.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// optional collaborators stay nil interfaces when not configured
	var index application.UserIndexer
	if es := container.GetES(); es != nil {
		index = search.NewUserIndexer(es, cfg.ESUsersIndex)
	}
	var notifier application.AccountNotifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = mailer.NewQueueNotifier(pub, cfg.AppName, cfg.MailSendEnabled)
	}

	service := application.NewService(repo, container.GetJWT(), index, notifier, container.GetLogger())
	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT(), userDeps.Repo, container.GetRedis(), container.GetLogger()))

	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}
