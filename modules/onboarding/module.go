package onboarding

import (
	"github.com/go-faster/errors"

	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/sessionstore"
	"github.com/mattackal/family-onboarding/modules/onboarding/presentation/controllers"
	"github.com/mattackal/family-onboarding/modules/onboarding/services"
	"github.com/mattackal/family-onboarding/pkg/application"
	"github.com/mattackal/family-onboarding/pkg/configuration"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "onboarding"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	store, err := newSessionStore(conf.SessionStore)
	if err != nil {
		return errors.Wrap(err, "failed to initialize session store")
	}
	api := genealogy.NewClient(conf.Genealogy.BaseURL, conf.Genealogy.Timeout)

	app.RegisterServices(
		services.NewWizardService(api, store, app.EventPublisher()),
		services.NewHeadSearchService(api, conf.HeadSearchDelay),
	)
	app.RegisterControllers(
		controllers.NewWizardController(app),
		controllers.NewHealthController(app),
	)

	registerEventLogging(app)
	return nil
}

func newSessionStore(opts configuration.SessionStoreOptions) (sessionstore.Store, error) {
	switch opts.Driver {
	case "memory":
		return sessionstore.NewMemoryStore(), nil
	case "file":
		return sessionstore.NewFileStore(opts.FilePath)
	case "redis":
		return sessionstore.NewRedisStore(opts.RedisURL, opts.TTL)
	default:
		return nil, errors.Errorf("unknown session store driver: %s", opts.Driver)
	}
}

func registerEventLogging(app application.Application) {
	logger := app.Logger()
	app.EventPublisher().Subscribe(func(e registration.StepPersistedEvent) {
		logger.WithField("session", e.SessionID).
			WithField("step", int(e.Step)).
			WithField("edit", e.IsEdit).
			Info("wizard step persisted")
	})
	app.EventPublisher().Subscribe(func(e registration.RegistrationCompletedEvent) {
		logger.WithField("session", e.SessionID).
			WithField("head", e.HeadUUID.String()).
			WithField("member", e.MemberID).
			Info("registration completed")
	})
	app.EventPublisher().Subscribe(func(e registration.WizardResetEvent) {
		logger.WithField("session", e.SessionID).Info("wizard reset")
	})
}
