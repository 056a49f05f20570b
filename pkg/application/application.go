package application

import (
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mattackal/family-onboarding/pkg/eventbus"
)

// Controller is a mountable group of routes.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires its services and controllers into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	Controllers() []Controller
	RegisterControllers(controllers ...Controller)
	Middleware() []mux.MiddlewareFunc
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
}

type ApplicationOptions struct {
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(options *ApplicationOptions) Application {
	return &application{
		eventPublisher: options.EventBus,
		logger:         options.Logger,
		services:       map[reflect.Type]interface{}{},
		controllers:    map[string]Controller{},
	}
}

type application struct {
	eventPublisher  eventbus.EventBus
	logger          *logrus.Logger
	services        map[reflect.Type]interface{}
	controllers     map[string]Controller
	controllerOrder []string
	middleware      []mux.MiddlewareFunc
}

func (a *application) Controllers() []Controller {
	out := make([]Controller, 0, len(a.controllerOrder))
	for _, key := range a.controllerOrder {
		out = append(out, a.controllers[key])
	}
	return out
}

func (a *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		if _, ok := a.controllers[c.Key()]; !ok {
			a.controllerOrder = append(a.controllerOrder, c.Key())
		}
		a.controllers[c.Key()] = c
	}
}

func (a *application) Middleware() []mux.MiddlewareFunc {
	return a.middleware
}

func (a *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, svc := range services {
		a.services[reflect.TypeOf(svc).Elem()] = svc
	}
}

// Service returns the registered service whose type matches the given
// zero value, e.g. app.Service(services.WizardService{}).
func (a *application) Service(service interface{}) interface{} {
	svc, ok := a.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %s not found", reflect.TypeOf(service).Name()))
	}
	return svc
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.eventPublisher
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

// Load registers each module in order, failing fast on the first error.
func Load(app Application, modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(app); err != nil {
			return fmt.Errorf("failed to register module %s: %w", m.Name(), err)
		}
	}
	return nil
}
