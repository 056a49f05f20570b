package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
	"github.com/mattackal/family-onboarding/modules/onboarding/presentation/controllers/dtos"
	"github.com/mattackal/family-onboarding/modules/onboarding/presentation/mappers"
	"github.com/mattackal/family-onboarding/modules/onboarding/services"
	"github.com/mattackal/family-onboarding/pkg/application"
	"github.com/mattackal/family-onboarding/pkg/configuration"
	"github.com/mattackal/family-onboarding/pkg/httpapi"
	"github.com/mattackal/family-onboarding/pkg/middleware"
)

type WizardController struct {
	app           application.Application
	wizardService *services.WizardService
	searchService *services.HeadSearchService
	basePath      string
	sidCookieKey  string
	secureCookies bool
}

func NewWizardController(app application.Application) application.Controller {
	conf := configuration.Use()
	return &WizardController{
		app:           app,
		wizardService: app.Service(services.WizardService{}).(*services.WizardService),
		searchService: app.Service(services.HeadSearchService{}).(*services.HeadSearchService),
		basePath:      "/onboarding",
		sidCookieKey:  conf.SidCookieKey,
		secureCookies: conf.GoAppEnvironment == configuration.Production,
	}
}

func (c *WizardController) Key() string {
	return c.basePath
}

func (c *WizardController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/state", c.GetState).Methods(http.MethodGet)
	router.HandleFunc("/branches", c.GetBranches).Methods(http.MethodGet)
	router.HandleFunc("/heads/search", c.SearchHeads).Methods(http.MethodGet)
	router.HandleFunc("/heads/select", c.SelectHead).Methods(http.MethodPost)
	router.HandleFunc("/fathers/search", c.SearchFathers).Methods(http.MethodGet)
	router.HandleFunc("/steps/family-details", c.UpdateFamilyDetails).Methods(http.MethodPut)
	router.HandleFunc("/steps/personal-details", c.UpdatePersonalDetails).Methods(http.MethodPut)
	router.HandleFunc("/steps/contact-info", c.UpdateContactInfo).Methods(http.MethodPut)
	router.HandleFunc("/steps/employment", c.UpdateEmployment).Methods(http.MethodPut)
	router.HandleFunc("/steps/{step:[0-9]+}", c.GoToStep).Methods(http.MethodPost)
	router.HandleFunc("/next", c.GoNext).Methods(http.MethodPost)
	router.HandleFunc("/previous", c.GoPrevious).Methods(http.MethodPost)
	router.HandleFunc("/preview", c.GetPreview).Methods(http.MethodGet)
	router.HandleFunc("/submit", c.Submit).Methods(http.MethodPost)
	router.HandleFunc("/reset", c.Reset).Methods(http.MethodPost)
}

// sessionID reads the session cookie, minting one on first contact.
func (c *WizardController) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(c.sidCookieKey); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     c.sidCookieKey,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func (c *WizardController) wizard(w http.ResponseWriter, r *http.Request) (*services.Wizard, bool) {
	wizard, err := c.wizardService.Wizard(r.Context(), c.sessionID(w, r))
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Error("failed to load wizard session")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "SESSION_LOAD_FAILED", "could not load wizard session", nil)
		return nil, false
	}
	return wizard, true
}

func (c *WizardController) GetState(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) GetBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := c.wizardService.Branches(r.Context())
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Error("failed to fetch branches")
		_ = httpapi.WriteError(w, http.StatusBadGateway, "BRANCHES_UNAVAILABLE", "could not load branches", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, branches)
}

func (c *WizardController) SearchHeads(w http.ResponseWriter, r *http.Request) {
	sid := c.sessionID(w, r)
	branchID := r.URL.Query().Get("branch_id")
	query := r.URL.Query().Get("q")

	results, err := c.searchService.Search(r.Context(), sid, branchID, query)
	if errors.Is(err, services.ErrSearchSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Warn("head search failed")
		_ = httpapi.WriteError(w, http.StatusBadGateway, "HEAD_SEARCH_FAILED", "could not search family heads", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.HeadRecordsToViewModels(results))
}

func (c *WizardController) SelectHead(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	dto, ok := decode[dtos.SelectHeadDTO](w, r)
	if !ok {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"validationErrors": errs})
		return
	}
	wizard.SelectHead(r.Context(), dto.HeadUUID(), dto.Name)
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) SearchFathers(w http.ResponseWriter, r *http.Request) {
	results, err := c.wizardService.SearchFathers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Warn("father search failed")
		_ = httpapi.WriteError(w, http.StatusBadGateway, "FATHER_SEARCH_FAILED", "could not search members", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, results)
}

func (c *WizardController) UpdateFamilyDetails(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	dto, ok := decode[dtos.FamilyDetailsDTO](w, r)
	if !ok {
		return
	}
	wizard.UpdateFamilyDetails(r.Context(), dto.ToDomain())
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) UpdatePersonalDetails(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	dto, ok := decode[dtos.PersonalDetailsDTO](w, r)
	if !ok {
		return
	}
	wizard.UpdatePersonalDetails(r.Context(), dto.ToDomain())
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) UpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	dto, ok := decode[dtos.ContactInfoDTO](w, r)
	if !ok {
		return
	}
	wizard.UpdateContactInfo(r.Context(), dto.ToDomain())
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) UpdateEmployment(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	dto, ok := decode[dtos.EmploymentDTO](w, r)
	if !ok {
		return
	}
	wizard.UpdateEmployment(r.Context(), dto.ToDomain())
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) GoNext(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	outcome, err := wizard.GoNext(r.Context())
	if errors.Is(err, services.ErrWizardBusy) {
		_ = httpapi.WriteError(w, http.StatusConflict, "WIZARD_BUSY", "a submission is already in progress", nil)
		return
	}
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Error("next failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "WIZARD_NEXT_FAILED", "could not advance", nil)
		return
	}
	c.writeOutcome(w, wizard, outcome)
}

func (c *WizardController) GoPrevious(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	outcome := wizard.GoPrevious(r.Context())
	c.writeOutcome(w, wizard, outcome)
}

func (c *WizardController) GoToStep(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_STEP", "step must be a number", nil)
		return
	}
	outcome, err := wizard.GoToStep(r.Context(), registration.Step(n))
	if errors.Is(err, services.ErrBadStep) {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_STEP", "step is out of range", nil)
		return
	}
	c.writeOutcome(w, wizard, outcome)
}

func (c *WizardController) GetPreview(w http.ResponseWriter, r *http.Request) {
	preview, err := c.wizardService.Preview(r.Context(), c.sessionID(w, r))
	if errors.Is(err, services.ErrPreviewUnavailable) {
		_ = httpapi.WriteError(w, http.StatusConflict, "PREVIEW_UNAVAILABLE", "complete the personal details step first", nil)
		return
	}
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Error("preview fetch failed")
		_ = httpapi.WriteError(w, http.StatusBadGateway, "PREVIEW_FAILED", "could not load preview", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, preview)
}

func (c *WizardController) Submit(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	outcome, err := wizard.Submit(r.Context())
	if errors.Is(err, services.ErrWizardBusy) {
		_ = httpapi.WriteError(w, http.StatusConflict, "WIZARD_BUSY", "a submission is already in progress", nil)
		return
	}
	c.writeOutcome(w, wizard, outcome)
}

func (c *WizardController) Reset(w http.ResponseWriter, r *http.Request) {
	wizard, ok := c.wizard(w, r)
	if !ok {
		return
	}
	wizard.Reset(r.Context())
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.WizardStateToViewModel(wizard.State()))
}

func (c *WizardController) writeOutcome(w http.ResponseWriter, wizard *services.Wizard, outcome services.StepOutcome) {
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"state":   mappers.WizardStateToViewModel(wizard.State()),
	})
}

func decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var dto T
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return nil, false
	}
	return &dto, true
}
