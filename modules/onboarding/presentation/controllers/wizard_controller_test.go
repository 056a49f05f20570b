package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/sessionstore"
	"github.com/mattackal/family-onboarding/modules/onboarding/services"
	"github.com/mattackal/family-onboarding/pkg/eventbus"
)

func testRouter(t *testing.T) *mux.Router {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/branches":
			_, _ = w.Write([]byte(`[{"id": "1", "name": "Mattackal"}]`))
		case r.URL.Path == "/api/family/create/":
			_, _ = w.Write([]byte(`{"uuid": "7a9f58a6-0f36-4a82-9761-12c48de5a442"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backend.Close)

	api := genealogy.NewClient(backend.URL, 0)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(logger)

	controller := &WizardController{
		wizardService: services.NewWizardService(api, sessionstore.NewMemoryStore(), bus),
		searchService: services.NewHeadSearchService(api, 0),
		basePath:      "/onboarding",
		sidCookieKey:  "sid",
	}
	r := mux.NewRouter()
	controller.Register(r)
	return r
}

func TestWizardController_GetState_SetsSessionCookie(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/onboarding/state", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	var state map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, float64(1), state["currentStep"])
	assert.Equal(t, float64(5), state["maxStep"])
}

func TestWizardController_StateSticksToSession(t *testing.T) {
	router := testRouter(t)

	body := `{"headOfFamilyName": "New Head X", "branchId": "1"}`
	req := httptest.NewRequest(http.MethodPut, "/onboarding/steps/family-details", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "sid", Value: "fixed-session"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/onboarding/state", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "fixed-session"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var state struct {
		Draft struct {
			FamilyDetails struct {
				HeadOfFamilyName string `json:"headOfFamilyName"`
			} `json:"familyDetails"`
		} `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "New Head X", state.Draft.FamilyDetails.HeadOfFamilyName)
}

func TestWizardController_NextReturnsValidationErrors(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/onboarding/next", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Outcome struct {
			Advanced         bool              `json:"advanced"`
			ValidationErrors map[string]string `json:"validationErrors"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Outcome.Advanced)
	assert.Contains(t, resp.Outcome.ValidationErrors, "HeadOfFamilyName")
}

func TestWizardController_NextAdvances(t *testing.T) {
	router := testRouter(t)
	cookie := &http.Cookie{Name: "sid", Value: "s1"}

	body := `{"headOfFamilyName": "New Head X", "branchId": "1"}`
	req := httptest.NewRequest(http.MethodPut, "/onboarding/steps/family-details", strings.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/onboarding/next", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp struct {
		Outcome struct {
			Step     int  `json:"step"`
			Advanced bool `json:"advanced"`
		} `json:"outcome"`
		State struct {
			Identifiers struct {
				HeadUUID string `json:"headUuid"`
			} `json:"identifiers"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Outcome.Advanced)
	assert.Equal(t, 2, resp.Outcome.Step)
	assert.Equal(t, "7a9f58a6-0f36-4a82-9761-12c48de5a442", resp.State.Identifiers.HeadUUID)
}

func TestWizardController_BadStepRejected(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/onboarding/steps/9", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BAD_STEP", resp["code"])
}

func TestWizardController_MalformedBody(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/onboarding/steps/contact-info", strings.NewReader("{nope"))
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWizardController_Branches(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/onboarding/branches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var branches []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &branches))
	require.Len(t, branches, 1)
	assert.Equal(t, "Mattackal", branches[0]["name"])
}

func TestWizardController_PreviewUnavailableBeforeMemberSaved(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/onboarding/preview", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
