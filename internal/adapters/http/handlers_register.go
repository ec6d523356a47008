package web

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/application/projections"
	"gohuddleup/internal/domain/registration"
)

// handleRegisterForm renders the registration wizard.
func (a *app) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	states, err := projections.QueryListStates(r.Context(), projections.ListStatesDeps{Directory: a.client.Schools()})
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, http.StatusOK, "register.html", "Register", states, "")
}

type validateStepRequest struct {
	Step int               `json:"step"`
	Form registration.Form `json:"form"`
}

type validateStepResponse struct {
	Step   int                      `json:"step"`
	Valid  bool                     `json:"valid"`
	Errors registration.FieldErrors `json:"errors"`
}

// handleValidateStep handles POST /api/register/validate so the wizard can
// check one step before moving on.
func (a *app) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	var req validateStepRequest
	if err := strictDecode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Step < 1 || req.Step > registration.TotalSteps {
		badRequest(w, "step is out of range")
		return
	}
	errs := req.Form.Normalize().ValidateStep(req.Step)
	if errs == nil {
		errs = registration.FieldErrors{}
	}
	writeJSON(w, http.StatusOK, validateStepResponse{Step: req.Step, Valid: len(errs) == 0, Errors: errs})
}

type registerResponse struct {
	ID            string `json:"id"`
	Redirect      string `json:"redirect"`
	SchoolMatched bool   `json:"school_matched"`
}

// handleRegister handles POST /register with the whole wizard as JSON.
func (a *app) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !isJSONRequest(r) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: "registration must be submitted as JSON"})
		return
	}
	var form registration.Form
	if err := strictDecode(r, &form); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := orchestrators.ExecuteRegisterStudent(r.Context(), orchestrators.RegisterStudentInput{Form: form},
		orchestrators.RegisterStudentDeps{
			Auth:  a.client.Auth(),
			Admin: a.server.Admin(),
			Tx:    a.server.WithTx,
			NewID: uuid.NewString,
			Now:   a.now,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		ID:            res.Profile.ID,
		Redirect:      "/register/success?email=" + url.QueryEscape(res.Identity.Email),
		SchoolMatched: res.SchoolMatched,
	})
}

// handleRegisterSuccess tells the student to check their inbox.
func (a *app) handleRegisterSuccess(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register_success.html", "Check your email",
		map[string]string{"Email": r.URL.Query().Get("email")}, "")
}

// handleResendConfirmation handles POST /register/resend. The response is the
// same whether or not the address is registered.
func (a *app) handleResendConfirmation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	addr := r.FormValue("email")
	if err := a.client.Auth().SendConfirmation(r.Context(), addr); err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, http.StatusOK, "register_success.html", "Check your email",
		map[string]string{"Email": addr, "Resent": "true"}, "")
}
