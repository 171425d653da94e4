package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinova/clinic-ops/internal/directory"
	"github.com/clinova/clinic-ops/internal/scheduler"
	"github.com/clinova/clinic-ops/internal/session"
)

// SessionStores hands out the per-client token store backing each session.
type SessionStores interface {
	ForClient(clientID string) session.TokenStore
}

type Handlers struct {
	creds      session.CredentialStore
	sessions   SessionStores
	dir        directory.Store
	sched      *scheduler.Scheduler
	appts      scheduler.Repository
	sessionTTL time.Duration
}

func NewHandlers(creds session.CredentialStore, sessions SessionStores, dir directory.Store, sched *scheduler.Scheduler, appts scheduler.Repository, sessionTTL time.Duration) *Handlers {
	return &Handlers{
		creds:      creds,
		sessions:   sessions,
		dir:        dir,
		sched:      sched,
		appts:      appts,
		sessionTTL: sessionTTL,
	}
}

// managerFor builds the session manager for one client. Managers are cheap;
// the durable state lives in the token store.
func (h *Handlers) managerFor(clientID string) *session.Manager {
	return session.NewManager(h.creds, h.sessions.ForClient(clientID), h.sessionTTL)
}

// ----- auth -----

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	clientID := r.Header.Get(ClientIDHeader)
	if clientID == "" {
		clientID = uuid.NewString()
	}

	mgr := h.managerFor(clientID)
	ident, err := mgr.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		ClientID: clientID,
		Identity: toIdentityResponse(ident),
	})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	clientID := r.Header.Get(ClientIDHeader)
	if clientID == "" {
		// nothing to clear, logout stays idempotent
		w.WriteHeader(http.StatusNoContent)
		return
	}

	mgr := h.managerFor(clientID)
	if err := mgr.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) currentSession(w http.ResponseWriter, r *http.Request) {
	ident := actingIdentity(r.Context())
	mgr := sessionManager(r.Context())

	canSchedule := mgr.HasRole(session.RoleDoctor) || mgr.HasRole(session.RoleSecretary)

	writeJSON(w, http.StatusOK, SessionResponse{
		Identity:    toIdentityResponse(ident),
		CanSchedule: canSchedule,
	})
}

// ----- appointments -----

func (h *Handlers) listAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.appts.ListAppointments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load appointments")
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(appts))
}

// draftAppointment maps a selected calendar slot to a draft. A role without
// scheduling rights gets 204 and no draft; that is the whole response, there
// is no error to show.
func (h *Handlers) draftAppointment(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	draft := h.sched.SelectSlot(req.Start, req.End, actingIdentity(r.Context()))
	if draft == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*draft))
}

func (h *Handlers) saveAppointment(w http.ResponseWriter, r *http.Request) {
	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	collection, err := h.appts.ListAppointments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load appointments")
		return
	}

	updated, err := h.sched.Save(r.Context(), actingIdentity(r.Context()), fromAppointmentRequest(req), collection)
	if err != nil {
		var verr *scheduler.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "save failed")
		return
	}

	if err := h.appts.ReplaceAppointments(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not commit appointments")
		return
	}

	writeJSON(w, http.StatusOK, toCollectionResponse(updated))
}

func (h *Handlers) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	collection, err := h.appts.ListAppointments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load appointments")
		return
	}

	updated := h.sched.Delete(actingIdentity(r.Context()), id, collection)

	if err := h.appts.ReplaceAppointments(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not commit appointments")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----- directory -----

func (h *Handlers) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.dir.ListPatients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load patients")
		return
	}

	out := make([]PatientResponse, len(patients))
	for i, p := range patients {
		out[i] = toPatientResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, err := h.dir.PatientByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, directory.ErrPatientNotFound) {
			writeError(w, http.StatusNotFound, "patient_not_found", "no such patient")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load patient")
		return
	}
	writeJSON(w, http.StatusOK, toPatientResponse(*patient))
}

func (h *Handlers) listDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.dir.ListDoctors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load doctors")
		return
	}

	out := make([]StaffResponse, len(doctors))
	for i, d := range doctors {
		out[i] = toStaffResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}
