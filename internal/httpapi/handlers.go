// Package httpapi exposes the service over HTTP. Authentication is handled
// upstream; requests arrive with the authenticated owner in the X-Owner-ID
// header and this layer only scopes every operation to it.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/service"
)

const ownerHeader = "X-Owner-ID"

var errMissingOwner = errors.New("missing " + ownerHeader + " header")

// Handler serves the REST surface over a Service.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes builds the router. All routes require an owner header.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Route("/companies", func(r chi.Router) {
		r.Get("/", h.listCompanies)
		r.Post("/", h.createCompany)
		r.Route("/{companyID}", func(r chi.Router) {
			r.Get("/", h.getCompany)
			r.Patch("/", h.renameCompany)
			r.Delete("/", h.deleteCompany)
			r.Put("/fields", h.upsertField)
			r.Post("/fields/bulk", h.bulkUpsertFields)
			r.Get("/stats", h.companyStats)
			r.Get("/analysis", h.analyzeCompany)
			r.Get("/profiles", h.listProfiles)
		})
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Post("/generate", h.generateProfile)
		r.Route("/{profileID}", func(r chi.Router) {
			r.Get("/", h.getProfile)
			r.Patch("/", h.updateProfile)
			r.Delete("/", h.deleteProfile)
			r.Get("/campaigns", h.listCampaigns)
		})
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/generate", h.generateCampaign)
		r.Route("/{campaignID}", func(r chi.Router) {
			r.Get("/", h.getCampaign)
			r.Patch("/", h.updateCampaign)
			r.Delete("/", h.deleteCampaign)
			r.Post("/regenerate", h.regenerateCampaign)
		})
	})

	return r
}

func (h *Handler) owner(r *http.Request) (string, error) {
	owner := r.Header.Get(ownerHeader)
	if owner == "" {
		return "", apperrors.Validation(errMissingOwner)
	}
	return owner, nil
}

func companyID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		return 0, apperrors.Validation(err)
	}
	return id, nil
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	companies, err := h.svc.ListCompanies(r.Context(), owner)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.CreateCompanyInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	company, err := h.svc.CreateCompany(r.Context(), owner, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	company, err := h.svc.GetCompany(r.Context(), owner, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) renameCompany(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.RenameCompanyInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	company, err := h.svc.RenameCompany(r.Context(), owner, id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.svc.DeleteCompany(r.Context(), owner, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) upsertField(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.UpsertFieldInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	field, err := h.svc.UpsertField(r.Context(), owner, id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

func (h *Handler) bulkUpsertFields(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.BulkUpsertFieldsInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	fields, err := h.svc.BulkUpsertFields(r.Context(), owner, id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (h *Handler) companyStats(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	stats, err := h.svc.CompanyStats(r.Context(), owner, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) analyzeCompany(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	analysis, err := h.svc.AnalyzeCompany(r.Context(), owner, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := companyID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	profiles, err := h.svc.ListProfiles(r.Context(), owner, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *Handler) generateProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.GenerateProfileInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	profile, err := h.svc.GenerateProfile(r.Context(), owner, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	profile, err := h.svc.GetProfile(r.Context(), owner, chi.URLParam(r, "profileID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.UpdateProfileInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	profile, err := h.svc.UpdateProfile(r.Context(), owner, chi.URLParam(r, "profileID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.svc.DeleteProfile(r.Context(), owner, chi.URLParam(r, "profileID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	campaigns, err := h.svc.ListCampaigns(r.Context(), owner, chi.URLParam(r, "profileID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) generateCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.GenerateCampaignInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	campaign, err := h.svc.GenerateCampaign(r.Context(), owner, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	campaign, err := h.svc.GetCampaign(r.Context(), owner, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *Handler) updateCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.UpdateCampaignInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	campaign, err := h.svc.UpdateCampaign(r.Context(), owner, chi.URLParam(r, "campaignID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.svc.DeleteCampaign(r.Context(), owner, chi.URLParam(r, "campaignID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) regenerateCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in service.RegenerateCampaignInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	campaign, err := h.svc.RegenerateCampaign(r.Context(), owner, chi.URLParam(r, "campaignID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
