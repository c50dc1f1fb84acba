package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/booking"
	"github.com/chayapol-b/jobfair-booking/internal/model"
	"github.com/chayapol-b/jobfair-booking/internal/repository"
)

// CompanyHandler exposes CRUD over companies.  Reads are public;
// mutations sit behind the ADMIN role middleware.  Deletion goes
// through the cascade coordinator so dependent appointments are removed
// with the company.
type CompanyHandler struct {
	Repo     *repository.CompanyRepo
	Cascade  *booking.Cascade
	validate *validator.Validate
}

func NewCompanyHandler(repo *repository.CompanyRepo, cascade *booking.Cascade) *CompanyHandler {
	if repo == nil || cascade == nil {
		panic("nil dependency passed to NewCompanyHandler")
	}
	return &CompanyHandler{Repo: repo, Cascade: cascade, validate: validator.New()}
}

// companyReq is the create/update payload.  Validation mirrors the
// stored schema: unique name capped at 50 characters, all descriptive
// fields required.
type companyReq struct {
	Name        string `json:"name" validate:"required,max=50"`
	Address     string `json:"address" validate:"required"`
	Website     string `json:"website" validate:"required,url"`
	Description string `json:"description" validate:"required"`
	Tel         string `json:"tel" validate:"required"`
}

type companyResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	Tel         string    `json:"tel"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCompanyResp(c *model.Company) companyResp {
	return companyResp{
		ID: c.ID, Name: c.Name, Address: c.Address, Website: c.Website,
		Description: c.Description, Tel: c.Tel, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

// pageParams reads ?page= and ?limit= with the defaults the original
// API used (page 1, limit 25) and converts them to LIMIT/OFFSET.
func pageParams(c echo.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	return limit, (page - 1) * limit
}

// List handles GET /api/v1/companies (public, cached).
func (h *CompanyHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	companies, total, err := h.Repo.List(ctx, limit, offset)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list companies")
	}
	out := make([]companyResp, 0, len(companies))
	for _, co := range companies {
		out = append(out, toCompanyResp(co))
	}
	return okCount(c, http.StatusOK, total, out)
}

// Get handles GET /api/v1/companies/:id (public).
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return fail(c, http.StatusNotFound, "company not found")
		}
		return fail(c, http.StatusInternalServerError, "cannot find company")
	}
	return ok(c, http.StatusOK, toCompanyResp(co))
}

// Create handles POST /api/v1/companies (ADMIN).
func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co := &model.Company{
		Name: req.Name, Address: req.Address, Website: req.Website,
		Description: req.Description, Tel: req.Tel,
	}
	if err := h.Repo.Create(ctx, co); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return fail(c, http.StatusBadRequest, "company name already exists")
		}
		return fail(c, http.StatusInternalServerError, "cannot create company")
	}
	return ok(c, http.StatusCreated, toCompanyResp(co))
}

// Update handles PUT /api/v1/companies/:id (ADMIN).
func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co := &model.Company{
		ID: id, Name: req.Name, Address: req.Address, Website: req.Website,
		Description: req.Description, Tel: req.Tel,
	}
	if err := h.Repo.Update(ctx, co); err != nil {
		switch {
		case errors.Is(err, repository.ErrCompanyNotFound):
			return fail(c, http.StatusNotFound, "company not found")
		case errors.Is(err, repository.ErrDuplicateName):
			return fail(c, http.StatusBadRequest, "company name already exists")
		default:
			return fail(c, http.StatusInternalServerError, "cannot update company")
		}
	}
	return ok(c, http.StatusOK, toCompanyResp(co))
}

// Delete handles DELETE /api/v1/companies/:id (ADMIN).  The cascade
// coordinator removes the company and all of its appointments as one
// unit; on any failure nothing is deleted.
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cascade.DeleteParent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return fail(c, http.StatusNotFound, "company not found")
		}
		return fail(c, http.StatusInternalServerError, "cannot delete company")
	}
	return ok(c, http.StatusOK, echo.Map{})
}

// validationMessage flattens a validator error into a single safe,
// human-readable message naming the first offending field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return "please add a " + fieldName(fe)
		case "max":
			return fieldName(fe) + " can not be more than " + fe.Param() + " characters"
		case "url":
			return fieldName(fe) + " must be a valid URL"
		case "len", "numeric":
			return fieldName(fe) + " is malformed"
		}
		return fieldName(fe) + " is invalid"
	}
	return "invalid request"
}

func fieldName(fe validator.FieldError) string {
	// Struct field names are exported Go identifiers; lower-case the
	// first letter to match the JSON field the client sent.
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return string(name[0]|0x20) + name[1:]
}
