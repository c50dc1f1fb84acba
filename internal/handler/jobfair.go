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

// JobfairHandler mirrors CompanyHandler for the other parent resource.
// Deleting a job fair cascades over its reservations.
type JobfairHandler struct {
	Repo     *repository.JobfairRepo
	Cascade  *booking.Cascade
	validate *validator.Validate
}

func NewJobfairHandler(repo *repository.JobfairRepo, cascade *booking.Cascade) *JobfairHandler {
	if repo == nil || cascade == nil {
		panic("nil dependency passed to NewJobfairHandler")
	}
	return &JobfairHandler{Repo: repo, Cascade: cascade, validate: validator.New()}
}

type jobfairReq struct {
	Name       string `json:"name" validate:"required,max=50"`
	Address    string `json:"address" validate:"required"`
	District   string `json:"district" validate:"required"`
	Province   string `json:"province" validate:"required"`
	Postalcode string `json:"postalcode" validate:"required,len=5,numeric"`
	Tel        string `json:"tel"`
	Region     string `json:"region" validate:"required"`
}

type jobfairResp struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	District   string    `json:"district"`
	Province   string    `json:"province"`
	Postalcode string    `json:"postalcode"`
	Tel        string    `json:"tel,omitempty"`
	Region     string    `json:"region"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toJobfairResp(j *model.Jobfair) jobfairResp {
	return jobfairResp{
		ID: j.ID, Name: j.Name, Address: j.Address, District: j.District,
		Province: j.Province, Postalcode: j.Postalcode, Tel: j.Tel, Region: j.Region,
		CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt,
	}
}

// List handles GET /api/v1/jobfairs (public, cached).
func (h *JobfairHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	fairs, total, err := h.Repo.List(ctx, limit, offset)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list jobfairs")
	}
	out := make([]jobfairResp, 0, len(fairs))
	for _, j := range fairs {
		out = append(out, toJobfairResp(j))
	}
	return okCount(c, http.StatusOK, total, out)
}

// Get handles GET /api/v1/jobfairs/:id (public).
func (h *JobfairHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	j, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobfairNotFound) {
			return fail(c, http.StatusNotFound, "jobfair not found")
		}
		return fail(c, http.StatusInternalServerError, "cannot find jobfair")
	}
	return ok(c, http.StatusOK, toJobfairResp(j))
}

// Create handles POST /api/v1/jobfairs (ADMIN).
func (h *JobfairHandler) Create(c echo.Context) error {
	var req jobfairReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	j := &model.Jobfair{
		Name: req.Name, Address: req.Address, District: req.District,
		Province: req.Province, Postalcode: req.Postalcode, Tel: req.Tel, Region: req.Region,
	}
	if err := h.Repo.Create(ctx, j); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return fail(c, http.StatusBadRequest, "jobfair name already exists")
		}
		return fail(c, http.StatusInternalServerError, "cannot create jobfair")
	}
	return ok(c, http.StatusCreated, toJobfairResp(j))
}

// Update handles PUT /api/v1/jobfairs/:id (ADMIN).
func (h *JobfairHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req jobfairReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	j := &model.Jobfair{
		ID: id, Name: req.Name, Address: req.Address, District: req.District,
		Province: req.Province, Postalcode: req.Postalcode, Tel: req.Tel, Region: req.Region,
	}
	if err := h.Repo.Update(ctx, j); err != nil {
		switch {
		case errors.Is(err, repository.ErrJobfairNotFound):
			return fail(c, http.StatusNotFound, "jobfair not found")
		case errors.Is(err, repository.ErrDuplicateName):
			return fail(c, http.StatusBadRequest, "jobfair name already exists")
		default:
			return fail(c, http.StatusInternalServerError, "cannot update jobfair")
		}
	}
	return ok(c, http.StatusOK, toJobfairResp(j))
}

// Delete handles DELETE /api/v1/jobfairs/:id (ADMIN) through the
// reservation cascade.
func (h *JobfairHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cascade.DeleteParent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrJobfairNotFound) {
			return fail(c, http.StatusNotFound, "jobfair not found")
		}
		return fail(c, http.StatusInternalServerError, "cannot delete jobfair")
	}
	return ok(c, http.StatusOK, echo.Map{})
}
