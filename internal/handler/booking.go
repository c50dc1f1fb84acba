package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/booking"
	"github.com/chayapol-b/jobfair-booking/internal/model"
	"github.com/chayapol-b/jobfair-booking/internal/queue"
	"github.com/chayapol-b/jobfair-booking/internal/repository"
	queue_publisher "github.com/chayapol-b/jobfair-booking/internal/service"
)

// BookingStore is the read/update/delete surface of one booking kind's
// repository.  Creation is absent on purpose: new bookings only enter
// through the admission engine.  *repository.BookingRepo satisfies it.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error)
	ListByParent(ctx context.Context, parentID uint64) ([]*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	UpdateDate(ctx context.Context, id uint64, date time.Time) (*model.Booking, error)
	Delete(ctx context.Context, id uint64) error
}

// BookingHandler serves one booking kind.  The same handler type backs
// /appointments (parent company) and /reservations (parent job fair);
// what differs between the two is injected: the store bound to the
// kind's table, the admission engine, the parent resolver used to embed
// parent details into responses, and the nouns used in paths and
// messages.
type BookingHandler struct {
	Repo     BookingStore
	Engine   *booking.Engine
	Resolver booking.ParentResolver

	Kind        string // "appointment" | "reservation"
	ParentNoun  string // "company" | "jobfair"
	ParentParam string // route/query parameter name: "companyId" | "jobfairId"
}

func NewBookingHandler(repo BookingStore, engine *booking.Engine, resolver booking.ParentResolver, kind, parentNoun, parentParam string) *BookingHandler {
	if repo == nil || engine == nil || resolver == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Repo: repo, Engine: engine, Resolver: resolver,
		Kind: kind, ParentNoun: parentNoun, ParentParam: parentParam,
	}
}

// bookingDateReq is the create/update payload.  The canonical field is
// "date"; the original clients sent "apptDate"/"resvDate", so those are
// accepted as aliases.
type bookingDateReq struct {
	Date     *time.Time `json:"date"`
	ApptDate *time.Time `json:"apptDate"`
	ResvDate *time.Time `json:"resvDate"`
}

func (r bookingDateReq) chosen() (time.Time, bool) {
	for _, p := range []*time.Time{r.Date, r.ApptDate, r.ResvDate} {
		if p != nil {
			return *p, true
		}
	}
	return time.Time{}, false
}

type bookingResp struct {
	ID        uint64               `json:"id"`
	UserID    uint64               `json:"user_id"`
	Date      time.Time            `json:"date"`
	Parent    *model.ParentSummary `json:"parent,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func toBookingResp(b *model.Booking, parent *model.ParentSummary) bookingResp {
	return bookingResp{
		ID: b.ID, UserID: b.UserID, Date: b.Date, Parent: parent,
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

// resolveCached resolves parent summaries with a per-request cache so a
// listing does not hit the parent table once per booking row.
func (h *BookingHandler) resolveCached(ctx context.Context, cache map[uint64]*model.ParentSummary, id uint64) *model.ParentSummary {
	if p, ok := cache[id]; ok {
		return p
	}
	p, err := h.Resolver.Resolve(ctx, id)
	if err != nil {
		// Bookings always reference a live parent (cascade removes them
		// with it), so a miss here is a transient read failure; the
		// booking is still returned, just without the embedded summary.
		p = nil
	}
	cache[id] = p
	return p
}

// List handles GET /api/v1/<kind>s.  Scope rules: non-admin users see
// only their own bookings; admins see everything, optionally filtered
// by parent id.
func (h *BookingHandler) List(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var parentFilter uint64
	if raw := c.QueryParam(h.ParentParam); raw != "" {
		parentFilter, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid "+h.ParentParam)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var items []*model.Booking
	scope := booking.ScopeList(req, parentFilter)
	switch {
	case scope.All:
		items, err = h.Repo.ListAll(ctx)
	case scope.ParentID != 0:
		items, err = h.Repo.ListByParent(ctx, scope.ParentID)
	default:
		items, err = h.Repo.ListByUser(ctx, scope.UserID)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "cannot find "+h.Kind)
	}

	cache := make(map[uint64]*model.ParentSummary)
	out := make([]bookingResp, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingResp(b, h.resolveCached(ctx, cache, b.ParentID)))
	}
	return okCount(c, http.StatusOK, len(out), out)
}

// Get handles GET /api/v1/<kind>s/:id.  Reads are not ownership-gated
// beyond the listing scope, matching the original API.
func (h *BookingHandler) Get(c echo.Context) error {
	if _, err := requester(c); err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("no %s with the id of %d", h.Kind, id))
		}
		return fail(c, http.StatusInternalServerError, "cannot find "+h.Kind)
	}
	parent, _ := h.Resolver.Resolve(ctx, b.ParentID)
	return ok(c, http.StatusOK, toBookingResp(b, parent))
}

// Create handles POST /api/v1/<parent>s/:<parentParam>/<kind>s.  The
// admission engine applies the window and quota rules and persists the
// booking; a booking.created event is published on success.
func (h *BookingHandler) Create(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	parentID, err := strconv.ParseUint(c.Param(h.ParentParam), 10, 64)
	if err != nil || parentID == 0 {
		return fail(c, http.StatusBadRequest, "invalid "+h.ParentParam)
	}
	var body bookingDateReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	date, present := body.chosen()
	if !present {
		return fail(c, http.StatusBadRequest, "date is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, parent, err := h.Engine.Submit(ctx, req, parentID, date)
	if err != nil {
		return h.submitError(c, parentID, err)
	}

	// Best effort, never blocks the response on broker availability.
	_ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		Kind:       h.Kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		ParentID:   b.ParentID,
		ParentName: parent.Name,
		Date:       b.Date.Format(time.RFC3339),
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	})

	return ok(c, http.StatusCreated, toBookingResp(b, parent))
}

// Update handles PUT /api/v1/<kind>s/:id.  Only the date may change;
// the window rule is re-applied so an update cannot move a booking
// outside the admissible range.  Existence is checked before ownership
// so an absent id always reads as not-found.
func (h *BookingHandler) Update(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var body bookingDateReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	date, present := body.chosen()
	if !present {
		return fail(c, http.StatusBadRequest, "date is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("no %s with the id of %d", h.Kind, id))
		}
		return fail(c, http.StatusInternalServerError, "cannot update "+h.Kind)
	}
	if !booking.CanModify(req, b) {
		return fail(c, http.StatusUnauthorized,
			fmt.Sprintf("user %d is not authorized to update this %s", req.ID, h.Kind))
	}
	if err := h.Engine.ValidateDate(date); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	updated, err := h.Repo.UpdateDate(ctx, id, date)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("no %s with the id of %d", h.Kind, id))
		}
		return fail(c, http.StatusInternalServerError, "cannot update "+h.Kind)
	}
	parent, _ := h.Resolver.Resolve(ctx, updated.ParentID)
	return ok(c, http.StatusOK, toBookingResp(updated, parent))
}

// Delete handles DELETE /api/v1/<kind>s/:id.  Deleting a booking never
// cascades anywhere; only parent deletion does.  Deleting an absent id
// returns not-found, also when two deletes race.
func (h *BookingHandler) Delete(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("no %s with the id of %d", h.Kind, id))
		}
		return fail(c, http.StatusInternalServerError, "cannot delete "+h.Kind)
	}
	if !booking.CanModify(req, b) {
		return fail(c, http.StatusUnauthorized,
			fmt.Sprintf("user %d is not authorized to delete this %s", req.ID, h.Kind))
	}
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return fail(c, http.StatusNotFound, fmt.Sprintf("no %s with the id of %d", h.Kind, id))
		}
		return fail(c, http.StatusInternalServerError, "cannot delete "+h.Kind)
	}
	return ok(c, http.StatusOK, echo.Map{})
}

// submitError maps admission failures onto the envelope.  Window and
// quota rejections carry the engine's message, which names the exact
// bound or count that was violated.
func (h *BookingHandler) submitError(c echo.Context, parentID uint64, err error) error {
	var oow *booking.OutOfWindowError
	var quota *booking.QuotaExceededError
	switch {
	case errors.Is(err, booking.ErrParentNotFound):
		return fail(c, http.StatusNotFound, fmt.Sprintf("no %s with the id of %d", h.ParentNoun, parentID))
	case errors.As(err, &oow):
		return fail(c, http.StatusBadRequest, oow.Error())
	case errors.As(err, &quota):
		return fail(c, http.StatusBadRequest, quota.Error())
	default:
		return fail(c, http.StatusInternalServerError, "cannot create "+h.Kind)
	}
}
