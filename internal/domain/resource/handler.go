package resource

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/fhirstu3/internal/platform/fhir"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
	"github.com/ehr/fhirstu3/pkg/pagination"
)

type Handler struct {
	svc    *Service
	parser *fhirparser.Parser
	logger zerolog.Logger
}

func NewHandler(svc *Service, p *fhirparser.Parser, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, parser: p, logger: logger}
}

// RegisterRoutes mounts the RESTful interactions on g. mw wraps every route,
// typically with a scope check.
func (h *Handler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	r := g.Group("", mw...)
	r.POST("/:type", h.Create)
	r.GET("/:type", h.Search)
	r.GET("/:type/:id", h.Read)
	r.PUT("/:type/:id", h.Update)
	r.DELETE("/:type/:id", h.Delete)
	r.GET("/:type/:id/_history", h.History)
	r.GET("/:type/:id/_history/:vid", h.VRead)
}

// baseURL returns the absolute URL the resource type is served under, up to
// but excluding "/<type>".
func baseURL(c echo.Context, resourceType string) string {
	path := c.Request().URL.Path
	prefix := path
	if i := strings.Index(path, "/"+resourceType); i >= 0 {
		prefix = path[:i]
	}
	return c.Scheme() + "://" + c.Request().Host + prefix
}

func (h *Handler) writeError(c echo.Context, err error) error {
	rt, id := c.Param("type"), c.Param("id")
	var ve *ValidationError
	var pe *fhirparser.Error
	switch {
	case errors.As(err, &ve):
		return fhir.WriteOutcome(c, http.StatusBadRequest, ve.Result.ToOperationOutcome())
	case errors.As(err, &pe):
		return fhir.WriteParseError(c, err)
	case errors.Is(err, ErrUnknownType):
		return fhir.WriteOutcome(c, http.StatusNotFound, fhir.NotSupportedOutcome(err.Error()))
	case errors.Is(err, ErrGone):
		return fhir.WriteOutcome(c, http.StatusGone, fhir.GoneOutcome(rt, id))
	case errors.Is(err, ErrNotFound):
		return fhir.WriteOutcome(c, http.StatusNotFound, fhir.NotFoundOutcome(rt, id))
	case errors.Is(err, ErrIDMismatch):
		return fhir.WriteOutcome(c, http.StatusBadRequest, fhir.NewOutcomeBuilder().
			AddIssueWithLocation(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeInvalid, err.Error(), "id").
			Build())
	case errors.Is(err, ErrPreconditionFailed):
		return fhir.WriteOutcome(c, http.StatusPreconditionFailed, fhir.ConflictOutcome(err.Error()))
	case errors.Is(err, ErrVersionConflict):
		return fhir.WriteOutcome(c, http.StatusConflict, fhir.ConflictOutcome(err.Error()))
	}
	h.logger.Error().Err(err).Str("resourceType", rt).Str("id", id).Msg("resource request failed")
	return fhir.WriteOutcome(c, http.StatusInternalServerError, fhir.InternalErrorOutcome("internal server error"))
}

func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "request body is empty")
	}
	return body, nil
}

func (h *Handler) writeVersioned(c echo.Context, status int, r fhirmodels.Resource) error {
	fhir.SetVersionHeaders(c, r.Base().Meta)
	return fhir.WriteResource(c, status, h.parser, r)
}

func (h *Handler) Create(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	rt := c.Param("type")
	r, err := h.svc.Create(c.Request().Context(), rt, body)
	if err != nil {
		return h.writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderLocation,
		fmt.Sprintf("%s/%s/%s/_history/%d", baseURL(c, rt), rt, r.Base().ID, fhir.VersionOf(r)))
	return h.writeVersioned(c, http.StatusCreated, r)
}

func (h *Handler) Read(c echo.Context) error {
	r, err := h.svc.Read(c.Request().Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	if fhir.CheckIfNoneMatch(c, fhir.VersionOf(r)) {
		fhir.SetVersionHeaders(c, r.Base().Meta)
		return c.NoContent(http.StatusNotModified)
	}
	return h.writeVersioned(c, http.StatusOK, r)
}

func (h *Handler) Update(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	rt, id := c.Param("type"), c.Param("id")

	current, err := h.svc.CurrentVersion(ctx, rt, id)
	if err != nil {
		return h.writeError(c, err)
	}
	expected, err := fhir.CheckIfMatch(c, current)
	if err != nil {
		return err
	}

	r, created, err := h.svc.Update(ctx, rt, id, body, expected)
	if err != nil {
		return h.writeError(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		c.Response().Header().Set(echo.HeaderLocation,
			fmt.Sprintf("%s/%s/%s/_history/%d", baseURL(c, rt), rt, id, fhir.VersionOf(r)))
	}
	return h.writeVersioned(c, status, r)
}

func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	rt, id := c.Param("type"), c.Param("id")

	current, err := h.svc.CurrentVersion(ctx, rt, id)
	if err != nil {
		return h.writeError(c, err)
	}
	expected, err := fhir.CheckIfMatch(c, current)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(ctx, rt, id, expected); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Search(c echo.Context) error {
	rt := c.Param("type")
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Search(c.Request().Context(), rt, pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	base := baseURL(c, rt)
	bundle := fhirparser.NewBundle(fhirmodels.BundleTypeSearchset, items...)
	bundle.Total = &total
	bundle.Link = pg.BundleLinks(base+"/"+rt, c.QueryParams(), total)
	for i := range bundle.Entry {
		bundle.Entry[i].FullURL = base + "/" + fhirmodels.ReferenceTo(items[i])
	}
	return fhir.WriteResource(c, http.StatusOK, h.parser, bundle)
}

func (h *Handler) History(c echo.Context) error {
	rt, id := c.Param("type"), c.Param("id")
	pg := pagination.FromContext(c)
	versions, total, err := h.svc.History(c.Request().Context(), rt, id, pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	base := baseURL(c, rt)
	bundle := &fhirmodels.Bundle{
		Type:  fhirmodels.BundleTypeHistory,
		Total: &total,
		Link:  pg.BundleLinks(fmt.Sprintf("%s/%s/%s/_history", base, rt, id), c.QueryParams(), total),
		Entry: make([]fhirmodels.BundleEntry, 0, len(versions)),
	}
	for _, v := range versions {
		entry, err := historyEntry(base, v)
		if err != nil {
			return h.writeError(c, err)
		}
		bundle.Entry = append(bundle.Entry, entry)
	}
	return fhir.WriteResource(c, http.StatusOK, h.parser, bundle)
}

func historyEntry(base string, v *Version) (fhirmodels.BundleEntry, error) {
	entry := fhirmodels.BundleEntry{
		FullURL: base + "/" + v.Key(),
		Request: &fhirmodels.BundleEntryRequest{Method: v.Method, URL: v.Key()},
		Response: &fhirmodels.BundleEntryResponse{
			Etag:         fhir.FormatETag(v.VersionID),
			LastModified: v.LastUpdated.UTC().Format(instantLayout),
		},
	}
	switch v.Method {
	case fhirmodels.HTTPVerbPost:
		entry.Response.Status = "201 Created"
		entry.Request.URL = v.ResourceType
	case fhirmodels.HTTPVerbDelete:
		entry.Response.Status = "204 No Content"
	default:
		entry.Response.Status = "200 OK"
	}
	if v.Deleted {
		return entry, nil
	}
	r, err := v.Decode()
	if err != nil {
		return entry, fmt.Errorf("decode %s/_history/%d: %w", v.Key(), v.VersionID, err)
	}
	entry.Resource = fhirmodels.Contain(r)
	return entry, nil
}

func (h *Handler) VRead(c echo.Context) error {
	rt, id := c.Param("type"), c.Param("id")
	vid, err := strconv.Atoi(c.Param("vid"))
	if err != nil || vid < 1 {
		return fhir.WriteOutcome(c, http.StatusNotFound, fhir.NotFoundOutcome(rt, id+"/_history/"+c.Param("vid")))
	}
	r, err := h.svc.VRead(c.Request().Context(), rt, id, vid)
	if err != nil {
		return h.writeError(c, err)
	}
	return h.writeVersioned(c, http.StatusOK, r)
}
