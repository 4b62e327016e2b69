package app

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/framework/http/validation"
)

// RequestContext is Scoped: every service built for one request shares it.
type RequestContext struct {
	Request *gohttp.Request
}

// User is the caller named by the X-User header.
func (c *RequestContext) User() string {
	if user := c.Request.Header("X-User"); user != "" {
		return user
	}
	return "anonymous"
}

// ID is the request id.
func (c *RequestContext) ID() string { return c.Request.ID() }

// GetCatHandler looks a single cat up on behalf of the current user.
type GetCatHandler struct {
	Repo    CatsRepository
	Context *RequestContext
	Logger  *slog.Logger
}

func (h *GetCatHandler) Handle(id int) (*Cat, error) {
	cat, err := h.Repo.GetByID(id)
	h.Logger.Debug("get cat",
		"id", id,
		"user", h.Context.User(),
		"request_id", h.Context.ID(),
		"found", err == nil,
	)
	return cat, err
}

type catInput struct {
	Name string `json:"name"`
}

// CatsController serves /cats. It is Transient and resolved per call.
type CatsController struct {
	Handler *GetCatHandler
	Repo    CatsRepository
	Context *RequestContext
	Request *gohttp.Request
}

func (c *CatsController) Index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(c.Repo.All())
}

func (c *CatsController) Store(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	input, ok := c.input(res)
	if !ok {
		return
	}
	res.Created(c.Repo.Save(&Cat{Name: input.Name}))
}

func (c *CatsController) Show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := c.id(res)
	if !ok {
		return
	}
	cat, err := c.Handler.Handle(id)
	if err != nil {
		c.fail(res, err)
		return
	}
	res.Success(cat)
}

func (c *CatsController) Update(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := c.id(res)
	if !ok {
		return
	}
	cat, err := c.Handler.Handle(id)
	if err != nil {
		c.fail(res, err)
		return
	}
	input, ok := c.input(res)
	if !ok {
		return
	}
	cat.Name = input.Name
	res.Success(c.Repo.Save(cat))
}

func (c *CatsController) Destroy(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := c.id(res)
	if !ok {
		return
	}
	if err := c.Repo.Delete(id); err != nil {
		c.fail(res, err)
		return
	}
	res.NoContent()
}

// Whoami echoes the caller and the request id.
func (c *CatsController) Whoami(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(map[string]string{
		"user":       c.Context.User(),
		"request_id": c.Context.ID(),
	})
}

func (c *CatsController) id(res *gohttp.Response) (int, bool) {
	id, err := strconv.Atoi(c.Request.RouteParam("id"))
	if err != nil || id <= 0 {
		res.Error(http.StatusBadRequest, "invalid cat id")
		return 0, false
	}
	return id, true
}

func (c *CatsController) input(res *gohttp.Response) (catInput, bool) {
	var input catInput
	if err := c.Request.Bind(&input); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return input, false
	}
	input.Name = strings.TrimSpace(input.Name)
	v := validation.Make(map[string]string{"name": input.Name}, validation.Rules{
		"name": "required|max:50",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return input, false
	}
	return input, true
}

func (c *CatsController) fail(res *gohttp.Response, err error) {
	if errors.Is(err, ErrCatNotFound) {
		res.NotFound("Cat not found.")
		return
	}
	res.ServerError()
}
