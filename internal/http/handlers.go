package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
)

// documentResponse wraps the document with the revision it was read at.
type documentResponse struct {
	Revision uint64        `json:"revision"`
	Document core.Document `json:"document"`
}

type keyResponse struct {
	Key      core.Key `json:"key"`
	Revision uint64   `json:"revision"`
	Value    any      `json:"value"`
}

func (s *Server) getDocument(c echo.Context) error {
	return c.JSON(http.StatusOK, documentResponse{
		Revision: s.planner.Revision(),
		Document: s.planner.Document(),
	})
}

// putDocument replaces the whole document. Missing keys are filled from
// defaults by the decoder.
func (s *Server) putDocument(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	doc, err := core.Decode(raw)
	if err != nil {
		return err
	}
	saved, err := s.planner.Replace(c.Request().Context(), doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentResponse{Revision: s.planner.Revision(), Document: saved})
}

func (s *Server) getKey(c echo.Context) error {
	key, err := core.ParseKey(c.Param("key"))
	if err != nil {
		return err
	}
	value, err := s.planner.Document().Get(key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, keyResponse{Key: key, Revision: s.planner.Revision(), Value: value})
}

func (s *Server) putKey(c echo.Context) error {
	key, err := core.ParseKey(c.Param("key"))
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	value, err := core.DecodeKey(key, raw)
	if err != nil {
		return err
	}
	saved, err := s.planner.UpdateKey(c.Request().Context(), key, value)
	if err != nil {
		return err
	}
	out, _ := saved.Get(key)
	return c.JSON(http.StatusOK, keyResponse{Key: key, Revision: s.planner.Revision(), Value: out})
}

// getSummary serves the derived views.
func (s *Server) getSummary(c echo.Context) error {
	p := s.planner
	var view any
	switch c.Param("view") {
	case "budget":
		view = p.BudgetReport()
	case "gifts":
		view = p.GiftSummary()
	case "shopping":
		view = p.ShoppingSummary()
	case "menus":
		view = p.MenusSummary()
	case "vendors":
		view = p.VendorSummary()
	case "guests":
		view = p.GuestSummary()
	case "tasks":
		view = p.TaskSummary()
	case "timeline", "schedule":
		view = p.Schedule()
	default:
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown summary %q", c.Param("view")))
	}
	return c.JSON(http.StatusOK, view)
}

type controllerFunc[T crud.Record[T]] func(echo.Context) (*crud.Controller[T], error)

// fixed adapts a planner accessor that cannot fail.
func fixed[T crud.Record[T]](fn func() *crud.Controller[T]) controllerFunc[T] {
	return func(echo.Context) (*crud.Controller[T], error) { return fn(), nil }
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// registerCollection mounts list, read, create, update and delete routes for
// one record collection. idParam names the record id in the path so nested
// collections do not clash with their parent's :id.
func registerCollection[T crud.Record[T]](g *echo.Group, path, idParam string, open controllerFunc[T]) {
	item := path + "/:" + idParam

	g.GET(path, func(c echo.Context) error {
		ctl, err := open(c)
		if err != nil {
			return err
		}
		items := ctl.List()
		if items == nil {
			items = []T{}
		}
		return c.JSON(http.StatusOK, listResponse[T]{Items: items, Count: len(items)})
	})

	g.GET(item, func(c echo.Context) error {
		ctl, err := open(c)
		if err != nil {
			return err
		}
		rec, ok := ctl.Find(c.Param(idParam))
		if !ok {
			return fmt.Errorf("%s %q: %w", ctl.Name(), c.Param(idParam), crud.ErrNotFound)
		}
		return c.JSON(http.StatusOK, rec)
	})

	g.POST(path, func(c echo.Context) error {
		ctl, err := open(c)
		if err != nil {
			return err
		}
		var body T
		if err := decodeBody(c, &body); err != nil {
			return err
		}
		// A client-chosen id is kept (budget categories are keyed by
		// their name) but may not collide with an existing record.
		var rec T
		if id := body.GetID(); id != "" {
			rec = body.WithID(id)
			if _, exists := ctl.Find(rec.GetID()); exists {
				return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("%s %q already exists", ctl.Name(), rec.GetID()))
			}
			ctl.Edit(rec)
		} else {
			rec = ctl.Add(body)
		}
		if err := ctl.Save(c.Request().Context(), rec); err != nil {
			return err
		}
		logRecord(c, "Record created", ctl.Name(), rec.GetID())
		saved, _ := ctl.Find(rec.GetID())
		return c.JSON(http.StatusCreated, saved)
	})

	g.PUT(item, func(c echo.Context) error {
		ctl, err := open(c)
		if err != nil {
			return err
		}
		id := c.Param(idParam)
		if _, ok := ctl.Find(id); !ok {
			return fmt.Errorf("%s %q: %w", ctl.Name(), id, crud.ErrNotFound)
		}
		var body T
		if err := decodeBody(c, &body); err != nil {
			return err
		}
		rec := body.WithID(id)
		ctl.Edit(rec)
		if err := ctl.Save(c.Request().Context(), rec); err != nil {
			return err
		}
		logRecord(c, "Record updated", ctl.Name(), rec.GetID())
		saved, _ := ctl.Find(rec.GetID())
		return c.JSON(http.StatusOK, saved)
	})

	// A DELETE request is its own confirmation.
	g.DELETE(item, func(c echo.Context) error {
		ctl, err := open(c)
		if err != nil {
			return err
		}
		id := c.Param(idParam)
		if _, err := ctl.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		logRecord(c, "Record deleted", ctl.Name(), id)
		return c.NoContent(http.StatusNoContent)
	})
}

// decodeBody reads a JSON record. c.Bind is avoided because it would also
// bind path params into the record.
func decodeBody(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return nil
}

func logRecord(c echo.Context, msg, collection, id string) {
	ctx := c.Request().Context()
	fields := applog.NewFields().WithRecord(collection, id).ToSlice()
	applog.FromContext(ctx).WithComponent(applog.ComponentHTTP).InfoContext(ctx, msg, fields...)
}
