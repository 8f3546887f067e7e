package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/filter"
	"github.com/tayloree/appliance-compare/internal/urlstate"
)

func (s *Server) getStatus(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, success(c, "Catalog status", snap.Report()))
}

func (s *Server) getCategories(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, success(c, "Categories fetched successfully", display.DescribeCategories(snap)))
}

func (s *Server) getProducts(c *gin.Context) {
	cat, err := catalog.ParseCategory(c.Query(urlstate.ParamCategory))
	if err != nil {
		c.JSON(http.StatusBadRequest, failure(c, "Query parameter cat must name a category"))
		return
	}
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	st := urlstate.Decode(c.Request.URL.Query(), filter.DefaultState(cat))
	view := browse.New(snap.Category(cat), st).View()

	items := make([]display.ProductJSON, 0, len(view.Page.Items))
	for _, p := range view.Page.Items {
		items = append(items, display.Summarize(p))
	}

	c.JSON(http.StatusOK, paginated(c, "Products fetched successfully", items, &Pagination{
		Page:        view.Page.Page,
		Limit:       filter.PageSize,
		Total:       view.Page.Total,
		TotalPages:  view.Page.TotalPages,
		PageNumbers: view.Page.Numbers,
		Query:       urlstate.Encode(view.State).Encode(),
	}))
}

func (s *Server) getProduct(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	p, found := snap.FindSlug(c.Param("slug"))
	if !found {
		c.JSON(http.StatusNotFound, failure(c, "Product not found"))
		return
	}
	c.JSON(http.StatusOK, success(c, "Product fetched successfully", display.Detail(p)))
}

func (s *Server) getCompare(c *gin.Context) {
	query := c.Request.URL.Query()
	sel := urlstate.DecodeCompare(query)
	if sel.Len() == 0 {
		c.JSON(http.StatusBadRequest, failure(c, "Query parameters cat and ids are required"))
		return
	}
	weights, err := parseWeights(query.Get)
	if err != nil {
		c.JSON(http.StatusBadRequest, failure(c, err.Error()))
		return
	}

	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	products := sel.Resolve(snap)
	if len(products) != sel.Len() {
		c.JSON(http.StatusNotFound, failure(c, "One or more products were not found"))
		return
	}

	result, err := compare.Analyze(products, weights)
	if err != nil {
		status := http.StatusInternalServerError
		for _, target := range []error{compare.ErrTooFew, compare.ErrTooMany, compare.ErrMixedCategories, compare.ErrDuplicate} {
			if errors.Is(err, target) {
				status = http.StatusBadRequest
			}
		}
		c.JSON(status, failure(c, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(c, "Comparison computed", display.ComparisonJSON{
		Result: result,
		Share:  urlstate.EncodeCompare(sel).Encode(),
	}))
}

func parseWeights(get func(string) string) (compare.Weights, error) {
	w := compare.DefaultWeights
	fields := []struct {
		param string
		dst   *float64
	}{
		{"wPrice", &w.Price},
		{"wCapacity", &w.Capacity},
		{"wNoise", &w.Noise},
		{"wEfficiency", &w.Efficiency},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(get(f.param))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return compare.Weights{}, fmt.Errorf("query parameter %s must be a number", f.param)
		}
		*f.dst = v
	}
	return w.Clamp(), nil
}
