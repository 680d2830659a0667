package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/dto"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

// idParam reads a positive uint path parameter. On failure it writes a 400
// and returns false.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

// pageQuery reads ?limit=&skip=. Missing values fall back to the defaults.
func pageQuery(c *gin.Context) (dto.Page, bool) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		httperr.BadRequest(c, "invalid_pagination", "limit must be an integer")
		return dto.Page{}, false
	}
	skip, err := intQuery(c, "skip")
	if err != nil || skip < 0 {
		httperr.BadRequest(c, "invalid_pagination", "skip must be a non-negative integer")
		return dto.Page{}, false
	}
	return dto.NewPage(limit, skip), true
}

func intQuery(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}
