package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID parses a numeric path parameter. On failure it writes a 400 and
// reports false.
func ParamID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// QueryID parses an optional numeric query parameter. A missing value yields
// nil; a malformed one writes a 400 and reports false.
func QueryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return nil, false
	}
	return &id, true
}
