// Package pagination 提供 limit/offset 分页参数解析与统一响应包装
package pagination

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit 默认每页数量
	DefaultLimit = 30
	// MaxLimit 每页数量上限
	MaxLimit = 100
)

// ErrInvalidParams 分页参数非法
var ErrInvalidParams = errors.New("'limit' and 'offset' query params must be non-negative integers")

// Params 分页参数
type Params struct {
	Limit  int
	Offset int
}

// Page 分页响应包装
type Page struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

// FromQuery 从查询参数解析 limit/offset
func FromQuery(c *gin.Context) (Params, error) {
	p := Params{Limit: DefaultLimit}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return p, ErrInvalidParams
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		p.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return p, ErrInvalidParams
		}
		p.Offset = offset
	}

	return p, nil
}
