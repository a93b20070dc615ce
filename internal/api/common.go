package api

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// Pagination metadata.
type Pagination struct {
	Page      int   `json:"Page"`
	PageSize  int   `json:"PageSize"`
	Total     int64 `json:"Total"`
	TotalPage int   `json:"TotalPage"`
}

// ListResponse is the shared paginated payload shape.
type ListResponse struct {
	Data       interface{} `json:"Data"`
	Pagination Pagination  `json:"Pagination"`
}

// SendPaginatedResponse sends the standard paginated response.
func SendPaginatedResponse(c *fiber.Ctx, data interface{}, page, pageSize int, total int64) error {
	totalPage := 0
	if pageSize > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return c.JSON(ListResponse{
		Data: data,
		Pagination: Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: totalPage,
		},
	})
}
