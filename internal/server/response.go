package server

import (
	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every JSON reply.
type APIResponse struct {
	Message         string      `json:"message"`
	Data            any         `json:"data,omitempty"`
	Error           bool        `json:"error,omitempty"`
	Meta            *Pagination `json:"meta,omitempty"`
	RequestedEntity string      `json:"requested_entity,omitempty"`
}

// Pagination describes the page returned in a list reply.
type Pagination struct {
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	Total       int    `json:"total"`
	TotalPages  int    `json:"total_pages"`
	PageNumbers []int  `json:"page_numbers"`
	Query       string `json:"query"`
}

func success(c *gin.Context, message string, data any) APIResponse {
	return APIResponse{
		Message:         message,
		Data:            data,
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

func paginated(c *gin.Context, message string, data any, meta *Pagination) APIResponse {
	resp := success(c, message, data)
	resp.Meta = meta
	return resp
}

func failure(c *gin.Context, message string) APIResponse {
	return APIResponse{
		Message:         message,
		Error:           true,
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}
