package common

import "fieldwork.com/console/core"

type SuccessResponse struct {
	Data  interface{} `json:"data"`
	Toast *core.Toast `json:"toast,omitempty"`
}

func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Data: data,
	}
}

func (r *SuccessResponse) WithToast(toast core.Toast) *SuccessResponse {
	r.Toast = &toast
	return r
}
