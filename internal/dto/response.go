package dto

type BasicResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBasicResponse(success bool, message string) BasicResponse {
	return BasicResponse{
		Success: success,
		Message: message,
	}
}

func NewDataResponse(data interface{}) BasicResponse {
	return BasicResponse{
		Success: true,
		Data:    data,
	}
}
