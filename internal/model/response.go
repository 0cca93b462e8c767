package model

type NPagesResponse struct {
	Pages int `json:"pages"`
}
