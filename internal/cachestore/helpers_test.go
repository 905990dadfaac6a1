package cachestore

import "github.com/guttosm/vitaltrack-proxy/internal/domain/model"

func newResponse(body string) *model.Response {
	return &model.Response{
		URL:    "http://app/",
		Status: 200,
		Body:   []byte(body),
		Type:   model.ResponseTypeBasic,
	}
}
