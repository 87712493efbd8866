package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/gofood/internal/models"
)

// withRequestContext attaches auth payload and chi url params to request
func withRequestContext(req *http.Request, token *models.TokenPayload, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if token != nil {
		ctx = context.WithValue(ctx, authPayloadKey, token)
	}

	return req.WithContext(ctx)
}
