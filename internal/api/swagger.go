package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"rateconverter/internal/api/docs"
)

const swaggerDocPath = "/swagger/doc.json"

// SwaggerUIHandler returns a handler for Swagger UI backed by the registered docs.
func SwaggerUIHandler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(swaggerDocPath),
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	)
}

// OpenAPISpecHandler returns a handler that redirects to the swagger spec JSON
func OpenAPISpecHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, swaggerDocPath, http.StatusTemporaryRedirect)
	}
}
