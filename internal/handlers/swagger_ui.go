package handlers

import (
	"html/template"
	"net/http"
)

const swaggerAssets = "https://unpkg.com/swagger-ui-dist@5.17.14"

var swaggerPage = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.Assets}}/swagger-ui.css">
</head>
<body style="margin:0">
<div id="docs"></div>
<script src="{{.Assets}}/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({url: {{.SpecURL}}, dom_id: "#docs", deepLinking: true});
</script>
</body>
</html>`))

// SwaggerUI serves an interactive page for the OpenAPI document.
func SwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	swaggerPage.Execute(w, struct {
		Title, Assets, SpecURL string
	}{
		Title:   "Weather Narrator API",
		Assets:  swaggerAssets,
		SpecURL: "/api/docs/openapi.json",
	})
}
