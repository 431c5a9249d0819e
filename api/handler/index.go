package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexTemplate is the name of the form page template.
const IndexTemplate = "index"

// IndexPage is a minimal form for trying the data endpoint from a browser.
var IndexPage = template.Must(template.New(IndexTemplate).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>pagefields</title>
</head>
<body>
<h1>pagefields</h1>
<form method="get" action="{{.Action}}">
<p><label>URL<br><input type="url" name="url" size="80" required></label></p>
<p><label>Fields (JSON)<br><textarea name="fields" rows="6" cols="80" required>{{.Example}}</textarea></label></p>
<p><button type="submit">Extract</button></p>
</form>
</body>
</html>
`))

// Index returns a handler for GET / that renders IndexPage.
func Index(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, IndexTemplate, gin.H{
			"Action":  action,
			"Example": `{"title":"h1","meta":["description","og:image"]}`,
		})
	}
}
