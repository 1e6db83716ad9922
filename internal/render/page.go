package render

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/models"
)

//go:embed assets/tree.css
var stylesheet string

// Stylesheet returns the CSS used by rendered markup
func Stylesheet() string {
	return stylesheet
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body>
<ol class="jl-tree">{{.Tree}}</ol>
</body>
</html>
`))

// Page renders n as a standalone HTML document
func Page(n *models.Node, title string) (string, error) {
	var b strings.Builder
	err := pageTemplate.Execute(&b, struct {
		Title string
		Style template.CSS
		Tree  template.HTML
	}{
		Title: title,
		Style: template.CSS(stylesheet),
		Tree:  template.HTML(Markup(n)),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
