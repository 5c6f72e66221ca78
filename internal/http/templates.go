package http

import (
	"embed"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/biblioteka/internal/entities"
	"github.com/mrlokans/biblioteka/internal/readonly"
	"github.com/mrlokans/biblioteka/internal/web"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

var templateFuncs = template.FuncMap{
	"genreNames": func(genres []entities.Genre) string {
		names := make([]string, 0, len(genres))
		for _, g := range genres {
			names = append(names, g.Name)
		}
		return strings.Join(names, ", ")
	},
}

// loadTemplates parses the page templates from dir, or the embedded set
// when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs)
	if dir == "" {
		return tmpl.ParseFS(embeddedTemplates, "templates/*.html")
	}
	return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
}

// pageRenderer adds the values every page template expects: CSRF field,
// pending flash message and read-only flag.
type pageRenderer struct {
	sessions *web.SessionManager
	version  string
}

func (p *pageRenderer) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFField"] = web.CSRFTokenField(c)
	data["ReadOnly"] = readonly.IsReadOnly(c)
	data["Version"] = p.version
	if p.sessions != nil {
		if flash := p.sessions.PopFlash(c.Request); flash != nil {
			data["Flash"] = flash
		}
	}
	c.HTML(status, name, data)
}

func (p *pageRenderer) flash(c *gin.Context, kind, message string) {
	if p.sessions != nil {
		p.sessions.PutFlash(c.Request, kind, message)
	}
}

// renderError shows the generic error page.
func (p *pageRenderer) renderError(c *gin.Context, status int, message string) {
	p.render(c, status, "error", gin.H{"Status": status, "Error": message})
}
