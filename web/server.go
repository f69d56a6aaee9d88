package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gofiber/fiber/v2"
	fiberhtml "github.com/gofiber/template/html/v2"

	"wikiviews/analyzer"
	"wikiviews/config"
	"wikiviews/fetcher"
	"wikiviews/models"
	"wikiviews/pipeline"
	"wikiviews/report"
)

//go:embed views/*.html
var viewsFS embed.FS

// Server is the web form shell around the comparison pipeline
type Server struct {
	app     *fiber.App
	cfg     *config.Config
	fetcher fetcher.Fetcher
}

// NewServer creates the web app with its routes registered
func NewServer(cfg *config.Config, f fetcher.Fetcher) *Server {
	engine := fiberhtml.NewFileSystem(http.FS(viewsFS), ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		fetcher: f,
	}

	app.Get("/", s.handleIndex)
	app.Post("/analyze", s.handleAnalyze)

	return s
}

// Listen starts serving on the given address
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// App exposes the underlying fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.Render("views/index", fiber.Map{
		"Error": "",
		"URL1":  "",
		"URL2":  "",
		"Start": "",
		"End":   "",
	})
}

func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	params := models.Params{
		URL1:  c.FormValue("url1"),
		URL2:  c.FormValue("url2"),
		Start: c.FormValue("start"),
		End:   c.FormValue("end"),
	}

	result, err := pipeline.Run(s.fetcher, params)
	if err != nil {
		// The form stays usable for a corrected attempt
		return c.Render("views/index", fiber.Map{
			"Error": userMessage(err),
			"URL1":  params.URL1,
			"URL2":  params.URL2,
			"Start": params.Start,
			"End":   params.End,
		})
	}

	line := report.BuildChart(result, s.cfg.Chart)
	snippet := report.ChartSnippet(line)

	return c.Render("views/result", fiber.Map{
		"TitleA":       result.TitleA,
		"TitleB":       result.TitleB,
		"Start":        params.Start,
		"End":          params.End,
		"Rows":         report.PreviewRows(result, s.cfg.Table.PreviewRows),
		"ChartElement": template.HTML(snippet.Element),
		"ChartScript":  template.HTML(snippet.Script),
	})
}

func userMessage(err error) string {
	if errors.Is(err, analyzer.ErrEmptyResult) {
		return "No data returned from the pageviews API"
	}
	return err.Error()
}
