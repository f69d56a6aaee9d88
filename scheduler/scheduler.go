package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wikiviews/analyzer"
	"wikiviews/config"
	"wikiviews/fetcher"
	"wikiviews/models"
	"wikiviews/pipeline"
	"wikiviews/report"
	"wikiviews/sheets"
	"wikiviews/wikiurl"
)

// Request is one queued comparison from a Telegram chat
type Request struct {
	ChatID    int64
	MessageID int
	Params    models.Params
}

// Scheduler processes comparison requests from an in-memory queue.
// Nothing is persisted between runs; a restart drops pending requests.
type Scheduler struct {
	requests       chan Request
	bot            *tgbotapi.BotAPI
	fetcher        fetcher.Fetcher
	cfg            *config.Config
	writer         *sheets.Writer
	spreadsheetURL string
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewScheduler creates a new scheduler. writer may be nil when Google
// Sheets export is not configured.
func NewScheduler(bot *tgbotapi.BotAPI, f fetcher.Fetcher, cfg *config.Config, writer *sheets.Writer, spreadsheetURL string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		requests:       make(chan Request, 16),
		bot:            bot,
		fetcher:        f,
		cfg:            cfg,
		writer:         writer,
		spreadsheetURL: spreadsheetURL,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start starts the scheduler in a goroutine
func (s *Scheduler) Start() {
	go s.run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cancel()
}

// Enqueue queues a request for processing. Returns false when the
// queue is full.
func (s *Scheduler) Enqueue(req Request) bool {
	select {
	case s.requests <- req:
		return true
	default:
		return false
	}
}

// run is the main scheduler loop
func (s *Scheduler) run() {
	for {
		select {
		case <-s.ctx.Done():
			log.Println("Scheduler stopped")
			return
		case req := <-s.requests:
			s.process(req)
		}
	}
}

// process runs the pipeline for one request and reports back to the chat
func (s *Scheduler) process(req Request) {
	log.Printf("Processing request from chat %d\n", req.ChatID)

	s.sendStatusUpdate(req, "🔄 Fetching pageviews...")

	result, err := pipeline.Run(s.fetcher, req.Params)
	if err != nil {
		s.handleRequestError(req, err)
		return
	}

	// Summary message with the quarterly means
	summary := fmt.Sprintf("📊 %s vs %s (%s to %s)\n\n",
		result.TitleA, result.TitleB, req.Params.Start, req.Params.End)
	for _, quarter := range result.Quarterly {
		summary += fmt.Sprintf("%s: %s | %s\n",
			quarter.Label(), formatMean(quarter.MeanA), formatMean(quarter.MeanB))
	}
	s.sendStatusUpdate(req, summary)

	// Chart as an attached HTML document
	var buf bytes.Buffer
	line := report.BuildChart(result, s.cfg.Chart)
	if err := report.WriteChartHTML(&buf, line); err != nil {
		log.Printf("Error rendering chart: %v\n", err)
	} else {
		doc := tgbotapi.NewDocument(req.ChatID, tgbotapi.FileBytes{
			Name:  "pageviews_chart.html",
			Bytes: buf.Bytes(),
		})
		doc.ReplyToMessageID = req.MessageID
		if _, err := s.bot.Send(doc); err != nil {
			log.Printf("Error sending chart document: %v\n", err)
		}
	}

	if s.writer == nil {
		return
	}

	sheetName := fmt.Sprintf("Compare_%s", time.Now().Format("20060102_150405"))
	_, sheetID, err := s.writer.CreateSheetAndWriteResult(sheetName, result, req.Params)
	if err != nil {
		log.Printf("Error writing to Google Sheets: %v\n", err)
		s.sendStatusUpdate(req, fmt.Sprintf("⚠️ Google Sheets export failed: %v", err))
		return
	}

	s.sendStatusUpdate(req, fmt.Sprintf("✅ Exported to Google Sheets: %s", s.createSheetURL(sheetID)))
}

// handleRequestError reports a failed request back to the chat
func (s *Scheduler) handleRequestError(req Request, err error) {
	var msg string
	switch {
	case errors.Is(err, analyzer.ErrEmptyResult):
		msg = "⚠️ No data returned from the pageviews API for that range."
	case errors.Is(err, wikiurl.ErrInvalidURL), errors.Is(err, wikiurl.ErrDateFormat):
		msg = fmt.Sprintf("❌ %v", err)
	default:
		msg = fmt.Sprintf("❌ Error processing request: %v", err)
	}
	s.sendStatusUpdate(req, msg)
}

// createSheetURL creates a URL that opens a specific sheet in the spreadsheet
func (s *Scheduler) createSheetURL(sheetID int64) string {
	spreadsheetID := sheets.ExtractSpreadsheetID(s.spreadsheetURL)
	if spreadsheetID == "" {
		return s.spreadsheetURL
	}

	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}

// sendStatusUpdate sends a status message to the requesting chat
func (s *Scheduler) sendStatusUpdate(req Request, text string) {
	msg := tgbotapi.NewMessage(req.ChatID, text)
	msg.ReplyToMessageID = req.MessageID
	if _, err := s.bot.Send(msg); err != nil {
		log.Printf("Error sending status update: %v\n", err)
	}
}

func formatMean(mean *float64) string {
	if mean == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *mean)
}
