package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"wikiviews/config"
	"wikiviews/fetcher"
	"wikiviews/models"
	"wikiviews/pipeline"
	"wikiviews/report"
	"wikiviews/scheduler"
	"wikiviews/sheets"
	"wikiviews/web"
	"wikiviews/wikiurl"
)

func main() {
	// Parse command line arguments
	url1 := flag.String("url1", "", "First Wikipedia article URL (CLI mode)")
	url2 := flag.String("url2", "", "Second Wikipedia article URL (CLI mode)")
	start := flag.String("start", "", "Start date, YYYY-MM-DD (CLI mode)")
	end := flag.String("end", "", "End date, YYYY-MM-DD (CLI mode)")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	out := flag.String("out", "", "Chart output HTML path (overrides config)")
	listen := flag.String("listen", "", "Serve the web form on this address, e.g. :8080")
	spreadsheetURL := flag.String("spreadsheet", "", "Google Sheets URL for optional export")
	credentialsPath := flag.String("credentials", "", "Path to Google service account credentials JSON file (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	flag.Parse()

	// .env is optional; secrets can also come from the real environment
	_ = godotenv.Load()

	cfg := loadConfig(*configPath)
	if *out != "" {
		cfg.Chart.OutputPath = *out
	}

	pageviews := fetcher.NewHTTPFetcher(cfg.API)

	switch {
	case *listen != "":
		runWebServer(*listen, cfg, pageviews)
	case *url1 != "" || *url2 != "":
		params := models.Params{URL1: *url1, URL2: *url2, Start: *start, End: *end}
		runCLIMode(cfg, pageviews, params, *spreadsheetURL, *credentialsPath)
	default:
		runTelegramBot(cfg, pageviews, *spreadsheetURL, *credentialsPath)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Could not load config file (%v), using defaults\n", err)
		return config.GetDefaultConfig()
	}
	return cfg
}

// runCLIMode runs one comparison and prints the results to the console
func runCLIMode(cfg *config.Config, pageviews fetcher.Fetcher, params models.Params, spreadsheetURL, credentialsPath string) {
	result, err := pipeline.Run(pageviews, params)
	if err != nil {
		log.Fatalf("Comparison failed: %v\n", err)
	}

	fmt.Printf("Comparing %s and %s, %s to %s\n", result.TitleA, result.TitleB, params.Start, params.End)
	fmt.Printf("Merged series covers %d days across %d quarters\n", len(result.Merged), len(result.Quarterly))
	fmt.Println("---")

	report.WriteTable(os.Stdout, result, cfg.Table.PreviewRows)

	chartFile, err := os.Create(cfg.Chart.OutputPath)
	if err != nil {
		log.Fatalf("Failed to create chart file: %v\n", err)
	}
	defer chartFile.Close()

	line := report.BuildChart(result, cfg.Chart)
	if err := report.WriteChartHTML(chartFile, line); err != nil {
		log.Fatalf("Failed to render chart: %v\n", err)
	}
	fmt.Printf("\nChart written to %s\n", cfg.Chart.OutputPath)

	if spreadsheetURL == "" {
		return
	}

	// Sheets export is best-effort in CLI mode
	spreadsheetID := sheets.ExtractSpreadsheetID(spreadsheetURL)
	if spreadsheetID == "" {
		log.Printf("Warning: Could not extract spreadsheet ID from URL: %s\n", spreadsheetURL)
		return
	}

	writer, err := sheets.NewWriter(spreadsheetID, credentialsPath)
	if err != nil {
		log.Printf("Warning: Failed to initialize Google Sheets writer: %v\n", err)
		return
	}

	sheetName := fmt.Sprintf("CLI_%s", time.Now().Format("20060102_150405"))
	if _, _, err := writer.CreateSheetAndWriteResult(sheetName, result, params); err != nil {
		log.Printf("Warning: Failed to write to Google Sheets: %v\n", err)
	} else {
		fmt.Println("Exported results to Google Sheets")
	}
}

// runWebServer serves the form-based shell
func runWebServer(addr string, cfg *config.Config, pageviews fetcher.Fetcher) {
	server := web.NewServer(cfg, pageviews)
	log.Printf("Web form listening on %s\n", addr)
	if err := server.Listen(addr); err != nil {
		log.Fatalf("Web server failed: %v\n", err)
	}
}

// runTelegramBot runs the bot shell with a background request processor
func runTelegramBot(cfg *config.Config, pageviews fetcher.Fetcher, spreadsheetURL, credentialsPath string) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is not set (use -url1/-url2 for CLI mode or -listen for the web form)")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("Failed to create Telegram bot: %v\n", err)
	}
	log.Printf("Authorized on account %s\n", bot.Self.UserName)

	var writer *sheets.Writer
	if spreadsheetURL != "" {
		spreadsheetID := sheets.ExtractSpreadsheetID(spreadsheetURL)
		if spreadsheetID == "" {
			log.Printf("Warning: Could not extract spreadsheet ID from URL: %s\n", spreadsheetURL)
		} else if w, err := sheets.NewWriter(spreadsheetID, credentialsPath); err != nil {
			log.Printf("Warning: Failed to initialize Google Sheets writer: %v\n", err)
		} else {
			writer = w
		}
	}

	sched := scheduler.NewScheduler(bot, pageviews, cfg, writer, spreadsheetURL)
	sched.Start()
	defer sched.Stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		handleCommand(bot, sched, update.Message)
	}
}

const helpText = `📈 Wikipedia Pageview Comparison

/compare <url1> <url2> <start> <end>
Compares daily pageviews of two Wikipedia articles over the date range and replies with a quarterly summary and a chart.

Example:
/compare https://en.wikipedia.org/wiki/Coffee https://en.wikipedia.org/wiki/Tea 2024-01-01 2024-12-31`

// handleCommand dispatches one bot command
func handleCommand(bot *tgbotapi.BotAPI, sched *scheduler.Scheduler, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		reply(bot, msg, helpText)
	case "compare":
		handleCompare(bot, sched, msg)
	default:
		reply(bot, msg, "Unknown command. Try /help.")
	}
}

// handleCompare validates the arguments and queues the comparison.
// Bad input bounces immediately, before any network call.
func handleCompare(bot *tgbotapi.BotAPI, sched *scheduler.Scheduler, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 4 {
		reply(bot, msg, "Usage: /compare <url1> <url2> <start> <end>")
		return
	}

	params := models.Params{URL1: args[0], URL2: args[1], Start: args[2], End: args[3]}

	if _, err := wikiurl.ExtractTitle(params.URL1); err != nil {
		reply(bot, msg, fmt.Sprintf("First URL: %v", err))
		return
	}
	if _, err := wikiurl.ExtractTitle(params.URL2); err != nil {
		reply(bot, msg, fmt.Sprintf("Second URL: %v", err))
		return
	}
	if _, err := wikiurl.ParseDateRange(params.Start, params.End); err != nil {
		reply(bot, msg, err.Error())
		return
	}

	req := scheduler.Request{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Params:    params,
	}
	if !sched.Enqueue(req) {
		reply(bot, msg, "Too many pending requests, try again in a minute.")
		return
	}

	reply(bot, msg, "Request queued, results coming up.")
}

func reply(bot *tgbotapi.BotAPI, msg *tgbotapi.Message, text string) {
	m := tgbotapi.NewMessage(msg.Chat.ID, text)
	m.ReplyToMessageID = msg.MessageID
	if _, err := bot.Send(m); err != nil {
		log.Printf("Error sending reply: %v\n", err)
	}
}
