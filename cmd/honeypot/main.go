package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/agent"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/archive"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/config"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/detect"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/honeypot"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/notify"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/patterns"
	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/session"
)

const Version = "0.1.0"

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "scan":
			runScan(strings.Join(args[1:], " "))
			return
		case "version":
			fmt.Println("agentic-honey-pot", Version)
			return
		case "help", "-h", "--help":
			printUsage()
			return
		}
	}

	runServer()
}

func printUsage() {
	fmt.Println("Agentic Honey-Pot - scam-baiting responder")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  honeypot            Start the HTTP server")
	fmt.Println("  honeypot scan TEXT  Score and mine a single message, print JSON")
	fmt.Println("  honeypot version    Print version")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  API_KEY                   Shared secret for the x-api-key header (required to serve)")
	fmt.Println("  OPENAI_API_KEY            Enables LLM-generated replies")
	fmt.Println("  HONEYPOT_CALLBACK_URL     Report endpoint override")
	fmt.Println("  HONEYPOT_PATTERNS_FILE    YAML keyword table overrides")
	fmt.Println("  HONEYPOT_ARCHIVE_DSN      Postgres DSN for the report archive")
}

// runScan is the one-off CLI mode: detect + extract, no session, no callback.
func runScan(text string) {
	if text == "" {
		fmt.Fprintln(os.Stderr, "scan: no text given")
		os.Exit(2)
	}

	out := struct {
		Score        int                `json:"score"`
		ScamDetected bool               `json:"scam_detected"`
		Intelligence intel.Intelligence `json:"intelligence"`
	}{
		Score:        detect.Score(text),
		ScamDetected: detect.Detect(text, nil),
		Intelligence: intel.FromText(text),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func runServer() {
	cfg := config.NewDefaultConfig()
	cfg.MustValidate()

	if cfg.PatternsFile != "" {
		if err := patterns.Get().LoadOverrides(cfg.PatternsFile); err != nil {
			log.Printf("[STARTUP] pattern overrides not loaded: %v", err)
		} else {
			log.Printf("[STARTUP] pattern overrides loaded from %s", cfg.PatternsFile)
		}
	}

	engine := buildEngine(cfg)

	app := fiber.New(fiber.Config{
		AppName: "Agentic Honey-Pot",
	})

	// Permissive CORS for the endpoint tester.
	app.Use(cors.New())

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agentic-honey-pot",
			"version": Version,
			"stats":   engine.Stats(),
		})
	})

	app.Post("/api/honeypot", func(c fiber.Ctx) error {
		if c.Get("x-api-key") != cfg.APIKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or missing API key",
			})
		}

		var req honeypot.Request
		if err := c.Bind().Body(&req); err != nil || req.SessionID == "" {
			// Unparseable or incomplete bodies still get a usable reply:
			// the tester treats any non-200 as a dead honeypot.
			log.Printf("[API] request validation error: %v", err)
			return c.JSON(honeypot.Response{
				Status: "success",
				Reply:  config.FallbackReplyAgentError,
			})
		}

		return c.JSON(engine.Process(c.Context(), req))
	})

	log.Printf("[STARTUP] honeypot listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// buildEngine assembles the pipeline from config. Optional layers degrade to
// disabled with a log line, never a startup failure.
func buildEngine(cfg *config.Config) *honeypot.Engine {
	store := session.NewStore()
	dispatcher := notify.NewDispatcher(cfg.CallbackURL, notify.WithRetryPolicy(notify.RetryPolicy{
		MaxAttempts: cfg.CallbackRetries,
		Delay:       cfg.CallbackRetryDelay,
	}))

	var replier agent.ReplyGenerator = agent.StaticReplier{}
	if llm := agent.NewLLMReplier(agent.ReplierConfig{
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
	}); llm != nil {
		replier = llm
		log.Printf("[STARTUP] LLM replies enabled (model: %s)", cfg.LLMModel)
	} else {
		log.Println("[STARTUP] LLM replies disabled (no API key), using canned replies")
	}

	var opts []honeypot.EngineOption

	if cfg.EnableSemantics {
		advisor, err := detect.NewSemanticAdvisor(cfg.EmbedBaseURL, cfg.EmbedModel)
		if err != nil {
			log.Printf("[STARTUP] semantic advisor disabled (init failed: %v)", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			if err := advisor.LoadScripts(ctx); err != nil {
				log.Printf("[STARTUP] semantic advisor disabled (script load failed: %v)", err)
			} else {
				opts = append(opts, honeypot.WithAdvisor(advisor))
				log.Println("[STARTUP] semantic advisor enabled")
			}
			cancel()
		}
	}

	if cfg.ArchiveDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		reports, err := archive.New(ctx, cfg.ArchiveDSN)
		cancel()
		if err != nil {
			log.Printf("[STARTUP] report archive disabled (%v)", err)
		} else {
			opts = append(opts, honeypot.WithArchive(reports))
			log.Println("[STARTUP] report archive enabled")
		}
	}

	return honeypot.NewEngine(store, dispatcher, replier, cfg.MinTurns, opts...)
}
