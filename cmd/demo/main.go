// cmd/demo/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DulceVida/MagoChat/internal/app"
	"github.com/DulceVida/MagoChat/internal/catalog"
	"github.com/DulceVida/MagoChat/internal/config"
	"github.com/DulceVida/MagoChat/internal/di"
	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/services"
	"github.com/DulceVida/MagoChat/internal/utils"
)

func main() {
	fmt.Println("MagoChat Console")
	fmt.Println("=================================")

	baseConfig, err := config.Load()
	if err != nil {
		log.Printf("failed to load configuration: %v", err)
		return
	}

	logFile := fmt.Sprintf("logs/console_%s.log", time.Now().Format("2006-01-02"))
	if err := utils.InitLogger(logFile); err != nil {
		log.Printf("could not initialize structured logging: %v", err)
	}

	if !initializeEnvironment(baseConfig) {
		return
	}

	for {
		showMenu()
		choice := getUserInput("> ")

		switch choice {
		case "1", "chat":
			runConversation()
		case "2", "scripts":
			listScripts()
		case "3", "import":
			importScript()
		case "4", "export":
			exportScript()
		case "5", "stats":
			showStats()
		case "6", "catalog":
			listProducts()
		case "0", "quit", "exit":
			fmt.Println("Hasta pronto!")
			return
		default:
			fmt.Println("unknown option")
		}
		fmt.Println()
	}
}

func showMenu() {
	fmt.Println("Menu:")
	fmt.Println("  1) chat    - start a conversation")
	fmt.Println("  2) scripts - list available scripts")
	fmt.Println("  3) import  - import a script from a file")
	fmt.Println("  4) export  - export a script to a file")
	fmt.Println("  5) stats   - show usage counters")
	fmt.Println("  6) catalog - list the product catalog")
	fmt.Println("  0) exit")
}

func getUserInput(prompt string) string {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func initializeEnvironment(cfg *config.Config) bool {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "scripts"),
		filepath.Join(cfg.DataDir, "sessions"),
		cfg.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("failed to create directory %s: %v\n", dir, err)
			return false
		}
	}

	if err := config.InitConfig(cfg.DataDir); err != nil {
		fmt.Printf("failed to initialize configuration system: %v\n", err)
		return false
	}

	if err := app.InitServices(); err != nil {
		fmt.Printf("failed to initialize services: %v\n", err)
		return false
	}

	return true
}

// runConversation drives one interactive session: optional script selection,
// then a turn loop with the reply printed word by word at the configured
// streaming pace.
func runConversation() {
	container := di.GetContainer()
	chatService, ok := container.Get("chat").(*services.ChatService)
	if !ok {
		fmt.Println("chat service is not initialized")
		return
	}
	scriptService, _ := container.Get("script").(*services.ScriptService)

	session := chatService.CreateSession()
	fmt.Printf("session started: %s\n", session.ID)

	if scriptService != nil {
		scriptID := getUserInput("script id to activate (empty for free chat): ")
		if scriptID != "" {
			if err := chatService.ActivateScript(session.ID, scriptID); err != nil {
				fmt.Printf("could not activate script: %v\n", err)
			} else {
				fmt.Printf("script %q active\n", scriptID)
			}
		}
	}

	fmt.Println(`type your message ("/salir" ends the conversation)`)

	for {
		text := getUserInput("tu: ")
		if text == "" {
			continue
		}
		if text == "/salir" {
			if err := chatService.EndSession(session.ID); err != nil {
				fmt.Printf("could not end session: %v\n", err)
			}
			fmt.Println("conversation ended")
			return
		}

		chunks, _, err := chatService.StreamTurn(context.Background(), session.ID, text)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Print("mago: ")
		for chunk := range chunks {
			fmt.Print(chunk.Text)
			if chunk.Final {
				if chunk.Trigger != nil {
					fmt.Printf("\n  [trigger: %s]", chunk.Trigger.Type)
				}
				if chunk.ShouldRequestLocation {
					fmt.Print("\n  [location requested]")
				}
				for _, action := range chunk.Actions {
					fmt.Printf("\n  [action: %s]", action.Type)
				}
			}
		}
		fmt.Println()
	}
}

func listScripts() {
	container := di.GetContainer()
	scriptService, ok := container.Get("script").(*services.ScriptService)
	if !ok {
		fmt.Println("script service is not initialized")
		return
	}

	scripts := scriptService.List()
	fmt.Printf("%d scripts:\n", len(scripts))
	for i, script := range scripts {
		fmt.Printf("  %d) %s - %s (%d steps)\n", i+1, script.ID, script.Name, len(script.Steps))
	}
}

func listProducts() {
	container := di.GetContainer()
	cat, ok := container.Get("catalog").(*catalog.Catalog)
	if !ok {
		fmt.Println("catalog is not initialized")
		return
	}

	products := cat.Products()
	fmt.Printf("%d productos:\n", len(products))
	for _, p := range products {
		fmt.Printf("  - %s ($%.0f) [%s] - %s\n", p.Name, p.Price, p.Category, p.Description)
	}
}

func importScript() {
	container := di.GetContainer()
	scriptService, ok := container.Get("script").(*services.ScriptService)
	if !ok {
		fmt.Println("script service is not initialized")
		return
	}

	path := getUserInput("path to script JSON: ")
	if path == "" {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("could not read file: %v\n", err)
		return
	}

	script, err := scriptService.Import(raw)
	if err != nil {
		fmt.Printf("import failed: %v\n", err)
		return
	}

	fmt.Printf("imported %q (%d steps)\n", script.ID, len(script.Steps))
}

func exportScript() {
	container := di.GetContainer()
	scriptService, ok := container.Get("script").(*services.ScriptService)
	if !ok {
		fmt.Println("script service is not initialized")
		return
	}

	id := getUserInput("script id (empty for the blank template): ")

	var result *models.ExportResult
	var err error
	if id == "" {
		result, err = scriptService.TemplateExport()
	} else {
		result, err = scriptService.Export(id)
	}
	if err != nil {
		fmt.Printf("export failed: %v\n", err)
		return
	}

	if err := os.WriteFile(result.FileName, []byte(result.Content), 0644); err != nil {
		fmt.Printf("could not write file: %v\n", err)
		return
	}

	fmt.Printf("written to %s\n", result.FileName)
}

func showStats() {
	container := di.GetContainer()
	statsService, ok := container.Get("stats").(*services.StatsService)
	if !ok {
		fmt.Println("stats service is not initialized")
		return
	}

	stats := statsService.GetStats()
	fmt.Printf("sessions created:  %d\n", stats.SessionsCreated)
	fmt.Printf("total turns:       %d\n", stats.TotalTurns)
	fmt.Printf("scripted replies:  %d (matched: %d)\n", stats.ScriptedReplies, stats.ScriptedMatches)
	fmt.Printf("fallback replies:  %d\n", stats.FallbackReplies)
	fmt.Printf("scripts imported:  %d\n", stats.ScriptsImported)
	if len(stats.RuleHits) > 0 {
		fmt.Println("rule hits:")
		for rule, hits := range stats.RuleHits {
			fmt.Printf("  %-22s %d\n", rule, hits)
		}
	}
}
