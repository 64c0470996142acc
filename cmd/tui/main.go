package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/ctrevinoi1/agent/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	engineURL := flag.String("url", "ws://localhost:8000/ws", "Engine websocket URL")
	flag.Parse()

	client, err := tui.Connect(*engineURL)
	if err != nil {
		fmt.Printf("Error connecting to engine: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// Create the tea program
	program := tea.NewProgram(tui.NewModel(client))

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
