package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/hotel-assistant/agent/agents"
	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	conversationx "github.com/tanpawarit/hotel-assistant/agent/conversation"
	coordinatorx "github.com/tanpawarit/hotel-assistant/agent/coordinator"
	llmx "github.com/tanpawarit/hotel-assistant/agent/llm"
	toolx "github.com/tanpawarit/hotel-assistant/agent/tool"
	configx "github.com/tanpawarit/hotel-assistant/pkg/config"
	_ "github.com/tanpawarit/hotel-assistant/pkg/logger/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmx.Config]("")
	llmClient, err := llmx.NewClient(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize llm client")
	}

	toolCfg := configx.MustNew[toolx.Config]("")
	providers, err := toolx.NewProviders(*toolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tool providers")
	}

	registry, err := agents.NewRegistry(llmClient, providers, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize agents")
	}

	storeCfg := configx.MustNew[conversationx.Config]("")
	var store contractx.ConversationStore
	if dbStore, err := conversationx.New(ctx, *storeCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize conversation store")
	} else if dbStore != nil {
		defer dbStore.Close()
		store = dbStore
	}

	coord, err := coordinatorx.New(llmClient, registry, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize coordinator")
	}

	runChatLoop(ctx, coord)
}

func runChatLoop(ctx context.Context, coord *coordinatorx.Coordinator) {
	conversationID := uuid.NewString()
	fmt.Println("Hotel assistant ready. Type a message, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		result, err := coord.HandleMessage(ctx, line, conversationID)
		if err != nil {
			log.Error().Err(err).Msg("message handling failed")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Printf("[%s] %s\n", result.Agent, result.Response)
	}
}
