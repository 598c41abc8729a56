// Package main is the entry point for the WardenBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WardenStudios/WardenBotGo/internal/commands"
	"github.com/WardenStudios/WardenBotGo/internal/events"
	"github.com/WardenStudios/WardenBotGo/pkg/config"
	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/errors"
	"github.com/WardenStudios/WardenBotGo/pkg/lavalink"
	"github.com/WardenStudios/WardenBotGo/pkg/logger"
	"github.com/WardenStudios/WardenBotGo/pkg/mqtt"
	"github.com/WardenStudios/WardenBotGo/pkg/music"
	"github.com/WardenStudios/WardenBotGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando WardenBot Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	var lavalinkClient *lavalink.Client
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			err := discordClient.Stop()
			if err != nil {
				return
			}
		}
		if lavalinkClient != nil {
			lavalinkClient.Disconnect()
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database, commands that need it reject until it is back
	}
	defer func() {
		if db != nil {
			err := db.Disconnect()
			if err != nil {
				return
			}
		}
	}()

	// Initialize global DataManagers and collection indexes
	if db != nil {
		database.InitGlobalDataManagers(db)

		if err := database.EnsureModLogIndexes(); err != nil {
			logger.Warn(fmt.Sprintf("Error creando índices de mod_logs: %v", err), "Main")
		}
		if err := database.EnsureWarningIndexes(); err != nil {
			logger.Warn(fmt.Sprintf("Error creando índices de warnings: %v", err), "Main")
		}
		if err := database.EnsureGuildConfigIndexes(); err != nil {
			logger.Warn(fmt.Sprintf("Error creando índices de guild_configs: %v", err), "Main")
		}
	}

	// Initialize MQTT
	mqttClientID := "wardenbot"
	if !cfg.IsProd() {
		mqttClientID = "wardenbot_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize web server
	webServer := web.Init(cfg.LogsWebServerHook)
	web.SetupAPIRoutes(webServer)
	webServer.StartAsync(cfg.Port)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Register commands using the commands package
	commands.RegisterAll(discordClient)

	// Register events using the events package
	events.RegisterAll(discordClient)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		err := discordClient.Stop()
		if err != nil {

		}
	}(discordClient)

	// Initialize Lavalink after Discord is connected
	lavalinkClient = lavalink.Init(discordClient.Session, []lavalink.NodeConfig{
		{
			Name:     "WardenMain",
			Host:     cfg.LinkServer,
			Port:     2333,
			Password: cfg.LinkPassword,
			Secure:   false,
		},
	})

	err = lavalinkClient.Connect()
	if err != nil {
		return
	}
	defer lavalinkClient.Disconnect()

	// Initialize the music queue manager on top of the Lavalink transport
	manager := music.Init(lavalinkClient)
	lavalinkClient.OnTrackEnd(manager.OnTrackEnd)
	manager.OnStateChange = func(event string, snapshot music.Snapshot) {
		if mc := mqtt.Get(); mc != nil && mc.IsConnected() {
			topic := fmt.Sprintf("warden/music/%s/%s", snapshot.GuildID, event)
			if err := mc.Publish(topic, snapshot); err != nil {
				logger.Debug(fmt.Sprintf("Error publicando estado de música: %v", err), "Main")
			}
		}
	}

	logger.Success("WardenBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando WardenBot Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
