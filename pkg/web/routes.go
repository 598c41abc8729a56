// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"strconv"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		guilds := api.Group("/guilds/:guildId")
		{
			guilds.GET("/modlogs", guildModLogsHandler)
			guilds.GET("/modlogs/:caseNumber", guildCaseHandler)
			guilds.GET("/users/:userId/modlogs", userModLogsHandler)
			guilds.GET("/users/:userId/warnings", userWarningsHandler)
		}
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "WardenBot Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// guildModLogsHandler returns the most recent moderation cases of a guild
func guildModLogsHandler(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	entries, err := database.GetGuildModLogs(c.Param("guildId"), limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// guildCaseHandler returns a single moderation case by number
func guildCaseHandler(c *gin.Context) {
	caseNumber, err := strconv.ParseInt(c.Param("caseNumber"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "número de caso inválido"})
		return
	}

	entry, err := database.GetCase(c.Param("guildId"), caseNumber)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "caso no encontrado"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// userModLogsHandler returns every case targeting a user in a guild
func userModLogsHandler(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	entries, err := database.GetUserModLogs(c.Param("guildId"), c.Param("userId"), limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// userWarningsHandler returns a user's warnings in a guild
func userWarningsHandler(c *gin.Context) {
	warnings, err := database.GetUserWarnings(c.Param("guildId"), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"warnings": warnings, "count": len(warnings)})
}
