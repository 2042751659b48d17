package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"squadtop/internal/common"
	"squadtop/internal/config"
	"squadtop/internal/leaderboard"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	token               string
	cache               *leaderboard.Cache
	refresher           *leaderboard.Refresher
	privileged          map[string]struct{}
	maxDataAge          time.Duration
	refreshInterval     time.Duration
	autoUpdateChannelId string
	autoUpdateInterval  time.Duration
	started             atomic.Bool
}

func CreateBot(cfg config.Config, cache *leaderboard.Cache, refresher *leaderboard.Refresher) *Bot {

	var bot Bot

	bot.token = cfg.BotToken
	bot.cache = cache
	bot.refresher = refresher
	// Privileged callers as a set for the permission predicate
	bot.privileged = make(map[string]struct{}, len(cfg.PrivilegedUsers))
	for _, userid := range cfg.PrivilegedUsers {
		bot.privileged[userid] = struct{}{}
	}
	bot.maxDataAge = cfg.MaxDataAge
	bot.refreshInterval = cfg.RefreshInterval
	bot.autoUpdateChannelId = cfg.AutoUpdateChannelId
	bot.autoUpdateInterval = cfg.AutoUpdateInterval

	return &bot
}

func (bot *Bot) Run() error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	// Event handlers
	discord.AddHandler(bot.Ready)
	discord.AddHandler(bot.Receive)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	// Keep the bot running until there is an os interruption (ctrl + C)
	log.Info().Msg("Bot is running")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	return nil
}

// The first refresh happens as soon as the bot is ready, and from then on
// the refresher reruns it on its fixed interval. Ready fires again on
// reconnection, so the background tasks are only started once
func (bot *Bot) Ready(discord *discordgo.Session, ready *discordgo.Ready) {

	log.Info().Msg(fmt.Sprintf("Connected as %s", ready.User.Username))
	if !bot.started.CompareAndSwap(false, true) {
		return
	}

	ctx := context.Background()
	go bot.refresher.Run(ctx, bot.refreshInterval)
	if bot.autoUpdateChannelId != "" {
		go bot.autoUpdate(ctx, discord)
	}
}

// Periodically post the public top list to the configured channel.
// The timed executor keeps the posting cadence independent of how often
// this loop wakes up
func (bot *Bot) autoUpdate(ctx context.Context, discord *discordgo.Session) {

	executor := common.NewTimedExecutor(bot.autoUpdateInterval, func() {
		players := bot.cache.Current(false)
		if len(players) == 0 {
			return
		}
		for _, response := range TopMessage(titleCurrent, players, false) {
			response.Send(bot.autoUpdateChannelId, discord)
		}
	})

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			executor.Execute()
		}
	}
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages
	if message.Author.ID == discord.State.User.ID {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Msg("Ignoring private message")
		return
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(message.Content)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
		log.Debug().Msg(fmt.Sprintf("Command understood: %s", message.Content))
		var responses []Response
		switch parseResult.command {
		case COMMAND_TOP:
			responses = bot.top()
		case COMMAND_TOPAD:
			responses = bot.guarded(discord, message, bot.topad)
		case COMMAND_TOPPR:
			responses = bot.guarded(discord, message, bot.toppr)
		case COMMAND_REFRESH:
			responses = bot.guarded(discord, message, bot.refresh)
		case COMMAND_STATUS:
			responses = bot.status()
		case COMMAND_HELP:
			responses = HelpMessage()
		default:
			panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
		}
		bot.sendResponses(discord, message.ChannelID, responses)
	default:
		log.Debug().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, parseResult.errorMessage))
		bot.sendResponses(discord, message.ChannelID, InputNotValid(parseResult.errorMessage))
	}
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelid string, responses []Response) {
	for _, response := range responses {
		response.Send(channelid, discord)
	}
}

func (bot *Bot) guarded(discord *discordgo.Session, message *discordgo.MessageCreate, handler func() []Response) []Response {
	if !bot.allowed(discord, message) {
		log.Debug().Msg(fmt.Sprintf("User %s is not allowed to run %q", message.Author.ID, message.Content))
		return NotAllowed()
	}
	return handler()
}

// Gather the caller's guild standing and defer to the pure predicate
func (bot *Bot) allowed(discord *discordgo.Session, message *discordgo.MessageCreate) bool {

	var permissions int64
	if perms, err := discord.State.MessagePermissions(message.Message); err == nil {
		permissions = perms
	} else {
		log.Debug().Msg(fmt.Sprintf("Could not resolve permissions for user %s: %v", message.Author.ID, err))
	}

	var isOwner bool
	if guild, err := discord.State.Guild(message.GuildID); err == nil {
		isOwner = guild.OwnerID == message.Author.ID
	}

	return Allowed(message.Author.ID, bot.privileged, permissions, isOwner)
}

func (bot *Bot) top() []Response {
	if !bot.cache.Fresh(bot.maxDataAge) {
		log.Warn().Msg("Serving possibly stale current month data")
	}
	return TopMessage(titleCurrent, bot.cache.Current(false), false)
}

func (bot *Bot) topad() []Response {
	return TopMessage(titleCurrent, bot.cache.Current(true), true)
}

func (bot *Bot) toppr() []Response {
	return TopMessage(titlePrevious, bot.cache.Previous(), true)
}

func (bot *Bot) status() []Response {
	return StatusMessage(bot.cache.Status(bot.maxDataAge))
}

// Kick off a refresh cycle in the background.
// The refresher itself enforces the no overlap guard, this check only
// decides which answer the caller gets right away
func (bot *Bot) refresh() []Response {
	if bot.refresher.Refreshing() {
		return RefreshAlreadyRunning()
	}
	go bot.refresher.Refresh(context.Background())
	return RefreshStarted()
}
