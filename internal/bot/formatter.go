package bot

import (
	"fmt"
	"strings"

	"squadtop/internal/bmapi"
	"squadtop/internal/leaderboard"

	"github.com/bwmarrin/discordgo"
)

// Use "blue" color for the bot
const color int = 0x3498db

// How many leaderboard lines fit comfortably in one embed
const playersPerPage = 50

const titleCurrent = "Top 100 Online — SQUAD UKRAINE"
const titlePrevious = "Top 100 Online — SQUAD UKRAINE (previous month)"

// Render a ranked list as one embed per page of players.
// Privileged callers get the steam id printed in front of every name
func TopMessage(title string, players []bmapi.Player, includeSteamIds bool) []Response {

	if len(players) == 0 {
		return []Response{ResponseString{"Could not get any data. Try again later"}}
	}

	var responses []Response
	totalPages := (len(players) + playersPerPage - 1) / playersPerPage
	for start := 0; start < len(players); start += playersPerPage {

		end := min(start+playersPerPage, len(players))
		var page strings.Builder
		for i, player := range players[start:end] {
			position := start + i + 1
			played := leaderboard.FormatDuration(player.Duration)
			if includeSteamIds {
				page.WriteString(fmt.Sprintf("%d. **%d** **%s**: %s\n", position, player.SteamId, player.Name, played))
			} else {
				page.WriteString(fmt.Sprintf("%d. **%s**: %s\n", position, player.Name, played))
			}
		}

		embed := discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s (page %d/%d)", title, start/playersPerPage+1, totalPages),
			Description: page.String(),
			Color:       color,
		}
		responses = append(responses, ResponseEmbed{embed})
	}
	return responses
}

func InputNotValid(errorMessage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func NotAllowed() []Response {
	return []Response{ResponseString{"This command is only available to server admins"}}
}

func StatusMessage(status string) []Response {
	embed := discordgo.MessageEmbed{Title: "Leaderboard status", Description: status, Color: color}
	return []Response{ResponseEmbed{embed}}
}

func RefreshStarted() []Response {
	return []Response{ResponseString{"Refreshing leaderboard data"}}
}

func RefreshAlreadyRunning() []Response {
	return []Response{ResponseString{"A refresh is already running, try again in a moment"}}
}

func HelpMessage() []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`!top`",
		Value:  "Top 100 online for the current month (name + time played)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`!topad`",
		Value:  "Top 100 online for the current month with steam ids - admins only",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`!toppr`",
		Value:  "Top 100 online for the previous month with steam ids - admins only",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`!status`",
		Value:  "Print how fresh the cached leaderboard data is",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`!refresh`",
		Value:  "Refresh the leaderboard data right now - admins only",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`!help`",
		Value:  "Print the usage of the different commands",
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}
